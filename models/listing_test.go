package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingFromRecordPromotesCommonColumns(t *testing.T) {
	listing := ListingFromRecord(map[string]interface{}{
		"category":        "rental_residential",
		"title":           "2 BHK near Kadri park",
		"price":           "25000",
		"location":        "Kadri, Mangalore",
		"description":     "Airy flat with covered parking",
		"amenities":       []interface{}{"gym", "lift"},
		"images":          []interface{}{"a.jpg", "b.jpg"},
		"approval_status": "pending",
		"submitted_at":    "2026-08-30T09:00:00Z",
		"monthlyRent":     "25000",
		"bhk":             "2 BHK",
	})

	assert.Equal(t, "rental_residential", listing.Category)
	assert.Equal(t, "2 BHK near Kadri park", listing.Title)
	assert.Equal(t, "Kadri, Mangalore", listing.Location)
	assert.Equal(t, []string{"gym", "lift"}, listing.Amenities)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, listing.Images)
	assert.Equal(t, ApprovalPending, listing.ApprovalStatus)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), listing.SubmittedAt)

	// Category-specific fields land in Details, not at the top level
	assert.Equal(t, "25000", listing.Details["monthlyRent"])
	assert.Equal(t, "2 BHK", listing.Details["bhk"])
	assert.NotContains(t, listing.Details, "title")
}

func TestListingFromRecordCoercesLooseTypes(t *testing.T) {
	listing := ListingFromRecord(map[string]interface{}{
		"category":  "commercial_sale",
		"title":     "Office floor",
		"price":     9500000,
		"amenities": "lift, parking",
	})

	assert.Equal(t, "9500000", listing.Price)
	assert.Equal(t, []string{"lift", "parking"}, listing.Amenities)
}

func TestListingFromRecordDerivesNumericPrice(t *testing.T) {
	cases := []struct {
		price interface{}
		want  float64
	}{
		{"9500000", 9500000},
		{"95,00,000", 9500000},
		{"₹25000 per month", 25000},
		{9500000, 9500000},
		{"price on request", 0},
		{"", 0},
	}
	for _, tc := range cases {
		listing := ListingFromRecord(map[string]interface{}{
			"category": "resale_residential",
			"price":    tc.price,
		})
		assert.Equal(t, tc.want, listing.PriceValue, "price %v", tc.price)
	}
}

func TestFlattenRoundTripsRecord(t *testing.T) {
	original := ListingFromRecord(map[string]interface{}{
		"category":        "resale_residential",
		"title":           "Nice flat",
		"price":           "85 Lakhs",
		"location":        "Bejai",
		"approval_status": "approved",
		"submitted_at":    "2026-08-30T09:00:00Z",
		"bhk":             "2 BHK",
	})
	original.TrackingID = "MP-2026-4F9A21C3"

	flat := original.Flatten()
	require.Equal(t, "MP-2026-4F9A21C3", flat["trackingId"])
	assert.Equal(t, "Nice flat", flat["title"])
	assert.Equal(t, "2 BHK", flat["bhk"])
	assert.Equal(t, "approved", flat["approval_status"])
	assert.Equal(t, "2026-08-30T09:00:00Z", flat["submitted_at"])
}
