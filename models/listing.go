package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval lifecycle of a listing.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// GeoPoint is a best-effort geocoding result attached to a listing location.
type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Submitter is the contact identity attached to public submissions.
type Submitter struct {
	Name     string `json:"name" bson:"name" validate:"required,min=2"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Phone    string `json:"phone" bson:"phone" validate:"required,min=10"`
	FCMToken string `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
}

// Listing is a property record in any lifecycle stage. Common fields are
// promoted to their own columns; the category-specific remainder stays in
// Details, flattened back onto one record when serialized for the review
// pipeline.
type Listing struct {
	ID              primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	TrackingID      string                 `json:"trackingId" bson:"trackingId"`
	Flow            string                 `json:"flow" bson:"flow"`
	Category        string                 `json:"category" bson:"category"`
	Title           string                 `json:"title" bson:"title"`
	Price           string                 `json:"price" bson:"price"`
	PriceValue      float64                `json:"priceValue,omitempty" bson:"priceValue,omitempty"`
	Location        string                 `json:"location" bson:"location"`
	Coordinates     *GeoPoint              `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Description     string                 `json:"description" bson:"description"`
	Amenities       []string               `json:"amenities" bson:"amenities"`
	Images          []string               `json:"images" bson:"images"`
	VideoTour       string                 `json:"videoTour,omitempty" bson:"videoTour,omitempty"`
	Details         map[string]interface{} `json:"details" bson:"details"`
	Submitter       *Submitter             `json:"submitter,omitempty" bson:"submitter,omitempty"`
	ApprovalStatus  string                 `json:"approval_status" bson:"approvalStatus"`
	RejectionReason string                 `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ProcessedBy     primitive.ObjectID     `json:"processedBy,omitempty" bson:"processedBy,omitempty"`
	ProcessedAt     time.Time              `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	SubmittedAt     time.Time              `json:"submitted_at" bson:"submittedAt"`
	CreatedAt       time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// Flatten merges the common columns and category details back into the single
// record shape the review pipeline consumes.
func (l Listing) Flatten() map[string]interface{} {
	rec := make(map[string]interface{}, len(l.Details)+10)
	for k, v := range l.Details {
		rec[k] = v
	}
	rec["trackingId"] = l.TrackingID
	rec["category"] = l.Category
	rec["title"] = l.Title
	rec["price"] = l.Price
	rec["location"] = l.Location
	rec["description"] = l.Description
	rec["amenities"] = l.Amenities
	rec["images"] = l.Images
	rec["approval_status"] = l.ApprovalStatus
	rec["submitted_at"] = l.SubmittedAt.Format(time.RFC3339)
	return rec
}

// ListingFromRecord rebuilds a Listing from the flat record shape submitted
// at the persistence boundary. Known keys are promoted to columns; anything
// else lands in Details.
func ListingFromRecord(rec map[string]interface{}) Listing {
	listing := Listing{Details: make(map[string]interface{})}

	for k, v := range rec {
		switch k {
		case "trackingId":
			listing.TrackingID = asString(v)
		case "category":
			listing.Category = asString(v)
		case "title":
			listing.Title = asString(v)
		case "price":
			listing.Price = asString(v)
		case "location":
			listing.Location = asString(v)
		case "description":
			listing.Description = asString(v)
		case "amenities":
			listing.Amenities = asStringSlice(v)
		case "images":
			listing.Images = asStringSlice(v)
		case "videoTour":
			listing.VideoTour = asString(v)
		case "approval_status":
			listing.ApprovalStatus = asString(v)
		case "submitted_at":
			if t, err := time.Parse(time.RFC3339, asString(v)); err == nil {
				listing.SubmittedAt = t
			}
		default:
			listing.Details[k] = v
		}
	}

	listing.PriceValue = parsePrice(listing.Price)
	return listing
}

// parsePrice extracts the numeric value from a display price. Currency
// symbols, digit grouping and surrounding text are dropped; an unparsable
// price yields 0 and the listing simply falls outside price-range filters.
func parsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return n
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, asString(item))
		}
		return out
	case string:
		if s == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}

// Draft is a partially completed, unvalidated snapshot of wizard state saved
// from the admin flow for later resumption. A draft without a category is
// resumable; the wizard re-enters at step 1.
type Draft struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Flow      string                 `json:"flow" bson:"flow"`
	Step      int                    `json:"step" bson:"step"`
	Category  string                 `json:"category,omitempty" bson:"category,omitempty"`
	Fields    map[string]interface{} `json:"fields" bson:"fields"`
	SavedBy   primitive.ObjectID     `json:"savedBy,omitempty" bson:"savedBy,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// Inquiry is a visitor question about an approved listing.
type Inquiry struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ListingID primitive.ObjectID `json:"listingId" bson:"listingId"`
	Name      string             `json:"name" bson:"name" validate:"required,min=2"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Phone     string             `json:"phone" bson:"phone" validate:"required,min=10"`
	Message   string             `json:"message" bson:"message" validate:"required"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// SubmitListingRequest is the public persistence-boundary payload.
type SubmitListingRequest struct {
	Listing   map[string]interface{} `json:"listing" validate:"required"`
	Submitter Submitter              `json:"submitter" validate:"required"`
}

// ApproveRequest and RejectRequest drive the review pipeline.
type ApproveRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
}

type RejectRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// CompareRequest asks for a side-by-side view of up to four listings.
type CompareRequest struct {
	IDs []string `json:"ids" validate:"required,min=2,max=4"`
}
