package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

func TestApprovedQueryDefaults(t *testing.T) {
	query := approvedQuery(ListingFilter{})
	assert.Equal(t, bson.M{"approvalStatus": models.ApprovalApproved}, query)
}

func TestApprovedQueryAppliesPriceRange(t *testing.T) {
	query := approvedQuery(ListingFilter{MinPrice: 2000000, MaxPrice: 9500000})
	price, ok := query["priceValue"].(bson.M)
	require.True(t, ok, "price bounds must land on the numeric column")
	assert.Equal(t, float64(2000000), price["$gte"])
	assert.Equal(t, float64(9500000), price["$lte"])
}

func TestApprovedQueryOpenEndedPriceBounds(t *testing.T) {
	query := approvedQuery(ListingFilter{MinPrice: 2000000})
	price := query["priceValue"].(bson.M)
	assert.Equal(t, float64(2000000), price["$gte"])
	assert.NotContains(t, price, "$lte")

	query = approvedQuery(ListingFilter{MaxPrice: 40000})
	price = query["priceValue"].(bson.M)
	assert.Equal(t, float64(40000), price["$lte"])
	assert.NotContains(t, price, "$gte")
}

func TestApprovedQueryCombinesFilters(t *testing.T) {
	query := approvedQuery(ListingFilter{Category: "rental_residential", City: "Kadri", MaxPrice: 30000})
	assert.Equal(t, "rental_residential", query["category"])
	assert.Equal(t, bson.M{"$regex": "Kadri", "$options": "i"}, query["location"])
	assert.Contains(t, query, "priceValue")
}
