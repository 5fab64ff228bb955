package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// rentalDetails is a fully populated details-step field set for a rental
// residential listing.
func rentalDetails() map[string]interface{} {
	return map[string]interface{}{
		"title":            "Flat",
		"price":            "25000",
		"monthlyRent":      "25000",
		"securityDeposit":  "50000",
		"availableFrom":    "2024-01-01",
		"tenantPreference": "Family",
		"furnishing":       "Semi Furnished",
		"bhk":              "2 BHK",
		"bathrooms":        2,
		"carpetArea":       "1000 sqft",
	}
}

func TestValidateRentalDetailsStep(t *testing.T) {
	plan := PublicPlan()
	res := ValidateStep(plan, 3, CategoryRentalResidential, rentalDetails(), Contact{})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateRentalDetailsMissingTenantPreference(t *testing.T) {
	plan := PublicPlan()
	fields := rentalDetails()
	delete(fields, "tenantPreference")

	res := ValidateStep(plan, 3, CategoryRentalResidential, fields, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "tenantPreference")
}

func TestValidateCategoryStepWithoutSelection(t *testing.T) {
	plan := PublicPlan()
	res := ValidateStep(plan, 1, "", map[string]interface{}{}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "category")
}

func TestValidateCategoryStepRequiresIntentAndType(t *testing.T) {
	plan := PublicPlan()

	res := ValidateStep(plan, 1, CategoryResaleResidential, map[string]interface{}{"listingIntent": "sell"}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "propertyType")

	res = ValidateStep(plan, 1, CategoryResaleResidential, map[string]interface{}{
		"listingIntent": "sell",
		"propertyType":  "apartment",
	}, Contact{})
	assert.True(t, res.Valid)
}

func TestValidateLocationStep(t *testing.T) {
	plan := PublicPlan()

	res := ValidateStep(plan, 2, CategoryResaleResidential, map[string]interface{}{}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "location")

	// A free-text location passes without any geocoding.
	res = ValidateStep(plan, 2, CategoryResaleResidential, map[string]interface{}{
		"location": "Kadri, Mangalore",
	}, Contact{})
	assert.True(t, res.Valid)
}

func TestValidateFeaturesStep(t *testing.T) {
	plan := PublicPlan()

	res := ValidateStep(plan, 4, CategoryRentalResidential, map[string]interface{}{
		"furnishing": "Semi Furnished",
		"amenities":  []string{"gym"},
	}, Contact{})
	assert.True(t, res.Valid)

	res = ValidateStep(plan, 4, CategoryRentalResidential, map[string]interface{}{
		"furnishing": "Semi Furnished",
		"amenities":  "   ",
	}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "amenities")
}

func TestValidateFeaturesAcceptsCommaSeparatedAmenities(t *testing.T) {
	plan := PublicPlan()
	res := ValidateStep(plan, 4, CategoryCommercialSale, map[string]interface{}{
		"amenities": "parking, lift, power backup",
	}, Contact{})
	assert.True(t, res.Valid, "furnishing is not in the commercial schema and is skipped")
}

func TestValidatePhotosStep(t *testing.T) {
	plan := PublicPlan()

	res := ValidateStep(plan, 5, CategoryResaleResidential, map[string]interface{}{}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "images")

	res = ValidateStep(plan, 5, CategoryResaleResidential, map[string]interface{}{
		"images": []interface{}{"a.jpg"},
	}, Contact{})
	assert.True(t, res.Valid)
}

func TestValidatePricingStep(t *testing.T) {
	plan := PublicPlan()
	res := ValidateStep(plan, 6, CategoryResaleResidential, map[string]interface{}{
		"title": "Nice flat",
		"price": "85 Lakhs",
	}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "description")
}

func TestValidateContactStep(t *testing.T) {
	plan := PublicPlan()

	res := ValidateStep(plan, 7, CategoryResaleResidential, nil, Contact{
		Name:  "A",
		Email: "not-an-email",
		Phone: "12345",
	})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "submitterName")
	assert.Contains(t, res.Errors, "submitterEmail")
	assert.Contains(t, res.Errors, "submitterPhone")

	res = ValidateStep(plan, 7, CategoryResaleResidential, nil, Contact{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Phone: "9876543210",
	})
	assert.True(t, res.Valid)
}

func TestValidateAdminBasicDetailsRequiresCommonFields(t *testing.T) {
	// In the admin plan no later step claims title or price, so the details
	// step checks them alongside the category-specific fields.
	plan := AdminPlan()
	res := ValidateStep(plan, 2, CategoryNewConstruction, map[string]interface{}{
		"builderName": "Prestige",
	}, Contact{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "title")
	assert.Contains(t, res.Errors, "price")
	assert.Contains(t, res.Errors, "reraId")
	assert.NotContains(t, res.Errors, "builderName")
}

func TestValidateFieldKinds(t *testing.T) {
	plan := PublicPlan()
	fields := rentalDetails()

	fields["bathrooms"] = "two"
	res := ValidateStep(plan, 3, CategoryRentalResidential, fields, Contact{})
	assert.Contains(t, res.Errors, "bathrooms")

	fields["bathrooms"] = "2"
	fields["availableFrom"] = "01/01/2024"
	res = ValidateStep(plan, 3, CategoryRentalResidential, fields, Contact{})
	assert.NotContains(t, res.Errors, "bathrooms", "numeric strings are fine")
	assert.Contains(t, res.Errors, "availableFrom")

	fields["availableFrom"] = "2024-01-01"
	fields["tenantPreference"] = "Robots"
	res = ValidateStep(plan, 3, CategoryRentalResidential, fields, Contact{})
	assert.Contains(t, res.Errors, "tenantPreference")
}

func TestValidateIgnoresFieldsOutsideSchema(t *testing.T) {
	plan := PublicPlan()
	fields := rentalDetails()
	fields["floorLoading"] = "heavy"

	res := ValidateStep(plan, 3, CategoryRentalResidential, fields, Contact{})
	assert.True(t, res.Valid, "values outside the active schema are tolerated, not stripped")
}

func TestValidateStepOutOfRange(t *testing.T) {
	plan := AdminPlan()
	res := ValidateStep(plan, 9, CategoryResaleResidential, nil, Contact{})
	assert.False(t, res.Valid)
}
