// Package wizard implements the multi-step listing submission flow: the
// per-category field schemas, the in-progress form state, step validation,
// and the dispatch of completed submissions to the persistence API.
package wizard

import "errors"

// Category identifies the commercial intent + property type combination of a
// listing. It is selected once at step 1 and determines the field schema for
// the rest of the flow.
type Category string

const (
	CategoryNewConstruction   Category = "new_construction"
	CategoryResaleResidential Category = "resale_residential"
	CategoryRentalResidential Category = "rental_residential"
	CategoryCommercialSale    Category = "commercial_sale"
	CategoryCommercialRental  Category = "commercial_rental"
)

// ErrUnknownCategory is returned when a category outside the five supported
// values reaches the schema registry. Unreachable through normal flow.
var ErrUnknownCategory = errors.New("unknown listing category")

// Categories returns all supported listing categories.
func Categories() []Category {
	return []Category{
		CategoryNewConstruction,
		CategoryResaleResidential,
		CategoryRentalResidential,
		CategoryCommercialSale,
		CategoryCommercialRental,
	}
}

// IsValid reports whether c is one of the supported categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNewConstruction, CategoryResaleResidential, CategoryRentalResidential,
		CategoryCommercialSale, CategoryCommercialRental:
		return true
	}
	return false
}

// FieldKind describes how a field value is checked during validation.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
	KindEnum   FieldKind = "enum"
	KindList   FieldKind = "list"
)

// Field describes a single form field within a category schema.
type Field struct {
	Name       string    `json:"name"`
	Required   bool      `json:"required"`
	Kind       FieldKind `json:"kind"`
	EnumValues []string  `json:"enumValues,omitempty"`
}

// Schema is the full field set for one listing category.
type Schema struct {
	Category Category `json:"category"`
	Fields   []Field  `json:"fields"`
}

// Field looks up a field descriptor by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether the schema contains a field with the given name.
func (s Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// RequiredNames returns the names of all required fields in schema order.
func (s Schema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Enum value sets shared across category schemas.
var (
	bhkValues        = []string{"1 RK", "1 BHK", "2 BHK", "3 BHK", "4 BHK", "5+ BHK"}
	furnishingValues = []string{"Unfurnished", "Semi Furnished", "Fully Furnished"}
	tenantValues     = []string{"Family", "Bachelors", "Company", "Any"}
	ownershipValues  = []string{"Freehold", "Leasehold", "Co-operative Society", "Power of Attorney"}
	vacancyValues    = []string{"Vacant", "Occupied"}
)

// commonFields are present in every schema regardless of category. Only title
// and price are required at the schema level; the rest are gated per step.
func commonFields() []Field {
	return []Field{
		{Name: "title", Required: true, Kind: KindString},
		{Name: "price", Required: true, Kind: KindString},
		{Name: "listingIntent", Kind: KindString},
		{Name: "propertyType", Kind: KindString},
		{Name: "location", Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "amenities", Kind: KindList},
		{Name: "images", Kind: KindList},
		{Name: "videoTour", Kind: KindString},
	}
}

// SchemaFor returns the field schema for the given category. It is total over
// the five supported categories and fails with ErrUnknownCategory otherwise.
func SchemaFor(c Category) (Schema, error) {
	var extra []Field
	switch c {
	case CategoryNewConstruction:
		extra = []Field{
			{Name: "builderName", Required: true, Kind: KindString},
			{Name: "reraId", Required: true, Kind: KindString},
			{Name: "possessionDate", Required: true, Kind: KindDate},
			{Name: "bhk", Required: true, Kind: KindEnum, EnumValues: bhkValues},
			{Name: "bathrooms", Required: true, Kind: KindNumber},
			{Name: "carpetArea", Required: true, Kind: KindString},
			{Name: "totalFloors", Kind: KindNumber},
			{Name: "furnishing", Kind: KindEnum, EnumValues: furnishingValues},
		}
	case CategoryResaleResidential:
		extra = []Field{
			{Name: "propertyAge", Required: true, Kind: KindString},
			{Name: "ownershipType", Required: true, Kind: KindEnum, EnumValues: ownershipValues},
			{Name: "bhk", Required: true, Kind: KindEnum, EnumValues: bhkValues},
			{Name: "bathrooms", Required: true, Kind: KindNumber},
			{Name: "carpetArea", Required: true, Kind: KindString},
			{Name: "vacancyStatus", Required: true, Kind: KindEnum, EnumValues: vacancyValues},
			{Name: "furnishing", Kind: KindEnum, EnumValues: furnishingValues},
		}
	case CategoryRentalResidential:
		extra = []Field{
			{Name: "monthlyRent", Required: true, Kind: KindString},
			{Name: "securityDeposit", Required: true, Kind: KindString},
			{Name: "availableFrom", Required: true, Kind: KindDate},
			{Name: "tenantPreference", Required: true, Kind: KindEnum, EnumValues: tenantValues},
			{Name: "furnishing", Required: true, Kind: KindEnum, EnumValues: furnishingValues},
			{Name: "bhk", Required: true, Kind: KindEnum, EnumValues: bhkValues},
			{Name: "bathrooms", Required: true, Kind: KindNumber},
			{Name: "carpetArea", Required: true, Kind: KindString},
		}
	case CategoryCommercialSale:
		extra = []Field{
			{Name: "builtUpArea", Required: true, Kind: KindString},
			{Name: "floorLoading", Required: true, Kind: KindString},
			{Name: "powerBackupKVA", Required: true, Kind: KindNumber},
			{Name: "washrooms", Required: true, Kind: KindNumber},
			{Name: "ownershipType", Required: true, Kind: KindEnum, EnumValues: ownershipValues},
		}
	case CategoryCommercialRental:
		extra = []Field{
			{Name: "monthlyRent", Required: true, Kind: KindString},
			{Name: "securityDeposit", Required: true, Kind: KindString},
			{Name: "builtUpArea", Required: true, Kind: KindString},
			{Name: "floorLoading", Required: true, Kind: KindString},
			{Name: "powerBackupKVA", Required: true, Kind: KindNumber},
			{Name: "lockInPeriod", Kind: KindString},
		}
	default:
		return Schema{}, ErrUnknownCategory
	}

	return Schema{Category: c, Fields: append(commonFields(), extra...)}, nil
}
