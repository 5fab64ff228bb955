package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStepClamping(t *testing.T) {
	s := NewState(AdminPlan())
	assert.Equal(t, 1, s.Step())

	s.PrevStep()
	assert.Equal(t, 1, s.Step(), "retreat below step 1 is a no-op")

	s.GoToStep(99)
	assert.Equal(t, AdminPlan().Len(), s.Step(), "advance past the last step clamps")

	s.NextStep()
	assert.Equal(t, AdminPlan().Len(), s.Step())
}

func TestStatePatchFields(t *testing.T) {
	s := NewState(PublicPlan())
	s.PatchFields(map[string]interface{}{"title": "Flat", "price": "25000"})
	s.PatchFields(map[string]interface{}{"price": "30000"})

	fields := s.Fields()
	assert.Equal(t, "Flat", fields["title"], "untouched keys survive")
	assert.Equal(t, "30000", fields["price"], "existing keys are overwritten")

	s.PatchFields(map[string]interface{}{})
	assert.Equal(t, fields, s.Fields(), "empty patch changes nothing")
}

func TestStateReset(t *testing.T) {
	s := NewState(PublicPlan())
	require.NoError(t, s.SetCategory(CategoryRentalResidential))
	s.PatchFields(map[string]interface{}{"title": "Flat"})
	s.SetContact(Contact{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"})
	s.GoToStep(4)

	s.Reset()
	assert.Equal(t, 1, s.Step())
	assert.Equal(t, Category(""), s.Category())
	assert.Empty(t, s.Fields())
	assert.Equal(t, Contact{}, s.Contact())
}

func TestSetCategoryRebuildsFieldBag(t *testing.T) {
	s := NewState(PublicPlan())
	require.NoError(t, s.SetCategory(CategoryRentalResidential))
	s.PatchFields(map[string]interface{}{
		"title":       "Flat in Kadri",
		"monthlyRent": "25000",
		"bhk":         "2 BHK",
	})

	// Switching to a commercial category drops the residential-only values
	// but keeps everything both schemas share.
	require.NoError(t, s.SetCategory(CategoryCommercialRental))
	fields := s.Fields()
	assert.Equal(t, "Flat in Kadri", fields["title"])
	assert.Equal(t, "25000", fields["monthlyRent"], "monthlyRent exists in both schemas")
	assert.NotContains(t, fields, "bhk", "bhk is residential-only")
}

func TestSetCategoryRejectsUnknown(t *testing.T) {
	s := NewState(PublicPlan())
	err := s.SetCategory(Category("castle"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, Category(""), s.Category())
}

func TestClearCategoryKeepsValuesForReselection(t *testing.T) {
	s := NewState(PublicPlan())
	require.NoError(t, s.SetCategory(CategoryRentalResidential))
	s.PatchFields(map[string]interface{}{"tenantPreference": "Family"})

	s.ClearCategory()
	assert.Equal(t, Category(""), s.Category())
	_, ok := s.Field("tenantPreference")
	assert.True(t, ok, "values stay until a different category is chosen")

	// Re-choosing the same category keeps its values intact.
	require.NoError(t, s.SetCategory(CategoryRentalResidential))
	v, _ := s.Field("tenantPreference")
	assert.Equal(t, "Family", v)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewState(PublicPlan())
	require.NoError(t, s.SetCategory(CategoryResaleResidential))
	s.PatchFields(map[string]interface{}{"title": "House", "bhk": "3 BHK"})
	s.SetContact(Contact{Name: "Ravi", Email: "ravi@example.com", Phone: "9876501234"})
	s.GoToStep(3)

	restored := Restore(PublicPlan(), s.Snapshot())
	assert.Equal(t, s.Step(), restored.Step())
	assert.Equal(t, s.Category(), restored.Category())
	assert.Equal(t, s.Fields(), restored.Fields())
	assert.Equal(t, s.Contact(), restored.Contact())
}

func TestRestoreClampsStaleSnapshot(t *testing.T) {
	snap := Snapshot{Step: 42, Category: Category("gone")}
	s := Restore(AdminPlan(), snap)
	assert.Equal(t, AdminPlan().Len(), s.Step())
	assert.Equal(t, Category(""), s.Category())
}
