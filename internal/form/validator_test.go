package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/models"
)

func TestValidateStepData_Basics(t *testing.T) {
	errs := ValidateStepData(models.BasicsData{
		Partner1Name: "   ",
		Partner2Name: "Ben",
		WeddingDate:  "2026-06-20",
		Email:        "anna@localhost",
		GuestCount:   19,
	})

	assert.Equal(t, []string{"partner1Name", "email", "guestCount"}, fields(errs))
}

func TestValidateStepData_Details(t *testing.T) {
	errs := ValidateStepData(models.DetailsData{TotalBudget: 4999.99, Location: "Berlin"})
	assert.Equal(t, []string{"totalBudget", "venueType", "budgetFlexibility"}, fields(errs))

	errs = ValidateStepData(models.DetailsData{TotalBudget: 5000, Location: "Berlin", VenueType: "hall", BudgetFlexibility: "fixed"})
	assert.Empty(t, errs)
}

func TestValidateStepData_Style(t *testing.T) {
	errs := ValidateStepData(models.StyleData{WeddingStyle: "modern"})
	assert.Equal(t, []string{"season", "timeOfDay", "formalityLevel"}, fields(errs))
}

func TestValidateStepData_Priorities(t *testing.T) {
	assert.Len(t, ValidateStepData(models.PrioritiesData{}), 1)
	assert.Len(t, ValidateStepData(models.PrioritiesData{Priorities: map[string]int{"food": 0}}), 1)
	assert.Empty(t, ValidateStepData(models.PrioritiesData{Priorities: map[string]int{"food": 1}}))
}

func TestValidateStepData_NilRecordFails(t *testing.T) {
	errs := ValidateStepData(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "Unbekannter Schritt", errs[0].Message)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.de"))
	assert.False(t, ValidEmail("a b@c.de"))
	assert.False(t, ValidEmail("bad-email"))
	assert.False(t, ValidEmail(""))
}

func fields(errs FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}
