package form

import (
	"wedding-planner/internal/leadscore"
	"wedding-planner/internal/models"
)

// StepDefinition describes one page of the questionnaire
type StepDefinition struct {
	ID             int                               `json:"id"`
	Key            models.StepKey                    `json:"key"`
	Title          string                            `json:"title"`
	Description    string                            `json:"description"`
	RequiredFields []string                          `json:"requiredFields"`
	Validate       func(models.StepData) FieldErrors `json:"-"`
}

// DefaultSteps returns the four questionnaire pages in order.
func DefaultSteps() []StepDefinition {
	return []StepDefinition{
		{
			ID:             1,
			Key:            models.StepBasics,
			Title:          "Basics",
			Description:    "Who is getting married, when, and how many guests are coming",
			RequiredFields: []string{"partner1Name", "partner2Name", "weddingDate", "email", "guestCount"},
			Validate:       ValidateStepData,
		},
		{
			ID:             2,
			Key:            models.StepDetails,
			Title:          "Details",
			Description:    "Budget, location and venue",
			RequiredFields: []string{"totalBudget", "location", "venueType", "budgetFlexibility"},
			Validate:       ValidateStepData,
		},
		{
			ID:             3,
			Key:            models.StepStyle,
			Title:          "Style",
			Description:    "Style, season, time of day and formality",
			RequiredFields: []string{"weddingStyle", "season", "timeOfDay", "formalityLevel"},
			Validate:       ValidateStepData,
		},
		{
			ID:             4,
			Key:            models.StepPriorities,
			Title:          "Priorities",
			Description:    "What matters most on the day",
			RequiredFields: []string{"priorities"},
			Validate:       ValidateStepData,
		},
	}
}

// ScoringSteps adapts step definitions for the lead scorer.
func ScoringSteps(steps []StepDefinition) []leadscore.Step {
	out := make([]leadscore.Step, len(steps))
	for i, s := range steps {
		out[i] = leadscore.Step{Key: s.Key, RequiredFields: s.RequiredFields}
	}
	return out
}
