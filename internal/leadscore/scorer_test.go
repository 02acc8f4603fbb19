package leadscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/models"
)

var testSteps = []Step{
	{Key: models.StepBasics, RequiredFields: []string{"partner1Name", "partner2Name", "weddingDate", "email", "guestCount"}},
	{Key: models.StepDetails, RequiredFields: []string{"totalBudget", "location", "venueType", "budgetFlexibility"}},
	{Key: models.StepStyle, RequiredFields: []string{"weddingStyle", "season", "timeOfDay", "formalityLevel"}},
	{Key: models.StepPriorities, RequiredFields: []string{"priorities"}},
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestBudgetRangeScore(t *testing.T) {
	cases := []struct {
		budget float64
		want   int
	}{
		{50000, 10},
		{49999, 8},
		{30000, 8},
		{29999.99, 6},
		{20000, 6},
		{15000, 4},
		{10000, 2},
		{9999, 1},
		{0, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BudgetRangeScore(tc.budget), "budget %.2f", tc.budget)
	}
}

func TestTimelineScore(t *testing.T) {
	now := fixedNow()
	in := func(days int) string {
		return now.AddDate(0, 0, days).Format("2006-01-02")
	}

	assert.Equal(t, 1, TimelineScore("", now), "missing date")
	assert.Equal(t, 1, TimelineScore("someday", now), "garbage date")
	assert.Equal(t, 10, TimelineScore(in(90), now))
	assert.Equal(t, 10, TimelineScore(in(-30), now), "past dates count as urgent")
	assert.Equal(t, 8, TimelineScore(in(300), now))
	assert.Equal(t, 6, TimelineScore(in(500), now))
	assert.Equal(t, 4, TimelineScore(in(700), now))
	assert.Equal(t, 2, TimelineScore(in(1000), now))
	assert.Equal(t, 10, TimelineScore("01.03.2026", now), "german date format")
}

func TestScore_EmptyFormFallsIntoLowestBuckets(t *testing.T) {
	s := New(DefaultWeights(), testSteps).WithClock(fixedNow)

	score := s.Score(models.FormData{})

	assert.Equal(t, models.LeadScore{
		BudgetRangeScore: 1,
		TimelineScore:    1,
		EngagementScore:  0,
		DataQualityScore: 0,
		TotalScore:       5,
	}, score)
}

func TestScore_CompleteForm(t *testing.T) {
	s := New(DefaultWeights(), testSteps).WithClock(fixedNow)
	data := models.FormData{
		Basics: models.BasicsData{
			Partner1Name: "Anna",
			Partner2Name: "Ben",
			WeddingDate:  "2026-05-01",
			Email:        "anna@example.com",
			Phone:        "+49 170 1234567",
			GuestCount:   80,
		},
		Details: models.DetailsData{
			TotalBudget:       50000,
			Location:          "Berlin",
			VenueType:         "castle",
			BudgetFlexibility: "flexible",
			BudgetSource:      "savings",
		},
		Style: models.StyleData{
			WeddingStyle:       "boho",
			Season:             "spring",
			TimeOfDay:          "evening",
			FormalityLevel:     "formal",
			ColorScheme:        "sage",
			CulturalTraditions: []string{"polterabend"},
		},
		Priorities: models.PrioritiesData{
			Priorities:         map[string]int{"food": 5},
			MustHaves:          []string{"live band"},
			InspirationSources: []string{"pinterest"},
		},
	}

	score := s.Score(data)

	assert.Equal(t, 10, score.BudgetRangeScore)
	assert.Equal(t, 10, score.TimelineScore)
	assert.Equal(t, 10, score.EngagementScore)
	assert.Equal(t, 10, score.DataQualityScore)
	assert.Equal(t, 100, score.TotalScore)
}

func TestEngagementScore_CountsPresenceNotFormat(t *testing.T) {
	s := New(DefaultWeights(), testSteps)
	data := models.FormData{
		Basics: models.BasicsData{
			Partner1Name: "Anna",
			Partner2Name: "Ben",
			WeddingDate:  "2026-05-01",
			Email:        "not-an-email",
			GuestCount:   5,
		},
	}

	// one of four steps complete
	assert.Equal(t, 3, s.EngagementScore(data))
}

func TestDataQualityScore(t *testing.T) {
	data := models.FormData{
		Basics:  models.BasicsData{Partner1Name: "Anna", Email: "a@b.de"},
		Details: models.DetailsData{Location: "  "},
		Style:   models.StyleData{CulturalTraditions: []string{"henna"}},
	}
	assert.Equal(t, 3, DataQualityScore(data))
}

func TestScore_CustomWeights(t *testing.T) {
	w := Weights{Budget: 1}
	require.NoError(t, w.Validate())

	s := New(w, testSteps).WithClock(fixedNow)
	score := s.Score(models.FormData{Details: models.DetailsData{TotalBudget: 30000}})

	assert.Equal(t, 80, score.TotalScore)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Budget: 0.5, Timeline: 0.6}.Validate())
	assert.Error(t, Weights{Budget: 1.5, Timeline: -0.5}.Validate())
}
