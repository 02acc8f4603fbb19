// Package leadscore rates a wedding questionnaire between 0 and 100 so that
// sales can triage incoming leads.
package leadscore

import (
	"fmt"
	"math"
	"time"

	"wedding-planner/internal/models"
)

const monthDays = 30 * 24 * time.Hour

// Weights decide how much each partial score contributes to the total.
// They should sum to 1.
type Weights struct {
	Budget      float64 `yaml:"budget" json:"budget"`
	Timeline    float64 `yaml:"timeline" json:"timeline"`
	Engagement  float64 `yaml:"engagement" json:"engagement"`
	DataQuality float64 `yaml:"data_quality" json:"dataQuality"`
}

// DefaultWeights weighs all four partial scores equally.
func DefaultWeights() Weights {
	return Weights{Budget: 0.25, Timeline: 0.25, Engagement: 0.25, DataQuality: 0.25}
}

// Validate rejects negative weights and weights that do not add up to 1.
func (w Weights) Validate() error {
	if w.Budget < 0 || w.Timeline < 0 || w.Engagement < 0 || w.DataQuality < 0 {
		return fmt.Errorf("lead score weights must not be negative")
	}
	sum := w.Budget + w.Timeline + w.Engagement + w.DataQuality
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("lead score weights must sum to 1, got %.3f", sum)
	}
	return nil
}

// EnrichmentFields are the optional answers that count towards data quality.
var EnrichmentFields = []string{
	"partner1Name",
	"partner2Name",
	"email",
	"phone",
	"location",
	"budgetSource",
	"colorScheme",
	"culturalTraditions",
	"mustHaves",
	"inspirationSources",
}

// Step is the part of a step definition the scorer needs.
type Step struct {
	Key            models.StepKey
	RequiredFields []string
}

// Scorer computes lead scores. The zero value is not usable, use New.
type Scorer struct {
	weights Weights
	steps   []Step
	now     func() time.Time
}

// New builds a scorer for the given step catalogue.
func New(weights Weights, steps []Step) *Scorer {
	return &Scorer{weights: weights, steps: steps, now: time.Now}
}

// WithClock replaces the time source used for the timeline score.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score rates the collected answers. Missing answers fall into the lowest bucket.
func (s *Scorer) Score(data models.FormData) models.LeadScore {
	score := models.LeadScore{
		BudgetRangeScore: BudgetRangeScore(data.Details.TotalBudget),
		TimelineScore:    TimelineScore(data.Basics.WeddingDate, s.now()),
		EngagementScore:  s.EngagementScore(data),
		DataQualityScore: DataQualityScore(data),
	}

	weighted := s.weights.Budget*float64(score.BudgetRangeScore) +
		s.weights.Timeline*float64(score.TimelineScore) +
		s.weights.Engagement*float64(score.EngagementScore) +
		s.weights.DataQuality*float64(score.DataQualityScore)
	score.TotalScore = clamp(int(math.Round(weighted*10)), 0, 100)
	return score
}

// BudgetRangeScore buckets the total budget.
func BudgetRangeScore(budget float64) int {
	switch {
	case budget >= 50000:
		return 10
	case budget >= 30000:
		return 8
	case budget >= 20000:
		return 6
	case budget >= 15000:
		return 4
	case budget >= 10000:
		return 2
	default:
		return 1
	}
}

// TimelineScore rewards weddings that are close. Dates that are missing or
// cannot be parsed score 1.
func TimelineScore(weddingDate string, now time.Time) int {
	if weddingDate == "" {
		return 1
	}
	date, err := parseDate(weddingDate)
	if err != nil {
		return 1
	}

	months := int(math.Round(float64(date.Sub(now)) / float64(monthDays)))
	switch {
	case months <= 6:
		return 10
	case months <= 12:
		return 8
	case months <= 18:
		return 6
	case months <= 24:
		return 4
	default:
		return 2
	}
}

// EngagementScore is the share of steps whose required answers are all given.
func (s *Scorer) EngagementScore(data models.FormData) int {
	if len(s.steps) == 0 {
		return 0
	}
	completed := 0
	for _, step := range s.steps {
		if StepComplete(data.Get(step.Key), step.RequiredFields) {
			completed++
		}
	}
	return int(math.Round(10 * float64(completed) / float64(len(s.steps))))
}

// StepComplete reports whether every required field of a step has a value.
func StepComplete(data models.StepData, required []string) bool {
	if data == nil {
		return false
	}
	for _, field := range required {
		if !data.Has(field) {
			return false
		}
	}
	return true
}

// DataQualityScore counts the enrichment answers given, capped at 10.
func DataQualityScore(data models.FormData) int {
	count := 0
	for _, field := range EnrichmentFields {
		if data.Has(field) {
			count++
		}
	}
	return clamp(count, 0, 10)
}

func parseDate(value string) (time.Time, error) {
	layouts := []string{"2006-01-02", time.RFC3339, "02.01.2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
