package models

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// StepKey identifies one page of the wedding questionnaire
type StepKey string

const (
	StepBasics     StepKey = "basics"
	StepDetails    StepKey = "details"
	StepStyle      StepKey = "style"
	StepPriorities StepKey = "priorities"
)

// StepData is implemented by the four step records. Has reports whether a
// field (by its JSON name) carries a value.
type StepData interface {
	Step() StepKey
	Has(field string) bool
}

// BasicsData holds the couple and contact information
type BasicsData struct {
	Partner1Name string `json:"partner1Name,omitempty" validate:"notblank"`
	Partner2Name string `json:"partner2Name,omitempty" validate:"notblank"`
	WeddingDate  string `json:"weddingDate,omitempty" validate:"notblank"`
	Email        string `json:"email,omitempty" validate:"simpleemail"`
	Phone        string `json:"phone,omitempty"`
	GuestCount   int    `json:"guestCount,omitempty" validate:"gte=20"`
}

func (BasicsData) Step() StepKey { return StepBasics }

func (d BasicsData) Has(field string) bool {
	switch field {
	case "partner1Name":
		return present(d.Partner1Name)
	case "partner2Name":
		return present(d.Partner2Name)
	case "weddingDate":
		return present(d.WeddingDate)
	case "email":
		return present(d.Email)
	case "phone":
		return present(d.Phone)
	case "guestCount":
		return d.GuestCount > 0
	}
	return false
}

// DetailsData holds budget and venue information
type DetailsData struct {
	TotalBudget       float64 `json:"totalBudget,omitempty" validate:"gte=5000"`
	Location          string  `json:"location,omitempty" validate:"notblank"`
	VenueType         string  `json:"venueType,omitempty" validate:"notblank"`
	BudgetFlexibility string  `json:"budgetFlexibility,omitempty" validate:"notblank"`
	BudgetSource      string  `json:"budgetSource,omitempty"`
}

func (DetailsData) Step() StepKey { return StepDetails }

func (d DetailsData) Has(field string) bool {
	switch field {
	case "totalBudget":
		return d.TotalBudget > 0
	case "location":
		return present(d.Location)
	case "venueType":
		return present(d.VenueType)
	case "budgetFlexibility":
		return present(d.BudgetFlexibility)
	case "budgetSource":
		return present(d.BudgetSource)
	}
	return false
}

// StyleData holds the look and feel of the wedding
type StyleData struct {
	WeddingStyle       string   `json:"weddingStyle,omitempty" validate:"notblank"`
	Season             string   `json:"season,omitempty" validate:"notblank"`
	TimeOfDay          string   `json:"timeOfDay,omitempty" validate:"notblank"`
	FormalityLevel     string   `json:"formalityLevel,omitempty" validate:"notblank"`
	ColorScheme        string   `json:"colorScheme,omitempty"`
	CulturalTraditions []string `json:"culturalTraditions,omitempty"`
}

func (StyleData) Step() StepKey { return StepStyle }

// Clone returns a copy that shares no memory with d.
func (d StyleData) Clone() StyleData {
	d.CulturalTraditions = slices.Clone(d.CulturalTraditions)
	return d
}

func (d StyleData) Has(field string) bool {
	switch field {
	case "weddingStyle":
		return present(d.WeddingStyle)
	case "season":
		return present(d.Season)
	case "timeOfDay":
		return present(d.TimeOfDay)
	case "formalityLevel":
		return present(d.FormalityLevel)
	case "colorScheme":
		return present(d.ColorScheme)
	case "culturalTraditions":
		return len(d.CulturalTraditions) > 0
	}
	return false
}

// PrioritiesData holds how much the couple cares about each area (0-5)
type PrioritiesData struct {
	Priorities         map[string]int `json:"priorities,omitempty" validate:"rated"`
	MustHaves          []string       `json:"mustHaves,omitempty"`
	InspirationSources []string       `json:"inspirationSources,omitempty"`
}

func (PrioritiesData) Step() StepKey { return StepPriorities }

// Clone returns a copy that shares no memory with d.
func (d PrioritiesData) Clone() PrioritiesData {
	d.Priorities = maps.Clone(d.Priorities)
	d.MustHaves = slices.Clone(d.MustHaves)
	d.InspirationSources = slices.Clone(d.InspirationSources)
	return d
}

func (d PrioritiesData) Has(field string) bool {
	switch field {
	case "priorities":
		return HasRating(d.Priorities)
	case "mustHaves":
		return len(d.MustHaves) > 0
	case "inspirationSources":
		return len(d.InspirationSources) > 0
	}
	return false
}

// HasRating reports whether at least one priority was rated.
func HasRating(ratings map[string]int) bool {
	for _, v := range ratings {
		if v > 0 {
			return true
		}
	}
	return false
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// FormData is the collected answers of all steps
type FormData struct {
	Basics     BasicsData     `json:"basics"`
	Details    DetailsData    `json:"details"`
	Style      StyleData      `json:"style"`
	Priorities PrioritiesData `json:"priorities"`
}

// Clone returns a deep copy of all answers.
func (f FormData) Clone() FormData {
	f.Style = f.Style.Clone()
	f.Priorities = f.Priorities.Clone()
	return f
}

// Get returns the record for a step, or nil for an unknown key.
func (f *FormData) Get(step StepKey) StepData {
	switch step {
	case StepBasics:
		return f.Basics
	case StepDetails:
		return f.Details
	case StepStyle:
		return f.Style
	case StepPriorities:
		return f.Priorities
	}
	return nil
}

// Set stores a step record in its slot.
func (f *FormData) Set(data StepData) {
	switch d := data.(type) {
	case BasicsData:
		f.Basics = d
	case DetailsData:
		f.Details = d
	case StyleData:
		f.Style = d
	case PrioritiesData:
		f.Priorities = d
	}
}

// Has looks a field up across every step.
func (f *FormData) Has(field string) bool {
	return f.Basics.Has(field) || f.Details.Has(field) || f.Style.Has(field) || f.Priorities.Has(field)
}

// ProgressSnapshot is the persisted state of an unfinished questionnaire
type ProgressSnapshot struct {
	FormData    FormData  `json:"formData"`
	CurrentStep int       `json:"currentStep"`
	Timestamp   time.Time `json:"timestamp"`
}
