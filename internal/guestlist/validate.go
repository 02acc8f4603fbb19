// Package guestlist turns spreadsheet rows into guests and guests back into
// CSV files and printable lists.
package guestlist

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"wedding-planner/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()/]{6,}$`)
)

const (
	MsgFirstNameMissing = "Vorname ist erforderlich"
	MsgLastNameMissing  = "Nachname ist erforderlich"
	MsgEmailInvalid     = "Ungültige E-Mail-Adresse"
	MsgSideInvalid      = "Ungültige Seite (erlaubt: bride, groom, both)"
	MsgRSVPInvalid      = "Ungültiger RSVP-Status (erlaubt: pending, confirmed, declined, maybe)"
	MsgPlusOneInvalid   = "Ungültiger Wert für Begleitung (erlaubt: true/false, ja/nein, 1/0)"
	MsgEmailMissing     = "E-Mail-Adresse fehlt"
	MsgPhoneSuspicious  = "Telefonnummer hat möglicherweise ein ungültiges Format"
)

// Result is the outcome of validating one row. Guest is nil when Errors is
// not empty.
type Result struct {
	Guest    *models.Guest `json:"guest,omitempty"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
}

// Valid reports whether a guest could be built.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateGuestData checks a row keyed by CSV column name and builds a guest
// with defaults for everything not given.
func ValidateGuestData(row map[string]string) Result {
	res := Result{Errors: []string{}, Warnings: []string{}}
	get := func(key string) string {
		return strings.TrimSpace(row[key])
	}

	firstName, lastName := get("firstName"), get("lastName")
	if firstName == "" {
		res.Errors = append(res.Errors, MsgFirstNameMissing)
	}
	if lastName == "" {
		res.Errors = append(res.Errors, MsgLastNameMissing)
	}

	email := get("email")
	if email == "" {
		res.Warnings = append(res.Warnings, MsgEmailMissing)
	} else if !emailPattern.MatchString(email) {
		res.Errors = append(res.Errors, MsgEmailInvalid)
	}

	phone := get("phone")
	if phone != "" && !phonePattern.MatchString(phone) {
		res.Warnings = append(res.Warnings, MsgPhoneSuspicious)
	}

	side := models.SideBoth
	if v := get("side"); v != "" {
		side = models.Side(strings.ToLower(v))
		if !side.Valid() {
			res.Errors = append(res.Errors, MsgSideInvalid)
		}
	}

	status := models.RSVPPending
	if v := get("rsvpStatus"); v != "" {
		status = models.RSVPStatus(strings.ToLower(v))
		if !status.Valid() {
			res.Errors = append(res.Errors, MsgRSVPInvalid)
		}
	}

	plusOne, ok := parseBool(get("plusOneAllowed"))
	if !ok {
		res.Errors = append(res.Errors, MsgPlusOneInvalid)
	}

	var plusOneStatus models.RSVPStatus
	if v := get("plusOneRsvpStatus"); v != "" {
		plusOneStatus = models.RSVPStatus(strings.ToLower(v))
		if !plusOneStatus.Valid() {
			res.Errors = append(res.Errors, MsgRSVPInvalid)
		}
	}

	if len(res.Errors) > 0 {
		return res
	}

	now := time.Now()
	res.Guest = &models.Guest{
		ID:                  uuid.NewString(),
		FirstName:           firstName,
		LastName:            lastName,
		Email:               email,
		Phone:               phone,
		Address:             get("address"),
		Relationship:        get("relationship"),
		Side:                side,
		RSVPStatus:          status,
		PlusOneAllowed:      plusOne,
		PlusOneName:         get("plusOneName"),
		PlusOneRSVPStatus:   plusOneStatus,
		DietaryRestrictions: get("dietaryRestrictions"),
		SpecialRequirements: get("specialRequirements"),
		TableAssignment:     get("tableAssignment"),
		SeatAssignment:      get("seatAssignment"),
		Notes:               get("notes"),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return res
}

// parseBool accepts the spellings people put in spreadsheets. Empty is false.
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "", "false", "no", "nein", "0", "n":
		return false, true
	case "true", "yes", "ja", "1", "y", "j", "x":
		return true, true
	}
	return false, false
}
