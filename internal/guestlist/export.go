package guestlist

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"wedding-planner/internal/models"
)

var ErrUnknownField = errors.New("unknown export field")

// DefaultExportFields is used when the caller does not pick columns.
var DefaultExportFields = []string{
	"firstName", "lastName", "email", "phone", "side", "rsvpStatus",
	"plusOneAllowed", "dietaryRestrictions", "tableAssignment",
}

var fieldLabels = map[string]string{
	"firstName":           "Vorname",
	"lastName":            "Nachname",
	"email":               "E-Mail",
	"phone":               "Telefon",
	"address":             "Adresse",
	"relationship":        "Beziehung",
	"side":                "Seite",
	"rsvpStatus":          "RSVP-Status",
	"plusOneAllowed":      "Begleitung erlaubt",
	"plusOneName":         "Name der Begleitung",
	"plusOneRsvpStatus":   "RSVP-Status Begleitung",
	"dietaryRestrictions": "Ernährungseinschränkungen",
	"specialRequirements": "Besondere Anforderungen",
	"tableAssignment":     "Tisch",
	"seatAssignment":      "Platz",
	"notes":               "Notizen",
}

var rsvpLabels = map[models.RSVPStatus]string{
	models.RSVPPending:   "Ausstehend",
	models.RSVPConfirmed: "Zugesagt",
	models.RSVPDeclined:  "Abgesagt",
	models.RSVPMaybe:     "Vielleicht",
}

var sideLabels = map[models.Side]string{
	models.SideBride: "Braut",
	models.SideGroom: "Bräutigam",
	models.SideBoth:  "Beide",
}

// Label returns the German column title for a field.
func Label(field string) (string, bool) {
	l, ok := fieldLabels[field]
	return l, ok
}

// FieldValue renders one field of a guest for people to read. Statuses and
// booleans are translated, so the result cannot be imported again.
func FieldValue(g models.Guest, field string) string {
	switch field {
	case "firstName":
		return g.FirstName
	case "lastName":
		return g.LastName
	case "email":
		return g.Email
	case "phone":
		return g.Phone
	case "address":
		return g.Address
	case "relationship":
		return g.Relationship
	case "side":
		return sideLabels[g.Side]
	case "rsvpStatus":
		return rsvpLabels[g.RSVPStatus]
	case "plusOneAllowed":
		if g.PlusOneAllowed {
			return "Ja"
		}
		return "Nein"
	case "plusOneName":
		return g.PlusOneName
	case "plusOneRsvpStatus":
		return rsvpLabels[g.PlusOneRSVPStatus]
	case "dietaryRestrictions":
		return g.DietaryRestrictions
	case "specialRequirements":
		return g.SpecialRequirements
	case "tableAssignment":
		return g.TableAssignment
	case "seatAssignment":
		return g.SeatAssignment
	case "notes":
		return g.Notes
	}
	return ""
}

func checkFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return DefaultExportFields, nil
	}
	for _, f := range fields {
		if _, ok := fieldLabels[f]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return fields, nil
}

// ExportGuestsToCSV writes a header of German labels followed by one line per
// guest. Values containing a comma are wrapped in double quotes; lines are
// joined with "\n" without a trailing newline.
func ExportGuestsToCSV(w io.Writer, guests []models.Guest, fields []string) error {
	fields, err := checkFields(fields)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(guests)+1)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = quote(fieldLabels[f])
	}
	lines = append(lines, strings.Join(header, ","))

	for _, g := range guests {
		values := make([]string, len(fields))
		for i, f := range fields {
			values[i] = quote(FieldValue(g, f))
		}
		lines = append(lines, strings.Join(values, ","))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func quote(v string) string {
	if strings.Contains(v, ",") {
		return `"` + v + `"`
	}
	return v
}

// ExportFilename returns a safe download name ending in ext.
func ExportFilename(name, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "gaesteliste"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}
