package guestlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/models"
)

func TestValidateGuestData_BadEmail(t *testing.T) {
	res := ValidateGuestData(map[string]string{"firstName": "Anna", "lastName": "Muster", "email": "bad-email"})

	assert.Contains(t, res.Errors, MsgEmailInvalid)
	assert.Nil(t, res.Guest)
	assert.False(t, res.Valid())
}

func TestValidateGuestData_MissingEmailIsOnlyAWarning(t *testing.T) {
	res := ValidateGuestData(map[string]string{"firstName": "Anna", "lastName": "Muster"})

	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"E-Mail-Adresse fehlt"}, res.Warnings)
	require.NotNil(t, res.Guest)
	assert.Equal(t, models.RSVPPending, res.Guest.RSVPStatus)
	assert.False(t, res.Guest.PlusOneAllowed)
	assert.Equal(t, models.SideBoth, res.Guest.Side)
	_, err := uuid.Parse(res.Guest.ID)
	assert.NoError(t, err)
}

func TestValidateGuestData_HardErrors(t *testing.T) {
	res := ValidateGuestData(map[string]string{
		"side":           "neighbours",
		"rsvpStatus":     "attending",
		"plusOneAllowed": "perhaps",
	})

	assert.Equal(t, []string{
		MsgFirstNameMissing,
		MsgLastNameMissing,
		MsgSideInvalid,
		MsgRSVPInvalid,
		MsgPlusOneInvalid,
	}, res.Errors)
	assert.Nil(t, res.Guest)
}

func TestValidateGuestData_Normalizes(t *testing.T) {
	res := ValidateGuestData(map[string]string{
		"firstName":      " Ben ",
		"lastName":       "Schmidt",
		"email":          "ben@example.de",
		"phone":          "call me maybe",
		"side":           "Groom",
		"rsvpStatus":     "CONFIRMED",
		"plusOneAllowed": "ja",
	})

	require.NotNil(t, res.Guest)
	assert.Equal(t, []string{MsgPhoneSuspicious}, res.Warnings)
	assert.Equal(t, "Ben", res.Guest.FirstName)
	assert.Equal(t, models.SideGroom, res.Guest.Side)
	assert.Equal(t, models.RSVPConfirmed, res.Guest.RSVPStatus)
	assert.True(t, res.Guest.PlusOneAllowed)
}

func TestImportCSV(t *testing.T) {
	input := strings.Join([]string{
		strings.Join(ImportHeader, ","),
		"Anna,Muster,anna@example.com,0170 1234567,Hauptstr. 1,Cousine,bride,confirmed,true,Tom,pending,vegan,,",
		"Ben,,ben@example.com,,,,,,,,,,,",
		"",
		"Clara,Klein,,,,,groom,,no,,,,,\r",
	}, "\n")

	res, err := ImportCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Rejected())
	require.Len(t, res.Guests, 2)
	assert.Equal(t, "Tom", res.Guests[0].PlusOneName)
	assert.Equal(t, "vegan", res.Guests[0].DietaryRestrictions)
	assert.Equal(t, "Clara", res.Guests[1].FirstName)

	require.Len(t, res.Issues, 2)
	assert.Equal(t, 3, res.Issues[0].Line)
	assert.Equal(t, []string{MsgLastNameMissing}, res.Issues[0].Errors)
	assert.Equal(t, 4, res.Issues[1].Line)
	assert.Equal(t, []string{MsgEmailMissing}, res.Issues[1].Warnings)
}

func TestParseCSV_DoesNotUnquote(t *testing.T) {
	input := "firstName,lastName,notes\nAnna,Muster,\"Tisch 1, links\""

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// The quoted comma splits the value; this mirrors how the import has
	// always behaved.
	assert.Equal(t, `"Tisch 1`, rows[0]["notes"])
}

func sampleGuests() []models.Guest {
	return []models.Guest{
		{FirstName: "Anna", LastName: "Muster", RSVPStatus: models.RSVPConfirmed, Side: models.SideBride, PlusOneAllowed: true},
		{FirstName: "Ben", LastName: "Schmidt", RSVPStatus: models.RSVPMaybe, Side: models.SideGroom, Notes: "kommt später, ca. 18 Uhr"},
	}
}

func TestExportGuestsToCSV(t *testing.T) {
	var buf bytes.Buffer
	err := ExportGuestsToCSV(&buf, sampleGuests(), []string{"firstName", "side", "rsvpStatus", "plusOneAllowed", "notes"})
	require.NoError(t, err)

	assert.Equal(t,
		"Vorname,Seite,RSVP-Status,Begleitung erlaubt,Notizen\n"+
			"Anna,Braut,Zugesagt,Ja,\n"+
			"Ben,Bräutigam,Vielleicht,Nein,\"kommt später, ca. 18 Uhr\"",
		buf.String())
}

func TestExportGuestsToCSV_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, ExportGuestsToCSV(&a, sampleGuests(), nil))
	require.NoError(t, ExportGuestsToCSV(&b, sampleGuests(), nil))
	assert.Equal(t, a.String(), b.String())
}

func TestExportGuestsToCSV_UnknownField(t *testing.T) {
	err := ExportGuestsToCSV(&bytes.Buffer{}, sampleGuests(), []string{"firstName", "shoeSize"})
	assert.ErrorIs(t, err, ErrUnknownField)
}

// Export localizes statuses, so reading a file back only recovers the plain
// text columns.
func TestExportThenParse_IsLossyForStatuses(t *testing.T) {
	fields := []string{"firstName", "lastName", "rsvpStatus"}
	guests := sampleGuests()

	var buf bytes.Buffer
	require.NoError(t, ExportGuestsToCSV(&buf, guests, fields))

	rows, err := ParseCSVWithHeader(strings.NewReader(buf.String()), fields)
	require.NoError(t, err)
	require.Len(t, rows, len(guests))

	for i, g := range guests {
		assert.Equal(t, g.FirstName, rows[i]["firstName"])
		assert.Equal(t, g.LastName, rows[i]["lastName"])
		assert.NotEqual(t, string(g.RSVPStatus), rows[i]["rsvpStatus"])
	}
	assert.Equal(t, "Zugesagt", rows[0]["rsvpStatus"])
	assert.False(t, ValidateGuestData(rows[0]).Valid(), "localized status is not importable")
}

func TestGeneratePrintableList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GeneratePrintableList(&buf, sampleGuests(), []string{"firstName", "rsvpStatus"}, "Gästeliste Anna & Ben"))

	html := buf.String()
	assert.Contains(t, html, "<th>Vorname</th>")
	assert.Contains(t, html, "<td>Zugesagt</td>")
	assert.Contains(t, html, "Gästeliste Anna &amp; Ben")
	assert.Contains(t, html, "window.print()")
	assert.Contains(t, html, "500")
}

func TestGeneratePrintablePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GeneratePrintablePDF(&buf, sampleGuests(), nil, ""))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "gaesteliste.csv", ExportFilename("", ".csv"))
	assert.Equal(t, "hochzeit.csv", ExportFilename("hochzeit.csv", ".csv"))
	assert.Equal(t, "a_b.pdf", ExportFilename("a/b", ".pdf"))
}
