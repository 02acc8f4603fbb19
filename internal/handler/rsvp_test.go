package handler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/models"
	"wedding-planner/internal/storage"
)

type sentMessage struct {
	phone string
	text  string
}

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

func (f *fakeMessenger) SendMessage(_ context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{phone: phone, text: message})
	return nil
}

func newRSVPHandler(t *testing.T, lang string) (*RSVPHandler, *fakeMessenger, *storage.Storage) {
	t.Helper()
	guests, err := storage.NewStorage(filepath.Join(t.TempDir(), "guests.json"))
	require.NoError(t, err)

	m := &fakeMessenger{}
	h := NewRSVPHandler(m, guests, &Config{
		WeddingDate:     "19.06.2027",
		WeddingLocation: "Schloss Ribbeck",
		BrideName:       "Anna",
		GroomName:       "Ben",
		Lang:            lang,
		Logger:          zerolog.Nop(),
	})
	return h, m, guests
}

func TestParseRSVPReply(t *testing.T) {
	tests := []struct {
		text   string
		status models.RSVPStatus
		ok     bool
	}{
		{"Yes!", models.RSVPConfirmed, true},
		{"yes, we will be there", models.RSVPConfirmed, true},
		{"Ja, klar!", models.RSVPConfirmed, true},
		{"Wir kommen gerne", models.RSVPConfirmed, true},
		{"✅", models.RSVPConfirmed, true},
		{"No", models.RSVPDeclined, true},
		{"Nein, leider nicht", models.RSVPDeclined, true},
		{"Sorry, I can’t come", models.RSVPDeclined, true},
		{"Wir kommen nicht", models.RSVPDeclined, true},
		{"❌", models.RSVPDeclined, true},
		{"maybe", models.RSVPMaybe, true},
		{"Vielleicht, ich weiß es noch nicht", models.RSVPMaybe, true},
		{"I know the venue", "", false},
		{"Hallo!", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			status, ok := ParseRSVPReply(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestHandleReply(t *testing.T) {
	ctx := context.Background()
	h, m, guests := newRSVPHandler(t, "en")

	guest := &models.Guest{FirstName: "Clara", LastName: "Klein", Phone: "0170 1234567"}
	require.NoError(t, guests.AddGuest(ctx, guest))

	require.NoError(t, h.HandleReply(ctx, "491701234567", "Yes, we're coming"))

	got, err := guests.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPConfirmed, got.RSVPStatus)
	assert.NotNil(t, got.RSVPDate)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "491701234567", m.sent[0].phone)
	assert.Contains(t, m.sent[0].text, "Anna & Ben")
}

func TestHandleReply_IgnoresStrangersAndSmallTalk(t *testing.T) {
	ctx := context.Background()
	h, m, guests := newRSVPHandler(t, "en")

	guest := &models.Guest{FirstName: "Clara", LastName: "Klein", Phone: "+49 170 1234567"}
	require.NoError(t, guests.AddGuest(ctx, guest))

	require.NoError(t, h.HandleReply(ctx, "4915112345678", "yes"))
	require.NoError(t, h.HandleReply(ctx, "491701234567", "Where is the venue?"))

	got, err := guests.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPPending, got.RSVPStatus)
	assert.Empty(t, m.sent)
}

func TestSendInvitation(t *testing.T) {
	ctx := context.Background()
	h, m, guests := newRSVPHandler(t, "de")

	guest, err := h.InviteNew(ctx, "Clara Maria Klein", "0170 1234567")
	require.NoError(t, err)
	assert.Equal(t, "Clara Maria", guest.FirstName)
	assert.Equal(t, "Klein", guest.LastName)

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].text, "Hochzeitseinladung")
	assert.Contains(t, m.sent[0].text, "Schloss Ribbeck")

	got, err := guests.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.InvitedAt)

	// Inviting the same number again reuses the guest.
	again, err := h.InviteNew(ctx, "Clara", "+49 170 1234567")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, again.ID)
	all, err := guests.GetAllGuests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInvitePending(t *testing.T) {
	ctx := context.Background()
	h, m, guests := newRSVPHandler(t, "en")

	require.NoError(t, guests.AddGuest(ctx, &models.Guest{FirstName: "A", LastName: "A", Phone: "0170 1111111"}))
	require.NoError(t, guests.AddGuest(ctx, &models.Guest{FirstName: "B", LastName: "B"}))
	require.NoError(t, guests.AddGuest(ctx, &models.Guest{FirstName: "C", LastName: "C", Phone: "0170 2222222", RSVPStatus: models.RSVPDeclined}))

	sent, err := h.InvitePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, m.sent, 1)

	// Already invited guests are skipped.
	sent, err = h.InvitePending(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendInvitation_MessengerFailure(t *testing.T) {
	ctx := context.Background()
	h, m, guests := newRSVPHandler(t, "en")
	m.err = errors.New("not on whatsapp")

	guest := &models.Guest{FirstName: "A", LastName: "A", Phone: "0170 1111111"}
	require.NoError(t, guests.AddGuest(ctx, guest))

	err := h.SendInvitation(ctx, guest)
	assert.ErrorIs(t, err, m.err)

	got, err := guests.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.Nil(t, got.InvitedAt)
}
