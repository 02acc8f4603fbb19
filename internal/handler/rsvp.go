package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-planner/internal/models"
	"wedding-planner/internal/storage"
)

// Messenger delivers text messages to a phone number
type Messenger interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

type RSVPHandler struct {
	messenger Messenger
	guests    storage.GuestRepository
	config    *Config
	log       zerolog.Logger
}

type Config struct {
	WeddingDate     string
	WeddingLocation string
	BrideName       string
	GroomName       string
	Lang            string
	Logger          zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(messenger Messenger, guests storage.GuestRepository, cfg *Config) *RSVPHandler {
	return &RSVPHandler{
		messenger: messenger,
		guests:    guests,
		config:    cfg,
		log:       cfg.Logger.With().Str("component", "RSVP").Logger(),
	}
}

// HandleMessage processes incoming WhatsApp messages for RSVP responses
func (h *RSVPHandler) HandleMessage(msg *events.Message) error {
	if msg.Message == nil {
		return nil
	}

	text := msg.Message.GetConversation()
	if text == "" {
		text = msg.Message.GetExtendedTextMessage().GetText()
	}
	if text == "" {
		return nil
	}

	return h.HandleReply(context.Background(), msg.Info.Sender.User, text)
}

// HandleReply updates the RSVP of the guest with the given phone number when
// text is a clear answer, and confirms it. Messages from unknown numbers and
// unclear answers are ignored.
func (h *RSVPHandler) HandleReply(ctx context.Context, phoneNumber, text string) error {
	// Only guests on the list can answer
	guest, err := h.guests.GetGuestByPhone(ctx, phoneNumber)
	if errors.Is(err, storage.ErrGuestNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up guest: %w", err)
	}

	status, ok := ParseRSVPReply(text)
	if !ok {
		return nil
	}

	if err := h.guests.UpdateRSVP(ctx, guest.ID, status, ""); err != nil {
		return fmt.Errorf("failed to update RSVP: %w", err)
	}
	h.log.Info().Str("guest", guest.ID).Str("status", string(status)).Msg("RSVP received")

	if err := h.messenger.SendMessage(ctx, phoneNumber, h.confirmation(status)); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

// SendInvitation sends the wedding invitation to a stored guest and records
// when it went out.
func (h *RSVPHandler) SendInvitation(ctx context.Context, guest *models.Guest) error {
	if guest.Phone == "" {
		return fmt.Errorf("guest %s has no phone number", guest.FullName())
	}
	if err := h.messenger.SendMessage(ctx, guest.Phone, h.invitation(guest)); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	if err := h.guests.MarkInvited(ctx, guest.ID); err != nil {
		return fmt.Errorf("failed to mark guest invited: %w", err)
	}
	return nil
}

// InviteNew adds a guest by name and phone number, unless one with that
// number exists already, and invites them.
func (h *RSVPHandler) InviteNew(ctx context.Context, name, phoneNumber string) (*models.Guest, error) {
	guest, err := h.guests.GetGuestByPhone(ctx, phoneNumber)
	if errors.Is(err, storage.ErrGuestNotFound) {
		first, last := splitName(name)
		guest = &models.Guest{
			FirstName:  first,
			LastName:   last,
			Phone:      phoneNumber,
			RSVPStatus: models.RSVPPending,
		}
		err = h.guests.AddGuest(ctx, guest)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add guest: %w", err)
	}

	return guest, h.SendInvitation(ctx, guest)
}

// InvitePending invites every pending guest with a phone number who has not
// been invited yet. It stops at the first failure.
func (h *RSVPHandler) InvitePending(ctx context.Context) (int, error) {
	guests, err := h.guests.GetGuestsByStatus(ctx, models.RSVPPending)
	if err != nil {
		return 0, fmt.Errorf("failed to list guests: %w", err)
	}

	sent := 0
	for i := range guests {
		g := &guests[i]
		if g.Phone == "" || g.InvitedAt != nil {
			continue
		}
		if err := h.SendInvitation(ctx, g); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (h *RSVPHandler) invitation(g *models.Guest) string {
	c := h.config
	if h.german() {
		return fmt.Sprintf(
			"🎉 *Hochzeitseinladung*\n\n"+
				"Liebe/r %s,\n\n"+
				"wir laden dich herzlich zur Hochzeit von\n\n"+
				"*%s* & *%s*\n\n"+
				"📅 Datum: %s\n"+
				"📍 Ort: %s\n\n"+
				"Antworte mit:\n✅ *JA* für eine Zusage\n❌ *NEIN* für eine Absage\n🤔 *VIELLEICHT* wenn du noch unsicher bist",
			g.FirstName, c.BrideName, c.GroomName, c.WeddingDate, c.WeddingLocation,
		)
	}
	return fmt.Sprintf(
		"🎉 *Wedding Invitation*\n\n"+
			"Dear %s,\n\n"+
			"You are cordially invited to celebrate the wedding of\n\n"+
			"*%s* & *%s*\n\n"+
			"📅 Date: %s\n"+
			"📍 Location: %s\n\n"+
			"Reply with:\n✅ *YES* to accept\n❌ *NO* to decline\n🤔 *MAYBE* if you are not sure yet",
		g.FirstName, c.BrideName, c.GroomName, c.WeddingDate, c.WeddingLocation,
	)
}

func (h *RSVPHandler) confirmation(status models.RSVPStatus) string {
	c := h.config
	de := h.german()
	switch status {
	case models.RSVPConfirmed:
		if de {
			return fmt.Sprintf("🎉 Wunderbar! Wir freuen uns riesig, mit dir die Hochzeit von %s & %s am %s zu feiern. 💕", c.BrideName, c.GroomName, c.WeddingDate)
		}
		return fmt.Sprintf(
			"🎉 Wonderful! We're so excited to celebrate with you!\n\n"+
				"We've confirmed your attendance for the wedding of %s & %s on %s.\n\n"+
				"See you there! 💕",
			c.BrideName, c.GroomName, c.WeddingDate,
		)
	case models.RSVPDeclined:
		if de {
			return fmt.Sprintf("Danke für deine Rückmeldung. Schade, dass du bei der Hochzeit von %s & %s nicht dabei sein kannst. 💕", c.BrideName, c.GroomName)
		}
		return fmt.Sprintf(
			"Thank you for letting us know. We're sorry you won't be able to join us for the wedding of %s & %s.\n\n"+
				"We'll miss you! 💕",
			c.BrideName, c.GroomName,
		)
	default:
		if de {
			return "Danke! Gib uns bitte Bescheid, sobald du es sicher weißt."
		}
		return "Thanks! Please let us know as soon as you're sure."
	}
}

func (h *RSVPHandler) german() bool {
	return strings.HasPrefix(strings.ToLower(h.config.Lang), "de")
}

var (
	maybePhrases   = []string{"maybe", "perhaps", "not sure", "vielleicht", "weiß nicht", "weiss nicht", "mal sehen"}
	declinePhrases = []string{"not coming", "can't come", "cannot come", "won't come", "can't make it", "will not come", "kann nicht", "komme nicht", "kommen nicht", "leider nicht"}
	acceptWords    = []string{"yes", "yep", "yeah", "accept", "accepting", "attending", "coming", "will come", "will be there", "ja", "jep", "klar", "zusage", "komme", "kommen", "dabei"}
	declineWords   = []string{"no", "nope", "decline", "declining", "nein", "absage", "leider"}
)

// ParseRSVPReply reads a yes, no or maybe answer from a free text reply in
// English or German.
func ParseRSVPReply(text string) (models.RSVPStatus, bool) {
	switch {
	case strings.Contains(text, "🤔"):
		return models.RSVPMaybe, true
	case strings.Contains(text, "✅"):
		return models.RSVPConfirmed, true
	case strings.Contains(text, "❌"):
		return models.RSVPDeclined, true
	}

	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 {
		return "", false
	}
	padded := " " + strings.Join(words, " ") + " "

	switch {
	case containsAny(padded, maybePhrases...):
		return models.RSVPMaybe, true
	case containsAny(padded, declinePhrases...):
		return models.RSVPDeclined, true
	case containsAny(padded, acceptWords...):
		return models.RSVPConfirmed, true
	case containsAny(padded, declineWords...):
		return models.RSVPDeclined, true
	}
	return "", false
}

// containsAny checks if the padded text contains any of the given keywords
// as whole words
func containsAny(padded string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(padded, " "+keyword+" ") {
			return true
		}
	}
	return false
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		return strings.TrimSpace(name[:i]), name[i+1:]
	}
	return name, ""
}
