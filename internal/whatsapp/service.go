package whatsapp

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-planner/internal/models"
)

// MessageHandler is a callback function for handling messages
type MessageHandler func(*events.Message) error

type Config struct {
	DataDir string
	// CountryCode replaces the leading 0 of national numbers
	CountryCode string
}

type Service struct {
	client         *whatsmeow.Client
	cfg            *Config
	log            zerolog.Logger
	messageHandler MessageHandler
}

// NewService creates a new WhatsApp service. The device session is kept in
// a sqlite database inside cfg.DataDir.
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	if cfg.CountryCode == "" {
		cfg.CountryCode = models.DefaultCountryCode
	}

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	// Use nil logger - whatsmeow will use a no-op logger by default
	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("component", "WhatsApp").Logger(),
	}

	// Register event handlers
	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// Connect connects to WhatsApp. A device that was never paired prints a QR
// code to scan and blocks until pairing finished.
func (s *Service) Connect(ctx context.Context) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		// Generate and display QR code in terminal
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Printf("QR Code: %s\n", evt.Code)
			fmt.Println("Please scan this QR code with WhatsApp to connect.")
			continue
		}
		fmt.Println("\n" + q.ToSmallString(false))
		fmt.Println("📱 Please scan the QR code above with WhatsApp:")
		fmt.Println("   1. Open WhatsApp on your phone")
		fmt.Println("   2. Go to Settings > Linked Devices")
		fmt.Println("   3. Tap 'Link a Device'")
		fmt.Println("   4. Scan the QR code shown above")
		fmt.Println()
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage sends a simple text message. The number is normalized to
// international format and must be registered on WhatsApp.
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = models.NormalizePhone(phoneNumber, s.cfg.CountryCode)
	if phoneNumber == "" {
		return fmt.Errorf("empty phone number")
	}

	// Verify the number is on WhatsApp before sending
	resp, err := s.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}

	// Use the verified JID from WhatsApp
	jid := resp[0].JID
	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Sending message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unknown server") || strings.Contains(err.Error(), "can't send message") {
			return fmt.Errorf("failed to send message to %s (JID: %s): %w. The recipient may have to be in your contacts or message you first", phoneNumber, jid, err)
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	s.log.Info().Str("id", sent.ID).Str("jid", jid.String()).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	if evt == nil {
		return
	}
	switch evt := evt.(type) {
	case *events.Message:
		s.handleMessage(evt)
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}

// handleMessage processes incoming messages
func (s *Service) handleMessage(msg *events.Message) {
	// Skip messages from self
	if msg.Info.IsFromMe {
		return
	}

	// Call custom message handler if set
	if s.messageHandler != nil {
		if err := s.messageHandler(msg); err != nil {
			s.log.Error().Err(err).Msg("Error handling message")
		}
	} else {
		s.log.Info().
			Str("sender", msg.Info.Sender.String()).
			Str("message", msg.Message.GetConversation()).
			Msg("Received message")
	}
}

// SetMessageHandler sets a custom handler for incoming messages
func (s *Service) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}
