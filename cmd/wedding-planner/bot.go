package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wedding-planner/internal/handler"
	"wedding-planner/internal/models"
	"wedding-planner/internal/storage"
	"wedding-planner/internal/whatsapp"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the WhatsApp RSVP bot with an interactive menu",
	Long: `Connects to WhatsApp (showing a QR code on first use), answers RSVP
replies from invited guests and offers a menu to send invitations and review
the guest list.`,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fmt.Println("🎉 Wedding WhatsApp RSVP Bot")
	fmt.Println("============================")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	if err := os.MkdirAll(cfg.WhatsAppDataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	whatsappService, err := whatsapp.NewService(ctx, &whatsapp.Config{
		DataDir:     cfg.WhatsAppDataDir,
		CountryCode: cfg.CountryCode,
	}, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize WhatsApp service: %w", err)
	}

	rsvpHandler := handler.NewRSVPHandler(whatsappService, a.guests, &handler.Config{
		WeddingDate:     cfg.WeddingDate,
		WeddingLocation: cfg.WeddingLocation,
		BrideName:       cfg.BrideName,
		GroomName:       cfg.GroomName,
		Lang:            cfg.Lang,
		Logger:          a.log,
	})
	whatsappService.SetMessageHandler(rsvpHandler.HandleMessage)

	fmt.Println("Connecting to WhatsApp...")
	if err := whatsappService.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to WhatsApp: %w", err)
	}
	defer whatsappService.Disconnect()

	fmt.Println("\n✅ Connected to WhatsApp!")
	fmt.Println("The bot is now listening for RSVP responses.")

	go startCLI(ctx, cancel, rsvpHandler, a.guests)

	<-ctx.Done()
	fmt.Println("\n\nShutting down...")
	fmt.Println("Goodbye! 👋")
	return nil
}

func startCLI(ctx context.Context, exit context.CancelFunc, rsvpHandler *handler.RSVPHandler, guests storage.GuestRepository) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. Send invitation")
		fmt.Println("  2. Invite all pending guests")
		fmt.Println("  3. View all guests")
		fmt.Println("  4. View guests by status")
		fmt.Println("  5. Exit")
		fmt.Print("\nEnter command (1-5): ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			sendInvitation(ctx, scanner, rsvpHandler)
		case "2":
			invitePending(ctx, rsvpHandler)
		case "3":
			viewAllGuests(ctx, guests)
		case "4":
			viewGuestsByStatus(ctx, scanner, guests)
		case "5":
			fmt.Println("Exiting...")
			exit()
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func sendInvitation(ctx context.Context, scanner *bufio.Scanner, rsvpHandler *handler.RSVPHandler) {
	fmt.Print("Enter guest name: ")
	if !scanner.Scan() {
		return
	}
	name := strings.TrimSpace(scanner.Text())

	fmt.Print("Enter phone number (e.g., +49 170 1234567 or 0170 1234567): ")
	if !scanner.Scan() {
		return
	}
	phoneNumber := strings.TrimSpace(scanner.Text())

	fmt.Printf("\nSending invitation to %s (%s)...\n", name, phoneNumber)
	if _, err := rsvpHandler.InviteNew(ctx, name, phoneNumber); err != nil {
		fmt.Printf("❌ Error sending invitation: %v\n", err)
	} else {
		fmt.Printf("✅ Invitation sent successfully!\n")
	}
}

func invitePending(ctx context.Context, rsvpHandler *handler.RSVPHandler) {
	sent, err := rsvpHandler.InvitePending(ctx)
	if err != nil {
		fmt.Printf("❌ Stopped after %d invitations: %v\n", sent, err)
		return
	}
	fmt.Printf("✅ %d invitations sent\n", sent)
}

func viewAllGuests(ctx context.Context, guests storage.GuestRepository) {
	list, err := guests.GetAllGuests(ctx)
	if err != nil {
		fmt.Printf("❌ Error loading guests: %v\n", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("\nNo guests found.")
		return
	}

	fmt.Printf("\n📋 All Guests (%d total):\n", len(list))
	printGuests(list, true)
}

func viewGuestsByStatus(ctx context.Context, scanner *bufio.Scanner, guests storage.GuestRepository) {
	fmt.Println("\nSelect status:")
	fmt.Println("  1. Pending")
	fmt.Println("  2. Confirmed")
	fmt.Println("  3. Declined")
	fmt.Println("  4. Maybe")
	fmt.Print("Enter choice (1-4): ")

	if !scanner.Scan() {
		return
	}

	var status models.RSVPStatus
	switch strings.TrimSpace(scanner.Text()) {
	case "1":
		status = models.RSVPPending
	case "2":
		status = models.RSVPConfirmed
	case "3":
		status = models.RSVPDeclined
	case "4":
		status = models.RSVPMaybe
	default:
		fmt.Println("Invalid choice.")
		return
	}

	list, err := guests.GetGuestsByStatus(ctx, status)
	if err != nil {
		fmt.Printf("❌ Error loading guests: %v\n", err)
		return
	}
	if len(list) == 0 {
		fmt.Printf("\nNo guests with status '%s'.\n", string(status))
		return
	}

	fmt.Printf("\n📋 Guests with status '%s' (%d total):\n", string(status), len(list))
	printGuests(list, false)
}

func printGuests(list []models.Guest, withStatus bool) {
	fmt.Println(strings.Repeat("-", 60))
	for _, guest := range list {
		fmt.Printf("Name: %s\n", guest.FullName())
		fmt.Printf("Phone: %s\n", guest.Phone)
		if withStatus {
			fmt.Printf("Status: %s\n", guest.RSVPStatus)
		}
		if guest.InvitedAt != nil {
			fmt.Printf("Invited: %s\n", guest.InvitedAt.Format("2006-01-02 15:04:05"))
		}
		if guest.RSVPDate != nil {
			fmt.Printf("RSVP Date: %s\n", guest.RSVPDate.Format("2006-01-02 15:04:05"))
		}
		fmt.Println(strings.Repeat("-", 60))
	}
}
