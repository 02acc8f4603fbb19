package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"wedding-planner/internal/models"
)

var ErrGuestNotFound = errors.New("guest not found")

// GuestRepository is the guest table of the backend
type GuestRepository interface {
	AddGuest(ctx context.Context, guest *models.Guest) error
	AddGuests(ctx context.Context, guests []models.Guest) error
	GetGuest(ctx context.Context, id string) (*models.Guest, error)
	GetGuestByPhone(ctx context.Context, phone string) (*models.Guest, error)
	GetAllGuests(ctx context.Context) ([]models.Guest, error)
	GetGuestsByStatus(ctx context.Context, status models.RSVPStatus) ([]models.Guest, error)
	UpdateRSVP(ctx context.Context, id string, status models.RSVPStatus, notes string) error
	MarkInvited(ctx context.Context, id string) error
}

// Storage keeps the guest list in a JSON file
type Storage struct {
	mu     sync.RWMutex
	guests []models.Guest
	file   string
	region string
	now    func() time.Time
}

// NewStorage creates a new storage instance
func NewStorage(filePath string) (*Storage, error) {
	s := &Storage{
		guests: make([]models.Guest, 0),
		file:   filePath,
		region: models.DefaultCountryCode,
		now:    time.Now,
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("failed to load storage: %w", err)
		}
	}

	return s, nil
}

// SetCountryCode sets the code used to compare national phone numbers.
func (s *Storage) SetCountryCode(code string) {
	s.region = code
}

// AddGuest adds a new guest or updates the one with the same ID. IDs and
// creation times of existing guests are never changed.
func (s *Storage) AddGuest(_ context.Context, guest *models.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := slices.Clone(s.guests)
	s.addLocked(guest)
	if err := s.Save(); err != nil {
		s.guests = prev
		return err
	}
	return nil
}

// AddGuests adds a batch with a single write. Either all guests are stored
// or none are.
func (s *Storage) AddGuests(_ context.Context, guests []models.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := slices.Clone(s.guests)
	for i := range guests {
		s.addLocked(&guests[i])
	}
	if err := s.Save(); err != nil {
		s.guests = prev
		return err
	}
	return nil
}

func (s *Storage) addLocked(guest *models.Guest) {
	now := s.now()
	guest.UpdatedAt = now

	for i, g := range s.guests {
		if g.ID == guest.ID {
			guest.CreatedAt = g.CreatedAt
			if guest.InvitedAt == nil {
				guest.InvitedAt = g.InvitedAt
			}
			s.guests[i] = *guest
			return
		}
	}

	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	if guest.CreatedAt.IsZero() {
		guest.CreatedAt = now
	}
	if guest.RSVPStatus == "" {
		guest.RSVPStatus = models.RSVPPending
	}
	if guest.Side == "" {
		guest.Side = models.SideBoth
	}
	s.guests = append(s.guests, *guest)
}

// GetGuest retrieves a guest by ID
func (s *Storage) GetGuest(_ context.Context, id string) (*models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.guests {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, ErrGuestNotFound
}

// GetGuestByPhone retrieves a guest by normalized phone number
func (s *Storage) GetGuestByPhone(_ context.Context, phone string) (*models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.guests {
		if g.Phone != "" && models.NormalizePhone(g.Phone, s.region) == models.NormalizePhone(phone, s.region) {
			return &g, nil
		}
	}
	return nil, ErrGuestNotFound
}

// UpdateRSVP updates the RSVP status for a guest
func (s *Storage) UpdateRSVP(_ context.Context, id string, status models.RSVPStatus, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.guests {
		if g.ID == id {
			now := s.now()
			s.guests[i].RSVPStatus = status
			s.guests[i].RSVPDate = &now
			s.guests[i].UpdatedAt = now
			if notes != "" {
				s.guests[i].Notes = notes
			}
			return s.Save()
		}
	}
	return ErrGuestNotFound
}

// MarkInvited records when the invitation went out
func (s *Storage) MarkInvited(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.guests {
		if g.ID == id {
			now := s.now()
			s.guests[i].InvitedAt = &now
			s.guests[i].UpdatedAt = now
			return s.Save()
		}
	}
	return ErrGuestNotFound
}

// GetAllGuests returns all guests
func (s *Storage) GetAllGuests(_ context.Context) ([]models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.Guest, len(s.guests))
	copy(guests, s.guests)
	return guests, nil
}

// GetGuestsByStatus returns guests filtered by RSVP status
func (s *Storage) GetGuestsByStatus(_ context.Context, status models.RSVPStatus) ([]models.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Guest
	for _, g := range s.guests {
		if g.RSVPStatus == status {
			result = append(result, g)
		}
	}
	return result, nil
}

// Save saves the guests to file
func (s *Storage) Save() error {
	data, err := json.MarshalIndent(s.guests, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return writeFile(s.file, data)
}

// Load loads guests from file
func (s *Storage) Load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		s.guests = make([]models.Guest, 0)
		return nil
	}

	if err := json.Unmarshal(data, &s.guests); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}

func writeFile(path string, data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

var (
	_ GuestRepository = (*Storage)(nil)
	_ GuestRepository = (*Postgres)(nil)
)
