package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wedding-planner/internal/models"
)

// Postgres keeps guests and submissions in the backend database
type Postgres struct {
	db     *gorm.DB
	region string
}

// ConnectPostgres opens the database and migrates the tables it owns.
func ConnectPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Guest{}, &models.Submission{}); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an open gorm connection.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db, region: models.DefaultCountryCode}
}

func (p *Postgres) SetCountryCode(code string) {
	p.region = code
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Submit inserts a completed questionnaire.
func (p *Postgres) Submit(ctx context.Context, sub *models.Submission) error {
	if err := p.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

// AddGuest inserts a guest or updates the row with the same ID.
func (p *Postgres) AddGuest(ctx context.Context, guest *models.Guest) error {
	if err := saveGuest(p.db.WithContext(ctx), guest); err != nil {
		return fmt.Errorf("failed to save guest: %w", err)
	}
	return nil
}

// AddGuests saves a batch in one transaction.
func (p *Postgres) AddGuests(ctx context.Context, guests []models.Guest) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range guests {
			if err := saveGuest(tx, &guests[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save guests: %w", err)
	}
	return nil
}

func saveGuest(db *gorm.DB, guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	if guest.RSVPStatus == "" {
		guest.RSVPStatus = models.RSVPPending
	}
	if guest.Side == "" {
		guest.Side = models.SideBoth
	}
	return db.Save(guest).Error
}

func (p *Postgres) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	var guest models.Guest
	err := p.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest: %w", err)
	}
	return &guest, nil
}

// GetGuestByPhone compares normalized numbers since phones are stored as entered.
func (p *Postgres) GetGuestByPhone(ctx context.Context, phone string) (*models.Guest, error) {
	var guests []models.Guest
	if err := p.db.WithContext(ctx).Where("phone <> ''").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch guests: %w", err)
	}
	want := models.NormalizePhone(phone, p.region)
	for _, g := range guests {
		if models.NormalizePhone(g.Phone, p.region) == want {
			return &g, nil
		}
	}
	return nil, ErrGuestNotFound
}

func (p *Postgres) GetAllGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	if err := p.db.WithContext(ctx).Order("created_at").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch guests: %w", err)
	}
	return guests, nil
}

func (p *Postgres) GetGuestsByStatus(ctx context.Context, status models.RSVPStatus) ([]models.Guest, error) {
	var guests []models.Guest
	if err := p.db.WithContext(ctx).Where("rsvp_status = ?", status).Order("created_at").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch guests: %w", err)
	}
	return guests, nil
}

func (p *Postgres) UpdateRSVP(ctx context.Context, id string, status models.RSVPStatus, notes string) error {
	updates := map[string]interface{}{
		"rsvp_status": status,
		"rsvp_date":   time.Now(),
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return p.update(ctx, id, updates)
}

func (p *Postgres) MarkInvited(ctx context.Context, id string) error {
	return p.update(ctx, id, map[string]interface{}{"invited_at": time.Now()})
}

func (p *Postgres) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := p.db.WithContext(ctx).Model(&models.Guest{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update guest: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}
