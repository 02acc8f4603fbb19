package models

import "time"

// Guest represents a wedding guest on the guest list
type Guest struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:uuid"`
	FirstName           string     `json:"firstName" gorm:"not null"`
	LastName            string     `json:"lastName"`
	Email               string     `json:"email,omitempty"`
	Phone               string     `json:"phone,omitempty" gorm:"index"`
	Address             string     `json:"address,omitempty"`
	Relationship        string     `json:"relationship,omitempty"`
	Side                Side       `json:"side" gorm:"type:varchar(10);not null;default:'both'"`
	RSVPStatus          RSVPStatus `json:"rsvpStatus" gorm:"type:varchar(20);not null;default:'pending';index"`
	PlusOneAllowed      bool       `json:"plusOneAllowed"`
	PlusOneName         string     `json:"plusOneName,omitempty"`
	PlusOneRSVPStatus   RSVPStatus `json:"plusOneRsvpStatus,omitempty" gorm:"type:varchar(20)"`
	DietaryRestrictions string     `json:"dietaryRestrictions,omitempty"`
	SpecialRequirements string     `json:"specialRequirements,omitempty"`
	TableAssignment     string     `json:"tableAssignment,omitempty"`
	SeatAssignment      string     `json:"seatAssignment,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	RSVPDate            *time.Time `json:"rsvpDate,omitempty"`
	InvitedAt           *time.Time `json:"invitedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// FullName joins first and last name.
func (g Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
	RSVPMaybe     RSVPStatus = "maybe"
)

// Valid reports whether s is one of the known statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPMaybe:
		return true
	}
	return false
}

// Side is the family side a guest belongs to
type Side string

const (
	SideBride Side = "bride"
	SideGroom Side = "groom"
	SideBoth  Side = "both"
)

func (s Side) Valid() bool {
	switch s {
	case SideBride, SideGroom, SideBoth:
		return true
	}
	return false
}
