// registration/model.go
package registration

import (
	"time"

	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/internal/models"
)

// RegistrationStatus is the admin-managed review status of a registration.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
	StatusRejected RegistrationStatus = "rejected"
)

// Payment status values for paid events. Free-event registrations keep the
// zero value.
const (
	PaymentStatusNone    = ""
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
)

// TeamRegistration represents one team's entry for one event.
// The (event_id, captain_email) unique index is the authoritative duplicate
// guard; the intake pre-check is only an early exit.
type TeamRegistration struct {
	gorm.Model
	PublicID string `json:"registration_id" gorm:"type:uuid;uniqueIndex;not null"`
	EventID  uint   `json:"event_id" gorm:"not null;uniqueIndex:idx_event_captain_email"`
	TeamName string `json:"team_name" gorm:"not null"`

	CaptainName       string                 `json:"captain_name" gorm:"not null"`
	CaptainEmail      string                 `json:"captain_email" gorm:"not null;uniqueIndex:idx_event_captain_email"`
	CaptainPhone      string                 `json:"captain_phone"`
	CaptainIngameName string                 `json:"captain_ingame_name"`
	CaptainEducation  models.EducationRecord `json:"captain_education" gorm:"type:jsonb"`

	// PlayerNames[0] is always the captain; PlayerIngameNames and
	// PlayerEducation are parallel to it.
	PlayerNames       models.StringSlice   `json:"player_names" gorm:"type:jsonb"`
	PlayerIngameNames models.StringSlice   `json:"player_ingame_names" gorm:"type:jsonb"`
	PlayerEducation   models.EducationList `json:"player_education_details" gorm:"type:jsonb"`

	Status RegistrationStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`

	// Payment fields, populated only for paid events.
	PaymentStatus    string     `json:"payment_status,omitempty"`
	PaymentID        string     `json:"payment_id,omitempty"`
	OrderID          string     `json:"order_id,omitempty" gorm:"index"`
	PaymentSignature string     `json:"-"`
	AmountPaid       int64      `json:"amount_paid,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

// RateScope distinguishes the two sliding rate-limit windows.
type RateScope string

const (
	ScopeIP    RateScope = "ip"
	ScopeEmail RateScope = "email"
)

// RateLimitRecord is one intake attempt for rate accounting. Rows are
// written on every attempt, summed for rate decisions and aged out by the
// purge job; they are never read back individually.
type RateLimitRecord struct {
	ID           uint      `gorm:"primarykey"`
	Scope        RateScope `gorm:"type:varchar(8);index:idx_rate_scope_key"`
	Key          string    `gorm:"index:idx_rate_scope_key"`
	AttemptCount int       `gorm:"default:1"`
	LastAttempt  time.Time `gorm:"index"`
}

// IntakeRequest is the public registration submission payload.
type IntakeRequest struct {
	EventID           uint                    `json:"event_id" binding:"required"`
	TeamName          string                  `json:"team_name" binding:"required,min=2"`
	CaptainName       string                  `json:"captain_name" binding:"required"`
	CaptainEmail      string                  `json:"captain_email" binding:"required"`
	CaptainPhone      string                  `json:"captain_phone"`
	CaptainIngameName string                  `json:"captain_ingame_name"`
	CaptainEducation  *models.EducationRecord `json:"captain_education"`
	PlayerNames       []string                `json:"player_names" binding:"required,min=1,max=5,dive,required"`
	PlayerIngameNames []string                `json:"player_ingame_names" binding:"omitempty,max=5"`
	PlayerEducation   []models.EducationRecord `json:"player_education_details" binding:"omitempty,max=5"`
}

// RegistrationUpdateInput is the admin edit payload; content fields only,
// status moves through the approve/reject endpoints.
type RegistrationUpdateInput struct {
	TeamName          string   `json:"team_name" binding:"omitempty,min=2"`
	CaptainName       string   `json:"captain_name"`
	CaptainPhone      string   `json:"captain_phone"`
	CaptainIngameName string   `json:"captain_ingame_name"`
	PlayerNames       []string `json:"player_names" binding:"omitempty,min=1,max=5,dive,required"`
	PlayerIngameNames []string `json:"player_ingame_names" binding:"omitempty,max=5"`
}

// Stable machine-readable rejection codes for the intake contract.
const (
	CodeRateLimited           = "RATE_LIMITED"
	CodeEmailRateLimited      = "EMAIL_RATE_LIMITED"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeRegistrationClosed    = "REGISTRATION_CLOSED"
	CodeFullyBooked           = "FULLY_BOOKED"
)
