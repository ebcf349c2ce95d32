// event/model.go
package event

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventStatus is the admin-managed lifecycle status of a tournament.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusLive     EventStatus = "live"
	StatusPast     EventStatus = "past"
	StatusClosed   EventStatus = "closed"
)

// OverrideState forces registration open or closed irrespective of the
// configured window. Empty means automatic (window-driven).
type OverrideState string

const (
	OverrideOpen   OverrideState = "open"
	OverrideClosed OverrideState = "closed"
	OverrideAuto   OverrideState = ""
)

// Event represents a tournament definition
type Event struct {
	gorm.Model
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Game        string `json:"game" gorm:"index"`
	Description string `json:"description"`
	TeamSlots   int    `json:"team_slots" gorm:"not null;default:16"`
	// EntryAmount is the fee in rupees. 0 means a free event. The payment
	// layer converts to paise exactly once at order creation.
	EntryAmount          int64         `json:"entry_amount" gorm:"not null;default:0"`
	StartDate            time.Time     `json:"start_date"`
	EndDate              time.Time     `json:"end_date"`
	RegistrationStart    time.Time     `json:"registration_start"`
	RegistrationEnd      time.Time     `json:"registration_end"`
	Status               EventStatus   `json:"status" gorm:"type:varchar(16);default:'upcoming';index"`
	RegistrationOverride OverrideState `json:"registration_override" gorm:"type:varchar(8);default:''"`
	BannerURL            string        `json:"banner_url"`
	RulesMarkdown        string        `json:"rules_markdown" gorm:"type:text"`
}

// EventInput is the admin create/update payload.
type EventInput struct {
	Name                 string    `json:"name" binding:"required,min=2"`
	Game                 string    `json:"game" binding:"required"`
	Description          string    `json:"description"`
	TeamSlots            int       `json:"team_slots" binding:"required,gt=0"`
	EntryAmount          int64     `json:"entry_amount" binding:"gte=0"`
	StartDate            time.Time `json:"start_date" binding:"required"`
	EndDate              time.Time `json:"end_date" binding:"required"`
	RegistrationStart    time.Time `json:"registration_start" binding:"required"`
	RegistrationEnd      time.Time `json:"registration_end" binding:"required"`
	Status               string    `json:"status" binding:"omitempty,oneof=upcoming live past closed"`
	RegistrationOverride string    `json:"registration_override" binding:"omitempty,oneof=open closed"`
	BannerURL            string    `json:"banner_url"`
	RulesMarkdown        string    `json:"rules_markdown"`
}

// ValidateWindow enforces registration_start < registration_end <= start_date < end_date.
func (in EventInput) ValidateWindow() error {
	if !in.RegistrationStart.Before(in.RegistrationEnd) {
		return fmt.Errorf("registration_start must be before registration_end")
	}
	if in.RegistrationEnd.After(in.StartDate) {
		return fmt.Errorf("registration_end must not be after start_date")
	}
	if !in.StartDate.Before(in.EndDate) {
		return fmt.Errorf("start_date must be before end_date")
	}
	return nil
}

// EventView is an Event plus its evaluated registration state, the shape
// every public endpoint returns so that display and enforcement cannot drift.
type EventView struct {
	Event
	Evaluation EvalResult `json:"evaluation"`
}
