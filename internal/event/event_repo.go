package event

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	CreateEvent(event *Event) error
	GetEventByID(id uint) (*Event, error)
	GetEventBySlug(slug string) (*Event, error)
	GetAllEvents(page, limit int, filters map[string]interface{}) ([]Event, int64, error)
	UpdateEvent(event *Event) error
	DeleteEvent(id uint) error
	UpdateStatus(id uint, status EventStatus) error
	RollPastEvents() (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateEvent(event *Event) error {
	if event.Slug == "" {
		event.Slug = slug.Make(event.Name)
	}
	// Slugs collide when two events share a name; retry with a numeric suffix.
	base := event.Slug
	for i := 2; ; i++ {
		var count int64
		if err := r.db.Model(&Event{}).Where("slug = ?", event.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		event.Slug = fmt.Sprintf("%s-%d", base, i)
	}
	return r.db.Create(event).Error
}

func (r *eventRepository) GetEventByID(id uint) (*Event, error) {
	var event Event
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetEventBySlug(s string) (*Event, error) {
	var event Event
	if err := r.db.Where("slug = ?", s).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetAllEvents(page, limit int, filters map[string]interface{}) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.Model(&Event{})

	if game, ok := filters["game"]; ok {
		query = query.Where("game = ?", game)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("name ILIKE ?", "%"+name.(string)+"%")
	}

	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("start_date asc").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) UpdateEvent(event *Event) error {
	return r.db.Save(event).Error
}

// DeleteEvent removes the event and everything hanging off it. Registrations
// and prizes reference events by id only, so the cascade is done here rather
// than with FK constraints.
func (r *eventRepository) DeleteEvent(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM team_registrations WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM prizes WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM gallery_images WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Event{}, id).Error
	})
}

func (r *eventRepository) UpdateStatus(id uint, status EventStatus) error {
	return r.db.Model(&Event{}).Where("id = ?", id).Update("status", status).Error
}

// RollPastEvents flips live/upcoming events whose end date has elapsed to
// past. Called by the scheduler so the stored status catches up with what
// DisplayStatus already reports.
func (r *eventRepository) RollPastEvents() (int64, error) {
	res := r.db.Model(&Event{}).
		Where("status IN ? AND end_date < NOW()", []EventStatus{StatusUpcoming, StatusLive}).
		Update("status", StatusPast)
	return res.RowsAffected, res.Error
}
