package registration

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateRegistration is returned when the (event_id, captain_email)
// unique index rejects an insert. The racing request and the common path both
// surface it so clients cannot tell them apart.
var ErrDuplicateRegistration = errors.New("a registration already exists for this event and captain email")

// RegistrationRepository defines the interface for registration data operations
type RegistrationRepository interface {
	// Registration operations
	CreateRegistration(reg *TeamRegistration) error
	GetRegistrationByID(id uint) (*TeamRegistration, error)
	GetRegistrationByPublicID(publicID string) (*TeamRegistration, error)
	ExistsForEventEmail(eventID uint, email string) (bool, error)
	ListByEvent(eventID uint, status string, page, limit int) ([]TeamRegistration, int64, error)
	UpdateRegistration(reg *TeamRegistration) error
	UpdateStatus(id uint, status RegistrationStatus) error
	CountApprovedByEvent(eventID uint) (int64, error)

	// Payment bookkeeping
	SetOrder(id uint, orderID string, amount int64) error
	MarkPaid(id uint, orderID, paymentID, signature string, paidAt time.Time) error

	// Rate-limit bookkeeping
	SumAttempts(scope RateScope, key string, since time.Time) (int64, error)
	RecordAttempt(scope RateScope, key string, at time.Time) error
	PurgeAttemptsBefore(cutoff time.Time) (int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new instance of RegistrationRepository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// --- Registration operations ---

func (r *registrationRepository) CreateRegistration(reg *TeamRegistration) error {
	if err := r.db.Create(reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetRegistrationByID(id uint) (*TeamRegistration, error) {
	var reg TeamRegistration
	if err := r.db.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) GetRegistrationByPublicID(publicID string) (*TeamRegistration, error) {
	var reg TeamRegistration
	if err := r.db.Where("public_id = ?", publicID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) ExistsForEventEmail(eventID uint, email string) (bool, error) {
	var count int64
	err := r.db.Model(&TeamRegistration{}).
		Where("event_id = ? AND captain_email = ?", eventID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *registrationRepository) ListByEvent(eventID uint, status string, page, limit int) ([]TeamRegistration, int64, error) {
	var regs []TeamRegistration
	var total int64

	query := r.db.Model(&TeamRegistration{}).Where("event_id = ?", eventID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&regs).Error; err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *registrationRepository) UpdateRegistration(reg *TeamRegistration) error {
	return r.db.Save(reg).Error
}

func (r *registrationRepository) UpdateStatus(id uint, status RegistrationStatus) error {
	return r.db.Model(&TeamRegistration{}).Where("id = ?", id).Update("status", status).Error
}

func (r *registrationRepository) CountApprovedByEvent(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&TeamRegistration{}).
		Where("event_id = ? AND status = ?", eventID, StatusApproved).
		Count(&count).Error
	return count, err
}

// --- Payment bookkeeping ---

func (r *registrationRepository) SetOrder(id uint, orderID string, amount int64) error {
	return r.db.Model(&TeamRegistration{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_id":       orderID,
		"amount_paid":    amount,
		"payment_status": PaymentStatusCreated,
	}).Error
}

func (r *registrationRepository) MarkPaid(id uint, orderID, paymentID, signature string, paidAt time.Time) error {
	return r.db.Model(&TeamRegistration{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_id":          orderID,
		"payment_id":        paymentID,
		"payment_signature": signature,
		"payment_status":    PaymentStatusPaid,
		"paid_at":           paidAt,
	}).Error
}

// --- Rate-limit bookkeeping ---

func (r *registrationRepository) SumAttempts(scope RateScope, key string, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&RateLimitRecord{}).
		Where("scope = ? AND key = ? AND last_attempt >= ?", scope, key, since).
		Select("COALESCE(SUM(attempt_count), 0)").
		Scan(&total).Error
	return total, err
}

func (r *registrationRepository) RecordAttempt(scope RateScope, key string, at time.Time) error {
	return r.db.Create(&RateLimitRecord{
		Scope:        scope,
		Key:          key,
		AttemptCount: 1,
		LastAttempt:  at,
	}).Error
}

func (r *registrationRepository) PurgeAttemptsBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("last_attempt < ?", cutoff).Delete(&RateLimitRecord{})
	return res.RowsAffected, res.Error
}
