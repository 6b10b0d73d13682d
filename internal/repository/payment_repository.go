package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkout-service/internal/models"
)

// PaymentRepositoryInterface defines the contract for payment storage
type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByIdempotencyKey(ctx context.Context, merchantID, key string) (*models.Payment, error)
	ListByMerchant(ctx context.Context, merchantID string, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, verifiedBy string, verifiedAt time.Time) (int64, error)
}

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment. Returns ErrDuplicate when another payment
// already holds the same idempotency key; the unique index is the
// authoritative duplicate guard across instances.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// GetByIdempotencyKey retrieves the payment previously recorded for a
// merchant-scoped idempotency key
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, merchantID, key string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND idempotency_key = ?", merchantID, key).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListByMerchant lists a merchant's payments, newest first, with an optional
// status filter
func (r *PaymentRepository) ListByMerchant(ctx context.Context, merchantID string, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("merchant_id = ?", merchantID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error

	return payments, total, err
}

// TransitionStatus moves a payment from one status to another with a
// compare-and-swap on the current status. Returns the number of rows
// updated: 0 means the payment was missing or no longer in the expected
// status, and the caller decides which.
func (r *PaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, verifiedBy string, verifiedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"verified_by": verifiedBy,
			"verified_at": verifiedAt,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
