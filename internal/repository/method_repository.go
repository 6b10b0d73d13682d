package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"checkout-service/internal/models"
)

// MethodRepositoryInterface defines the contract for payment method storage
type MethodRepositoryInterface interface {
	Create(ctx context.Context, method *models.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error)
	ListActiveByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, merchantID string, status models.MethodStatus) error
}

// MethodRepository handles database operations for payment methods
type MethodRepository struct {
	db *gorm.DB
}

// NewMethodRepository creates a new MethodRepository
func NewMethodRepository(db *gorm.DB) *MethodRepository {
	return &MethodRepository{db: db}
}

// Create inserts a new payment method
func (r *MethodRepository) Create(ctx context.Context, method *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

// GetByID retrieves a payment method by ID
func (r *MethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// ListByMerchant lists all payment methods a merchant has configured
func (r *MethodRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("display_order ASC, created_at ASC").
		Find(&methods).Error
	return methods, err
}

// ListActiveByMerchant lists a merchant's active methods in display order.
// The display_order then created_at ordering is what makes checkout method
// resolution deterministic.
func (r *MethodRepository) ListActiveByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND status = ?", merchantID, models.MethodActive).
		Order("display_order ASC, created_at ASC").
		Find(&methods).Error
	return methods, err
}

// UpdateStatus updates a method's status for the owning merchant
func (r *MethodRepository) UpdateStatus(ctx context.Context, id uuid.UUID, merchantID string, status models.MethodStatus) error {
	result := r.db.WithContext(ctx).Model(&models.PaymentMethod{}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
