package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"checkout-service/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// LinkRepositoryInterface defines the contract for checkout link storage
type LinkRepositoryInterface interface {
	Create(ctx context.Context, link *models.CheckoutLink) error
	GetBySlug(ctx context.Context, slug string) (*models.CheckoutLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutLink, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]models.CheckoutLink, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Deactivate(ctx context.Context, id uuid.UUID, merchantID string) error
	GetSettings(ctx context.Context, merchantID string) (*models.MerchantSettings, error)
	UpsertSettings(ctx context.Context, settings *models.MerchantSettings) error
}

// LinkRepository handles database operations for checkout links
type LinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates a new LinkRepository
func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new checkout link. Returns ErrDuplicate when the slug is
// already taken; slugs are globally unique across merchants.
func (r *LinkRepository) Create(ctx context.Context, link *models.CheckoutLink) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetBySlug retrieves a checkout link by its public slug
func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*models.CheckoutLink, error) {
	var link models.CheckoutLink
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// GetByID retrieves a checkout link by ID
func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutLink, error) {
	var link models.CheckoutLink
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListByMerchant lists all checkout links owned by a merchant
func (r *LinkRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.CheckoutLink, error) {
	var links []models.CheckoutLink
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}

// SlugExists reports whether any link already uses the slug
func (r *LinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CheckoutLink{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Deactivate soft-deactivates a link owned by the merchant. The row is kept
// so historical payments can still resolve their link.
func (r *LinkRepository) Deactivate(ctx context.Context, id uuid.UUID, merchantID string) error {
	result := r.db.WithContext(ctx).Model(&models.CheckoutLink{}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Updates(map[string]interface{}{
			"status":     models.LinkInactive,
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings retrieves a merchant's settings
func (r *LinkRepository) GetSettings(ctx context.Context, merchantID string) (*models.MerchantSettings, error) {
	var settings models.MerchantSettings
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// UpsertSettings creates or updates a merchant's settings in one statement
// keyed on merchant_id, so concurrent PUTs cannot race into a duplicate key
func (r *LinkRepository) UpsertSettings(ctx context.Context, settings *models.MerchantSettings) error {
	settings.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "merchant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"business_name", "support_email", "logo_url", "updated_at"}),
		}).
		Create(settings).Error
}
