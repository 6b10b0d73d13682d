package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"checkout-service/internal/countries"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// CheckoutService handles checkout link resolution, validation and the
// merchant-facing link lifecycle
type CheckoutService struct {
	links  repository.LinkRepositoryInterface
	logger *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(links repository.LinkRepositoryInterface, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{links: links, logger: logger}
}

// ResolveLink resolves a public slug to its checkout link. Resolution does
// not care whether the link is usable; validation does.
func (s *CheckoutService) ResolveLink(ctx context.Context, slug string) (*models.CheckoutLink, error) {
	link, err := s.links.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewServiceError(models.ErrCodeLinkNotFound, "checkout link not found")
		}
		return nil, err
	}
	return link, nil
}

// Validate resolves a slug and checks whether the link can accept payments
// right now. Rules run in a fixed order so a link that is both deactivated
// and expired always reports the same error: existence, then active status,
// then expiry.
func (s *CheckoutService) Validate(ctx context.Context, slug string) (*models.CheckoutLink, error) {
	link, err := s.ResolveLink(ctx, slug)
	if err != nil {
		return nil, err
	}

	if link.Status != models.LinkActive || !link.IsActive {
		return nil, models.NewServiceError(models.ErrCodeLinkInactive, "checkout link is not active")
	}

	if link.ExpiresAt != nil && !link.ExpiresAt.After(time.Now()) {
		return nil, models.NewServiceError(models.ErrCodeLinkExpired, "checkout link has expired")
	}

	return link, nil
}

// MerchantSettings returns the owning merchant's settings for display on
// the checkout page; absence is not an error
func (s *CheckoutService) MerchantSettings(ctx context.Context, merchantID string) *models.MerchantSettings {
	settings, err := s.links.GetSettings(ctx, merchantID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WithError(err).WithField("merchant_id", merchantID).Warn("Failed to load merchant settings")
		}
		return nil
	}
	return settings
}

// ListCountries returns the countries a validated link accepts, in catalogue
// display order. An empty restriction list means the whole catalogue.
func (s *CheckoutService) ListCountries(ctx context.Context, slug string) ([]countries.Country, error) {
	link, err := s.Validate(ctx, slug)
	if err != nil {
		return nil, err
	}
	return eligibleCountries(link), nil
}

// eligibleCountries intersects the link's restriction list with the
// catalogue, preserving catalogue order and dropping unknown codes
func eligibleCountries(link *models.CheckoutLink) []countries.Country {
	if len(link.ActiveCountryCodes) == 0 {
		return countries.All()
	}

	allowed := make(map[string]bool, len(link.ActiveCountryCodes))
	for _, code := range link.ActiveCountryCodes {
		allowed[code] = true
	}

	var result []countries.Country
	for _, c := range countries.All() {
		if allowed[c.Code] {
			result = append(result, c)
		}
	}
	return result
}

// ValidateForCountry validates the link and then checks that it accepts the
// country. The country gate comes first on every country-scoped read so a
// rejected country never learns anything else about the checkout.
func (s *CheckoutService) ValidateForCountry(ctx context.Context, slug, country string) (*models.CheckoutLink, error) {
	link, err := s.Validate(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !linkAcceptsCountry(link, country) {
		return nil, models.NewServiceError(models.ErrCodeInvalidCountry, "country is not supported for this checkout")
	}
	return link, nil
}

// linkAcceptsCountry reports whether a validated link accepts the country
func linkAcceptsCountry(link *models.CheckoutLink, code string) bool {
	if !countries.IsValid(code) {
		return false
	}
	if len(link.ActiveCountryCodes) == 0 {
		return true
	}
	for _, c := range link.ActiveCountryCodes {
		if c == code {
			return true
		}
	}
	return false
}

// CreateLink creates a checkout link for the merchant. Slugs are claimed
// globally; a taken slug fails with DUPLICATE_SLUG regardless of owner.
func (s *CheckoutService) CreateLink(ctx context.Context, merchantID string, req *models.CreateLinkRequest) (*models.CheckoutLink, error) {
	if req.Slug == "" || req.Title == "" {
		return nil, models.NewServiceError(models.ErrCodeInvalidInput, "slug and title are required")
	}
	if req.Amount <= 0 {
		return nil, models.NewServiceError(models.ErrCodeInvalidAmount, "amount must be greater than zero")
	}
	for _, code := range req.ActiveCountryCodes {
		if !countries.IsValid(code) {
			return nil, models.NewServiceError(models.ErrCodeInvalidCountry, "unknown country code: "+code)
		}
	}

	// Friendly pre-check; the unique index on slug stays authoritative for
	// two creates racing past it
	if taken, err := s.links.SlugExists(ctx, req.Slug); err == nil && taken {
		return nil, models.NewServiceError(models.ErrCodeDuplicateSlug, "slug is already in use")
	}

	status := req.Status
	if status == "" {
		status = models.LinkActive
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	link := &models.CheckoutLink{
		MerchantID:         merchantID,
		Slug:               req.Slug,
		Title:              req.Title,
		Amount:             req.Amount,
		Currency:           currency,
		Status:             status,
		IsActive:           true,
		ActiveCountryCodes: req.ActiveCountryCodes,
		ExpiresAt:          req.ExpiresAt,
		Heading:            req.Heading,
		LogoURL:            req.LogoURL,
		ReviewMessage:      req.ReviewMessage,
	}

	if err := s.links.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewServiceError(models.ErrCodeDuplicateSlug, "slug is already in use")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"slug":        link.Slug,
		"link_id":     link.ID,
	}).Info("Checkout link created")

	return link, nil
}

// ListLinks lists the merchant's checkout links
func (s *CheckoutService) ListLinks(ctx context.Context, merchantID string) ([]models.CheckoutLink, error) {
	return s.links.ListByMerchant(ctx, merchantID)
}

// GetLink returns one of the merchant's links by ID
func (s *CheckoutService) GetLink(ctx context.Context, merchantID string, id uuid.UUID) (*models.CheckoutLink, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewServiceError(models.ErrCodeLinkNotFound, "checkout link not found")
		}
		return nil, err
	}
	if link.MerchantID != merchantID {
		return nil, models.NewServiceError(models.ErrCodeLinkNotFound, "checkout link not found")
	}
	return link, nil
}

// DeactivateLink soft-deactivates one of the merchant's links. The slug
// stays claimed and historical payments keep resolving.
func (s *CheckoutService) DeactivateLink(ctx context.Context, merchantID string, id uuid.UUID) error {
	err := s.links.Deactivate(ctx, id, merchantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewServiceError(models.ErrCodeLinkNotFound, "checkout link not found")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"link_id":     id,
	}).Info("Checkout link deactivated")

	return nil
}

// UpsertSettings creates or replaces the merchant's settings
func (s *CheckoutService) UpsertSettings(ctx context.Context, merchantID string, req *models.UpdateSettingsRequest) (*models.MerchantSettings, error) {
	settings := &models.MerchantSettings{
		MerchantID:   merchantID,
		BusinessName: req.BusinessName,
		SupportEmail: req.SupportEmail,
		LogoURL:      req.LogoURL,
	}
	if err := s.links.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
