package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"checkout-service/internal/countries"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// MethodService handles the merchant-facing payment method lifecycle
type MethodService struct {
	methods repository.MethodRepositoryInterface
	logger  *logrus.Logger
}

// NewMethodService creates a new method service
func NewMethodService(methods repository.MethodRepositoryInterface, logger *logrus.Logger) *MethodService {
	return &MethodService{methods: methods, logger: logger}
}

// CreateMethod creates a payment method for the merchant. Overrides may only
// target countries the method is offered in.
func (s *MethodService) CreateMethod(ctx context.Context, merchantID string, req *models.CreateMethodRequest) (*models.PaymentMethod, error) {
	if req.Name == "" {
		return nil, models.NewServiceError(models.ErrCodeInvalidInput, "name is required")
	}
	if len(req.Countries) == 0 {
		return nil, models.NewServiceError(models.ErrCodeInvalidInput, "at least one country is required")
	}
	for _, code := range req.Countries {
		if !countries.IsValid(code) {
			return nil, models.NewServiceError(models.ErrCodeInvalidCountry, "unknown country code: "+code)
		}
	}

	supported := make(map[string]bool, len(req.Countries))
	for _, code := range req.Countries {
		supported[code] = true
	}
	for code := range req.CountrySpecificDetails {
		if !supported[code] {
			return nil, models.NewServiceError(models.ErrCodeInvalidInput, "override targets unsupported country: "+code)
		}
	}

	methodType := req.Type
	if methodType == "" {
		methodType = models.MethodManual
	}
	status := req.Status
	if status == "" {
		status = models.MethodActive
	}

	method := &models.PaymentMethod{
		MerchantID:              merchantID,
		Name:                    req.Name,
		Type:                    methodType,
		Status:                  status,
		Countries:               req.Countries,
		Instructions:            req.Instructions,
		InstructionsForCheckout: req.InstructionsForCheckout,
		CustomFields:            req.CustomFields,
		CountrySpecificDetails:  req.CountrySpecificDetails,
		DisplayOrder:            req.DisplayOrder,
	}

	if err := s.methods.Create(ctx, method); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"method_id":   method.ID,
		"name":        method.Name,
	}).Info("Payment method created")

	return method, nil
}

// ListMethods lists all of the merchant's payment methods
func (s *MethodService) ListMethods(ctx context.Context, merchantID string) ([]models.PaymentMethod, error) {
	return s.methods.ListByMerchant(ctx, merchantID)
}

// UpdateStatus changes a method's status for the owning merchant
func (s *MethodService) UpdateStatus(ctx context.Context, merchantID string, methodID uuid.UUID, status models.MethodStatus) error {
	switch status {
	case models.MethodActive, models.MethodPending, models.MethodInactive:
	default:
		return models.NewServiceError(models.ErrCodeInvalidInput, "invalid method status")
	}

	err := s.methods.UpdateStatus(ctx, methodID, merchantID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewServiceError(models.ErrCodeMethodNotEligible, "payment method not found")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"method_id":   methodID,
		"status":      status,
	}).Info("Payment method status updated")
	return nil
}
