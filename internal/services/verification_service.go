package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// VerificationService applies merchant verification decisions to pending
// payments. A payment transitions out of pending exactly once; concurrent
// decisions race on a compare-and-swap and the loser gets ALREADY_VERIFIED.
type VerificationService struct {
	payments   repository.PaymentRepositoryInterface
	dispatcher Dispatcher
	logger     *logrus.Logger
}

// NewVerificationService creates a new verification service
func NewVerificationService(payments repository.PaymentRepositoryInterface, dispatcher Dispatcher, logger *logrus.Logger) *VerificationService {
	return &VerificationService{payments: payments, dispatcher: dispatcher, logger: logger}
}

// Verify records the actor's decision on a pending payment
func (s *VerificationService) Verify(ctx context.Context, actor models.Actor, paymentID uuid.UUID, decision string) (*models.Payment, error) {
	var target models.PaymentStatus
	switch decision {
	case "completed", "approve":
		target = models.PaymentCompleted
	case "failed", "reject":
		target = models.PaymentFailed
	default:
		return nil, models.NewServiceError(models.ErrCodeInvalidInput, "decision must be completed or failed")
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewServiceError(models.ErrCodePaymentNotFound, "payment not found")
		}
		return nil, err
	}

	if actor.Role != models.RoleSuperAdmin && actor.ID != payment.MerchantID {
		return nil, models.NewServiceError(models.ErrCodeUnauthorized, "not allowed to verify this payment")
	}

	now := time.Now()
	affected, err := s.payments.TransitionStatus(ctx, paymentID, models.PaymentPendingVerification, target, actor.ID, now)
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		// The swap can lose either because the payment vanished or because
		// another decision landed first; re-read to tell them apart
		current, err := s.payments.GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, models.NewServiceError(models.ErrCodePaymentNotFound, "payment not found")
			}
			return nil, err
		}
		return nil, models.NewServiceError(models.ErrCodeAlreadyVerified, "payment is already "+string(current.Status))
	}

	payment.Status = target
	payment.VerifiedAt = &now
	payment.VerifiedBy = actor.ID

	s.logger.WithFields(logrus.Fields{
		"payment_id":  payment.ID,
		"merchant_id": payment.MerchantID,
		"status":      payment.Status,
		"verified_by": actor.ID,
	}).Info("Payment verified")

	s.dispatcher.PaymentVerified(payment)

	return payment, nil
}

// GetPayment returns a payment the actor is allowed to see
func (s *VerificationService) GetPayment(ctx context.Context, actor models.Actor, paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewServiceError(models.ErrCodePaymentNotFound, "payment not found")
		}
		return nil, err
	}
	if actor.Role != models.RoleSuperAdmin && actor.ID != payment.MerchantID {
		return nil, models.NewServiceError(models.ErrCodeUnauthorized, "not allowed to view this payment")
	}
	return payment, nil
}

// ListPayments lists the merchant's payments with an optional status filter
func (s *VerificationService) ListPayments(ctx context.Context, merchantID string, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.payments.ListByMerchant(ctx, merchantID, status, limit, offset)
}
