package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
	"checkout-service/internal/storage"
)

const (
	maxProofSize   = 10 << 20 // 10MB
	uploadTimeout  = 30 * time.Second
	claimTTL       = 15 * time.Minute
	insertAttempts = 3
)

// SubmitInput carries everything a customer provides on the checkout page
type SubmitInput struct {
	Slug          string
	CustomerName  string
	CustomerEmail string
	Country       string
	MethodID      uuid.UUID
	Amount        float64

	ProofFilename    string
	ProofContentType string
	ProofData        []byte

	// Optional client-supplied key; derived from the submission when absent
	IdempotencyKey string
}

// SubmissionService accepts customer payment submissions. A submission is
// accepted at most once per idempotency key no matter how many times the
// customer retries.
type SubmissionService struct {
	checkout   *CheckoutService
	resolver   *MethodResolver
	methods    repository.MethodRepositoryInterface
	payments   repository.PaymentRepositoryInterface
	store      storage.ProofStore
	claimer    IdempotencyClaimer
	dispatcher Dispatcher
	logger     *logrus.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	checkout *CheckoutService,
	resolver *MethodResolver,
	methods repository.MethodRepositoryInterface,
	payments repository.PaymentRepositoryInterface,
	store storage.ProofStore,
	claimer IdempotencyClaimer,
	dispatcher Dispatcher,
	logger *logrus.Logger,
) *SubmissionService {
	return &SubmissionService{
		checkout:   checkout,
		resolver:   resolver,
		methods:    methods,
		payments:   payments,
		store:      store,
		claimer:    claimer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Submit validates and records a payment submission. The returned bool is
// true when the submission was a replay and an existing payment is returned
// instead of a new one.
func (s *SubmissionService) Submit(ctx context.Context, input *SubmitInput) (*models.Payment, bool, error) {
	// Country is checked before the method so a bad country never leaks
	// which methods exist
	link, err := s.checkout.ValidateForCountry(ctx, input.Slug, input.Country)
	if err != nil {
		return nil, false, err
	}

	method, err := s.methods.GetByID(ctx, input.MethodID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, models.NewServiceError(models.ErrCodeMethodNotEligible, "payment method is not available for this checkout")
		}
		return nil, false, err
	}
	if _, err := s.resolver.ResolveOne(ctx, link.MerchantID, input.Country, method); err != nil {
		return nil, false, err
	}

	if input.Amount <= 0 || input.Amount != link.Amount {
		return nil, false, models.NewServiceError(models.ErrCodeInvalidAmount, "amount does not match the checkout link")
	}
	if input.CustomerName == "" || input.CustomerEmail == "" {
		return nil, false, models.NewServiceError(models.ErrCodeInvalidInput, "customer name and email are required")
	}

	if err := validateProof(input); err != nil {
		return nil, false, err
	}

	key := input.IdempotencyKey
	if key == "" {
		key = deriveIdempotencyKey(input)
	}

	// Fast replay path: the original submission already went through
	if existing, err := s.payments.GetByIdempotencyKey(ctx, link.MerchantID, key); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	// Best-effort claim so two concurrent retries do not both pay for an
	// upload; a Redis outage degrades to the DB unique index
	heldClaim := ""
	if s.claimer != nil {
		claimKey := fmt.Sprintf("checkout:idem:%s:%s", link.MerchantID, key)
		claimed, err := s.claimer.Claim(ctx, claimKey, claimTTL)
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Idempotency claim failed, relying on unique index")
		case !claimed:
			if existing, err := s.payments.GetByIdempotencyKey(ctx, link.MerchantID, key); err == nil {
				return existing, true, nil
			}
			return nil, false, models.NewRetryableError(models.ErrCodeDuplicateSubmission, "a matching submission is already in progress")
		default:
			heldClaim = claimKey
		}
	}

	proofURL, err := s.uploadProof(ctx, link.MerchantID, input)
	if err != nil {
		// The error invites a retry; the claim must not block it
		s.releaseClaim(heldClaim)
		return nil, false, err
	}

	payment := &models.Payment{
		CheckoutLinkID: link.ID,
		MerchantID:     link.MerchantID,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		Amount:         input.Amount,
		Currency:       link.Currency,
		Country:        input.Country,
		MethodID:       method.ID,
		MethodName:     method.Name,
		ProofURL:       proofURL,
		IdempotencyKey: key,
		Status:         models.PaymentPendingVerification,
	}

	replayed, err := s.insertPayment(ctx, link.MerchantID, key, payment)
	if err != nil {
		s.releaseClaim(heldClaim)
		return nil, false, err
	}
	if replayed != nil {
		return replayed, true, nil
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":  payment.ID,
		"merchant_id": link.MerchantID,
		"slug":        link.Slug,
		"country":     input.Country,
	}).Info("Payment submitted")

	s.dispatcher.PaymentSubmitted(payment, link)

	return payment, false, nil
}

// releaseClaim frees a held claim after a failed submission so the customer
// can retry immediately instead of waiting out the TTL. The request context
// may already be done, so the delete gets its own deadline.
func (s *SubmissionService) releaseClaim(key string) {
	if s.claimer == nil || key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.claimer.Release(ctx, key); err != nil {
		s.logger.WithError(err).Warn("Failed to release idempotency claim")
	}
}

// validateProof checks the proof file before any storage work happens
func validateProof(input *SubmitInput) error {
	if len(input.ProofData) == 0 {
		return models.NewServiceError(models.ErrCodeInvalidInput, "proof of payment is required")
	}
	if len(input.ProofData) > maxProofSize {
		return models.NewServiceError(models.ErrCodeFileTooLarge, "proof file exceeds the 10MB limit")
	}
	contentType := strings.ToLower(input.ProofContentType)
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "application/pdf") {
		return models.NewServiceError(models.ErrCodeUnsupportedFileType, "proof must be an image or a PDF")
	}
	return nil
}

// deriveIdempotencyKey fingerprints the submission so an identical retry
// maps to the same payment even without a client-supplied key
func deriveIdempotencyKey(input *SubmitInput) string {
	proofSum := sha256.Sum256(input.ProofData)
	material := fmt.Sprintf("%s|%s|%.2f|%s|%s",
		input.Slug,
		strings.ToLower(input.CustomerEmail),
		input.Amount,
		input.Country,
		hex.EncodeToString(proofSum[:]),
	)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

func (s *SubmissionService) uploadProof(ctx context.Context, merchantID string, input *SubmitInput) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	url, err := s.store.Upload(uploadCtx, storage.ProofUpload{
		MerchantID:  merchantID,
		Filename:    input.ProofFilename,
		ContentType: input.ProofContentType,
		Data:        input.ProofData,
	})
	if err != nil {
		if errors.Is(err, storage.ErrTimeout) {
			return "", models.NewRetryableError(models.ErrCodeUploadTimeout, "proof upload timed out, please try again")
		}
		s.logger.WithError(err).WithField("merchant_id", merchantID).Error("Proof upload failed")
		return "", models.NewRetryableError(models.ErrCodeStorageError, "proof could not be stored, please try again")
	}
	return url, nil
}

// insertPayment creates the payment row, retrying transient failures with
// backoff. A duplicate key means a concurrent retry won the race; its
// payment is returned instead.
func (s *SubmissionService) insertPayment(ctx context.Context, merchantID, key string, payment *models.Payment) (*models.Payment, error) {
	var lastErr error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		err := s.payments.Create(ctx, payment)
		if err == nil {
			return nil, nil
		}
		if errors.Is(err, repository.ErrDuplicate) {
			existing, lookupErr := s.payments.GetByIdempotencyKey(ctx, merchantID, key)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return existing, nil
		}

		lastErr = err
		s.logger.WithError(err).WithField("attempt", attempt).Warn("Payment insert failed")
		if attempt < insertAttempts {
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
