package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

func pendingPayment(merchantID string) *models.Payment {
	return &models.Payment{
		ID:            uuid.New(),
		MerchantID:    merchantID,
		CustomerName:  "Ada Obi",
		CustomerEmail: "ada@example.com",
		Amount:        250.00,
		Currency:      "USD",
		Status:        models.PaymentPendingVerification,
	}
}

func TestVerify_MerchantCompletesPayment(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	actor := models.Actor{ID: "merchant-1", Role: "merchant"}

	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	payments.On("TransitionStatus", mock.Anything, payment.ID,
		models.PaymentPendingVerification, models.PaymentCompleted, "merchant-1", mock.Anything).
		Return(int64(1), nil)
	dispatcher.On("PaymentVerified", mock.Anything).Return()

	got, err := svc.Verify(context.Background(), actor, payment.ID, "completed")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, got.Status)
	assert.Equal(t, "merchant-1", got.VerifiedBy)
	assert.NotNil(t, got.VerifiedAt)
	dispatcher.AssertCalled(t, "PaymentVerified", mock.Anything)
}

func TestVerify_RejectDecision(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	actor := models.Actor{ID: "merchant-1", Role: "merchant"}

	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	payments.On("TransitionStatus", mock.Anything, payment.ID,
		models.PaymentPendingVerification, models.PaymentFailed, "merchant-1", mock.Anything).
		Return(int64(1), nil)
	dispatcher.On("PaymentVerified", mock.Anything).Return()

	got, err := svc.Verify(context.Background(), actor, payment.ID, "failed")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got.Status)
}

func TestVerify_InvalidDecision(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	actor := models.Actor{ID: "merchant-1", Role: "merchant"}

	_, err := svc.Verify(context.Background(), actor, uuid.New(), "maybe")

	assert.True(t, models.IsCode(err, models.ErrCodeInvalidInput))
	payments.AssertNotCalled(t, "GetByID")
}

func TestVerify_OtherMerchantForbidden(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	actor := models.Actor{ID: "merchant-2", Role: "merchant"}

	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)

	_, err := svc.Verify(context.Background(), actor, payment.ID, "completed")

	assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))
	payments.AssertNotCalled(t, "TransitionStatus")
}

func TestVerify_SuperAdminAllowed(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	actor := models.Actor{ID: "admin-9", Role: models.RoleSuperAdmin}

	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	payments.On("TransitionStatus", mock.Anything, payment.ID,
		models.PaymentPendingVerification, models.PaymentCompleted, "admin-9", mock.Anything).
		Return(int64(1), nil)
	dispatcher.On("PaymentVerified", mock.Anything).Return()

	got, err := svc.Verify(context.Background(), actor, payment.ID, "completed")

	assert.NoError(t, err)
	assert.Equal(t, "admin-9", got.VerifiedBy)
}

func TestVerify_SecondDecisionLosesRace(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	actor := models.Actor{ID: "merchant-1", Role: "merchant"}

	// The compare-and-swap matches zero rows; the re-read shows the
	// payment already settled
	settled := *payment
	settled.Status = models.PaymentCompleted

	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil).Once()
	payments.On("TransitionStatus", mock.Anything, payment.ID,
		models.PaymentPendingVerification, models.PaymentFailed, "merchant-1", mock.Anything).
		Return(int64(0), nil)
	payments.On("GetByID", mock.Anything, payment.ID).Return(&settled, nil).Once()

	_, err := svc.Verify(context.Background(), actor, payment.ID, "failed")

	assert.True(t, models.IsCode(err, models.ErrCodeAlreadyVerified))
	dispatcher.AssertNotCalled(t, "PaymentVerified")
}

func TestVerify_PaymentNotFound(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	actor := models.Actor{ID: "merchant-1", Role: "merchant"}
	id := uuid.New()

	payments.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	_, err := svc.Verify(context.Background(), actor, id, "completed")

	assert.True(t, models.IsCode(err, models.ErrCodePaymentNotFound))
}

func TestGetPayment_OwnerAndAdminOnly(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payment := pendingPayment("merchant-1")
	payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)

	_, err := svc.GetPayment(context.Background(), models.Actor{ID: "merchant-1", Role: "merchant"}, payment.ID)
	assert.NoError(t, err)

	_, err = svc.GetPayment(context.Background(), models.Actor{ID: "intruder", Role: "merchant"}, payment.ID)
	assert.True(t, models.IsCode(err, models.ErrCodeUnauthorized))

	_, err = svc.GetPayment(context.Background(), models.Actor{ID: "admin", Role: models.RoleSuperAdmin}, payment.ID)
	assert.NoError(t, err)
}

func TestListPayments_ClampsPaging(t *testing.T) {
	payments := new(MockPaymentRepository)
	dispatcher := new(MockDispatcher)
	svc := NewVerificationService(payments, dispatcher, testLogger())

	payments.On("ListByMerchant", mock.Anything, "merchant-1", models.PaymentStatus(""), 50, 0).
		Return([]models.Payment{}, int64(0), nil)

	_, _, err := svc.ListPayments(context.Background(), "merchant-1", "", 9999, -5)

	assert.NoError(t, err)
	payments.AssertExpectations(t)
}
