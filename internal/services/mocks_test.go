package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"
	"checkout-service/internal/storage"
)

// MockLinkRepository is a mock implementation of LinkRepositoryInterface
type MockLinkRepository struct {
	mock.Mock
}

var _ repository.LinkRepositoryInterface = (*MockLinkRepository)(nil)

func (m *MockLinkRepository) Create(ctx context.Context, link *models.CheckoutLink) error {
	args := m.Called(ctx, link)
	if args.Error(0) == nil && link.ID == uuid.Nil {
		link.ID = uuid.New()
		link.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.CheckoutLink, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutLink), args.Error(1)
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutLink), args.Error(1)
}

func (m *MockLinkRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.CheckoutLink, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).([]models.CheckoutLink), args.Error(1)
}

func (m *MockLinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockLinkRepository) Deactivate(ctx context.Context, id uuid.UUID, merchantID string) error {
	args := m.Called(ctx, id, merchantID)
	return args.Error(0)
}

func (m *MockLinkRepository) GetSettings(ctx context.Context, merchantID string) (*models.MerchantSettings, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MerchantSettings), args.Error(1)
}

func (m *MockLinkRepository) UpsertSettings(ctx context.Context, settings *models.MerchantSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockMethodRepository is a mock implementation of MethodRepositoryInterface
type MockMethodRepository struct {
	mock.Mock
}

var _ repository.MethodRepositoryInterface = (*MockMethodRepository)(nil)

func (m *MockMethodRepository) Create(ctx context.Context, method *models.PaymentMethod) error {
	args := m.Called(ctx, method)
	if args.Error(0) == nil && method.ID == uuid.Nil {
		method.ID = uuid.New()
		method.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepository) ListByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepository) ListActiveByMerchant(ctx context.Context, merchantID string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).([]models.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepository) UpdateStatus(ctx context.Context, id uuid.UUID, merchantID string, status models.MethodStatus) error {
	args := m.Called(ctx, id, merchantID, status)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepositoryInterface
type MockPaymentRepository struct {
	mock.Mock
}

var _ repository.PaymentRepositoryInterface = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	if args.Error(0) == nil && payment.ID == uuid.Nil {
		payment.ID = uuid.New()
		payment.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, merchantID, key string) (*models.Payment, error) {
	args := m.Called(ctx, merchantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByMerchant(ctx context.Context, merchantID string, status models.PaymentStatus, limit, offset int) ([]models.Payment, int64, error) {
	args := m.Called(ctx, merchantID, status, limit, offset)
	return args.Get(0).([]models.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, verifiedBy string, verifiedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, from, to, verifiedBy, verifiedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepositoryInterface
type MockNotificationRepository struct {
	mock.Mock
}

var _ repository.NotificationRepositoryInterface = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockProofStore is a mock implementation of storage.ProofStore
type MockProofStore struct {
	mock.Mock
}

var _ storage.ProofStore = (*MockProofStore)(nil)

func (m *MockProofStore) Upload(ctx context.Context, upload storage.ProofUpload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

var _ Dispatcher = (*MockDispatcher)(nil)

func (m *MockDispatcher) PaymentSubmitted(payment *models.Payment, link *models.CheckoutLink) {
	m.Called(payment, link)
}

func (m *MockDispatcher) PaymentVerified(payment *models.Payment) {
	m.Called(payment)
}

// MockClaimer is a mock implementation of IdempotencyClaimer
type MockClaimer struct {
	mock.Mock
}

var _ IdempotencyClaimer = (*MockClaimer)(nil)

func (m *MockClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimer) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// testLogger returns a silent logger for tests
func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
