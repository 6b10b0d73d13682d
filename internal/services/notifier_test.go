package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"checkout-service/internal/clients"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

func newNotifierFixture(t *testing.T) (*Notifier, *MockNotificationRepository, *MockLinkRepository) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	notifications := new(MockNotificationRepository)
	links := new(MockLinkRepository)
	email := clients.NewNotificationClient(srv.URL)
	return NewNotifier(notifications, links, email, "https://dashboard.example.com", testLogger()), notifications, links
}

func TestDeliverSubmitted_MerchantNotificationMessage(t *testing.T) {
	n, notifications, links := newNotifierFixture(t)

	link := activeLink("pay-me")
	payment := pendingPayment(link.MerchantID)

	links.On("GetSettings", mock.Anything, link.MerchantID).Return(nil, repository.ErrNotFound)

	var captured *models.Notification
	notifications.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.Notification)
	}).Return(nil)

	n.deliverSubmitted(context.Background(), payment, link)

	assert.NotNil(t, captured)
	assert.Equal(t, link.MerchantID, captured.UserID)
	assert.Equal(t, models.NotificationPaymentReceived, captured.Type)
	assert.Equal(t, "Ada Obi submitted a payment of 250.00 USD for Consulting Invoice", captured.Message)
}

func TestDeliverVerified_RejectedNotification(t *testing.T) {
	n, notifications, links := newNotifierFixture(t)

	payment := pendingPayment("merchant-1")
	payment.Status = models.PaymentFailed

	links.On("GetSettings", mock.Anything, "merchant-1").Return(nil, repository.ErrNotFound)

	var captured *models.Notification
	notifications.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.Notification)
	}).Return(nil)

	n.deliverVerified(context.Background(), payment)

	assert.NotNil(t, captured)
	assert.Equal(t, models.NotificationPaymentFailed, captured.Type)
	assert.Equal(t, "Payment rejected", captured.Title)
}
