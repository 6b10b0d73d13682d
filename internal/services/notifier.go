package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"checkout-service/internal/clients"
	"checkout-service/internal/models"
	"checkout-service/internal/repository"
)

// Dispatcher fans out the side effects of payment lifecycle events.
// Dispatch never blocks the calling request and its failures never fail the
// payment operation that triggered it.
type Dispatcher interface {
	PaymentSubmitted(payment *models.Payment, link *models.CheckoutLink)
	PaymentVerified(payment *models.Payment)
}

// Notifier delivers emails through notification-service and writes in-app
// notification rows for merchants
type Notifier struct {
	notifications repository.NotificationRepositoryInterface
	links         repository.LinkRepositoryInterface
	email         *clients.NotificationClient
	dashboardURL  string
	logger        *logrus.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(notifications repository.NotificationRepositoryInterface, links repository.LinkRepositoryInterface, email *clients.NotificationClient, dashboardURL string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		notifications: notifications,
		links:         links,
		email:         email,
		dashboardURL:  dashboardURL,
		logger:        logger,
	}
}

// PaymentSubmitted notifies the customer and the merchant that a proof was
// received. Runs in the background; the submission response does not wait.
func (n *Notifier) PaymentSubmitted(payment *models.Payment, link *models.CheckoutLink) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n.deliverSubmitted(ctx, payment, link)
	}()
}

// PaymentVerified notifies the customer of the verification outcome.
// Runs in the background; verification is already committed.
func (n *Notifier) PaymentVerified(payment *models.Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n.deliverVerified(ctx, payment)
	}()
}

func (n *Notifier) deliverSubmitted(ctx context.Context, payment *models.Payment, link *models.CheckoutLink) {
	email := n.buildEmail(ctx, payment)
	email.CheckoutTitle = link.Title

	if err := n.email.SendSubmissionReceivedEmail(ctx, email); err != nil {
		n.logger.WithError(err).WithField("payment_id", payment.ID).Warn("Customer submission email failed")
	}
	if err := n.email.SendMerchantSubmissionEmail(ctx, email); err != nil {
		n.logger.WithError(err).WithField("payment_id", payment.ID).Warn("Merchant submission email failed")
	}

	notification := &models.Notification{
		UserID:  payment.MerchantID,
		Title:   "New payment pending verification",
		Message: fmt.Sprintf("%s submitted a payment of %.2f %s for %s", payment.CustomerName, payment.Amount, payment.Currency, link.Title),
		Type:    models.NotificationPaymentReceived,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.WithError(err).WithField("payment_id", payment.ID).Warn("Failed to create merchant notification")
	}
}

func (n *Notifier) deliverVerified(ctx context.Context, payment *models.Payment) {
	email := n.buildEmail(ctx, payment)

	if err := n.email.SendVerificationResultEmail(ctx, email, payment.Status); err != nil {
		n.logger.WithError(err).WithField("payment_id", payment.ID).Warn("Verification result email failed")
	}

	notificationType := models.NotificationPaymentCompleted
	title := "Payment verified"
	if payment.Status == models.PaymentFailed {
		notificationType = models.NotificationPaymentFailed
		title = "Payment rejected"
	}

	notification := &models.Notification{
		UserID:  payment.MerchantID,
		Title:   title,
		Message: "Payment from " + payment.CustomerName + " was marked " + string(payment.Status),
		Type:    notificationType,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.WithError(err).WithField("payment_id", payment.ID).Warn("Failed to create merchant notification")
	}
}

func (n *Notifier) buildEmail(ctx context.Context, payment *models.Payment) *clients.PaymentEmail {
	email := &clients.PaymentEmail{
		MerchantID:    payment.MerchantID,
		PaymentID:     payment.ID.String(),
		CustomerEmail: payment.CustomerEmail,
		CustomerName:  payment.CustomerName,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		MethodName:    payment.MethodName,
		DashboardURL:  n.dashboardURL,
		SubmittedAt:   payment.CreatedAt,
	}

	settings, err := n.links.GetSettings(ctx, payment.MerchantID)
	if err == nil {
		email.BusinessName = settings.BusinessName
		email.MerchantEmail = settings.SupportEmail
	}

	return email
}
