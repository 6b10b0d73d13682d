package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"checkout-service/internal/models"
)

// NotificationClient sends emails via the notification-service API
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient(baseURL string) *NotificationClient {
	if baseURL == "" {
		baseURL = "http://notification-service.devtest.svc.cluster.local:8090"
	}

	return &NotificationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendNotificationRequest represents the API request to notification-service
type SendNotificationRequest struct {
	Channel        string                 `json:"channel"`
	RecipientEmail string                 `json:"recipientEmail"`
	Subject        string                 `json:"subject"`
	TemplateName   string                 `json:"templateName,omitempty"`
	Variables      map[string]interface{} `json:"variables,omitempty"`
}

// PaymentEmail carries the details rendered into payment email templates
type PaymentEmail struct {
	MerchantID    string
	PaymentID     string
	CustomerEmail string
	CustomerName  string
	MerchantEmail string
	BusinessName  string
	Amount        float64
	Currency      string
	MethodName    string
	CheckoutTitle string
	DashboardURL  string
	SubmittedAt   time.Time
}

// SendSubmissionReceivedEmail confirms to the customer that their payment
// proof was received and is awaiting verification
func (c *NotificationClient) SendSubmissionReceivedEmail(ctx context.Context, email *PaymentEmail) error {
	if email.CustomerEmail == "" {
		log.Printf("[NotificationClient] No customer email for payment %s, skipping notification", email.PaymentID)
		return nil
	}

	req := SendNotificationRequest{
		Channel:        "EMAIL",
		RecipientEmail: email.CustomerEmail,
		Subject:        fmt.Sprintf("Payment Received - %s %.2f", email.Currency, email.Amount),
		TemplateName:   "checkout-payment-received",
		Variables: map[string]interface{}{
			"paymentId":     email.PaymentID,
			"customerName":  email.CustomerName,
			"amount":        fmt.Sprintf("%.2f", email.Amount),
			"currency":      email.Currency,
			"methodName":    email.MethodName,
			"checkoutTitle": email.CheckoutTitle,
			"businessName":  email.BusinessName,
			"submittedAt":   email.SubmittedAt.Format("January 2, 2006 at 3:04 PM"),
		},
	}

	if err := c.send(ctx, email.MerchantID, req); err != nil {
		log.Printf("[NotificationClient] Failed to send submission received email: %v", err)
		return err
	}

	return nil
}

// SendMerchantSubmissionEmail tells the merchant a new payment needs
// verification
func (c *NotificationClient) SendMerchantSubmissionEmail(ctx context.Context, email *PaymentEmail) error {
	if email.MerchantEmail == "" {
		log.Printf("[NotificationClient] No merchant email for payment %s, skipping notification", email.PaymentID)
		return nil
	}

	req := SendNotificationRequest{
		Channel:        "EMAIL",
		RecipientEmail: email.MerchantEmail,
		Subject:        fmt.Sprintf("New Payment Pending Verification - %s %.2f", email.Currency, email.Amount),
		TemplateName:   "checkout-merchant-pending",
		Variables: map[string]interface{}{
			"paymentId":     email.PaymentID,
			"customerName":  email.CustomerName,
			"customerEmail": email.CustomerEmail,
			"amount":        fmt.Sprintf("%.2f", email.Amount),
			"currency":      email.Currency,
			"methodName":    email.MethodName,
			"checkoutTitle": email.CheckoutTitle,
			"dashboardUrl":  email.DashboardURL,
			"submittedAt":   email.SubmittedAt.Format("January 2, 2006 at 3:04 PM"),
		},
	}

	if err := c.send(ctx, email.MerchantID, req); err != nil {
		log.Printf("[NotificationClient] Failed to send merchant submission email: %v", err)
		return err
	}

	return nil
}

// SendVerificationResultEmail tells the customer their payment was verified
// or rejected
func (c *NotificationClient) SendVerificationResultEmail(ctx context.Context, email *PaymentEmail, status models.PaymentStatus) error {
	if email.CustomerEmail == "" {
		log.Printf("[NotificationClient] No customer email for payment %s, skipping notification", email.PaymentID)
		return nil
	}

	subject := fmt.Sprintf("Payment Confirmed - %s %.2f", email.Currency, email.Amount)
	if status == models.PaymentFailed {
		subject = "Payment Could Not Be Verified"
	}

	req := SendNotificationRequest{
		Channel:        "EMAIL",
		RecipientEmail: email.CustomerEmail,
		Subject:        subject,
		TemplateName:   "checkout-payment-result",
		Variables: map[string]interface{}{
			"paymentStatus": string(status),
			"paymentId":     email.PaymentID,
			"customerName":  email.CustomerName,
			"amount":        fmt.Sprintf("%.2f", email.Amount),
			"currency":      email.Currency,
			"methodName":    email.MethodName,
			"businessName":  email.BusinessName,
		},
	}

	if err := c.send(ctx, email.MerchantID, req); err != nil {
		log.Printf("[NotificationClient] Failed to send verification result email: %v", err)
		return err
	}

	return nil
}

func (c *NotificationClient) send(ctx context.Context, merchantID string, req SendNotificationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/notifications/send", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Merchant-ID", merchantID)
	httpReq.Header.Set("X-Internal-Service", "checkout-service")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification-service returned status %d", resp.StatusCode)
	}

	return nil
}
