package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the verification state of a payment
type PaymentStatus string

const (
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentCompleted           PaymentStatus = "completed"
	PaymentFailed              PaymentStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Actor is the authenticated caller as asserted by the upstream identity
// provider. The engine treats it as opaque claims; it performs its own
// authorization checks against it.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

const RoleSuperAdmin = "super_admin"

// Payment represents a customer's payment attempt against a checkout link.
// The method name/id are snapshots taken at submission time; the method's
// instructions may change afterwards without affecting historical payments.
type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CheckoutLinkID uuid.UUID `gorm:"type:uuid;not null;index:idx_payments_link" json:"checkoutLinkId"`
	MerchantID     string    `gorm:"type:varchar(255);not null;index:idx_payments_merchant" json:"merchantId"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customerEmail"`

	Amount   float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);not null" json:"currency"`
	Country  string  `gorm:"type:varchar(2);not null;index:idx_payments_country" json:"country"`

	// Snapshot of the chosen method
	MethodID   uuid.UUID `gorm:"type:uuid;not null" json:"methodId"`
	MethodName string    `gorm:"type:varchar(255);not null" json:"methodName"`

	ProofURL string `gorm:"type:varchar(500);not null" json:"proofUrl"`

	// Unique constraint backs the duplicate-submission guarantee across
	// instances; see SubmissionService.
	IdempotencyKey string `gorm:"type:varchar(128);not null;uniqueIndex:idx_payments_idempotency" json:"idempotencyKey,omitempty"`

	Status PaymentStatus `gorm:"type:varchar(30);not null;default:'pending_verification';index:idx_payments_status" json:"status"`

	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy string     `gorm:"type:varchar(255)" json:"verifiedBy,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_payments_created" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationPaymentReceived  NotificationType = "payment_received"
	NotificationPaymentCompleted NotificationType = "payment_completed"
	NotificationPaymentFailed    NotificationType = "payment_failed"
)

// Notification is an in-app notification row. The engine only ever creates
// these; the recipient flips the read flag.
type Notification struct {
	ID      uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID  string           `gorm:"type:varchar(255);not null;index:idx_notifications_user" json:"userId"`
	Title   string           `gorm:"type:varchar(255);not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	IsRead  bool             `gorm:"default:false;index:idx_notifications_read" json:"isRead"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_created" json:"createdAt"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
