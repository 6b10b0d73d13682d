package models

import "time"

// ValidateCheckoutResponse wraps link validation for the public checkout page.
// Validation is safe to poll; failures are reported in-band with a 200.
type ValidateCheckoutResponse struct {
	Valid            bool                  `json:"valid"`
	Error            *ServiceError         `json:"error,omitempty"`
	CheckoutLink     *CheckoutLinkResponse `json:"checkout_link,omitempty"`
	MerchantSettings *MerchantSettings     `json:"merchant_settings,omitempty"`
}

// CheckoutLinkResponse is the public shape of a checkout link
type CheckoutLinkResponse struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	Heading       string   `json:"heading,omitempty"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	ReviewMessage string   `json:"reviewMessage,omitempty"`
	Countries     []string `json:"countries"`
}

// NewCheckoutLinkResponse builds the public shape from a stored link
func NewCheckoutLinkResponse(link *CheckoutLink) *CheckoutLinkResponse {
	return &CheckoutLinkResponse{
		ID:            link.ID.String(),
		Slug:          link.Slug,
		Title:         link.Title,
		Amount:        link.Amount,
		Currency:      link.Currency,
		Heading:       link.Heading,
		LogoURL:       link.LogoURL,
		ReviewMessage: link.ReviewMessage,
		Countries:     link.ActiveCountryCodes,
	}
}

// CountryOption is a selectable country on the checkout page
type CountryOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListCountriesResponse wraps the eligible countries for a link
type ListCountriesResponse struct {
	Countries []CountryOption `json:"countries"`
}

// EffectiveDetails are the final, country-resolved details shown to a
// customer after merging the global fallback and the country override
type EffectiveDetails struct {
	Instructions   string        `json:"instructions"`
	CustomFields   []CustomField `json:"custom_fields"`
	AdditionalInfo string        `json:"additional_info"`
}

// ResolvedMethod is an eligible payment method with its effective details
// already merged; callers never see raw overrides
type ResolvedMethod struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           MethodType    `json:"type"`
	Instructions   string        `json:"instructions"`
	CustomFields   []CustomField `json:"custom_fields"`
	AdditionalInfo string        `json:"additional_info"`
}

// ListMethodsResponse wraps the eligible methods for a link and country
type ListMethodsResponse struct {
	PaymentMethods []ResolvedMethod `json:"payment_methods"`
	Currency       string           `json:"currency"`
}

// SubmitPaymentResponse acknowledges an accepted (or replayed) submission
type SubmitPaymentResponse struct {
	PaymentID string        `json:"payment_id"`
	Status    PaymentStatus `json:"status"`
}

// VerifyPaymentRequest carries the merchant/admin verification decision
type VerifyPaymentRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// PaymentResponse is the API shape of a payment
type PaymentResponse struct {
	ID             string        `json:"id"`
	CheckoutLinkID string        `json:"checkoutLinkId"`
	CustomerName   string        `json:"customerName"`
	CustomerEmail  string        `json:"customerEmail"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency"`
	Country        string        `json:"country"`
	MethodName     string        `json:"methodName"`
	ProofURL       string        `json:"proofUrl"`
	Status         PaymentStatus `json:"status"`
	VerifiedAt     *time.Time    `json:"verifiedAt,omitempty"`
	VerifiedBy     string        `json:"verifiedBy,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// NewPaymentResponse builds the API shape from a stored payment
func NewPaymentResponse(p *Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID.String(),
		CheckoutLinkID: p.CheckoutLinkID.String(),
		CustomerName:   p.CustomerName,
		CustomerEmail:  p.CustomerEmail,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Country:        p.Country,
		MethodName:     p.MethodName,
		ProofURL:       p.ProofURL,
		Status:         p.Status,
		VerifiedAt:     p.VerifiedAt,
		VerifiedBy:     p.VerifiedBy,
		CreatedAt:      p.CreatedAt,
	}
}

// CreateLinkRequest creates a checkout link for the acting merchant
type CreateLinkRequest struct {
	Slug               string     `json:"slug" binding:"required"`
	Title              string     `json:"title" binding:"required"`
	Amount             float64    `json:"amount" binding:"required"`
	Currency           string     `json:"currency"`
	Status             LinkStatus `json:"status"`
	ActiveCountryCodes []string   `json:"activeCountryCodes"`
	ExpiresAt          *time.Time `json:"expiresAt"`
	Heading            string     `json:"heading"`
	LogoURL            string     `json:"logoUrl"`
	ReviewMessage      string     `json:"reviewMessage"`
}

// CreateMethodRequest creates a payment method for the acting merchant
type CreateMethodRequest struct {
	Name                    string                     `json:"name" binding:"required"`
	Type                    MethodType                 `json:"type"`
	Status                  MethodStatus               `json:"status"`
	Countries               []string                   `json:"countries" binding:"required"`
	Instructions            string                     `json:"instructions"`
	InstructionsForCheckout string                     `json:"instructionsForCheckout"`
	CustomFields            []CustomField              `json:"customFields"`
	CountrySpecificDetails  map[string]CountryOverride `json:"countrySpecificDetails"`
	DisplayOrder            int                        `json:"displayOrder"`
}

// UpdateMethodStatusRequest changes a payment method's status
type UpdateMethodStatusRequest struct {
	Status MethodStatus `json:"status" binding:"required"`
}

// UpdateSettingsRequest updates the acting merchant's settings
type UpdateSettingsRequest struct {
	BusinessName string `json:"businessName"`
	SupportEmail string `json:"supportEmail"`
	LogoURL      string `json:"logoUrl"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
