package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout-service/internal/models"
	"checkout-service/internal/services"
)

// CheckoutHandler serves the public, unauthenticated checkout endpoints
type CheckoutHandler struct {
	checkout   *services.CheckoutService
	resolver   *services.MethodResolver
	submission *services.SubmissionService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout *services.CheckoutService, resolver *services.MethodResolver, submission *services.SubmissionService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:   checkout,
		resolver:   resolver,
		submission: submission,
	}
}

// Validate handles GET /checkout/:slug/validate
// Always answers 200; the checkout page renders the error code in-band
func (h *CheckoutHandler) Validate(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.checkout.Validate(c.Request.Context(), slug)
	if err != nil {
		if se, ok := models.AsServiceError(err); ok {
			c.JSON(http.StatusOK, models.ValidateCheckoutResponse{
				Valid: false,
				Error: se,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ValidateCheckoutResponse{
		Valid:            true,
		CheckoutLink:     models.NewCheckoutLinkResponse(link),
		MerchantSettings: h.checkout.MerchantSettings(c.Request.Context(), link.MerchantID),
	})
}

// ListCountries handles GET /checkout/:slug/countries
func (h *CheckoutHandler) ListCountries(c *gin.Context) {
	slug := c.Param("slug")

	eligible, err := h.checkout.ListCountries(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}

	options := make([]models.CountryOption, 0, len(eligible))
	for _, country := range eligible {
		options = append(options, models.CountryOption{Code: country.Code, Name: country.Name})
	}

	c.JSON(http.StatusOK, models.ListCountriesResponse{Countries: options})
}

// ListMethods handles GET /checkout/:slug/methods?country=XX
func (h *CheckoutHandler) ListMethods(c *gin.Context) {
	slug := c.Param("slug")
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "country query parameter is required",
			Code:  string(models.ErrCodeInvalidCountry),
		})
		return
	}

	link, err := h.checkout.ValidateForCountry(c.Request.Context(), slug, country)
	if err != nil {
		respondError(c, err)
		return
	}

	methods, err := h.resolver.Resolve(c.Request.Context(), link.MerchantID, country)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListMethodsResponse{
		PaymentMethods: methods,
		Currency:       link.Currency,
	})
}

// Submit handles POST /checkout/:slug/submit (multipart/form-data)
func (h *CheckoutHandler) Submit(c *gin.Context) {
	slug := c.Param("slug")

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "amount must be a number",
			Code:  string(models.ErrCodeInvalidAmount),
		})
		return
	}

	methodID, err := uuid.Parse(c.PostForm("method_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "method_id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	file, header, err := c.Request.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "proof of payment file is required",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, (10<<20)+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "failed to read proof file",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	input := &services.SubmitInput{
		Slug:             slug,
		CustomerName:     c.PostForm("customer_name"),
		CustomerEmail:    c.PostForm("customer_email"),
		Country:          c.PostForm("country"),
		MethodID:         methodID,
		Amount:           amount,
		ProofFilename:    header.Filename,
		ProofContentType: header.Header.Get("Content-Type"),
		ProofData:        data,
		IdempotencyKey:   c.GetHeader("Idempotency-Key"),
	}

	payment, replayed, err := h.submission.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, models.SubmitPaymentResponse{
		PaymentID: payment.ID.String(),
		Status:    payment.Status,
	})
}
