package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout-service/internal/middleware"
	"checkout-service/internal/models"
	"checkout-service/internal/services"
)

// PaymentHandler serves the authenticated payment endpoints
type PaymentHandler struct {
	verification *services.VerificationService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(verification *services.VerificationService) *PaymentHandler {
	return &PaymentHandler{verification: verification}
}

// Verify handles POST /api/v1/payments/:id/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	actor := middleware.GetActor(c)

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "payment id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
			Code:    string(models.ErrCodeInvalidInput),
		})
		return
	}

	payment, err := h.verification.Verify(c.Request.Context(), actor, paymentID, req.Decision)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPaymentResponse(payment))
}

// GetPayment handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor := middleware.GetActor(c)

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "payment id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	payment, err := h.verification.GetPayment(c.Request.Context(), actor, paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPaymentResponse(payment))
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	if merchantID == "" {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "merchant identity required",
			Code:  string(models.ErrCodeUnauthorized),
		})
		return
	}

	status := models.PaymentStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, total, err := h.verification.ListPayments(c.Request.Context(), merchantID, status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, models.NewPaymentResponse(&payments[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"total":    total,
	})
}
