package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout-service/internal/middleware"
	"checkout-service/internal/models"
	"checkout-service/internal/services"
)

// MerchantHandler serves the merchant dashboard endpoints for links,
// methods and settings
type MerchantHandler struct {
	checkout *services.CheckoutService
	methods  *services.MethodService
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(checkout *services.CheckoutService, methods *services.MethodService) *MerchantHandler {
	return &MerchantHandler{checkout: checkout, methods: methods}
}

// CreateLink handles POST /api/v1/links
func (h *MerchantHandler) CreateLink(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
			Code:    string(models.ErrCodeInvalidInput),
		})
		return
	}

	link, err := h.checkout.CreateLink(c.Request.Context(), merchantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListLinks handles GET /api/v1/links
func (h *MerchantHandler) ListLinks(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	links, err := h.checkout.ListLinks(c.Request.Context(), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// GetLink handles GET /api/v1/links/:id
func (h *MerchantHandler) GetLink(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "link id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	link, err := h.checkout.GetLink(c.Request.Context(), merchantID, linkID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeactivateLink handles PATCH /api/v1/links/:id/deactivate
func (h *MerchantHandler) DeactivateLink(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "link id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	if err := h.checkout.DeactivateLink(c.Request.Context(), merchantID, linkID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateMethod handles POST /api/v1/methods
func (h *MerchantHandler) CreateMethod(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	var req models.CreateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
			Code:    string(models.ErrCodeInvalidInput),
		})
		return
	}

	method, err := h.methods.CreateMethod(c.Request.Context(), merchantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, method)
}

// ListMethods handles GET /api/v1/methods
func (h *MerchantHandler) ListMethods(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	methods, err := h.methods.ListMethods(c.Request.Context(), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// UpdateMethodStatus handles PATCH /api/v1/methods/:id/status
func (h *MerchantHandler) UpdateMethodStatus(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "method id must be a valid UUID",
			Code:  string(models.ErrCodeInvalidInput),
		})
		return
	}

	var req models.UpdateMethodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
			Code:    string(models.ErrCodeInvalidInput),
		})
		return
	}

	if err := h.methods.UpdateStatus(c.Request.Context(), merchantID, methodID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSettings handles GET /api/v1/settings
func (h *MerchantHandler) GetSettings(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	settings := h.checkout.MerchantSettings(c.Request.Context(), merchantID)
	if settings == nil {
		settings = &models.MerchantSettings{MerchantID: merchantID}
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *MerchantHandler) UpdateSettings(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
			Code:    string(models.ErrCodeInvalidInput),
		})
		return
	}

	settings, err := h.checkout.UpsertSettings(c.Request.Context(), merchantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
