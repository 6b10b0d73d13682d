package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkout-service/internal/models"
)

// statusForCode maps engine error codes to HTTP statuses. Codes missing
// from the map are treated as internal errors.
var statusForCode = map[models.ErrorCode]int{
	models.ErrCodeLinkNotFound:        http.StatusNotFound,
	models.ErrCodePaymentNotFound:     http.StatusNotFound,
	models.ErrCodeLinkInactive:        http.StatusGone,
	models.ErrCodeLinkExpired:         http.StatusGone,
	models.ErrCodeNoMethodsForCountry: http.StatusUnprocessableEntity,
	models.ErrCodeInvalidCountry:      http.StatusBadRequest,
	models.ErrCodeMethodNotEligible:   http.StatusBadRequest,
	models.ErrCodeInvalidAmount:       http.StatusBadRequest,
	models.ErrCodeInvalidInput:        http.StatusBadRequest,
	models.ErrCodeFileTooLarge:        http.StatusRequestEntityTooLarge,
	models.ErrCodeUnsupportedFileType: http.StatusUnsupportedMediaType,
	models.ErrCodeDuplicateSubmission: http.StatusConflict,
	models.ErrCodeUploadTimeout:       http.StatusGatewayTimeout,
	models.ErrCodeStorageError:        http.StatusServiceUnavailable,
	models.ErrCodeUnauthorized:        http.StatusForbidden,
	models.ErrCodeAlreadyVerified:     http.StatusConflict,
	models.ErrCodeDuplicateSlug:       http.StatusConflict,
}

// respondError writes the error as JSON, translating engine codes to HTTP
// statuses and hiding internal error details
func respondError(c *gin.Context, err error) {
	if se, ok := models.AsServiceError(err); ok {
		status, known := statusForCode[se.Code]
		if !known {
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.ErrorResponse{
			Error:   se.Message,
			Message: se.Message,
			Code:    string(se.Code),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "Internal server error",
		Message: "An unexpected error occurred",
	})
}
