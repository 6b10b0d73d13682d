package models

import "errors"

// ErrorCode is a stable, machine-readable error kind surfaced to callers.
// The UI layer renders messages from these codes; storage detail never leaks.
type ErrorCode string

const (
	// Resolution errors
	ErrCodeLinkNotFound        ErrorCode = "LINK_NOT_FOUND"
	ErrCodeLinkInactive        ErrorCode = "LINK_INACTIVE"
	ErrCodeLinkExpired         ErrorCode = "LINK_EXPIRED"
	ErrCodeNoMethodsForCountry ErrorCode = "NO_METHODS_FOR_COUNTRY"
	ErrCodeInvalidCountry      ErrorCode = "INVALID_COUNTRY"

	// Submission errors
	ErrCodeMethodNotEligible   ErrorCode = "METHOD_NOT_ELIGIBLE"
	ErrCodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ErrCodeDuplicateSubmission ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeUploadTimeout       ErrorCode = "UPLOAD_TIMEOUT"
	ErrCodeStorageError        ErrorCode = "STORAGE_ERROR"

	// Verification errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeAlreadyVerified ErrorCode = "ALREADY_VERIFIED"
	ErrCodePaymentNotFound ErrorCode = "PAYMENT_NOT_FOUND"

	// Merchant configuration errors
	ErrCodeDuplicateSlug ErrorCode = "DUPLICATE_SLUG"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
)

// ServiceError is the structured error returned across the engine boundary
type ServiceError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable,omitempty"`
}

func (e *ServiceError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewServiceError creates a non-retryable service error
func NewServiceError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// NewRetryableError creates a service error the caller may safely retry;
// submission idempotency guarantees a retry cannot duplicate a payment
func NewRetryableError(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, Retryable: true}
}

// AsServiceError unwraps err into a *ServiceError if it is one
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode reports whether err is a ServiceError with the given code
func IsCode(err error, code ErrorCode) bool {
	se, ok := AsServiceError(err)
	return ok && se.Code == code
}
