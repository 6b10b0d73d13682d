package middleware

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"requestId"`
	MerchantID string        `json:"merchantId,omitempty"`
	UserID     string        `json:"userId,omitempty"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"statusCode"`
	Duration   time.Duration `json:"duration"`
	ClientIP   string        `json:"clientIp"`
	UserAgent  string        `json:"userAgent"`
	Action     string        `json:"action,omitempty"`
	Resource   string        `json:"resource,omitempty"`
	ResourceID string        `json:"resourceId,omitempty"`
	Success    bool          `json:"success"`
}

// AuditLogger defines the interface for audit logging
type AuditLogger interface {
	Log(entry *AuditLog)
}

// DefaultAuditLogger logs to stdout in JSON format
type DefaultAuditLogger struct{}

func (l *DefaultAuditLogger) Log(entry *AuditLog) {
	data, _ := json.Marshal(entry)
	log.Printf("[AUDIT] %s", string(data))
}

// AuditMiddleware logs payment-related requests
func AuditMiddleware(logger AuditLogger) gin.HandlerFunc {
	if logger == nil {
		logger = &DefaultAuditLogger{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := &AuditLog{
			Timestamp:  start,
			RequestID:  c.GetString("requestID"),
			MerchantID: c.GetString("merchantID"),
			UserID:     c.GetString("actorID"),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Duration:   time.Since(start),
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Success:    c.Writer.Status() < 400,
		}

		entry.Action, entry.Resource, entry.ResourceID = parseCheckoutAction(c)

		logger.Log(entry)
	}
}

// parseCheckoutAction extracts action and resource from the request
func parseCheckoutAction(c *gin.Context) (action, resource, resourceID string) {
	path := c.Request.URL.Path
	method := c.Request.Method

	switch {
	case matchPath(path, "/checkout/*/submit"):
		return "submit_payment", "payment", ""
	case matchPath(path, "/checkout/*/validate"):
		return "validate_checkout", "checkout_link", c.Param("slug")
	case matchPath(path, "/api/v1/payments/*/verify"):
		return "verify_payment", "payment", c.Param("id")
	case matchPath(path, "/api/v1/payments/*"):
		return "get_payment", "payment", c.Param("id")
	case path == "/api/v1/links" && method == "POST":
		return "create_link", "checkout_link", ""
	case matchPath(path, "/api/v1/links/*/deactivate"):
		return "deactivate_link", "checkout_link", c.Param("id")
	case path == "/api/v1/methods" && method == "POST":
		return "create_method", "payment_method", ""
	case matchPath(path, "/api/v1/methods/*/status"):
		return "update_method_status", "payment_method", c.Param("id")
	case path == "/api/v1/settings" && method == "PUT":
		return "update_settings", "merchant_settings", ""
	default:
		return method, path, ""
	}
}

// matchPath checks if path matches a pattern with * wildcards
func matchPath(path, pattern string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range patternParts {
		if part != "*" && part != pathParts[i] {
			return false
		}
	}

	return true
}
