package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout-service/internal/models"
)

// Context keys for actor information
type contextKey string

const (
	ActorIDKey    contextKey = "actorID"
	ActorRoleKey  contextKey = "actorRole"
	MerchantIDKey contextKey = "merchantID"
	RequestIDKey  contextKey = "requestID"
)

// ActorMiddleware extracts the authenticated caller from headers set by the
// upstream identity layer. Public checkout routes skip this entirely; the
// engine never trusts these headers for unauthenticated traffic.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		role := c.GetHeader("X-User-Role")
		merchantID := c.GetHeader("X-Merchant-ID")
		if merchantID == "" && role != models.RoleSuperAdmin {
			merchantID = userID
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), ActorIDKey, userID)
		ctx = context.WithValue(ctx, ActorRoleKey, role)
		ctx = context.WithValue(ctx, MerchantIDKey, merchantID)
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("actorID", userID)
		c.Set("actorRole", role)
		c.Set("merchantID", merchantID)
		c.Set("requestID", requestID)

		c.Next()
	}
}

// RequireActor rejects requests with no authenticated caller
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("actorID") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authenticated user is required",
			})
			return
		}
		c.Next()
	}
}

// RequireMerchant rejects requests with no merchant identity
func RequireMerchant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("merchantID") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Merchant identity is required",
			})
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller from the Gin context
func GetActor(c *gin.Context) models.Actor {
	return models.Actor{
		ID:   c.GetString("actorID"),
		Role: c.GetString("actorRole"),
	}
}

// GetMerchantID returns the acting merchant from the Gin context
func GetMerchantID(c *gin.Context) string {
	return c.GetString("merchantID")
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(RequestIDKey); v != nil {
		return v.(string)
	}
	return ""
}
