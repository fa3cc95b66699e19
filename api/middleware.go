package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID   = "X-Request-ID"
	StaffCookie       = "staff_session"
	StaffCookieActive = "active"
	bearerPrefix      = "Bearer "
	ctxKeyBearer      = "bearerToken"
)

// RequestID tags every request with an id, reusing one sent by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequireBearer rejects requests without an "Authorization: Bearer <token>" header.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || len(header) == len(bearerPrefix) {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Sesión inválida")
			return
		}
		c.Set(ctxKeyBearer, header[len(bearerPrefix):])
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	return c.GetString(ctxKeyBearer)
}

// RequireStaffSession gates staff-only routes on the session marker cookie.
func RequireStaffSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(StaffCookie)
		if err != nil || value != StaffCookieActive {
			respondError(c, http.StatusUnauthorized, CodeUnauthorized, "Sesión de staff requerida")
			return
		}
		c.Next()
	}
}

type RateLimiter interface {
	Take(ctx context.Context, key string, b cache.Bucket) (cache.Decision, error)
}

// RateLimit applies a per-client token bucket keyed by scope and client IP.
// When the limiter is unavailable the request is let through.
func RateLimit(limiter RateLimiter, scope string, bucket cache.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		decision, err := limiter.Take(c.Request.Context(), key, bucket)
		if err != nil {
			log.Printf("[api] rate limiter unavailable, allowing %s: %v", key, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if !decision.Allowed {
			retry := int(decision.RetryAfter.Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			respondError(c, http.StatusTooManyRequests, CodeTooManyRequests, "Demasiadas solicitudes, intentá más tarde")
			return
		}
		c.Next()
	}
}
