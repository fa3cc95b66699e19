package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testClientIP = "192.0.2.1"

func TestRateLimit_BlocksWhenBucketEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	router, m := newTestRouter(cfg)

	bucket := cache.Bucket{Capacity: 5, RefillTokens: 1, RefillInterval: time.Minute, TTL: 10 * time.Minute}
	m.limiter.On("Take", mock.Anything, "rl:auth:"+testClientIP, bucket).
		Return(cache.Decision{Allowed: false, RetryAfter: 42 * time.Second}, nil).Once()

	w := perform(router, http.MethodPost, "/api/auth/request-magic-link", `{"email":"ana@acme.com"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, CodeTooManyRequests, decodeBody(t, w)["error"])
	m.auth.AssertNotCalled(t, "RequestMagicLink", mock.Anything, mock.Anything)
	m.limiter.AssertExpectations(t)
}

func TestRateLimit_AllowsAndReportsRemaining(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	router, m := newTestRouter(cfg)

	m.limiter.On("Take", mock.Anything, "rl:staff:"+testClientIP, mock.Anything).
		Return(cache.Decision{Allowed: true, Remaining: 3}, nil).Once()
	m.staff.On("Login", mock.Anything, "bad").Return(nil, false, errors.New("boom")).Once()

	w := perform(router, http.MethodPost, "/api/staff/login", `{"code":"bad"}`)

	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	m.staff.AssertExpectations(t)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	router, m := newTestRouter(cfg)

	m.limiter.On("Take", mock.Anything, mock.Anything, mock.Anything).
		Return(cache.Decision{}, errors.New("redis down")).Once()
	m.auth.On("ForgotPassword", mock.Anything, "ana@acme.com").Once()

	w := perform(router, http.MethodPost, "/api/auth/forgot-password", `{"email":"ana@acme.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	m.auth.AssertExpectations(t)
}

func TestRateLimit_DisabledSkipsLimiter(t *testing.T) {
	router, m := newTestRouter(testConfig())

	m.auth.On("RequestMagicLink", mock.Anything, "ana@acme.com").Once()

	w := perform(router, http.MethodPost, "/api/auth/request-magic-link", `{"email":"ana@acme.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	m.limiter.AssertNotCalled(t, "Take", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimit_LoginIsNotLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	router, m := newTestRouter(cfg)

	m.auth.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	perform(router, http.MethodPost, "/api/auth/login", `{"email":"ana@acme.com","password":"x"}`)

	m.limiter.AssertNotCalled(t, "Take", mock.Anything, mock.Anything, mock.Anything)
}

func withForwardedFor(ip string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("X-Forwarded-For", ip)
	}
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	router, m := newTestRouter(cfg)

	m.limiter.On("Take", mock.Anything, "rl:auth:"+testClientIP, mock.Anything).
		Return(cache.Decision{Allowed: false, RetryAfter: time.Second}, nil).Times(3)

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		w := perform(router, http.MethodPost, "/api/auth/request-magic-link", `{"email":"ana@acme.com"}`, withForwardedFor(ip))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}
	m.limiter.AssertExpectations(t)
}

func TestRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Enabled = true
	cfg.HTTP.TrustedProxies = []string{testClientIP}
	router, m := newTestRouter(cfg)

	m.limiter.On("Take", mock.Anything, "rl:auth:198.51.100.7", mock.Anything).
		Return(cache.Decision{Allowed: false, RetryAfter: time.Second}, nil).Once()

	w := perform(router, http.MethodPost, "/api/auth/request-magic-link", `{"email":"ana@acme.com"}`, withForwardedFor("198.51.100.7"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	m.limiter.AssertExpectations(t)
}
