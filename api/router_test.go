package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/foodday/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	orders  *MockOrdersUseCase
	auth    *MockAuthUseCase
	tickets *MockTicketsUseCase
	staff   *MockStaffUseCase
	content *MockContentUseCase
	limiter *MockRateLimiter
}

func testConfig() *config.Config {
	return &config.Config{
		Staff: config.StaffConfig{SessionTTL: 3 * time.Hour},
		Limits: config.RateLimitConfig{
			Prefix:         "rl",
			Capacity:       5,
			RefillTokens:   1,
			RefillInterval: time.Minute,
			TTL:            10 * time.Minute,
		},
	}
}

func newTestRouter(cfg *config.Config) (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)
	m := &testServices{
		orders:  &MockOrdersUseCase{},
		auth:    &MockAuthUseCase{},
		tickets: &MockTicketsUseCase{},
		staff:   &MockStaffUseCase{},
		content: &MockContentUseCase{},
		limiter: &MockRateLimiter{},
	}
	router := NewRouter(cfg, Services{
		Orders:  m.orders,
		Auth:    m.auth,
		Tickets: m.tickets,
		Staff:   m.staff,
		Content: m.content,
		Limiter: m.limiter,
	})
	return router, m
}

func perform(router http.Handler, method, path, body string, decorate ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, d := range decorate {
		d(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(testConfig())

	w := perform(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(testConfig())

	w := perform(router, http.MethodGet, "/healthz", "", func(r *http.Request) {
		r.Header.Set(HeaderRequestID, "req-1")
	})
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
}
