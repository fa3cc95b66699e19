package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestClient_CreateOrder(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/create", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body := readJSON(t, r)
		assert.Equal(t, "Acme", body["company"])
		assert.Equal(t, float64(2), body["quantity"])
		assert.Equal(t, true, body["lunch"])

		w.Write([]byte(`{"orderid":555,"paymentlink":"https://pay.example/555"}`))
	})

	lunch, optIn := true, true
	order, err := c.CreateOrder(context.Background(), domain.CreateOrderRequest{
		Company: "Acme", FirstName: "Ana", LastName: "Diaz", Email: "ana@acme.com",
		Phone: "+5491100000000", Quantity: 2, Lunch: &lunch, OptIn: &optIn,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Order{ID: 555, PaymentLink: "https://pay.example/555"}, order)
}

func TestClient_CreateOrder_ErrorEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"BAD_REQUEST","message":"Faltan datos requeridos para crear la orden"}`))
	})

	_, err := c.CreateOrder(context.Background(), domain.CreateOrderRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
	assert.Equal(t, "Faltan datos requeridos para crear la orden", apiErr.Message)
}

func TestClient_RelayedUpstreamError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"stock agotado"}`))
	})

	_, err := c.CreateOrder(context.Background(), domain.CreateOrderRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "stock agotado", apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestClient_CheckPaid(t *testing.T) {
	var paid atomic.Bool
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/check", r.URL.Path)
		assert.Equal(t, float64(555), readJSON(t, r)["orderid"])
		json.NewEncoder(w).Encode(map[string]bool{"response": paid.Load()})
	})

	got, err := c.CheckPaid(context.Background(), 555)
	require.NoError(t, err)
	assert.False(t, got)

	paid.Store(true)
	got, err = c.CheckPaid(context.Background(), 555)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestClient_CheckPaid_MalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := c.CheckPaid(context.Background(), 555)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestClient_ConfirmOrder(t *testing.T) {
	var failed atomic.Bool
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/confirm", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": !failed.Load(), "message": "Error enviando email"})
	})

	req := domain.ConfirmOrderRequest{OrderID: 555, Email: "ana@acme.com"}
	assert.NoError(t, c.ConfirmOrder(context.Background(), req))

	failed.Store(true)
	assert.Error(t, c.ConfirmOrder(context.Background(), req))
}

func TestClient_LoginStoresTokenAndTicketsUseIt(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"success":true,"sessionToken":"s-1"}`))
		case "/api/tickets":
			assert.Equal(t, "Bearer s-1", r.Header.Get("Authorization"))
			w.Write([]byte(`{"success":true,"email":"ana@acme.com","tickets":[{"prodinfoid":1,"orderid":555,"nombre":"","is_complete":0}],"progress":{"completed":0,"total":1}}`))
		default:
			http.NotFound(w, r)
		}
	})

	_, err := c.MyTickets(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	session, err := c.Login(context.Background(), "ana@acme.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "s-1", session.SessionToken)

	tickets, err := c.MyTickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.com", tickets.Email)
	require.Len(t, tickets.Tickets, 1)
	assert.Equal(t, int64(555), tickets.Tickets[0].OrderID)
	assert.Equal(t, 1, tickets.Progress.Total)
}

func TestClient_LoginRejected(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Credenciales inválidas"}`))
	})

	_, err := c.Login(context.Background(), "ana@acme.com", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Credenciales inválidas", apiErr.Message)
	_, ok := c.Tokens().Get()
	assert.False(t, ok)
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":"UNAUTHORIZED","message":"Sesión inválida"}`))
	})
	c.Tokens().Set("stale")

	_, err := c.MyTickets(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	_, ok := c.Tokens().Get()
	assert.False(t, ok)
}

func TestClient_SetPasswordValidatesBeforeSending(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"success":true}`))
	})

	err := c.SetPassword(context.Background(), domain.SetPasswordRequest{Token: "r-1", Password: "short", ConfirmPassword: "short"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Equal(t, int32(0), calls.Load())

	err = c.SetPassword(context.Background(), domain.SetPasswordRequest{Token: "r-1", Password: "secret123", ConfirmPassword: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UpdateTicketRejectsBadLinkedIn(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tickets/42", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	})
	c.Tokens().Set("s-1")

	upd := domain.TicketUpdate{Nombre: "Ana", Apellido: "Diaz", Mail: "ana@acme.com", LinkedIn: "https://example.com/ana"}
	_, err := c.UpdateTicket(context.Background(), 42, upd)
	assert.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())

	upd.LinkedIn = "https://www.linkedin.com/in/ana"
	out, err := c.UpdateTicket(context.Background(), 42, upd)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(out))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_StaffSessionCookieIsReused(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/staff/login":
			http.SetCookie(w, &http.Cookie{Name: "staff_session", Value: "active", Path: "/", HttpOnly: true})
			w.Write([]byte(`{"success":true}`))
		case "/api/tickets/scan":
			cookie, err := r.Cookie("staff_session")
			if err != nil || cookie.Value != "active" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"UNAUTHORIZED","message":"Sesión de staff requerida"}`))
				return
			}
			w.Write([]byte(`{"success":true,"ticket":{"nombre":"Ana"}}`))
		}
	})

	_, err := c.Scan(context.Background(), "qr-1")
	assert.Error(t, err)

	require.NoError(t, c.StaffLogin(context.Background(), "STAFF-2026"))
	out, err := c.Scan(context.Background(), "qr-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"ticket":{"nombre":"Ana"}}`, string(out))
}
