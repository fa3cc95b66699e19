package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/foodday/internal/checkout"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/tidwall/gjson"
)

var (
	ErrNoSession        = errors.New("client: not logged in")
	ErrMalformedPayload = errors.New("client: malformed response")
)

// APIError is a non-2xx answer from the BFF.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%d: %s", e.Status, msg)
}

// Client talks to the BFF on behalf of a buyer, a ticket holder or staff.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenSlot
}

var _ checkout.OrderAPI = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTokenSlot(slot *TokenSlot) Option {
	return func(c *Client) {
		c.tokens = slot
	}
}

func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 20 * time.Second, Jar: jar},
		tokens:  NewTokenSlot(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() *TokenSlot {
	return c.tokens
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/create", req, &order, false); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) CheckPaid(ctx context.Context, orderID int64) (bool, error) {
	var status domain.PaymentStatus
	if err := c.do(ctx, http.MethodPost, "/api/orders/check", map[string]int64{"orderid": orderID}, &status, false); err != nil {
		return false, err
	}
	return status.Paid, nil
}

// ConfirmOrder asks for the confirmation email. A {success:false} answer is an error.
func (c *Client) ConfirmOrder(ctx context.Context, req domain.ConfirmOrderRequest) error {
	var ack struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders/confirm", req, &ack, false); err != nil {
		return err
	}
	if !ack.Success {
		return fmt.Errorf("confirmation not sent: %s", ack.Message)
	}
	return nil
}

func (c *Client) RequestMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/request-magic-link", domain.EmailRequest{Email: email}, nil, false)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", domain.EmailRequest{Email: email}, nil, false)
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return c.login(ctx, "/api/auth/login", domain.LoginRequest{Email: email, Password: password})
}

func (c *Client) LoginWithMagicLink(ctx context.Context, token string) (domain.Session, error) {
	return c.login(ctx, "/api/auth/login-magic-link", domain.MagicLinkLogin{Token: token})
}

func (c *Client) login(ctx context.Context, path string, body any) (domain.Session, error) {
	var session domain.Session
	if err := c.do(ctx, http.MethodPost, path, body, &session, false); err != nil {
		return domain.Session{}, err
	}
	if !session.Success || session.SessionToken == "" {
		return session, &APIError{Status: http.StatusUnauthorized, Message: session.Message}
	}
	c.tokens.Set(session.SessionToken)
	return session, nil
}

func (c *Client) Logout() {
	c.tokens.Clear()
}

// SetPassword checks the length bounds and confirmation before submitting.
func (c *Client) SetPassword(ctx context.Context, req domain.SetPasswordRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/auth/set-password", req, nil, false)
}

func (c *Client) MyTickets(ctx context.Context) (domain.MyTickets, error) {
	var out domain.MyTickets
	err := c.do(ctx, http.MethodGet, "/api/tickets", nil, &out, true)
	return out, err
}

// UpdateTicket nominates an attendee for one ticket.
func (c *Client) UpdateTicket(ctx context.Context, prodInfoID int64, upd domain.TicketUpdate) (json.RawMessage, error) {
	if err := domain.Validate(upd); err != nil {
		return nil, err
	}
	var out json.RawMessage
	path := "/api/tickets/" + url.PathEscape(strconv.FormatInt(prodInfoID, 10))
	err := c.do(ctx, http.MethodPut, path, upd, &out, true)
	return out, err
}

// StaffLogin opens a staff session; the session cookie is kept in the client's jar.
func (c *Client) StaffLogin(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/api/staff/login", domain.StaffLogin{Code: code}, nil, false)
}

func (c *Client) Scan(ctx context.Context, token string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/tickets/scan", domain.ScanRequest{Token: token}, &out, false)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var token string
	if auth {
		var ok bool
		if token, ok = c.tokens.Get(); !ok {
			return ErrNoSession
		}
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if res.StatusCode == http.StatusUnauthorized && auth {
		log.Printf("[client] session rejected by %s, clearing token", path)
		c.tokens.Clear()
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return apiError(res.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w from %s", ErrMalformedPayload, path)
	}
	return json.Unmarshal(data, out)
}

func apiError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if !gjson.ValidBytes(body) {
		return e
	}
	res := gjson.ParseBytes(body)
	e.Code = res.Get("error").String()
	e.Message = res.Get("message").String()
	if e.Message == "" && !res.Get("success").Exists() {
		// relayed upstream body: {"error": "<text>"}
		e.Message, e.Code = e.Code, ""
	}
	return e
}
