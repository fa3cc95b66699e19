package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrTransport         = errors.New("commerce: upstream unreachable")
	ErrMalformedResponse = errors.New("commerce: malformed upstream response")
)

const (
	HeaderClient = "client"
	HeaderSecret = "x-foodday-secret"
	HeaderDB     = "dbtoken"
)

// Config holds the server-side secrets injected into every upstream call.
type Config struct {
	BaseURL  string
	Token    string
	Secret   string
	ClientID string
	DBToken  string
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an upstream base URL is set.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// Request is one upstream call. UserToken, when set, replaces the service
// bearer token so ticket-holder routes act on behalf of the caller.
// BearerOnly drops every injected secret except the bearer token.
type Request struct {
	Method     string
	Path       string
	Body       any
	UserToken  string
	BearerOnly bool
}

type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Do performs the request. A transport failure returns ErrTransport and no
// response. A body that is not JSON returns the response together with
// ErrMalformedResponse so callers that tolerate it can still read the status.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal upstream body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + req.Path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	c.setHeaders(httpReq, req)

	log.Printf("[commerce] %s %s", method, url)

	res, err := c.http.Do(httpReq)
	if err != nil {
		log.Printf("[commerce] network error calling %s: %v", url, err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	resp := &Response{Status: res.StatusCode, Body: data}
	if !resp.OK() {
		log.Printf("[commerce] error %d from %s: %s", res.StatusCode, url, truncate(data, 256))
	}
	if !gjson.ValidBytes(data) {
		return resp, ErrMalformedResponse
	}
	return resp, nil
}

func (c *Client) setHeaders(r *http.Request, req Request) {
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	switch {
	case req.UserToken != "":
		r.Header.Set("Authorization", "Bearer "+req.UserToken)
	case c.cfg.Token != "":
		r.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if req.BearerOnly {
		return
	}
	if c.cfg.ClientID != "" {
		r.Header.Set(HeaderClient, c.cfg.ClientID)
	}
	if c.cfg.Secret != "" {
		r.Header.Set(HeaderSecret, c.cfg.Secret)
	}
	if c.cfg.DBToken != "" {
		r.Header.Set(HeaderDB, c.cfg.DBToken)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
