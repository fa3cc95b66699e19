package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
)

var ErrUpstream = errors.New("ticket scan upstream failure")

type TicketsUseCase interface {
	Mine(ctx context.Context, userToken string) (*commerce.Response, error)
	Update(ctx context.Context, userToken, prodInfoID string, body json.RawMessage) (*commerce.Response, error)
	Scan(ctx context.Context, token string) (*domain.ScanResult, error)
	SendAccessEmail(ctx context.Context, access domain.TicketAccess) error
}

type Upstream interface {
	Do(ctx context.Context, req commerce.Request) (*commerce.Response, error)
}

type Mailer interface {
	SendTicketAccess(ctx context.Context, t domain.TicketAccess) error
}

type TicketService struct {
	upstream Upstream
	mailer   Mailer
}

func NewTicketService(upstream Upstream, mailer Mailer) *TicketService {
	return &TicketService{upstream: upstream, mailer: mailer}
}

func (s *TicketService) Mine(ctx context.Context, userToken string) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodGet, Path: "/myTickets", UserToken: userToken})
}

func (s *TicketService) Update(ctx context.Context, userToken, prodInfoID string, body json.RawMessage) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{
		Method:    http.MethodPut,
		Path:      "/ticket/" + url.PathEscape(prodInfoID),
		Body:      body,
		UserToken: userToken,
	})
}

// Scan validates a ticket token upstream. An upstream 409 means the ticket
// was already checked in and carries the original ticket detail.
func (s *TicketService) Scan(ctx context.Context, token string) (*domain.ScanResult, error) {
	resp, err := s.upstream.Do(ctx, commerce.Request{
		Method: http.MethodPost,
		Path:   "/tickets/scan",
		Body:   domain.ScanRequest{Token: token},
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ScanResult{
		Status:  resp.Status,
		Message: resp.Get("message").String(),
		Body:    resp.Body,
	}
	if t := resp.Get("ticket"); t.IsObject() {
		if ticket, ok := t.Value().(map[string]any); ok {
			result.Ticket = ticket
		}
	}

	switch {
	case resp.Status == http.StatusConflict:
		result.Outcome = domain.ScanAlreadyUsed
	case resp.Status >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.Status)
	case resp.OK() && resp.Get("success").Exists() && !resp.Get("success").Bool():
		result.Outcome = domain.ScanInvalid
		result.Status = http.StatusBadRequest
	case resp.OK():
		result.Outcome = domain.ScanValid
	default:
		result.Outcome = domain.ScanInvalid
	}
	log.Printf("[tickets] scan outcome=%s status=%d", result.Outcome, result.Status)
	return result, nil
}

func (s *TicketService) SendAccessEmail(ctx context.Context, access domain.TicketAccess) error {
	return s.mailer.SendTicketAccess(ctx, access)
}

var _ TicketsUseCase = (*TicketService)(nil)
