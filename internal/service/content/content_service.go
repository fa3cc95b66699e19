package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/tidwall/gjson"
)

var (
	ErrCatalogNotConfigured = errors.New("catalog api url not configured")
	ErrSubscribeRejected    = errors.New("newsletter subscription rejected")
)

// UpstreamStatusError reports a non-success status from the catalog API.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("catalog api status %d", e.Status)
}

type ContentUseCase interface {
	FAQs(ctx context.Context) ([]json.RawMessage, error)
	RefreshFAQs(ctx context.Context) (int, error)
	Subscribe(ctx context.Context, sub domain.Subscription) error
	SubmitSponsorLead(ctx context.Context, lead domain.SponsorLead) (*commerce.Response, error)
	Sponsors(ctx context.Context) []json.RawMessage
}

type Upstream interface {
	Do(ctx context.Context, req commerce.Request) (*commerce.Response, error)
}

type Catalog interface {
	Upstream
	Configured() bool
}

type Cache interface {
	GetFAQs(ctx context.Context) ([]json.RawMessage, error)
	SetFAQs(ctx context.Context, faqs []json.RawMessage) error
}

type LeadMailer interface {
	SendSponsorLead(ctx context.Context, lead domain.SponsorLead) error
}

type ContentService struct {
	upstream Upstream
	catalog  Catalog
	cache    Cache
	mailer   LeadMailer
}

func NewContentService(upstream Upstream, catalog Catalog, cache Cache, mailer LeadMailer) *ContentService {
	return &ContentService{upstream: upstream, catalog: catalog, cache: cache, mailer: mailer}
}

// FAQs returns the visible questions ordered by their "orden" field, served
// from cache when possible.
func (s *ContentService) FAQs(ctx context.Context) ([]json.RawMessage, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFAQs(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("[content] faq cache read failed: %v", err)
		}
	}
	return s.fetchFAQs(ctx)
}

// RefreshFAQs reloads the catalog into the cache and reports how many entries were stored.
func (s *ContentService) RefreshFAQs(ctx context.Context) (int, error) {
	faqs, err := s.fetchFAQs(ctx)
	if err != nil {
		return 0, err
	}
	return len(faqs), nil
}

func (s *ContentService) fetchFAQs(ctx context.Context) ([]json.RawMessage, error) {
	if s.catalog == nil || !s.catalog.Configured() {
		return nil, ErrCatalogNotConfigured
	}

	resp, err := s.catalog.Do(ctx, commerce.Request{Method: http.MethodGet, Path: "/frequentquestions", BearerOnly: true})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &UpstreamStatusError{Status: resp.Status}
	}

	faqs := filterFAQs(resp.Body)
	if s.cache != nil {
		if err := s.cache.SetFAQs(ctx, faqs); err != nil {
			log.Printf("[content] faq cache write failed: %v", err)
		}
	}
	return faqs, nil
}

func filterFAQs(body []byte) []json.RawMessage {
	items := listItems(body)

	visible := make([]gjson.Result, 0, len(items))
	for _, item := range items {
		if isVisible(item.Get("visible")) {
			visible = append(visible, item)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Get("orden").Float() < visible[j].Get("orden").Float()
	})

	out := make([]json.RawMessage, 0, len(visible))
	for _, item := range visible {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out
}

// listItems accepts either a bare array or one wrapped in "data".
func listItems(body []byte) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	if data := root.Get("data"); data.IsArray() {
		return data.Array()
	}
	return nil
}

func isVisible(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num == 1
	case gjson.String:
		return v.Str == "1"
	}
	return false
}

func (s *ContentService) Subscribe(ctx context.Context, sub domain.Subscription) error {
	resp, err := s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/subscribe", Body: sub})
	if resp != nil && !resp.OK() {
		return fmt.Errorf("%w: status %d", ErrSubscribeRejected, resp.Status)
	}
	if err != nil && !errors.Is(err, commerce.ErrMalformedResponse) {
		return err
	}
	return nil
}

// SubmitSponsorLead forwards the lead and, once accepted upstream, mails it
// to the team. A non-JSON upstream body is replaced by {"success": <2xx>}.
func (s *ContentService) SubmitSponsorLead(ctx context.Context, lead domain.SponsorLead) (*commerce.Response, error) {
	resp, err := s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/agregarSponsors", Body: lead})
	if errors.Is(err, commerce.ErrMalformedResponse) && resp != nil {
		resp.Body, _ = json.Marshal(map[string]bool{"success": resp.OK()})
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if resp.OK() && s.mailer != nil {
		if err := s.mailer.SendSponsorLead(ctx, lead); err != nil {
			log.Printf("[content] sponsor lead %q not delivered: %v", lead.Empresa, err)
		}
	}
	return resp, nil
}

// Sponsors never fails: any problem yields an empty list.
func (s *ContentService) Sponsors(ctx context.Context) []json.RawMessage {
	out := []json.RawMessage{}
	if s.catalog == nil || !s.catalog.Configured() {
		return out
	}

	resp, err := s.catalog.Do(ctx, commerce.Request{Method: http.MethodGet, Path: "/contactos?tipo=sponsor"})
	if err != nil {
		log.Printf("[content] sponsor list unavailable: %v", err)
		return out
	}
	if !resp.OK() {
		log.Printf("[content] sponsor list status %d", resp.Status)
		return out
	}

	for _, item := range listItems(resp.Body) {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out
}

var _ ContentUseCase = (*ContentService)(nil)
