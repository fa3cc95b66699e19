package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/google/uuid"
)

type State string

const (
	StateIdle           State = "idle"
	StateCreating       State = "creating"
	StatePendingPayment State = "pending_payment"
	StatePaid           State = "paid"
	StateError          State = "error"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultResetDelay   = 300 * time.Millisecond
	sideEffectTimeout   = 10 * time.Second
	currency            = "ARS"
)

var (
	ErrBusy           = errors.New("checkout: a purchase is already in progress")
	ErrNotRetryable   = errors.New("checkout: nothing to retry")
	ErrClosed         = errors.New("checkout: session closed")
	ErrNoPaymentLink  = errors.New("checkout: order has no payment link")
	ErrNoOrderID      = errors.New("checkout: order has no id")
	ErrDraftImmutable = errors.New("checkout: draft can only change before submitting")
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	CheckPaid(ctx context.Context, orderID int64) (bool, error)
	ConfirmOrder(ctx context.Context, req domain.ConfirmOrderRequest) error
}

// LinkOpener shows the payment page to the buyer.
type LinkOpener interface {
	Open(link string) error
}

type Tracker interface {
	Track(ctx context.Context, event domain.PurchaseEvent) error
}

// Navigator moves the buyer on to the nomination page once the order is paid.
type Navigator interface {
	Navigate(link string) error
}

type Option func(*Session)

func WithLinkOpener(o LinkOpener) Option {
	return func(s *Session) { s.opener = o }
}

func WithTracker(t Tracker) Option {
	return func(s *Session) { s.tracker = t }
}

func WithNavigator(siteURL string, n Navigator) Option {
	return func(s *Session) {
		s.siteURL = strings.TrimRight(siteURL, "/")
		s.navigator = n
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithResetDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.resetDelay = d
		}
	}
}

// Session is one open booking flow: a draft, the order created from it and
// the payment polling that follows. It is safe for concurrent use.
type Session struct {
	api        OrderAPI
	pricing    domain.Pricing
	opener     LinkOpener
	tracker    Tracker
	navigator  Navigator
	siteURL    string
	interval   time.Duration
	resetDelay time.Duration

	mu       sync.Mutex
	state    State
	draft    domain.BookingDraft
	quote    domain.Quote
	order    *domain.Order
	lastErr  error
	gen      uint64
	stopPoll context.CancelFunc
	paid     chan struct{}
	// clearDraft is set by Close until the delayed draft reset runs or the
	// draft is touched again, whichever comes first.
	clearDraft bool
}

func NewSession(api OrderAPI, pricing domain.Pricing, opts ...Option) *Session {
	s := &Session{
		api:        api,
		pricing:    pricing,
		interval:   defaultPollInterval,
		resetDelay: defaultResetDelay,
		state:      StateIdle,
		draft:      domain.NewBookingDraft(),
		paid:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Draft() domain.BookingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// UpdateDraft applies fn to the draft. Quantity is clamped to at least 1.
func (s *Session) UpdateDraft(fn func(*domain.BookingDraft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateError {
		return ErrDraftImmutable
	}
	s.resetDraft()
	fn(&s.draft)
	if s.draft.Quantity < 1 {
		s.draft.Quantity = 1
	}
	return nil
}

// Order returns the order being paid, if one exists.
func (s *Session) Order() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return domain.Order{}, false
	}
	return *s.order, true
}

func (s *Session) Quote() domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote
}

// Err is the reason the session is in the error state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Paid is closed when the order is confirmed paid.
func (s *Session) Paid() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paid
}

// Submit freezes the draft into a quote and creates the order. On success the
// payment link is opened and polling starts; it stops when the order is paid,
// the session is closed or ctx is canceled.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.resetDraft()
	if err := domain.Validate(s.draft); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("invalid draft: %w", err)
	}
	quote, err := s.pricing.Quote(s.draft.Lunch, s.draft.Quantity)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.quote = quote
	s.state = StateCreating
	s.lastErr = nil
	gen := s.gen
	req := domain.NewCreateOrderRequest(s.draft, quote)
	s.mu.Unlock()

	order, err := s.api.CreateOrder(ctx, req)
	switch {
	case err != nil:
	case order.ID == 0:
		err = ErrNoOrderID
	case order.PaymentLink == "":
		err = ErrNoPaymentLink
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.mu.Unlock()
		log.Printf("[checkout] create order failed: %v", err)
		return err
	}
	s.order = &order
	s.state = StatePendingPayment
	s.startPolling(ctx, gen, order.ID)
	s.mu.Unlock()

	log.Printf("[checkout] order %d created, waiting for payment", order.ID)
	if s.opener != nil {
		go func() {
			if err := s.opener.Open(order.PaymentLink); err != nil {
				log.Printf("[checkout] open payment link: %v", err)
			}
		}()
	}
	return nil
}

// startPolling must be called with mu held.
func (s *Session) startPolling(ctx context.Context, gen uint64, orderID int64) {
	if s.stopPoll != nil {
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	s.stopPoll = cancel
	go s.poll(pollCtx, gen, orderID)
}

func (s *Session) poll(ctx context.Context, gen uint64, orderID int64) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		paid, err := s.api.CheckPaid(ctx, orderID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[checkout] check order %d: %v", orderID, err)
			continue
		}
		if paid {
			s.markPaid(gen)
			return
		}
	}
}

func (s *Session) markPaid(gen uint64) {
	s.mu.Lock()
	if s.gen != gen || s.state != StatePendingPayment {
		s.mu.Unlock()
		return
	}
	s.state = StatePaid
	if s.stopPoll != nil {
		s.stopPoll()
		s.stopPoll = nil
	}
	close(s.paid)

	order, quote, draft := *s.order, s.quote, s.draft
	s.mu.Unlock()

	log.Printf("[checkout] order %d paid", order.ID)

	go s.track(purchaseEvent(order, quote, draft))
	go s.confirm(confirmRequest(order, quote, draft))

	if s.navigator != nil {
		if err := s.navigator.Navigate(NominationURL(s.siteURL, order.ID, quote.Quantity)); err != nil {
			log.Printf("[checkout] navigate to nomination: %v", err)
		}
	}
}

func (s *Session) track(event domain.PurchaseEvent) {
	if s.tracker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	if err := s.tracker.Track(ctx, event); err != nil {
		log.Printf("[checkout] track order %d: %v", event.OrderID, err)
	}
}

func (s *Session) confirm(req domain.ConfirmOrderRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	if err := s.api.ConfirmOrder(ctx, req); err != nil {
		log.Printf("[checkout] confirmation email for order %d: %v", req.OrderID, err)
	}
}

// Retry returns a failed session to idle, keeping the draft.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return ErrNotRetryable
	}
	s.state = StateIdle
	s.lastErr = nil
	return nil
}

// Close stops polling and returns the session to idle. The draft stays
// visible for the reset delay and is cleared afterwards, or as soon as it is
// edited or submitted again.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	if s.stopPoll != nil {
		s.stopPoll()
		s.stopPoll = nil
	}
	if s.state == StatePaid {
		s.paid = make(chan struct{})
	}
	s.state = StateIdle
	s.quote = domain.Quote{}
	s.order = nil
	s.lastErr = nil
	s.clearDraft = true

	time.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.resetDraft()
		}
	})
}

// resetDraft must be called with mu held.
func (s *Session) resetDraft() {
	if !s.clearDraft {
		return
	}
	s.draft = domain.NewBookingDraft()
	s.clearDraft = false
}

// NominationURL is the page where purchased seats get assigned to attendees.
func NominationURL(siteURL string, orderID int64, quantity int) string {
	return fmt.Sprintf("%s/nominar/%s?qty=%s",
		strings.TrimRight(siteURL, "/"),
		url.PathEscape(strconv.FormatInt(orderID, 10)),
		strconv.Itoa(quantity),
	)
}

func purchaseEvent(order domain.Order, quote domain.Quote, draft domain.BookingDraft) domain.PurchaseEvent {
	return domain.PurchaseEvent{
		ID:       uuid.NewString(),
		Event:    "purchase",
		OrderID:  order.ID,
		Value:    quote.TotalPrice,
		Currency: currency,
		Email:    draft.Email,
		Items: []domain.LineItem{{
			Name:     quote.TicketType(),
			Quantity: quote.Quantity,
			Price:    quote.UnitPrice,
		}},
		OccurredAt: time.Now().UTC(),
	}
}

func confirmRequest(order domain.Order, quote domain.Quote, draft domain.BookingDraft) domain.ConfirmOrderRequest {
	return domain.ConfirmOrderRequest{
		OrderID:    order.ID,
		Email:      draft.Email,
		Name:       draft.FullName(),
		TicketType: quote.TicketType(),
		Quantity:   quote.Quantity,
		UnitPrice:  domain.FormatPrice(quote.UnitPrice),
		TotalPrice: domain.FormatPrice(quote.TotalPrice),
	}
}
