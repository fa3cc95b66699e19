package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/email"
	"github.com/google/uuid"
)

var (
	ErrMissingFields = errors.New("orderid and email are required")
	ErrNotPaid       = errors.New("order is not paid upstream")
)

const (
	defaultName       = "Invitado"
	defaultTicketType = "Entrada General"
	purchaseEvent     = "purchase_confirmed"
	currency          = "ARS"
)

var lunchTicketType = domain.Quote{Lunch: true}.TicketType()

type OrdersUseCase interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*commerce.Response, error)
	CheckPaid(ctx context.Context, orderID int64) (*commerce.Response, error)
	OrderTickets(ctx context.Context, orderID string) (*commerce.Response, error)
	ConfirmOrder(ctx context.Context, req domain.ConfirmOrderRequest) (bool, error)
}

type Upstream interface {
	Do(ctx context.Context, req commerce.Request) (*commerce.Response, error)
}

type Cache interface {
	AcquireConfirmationLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error)
	ReleaseConfirmationLock(ctx context.Context, orderID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, c email.OrderConfirmation) error
}

type OrderService struct {
	upstream        Upstream
	mailer          Mailer
	cache           Cache
	producer        Producer
	purchasesTopic  string
	confirmationTTL time.Duration
	pricing         domain.Pricing
}

type OrderServiceOption func(*OrderService)

// WithConfirmationLock deduplicates confirmation emails per order for ttl.
func WithConfirmationLock(cache Cache, ttl time.Duration) OrderServiceOption {
	return func(s *OrderService) {
		s.cache = cache
		s.confirmationTTL = ttl
	}
}

// WithPurchaseEvents publishes a purchase event to topic on every first
// confirmation of an order the upstream reports as paid.
func WithPurchaseEvents(producer Producer, topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.producer = producer
		s.purchasesTopic = topic
	}
}

func NewOrderService(upstream Upstream, mailer Mailer, pricing domain.Pricing, opts ...OrderServiceOption) *OrderService {
	service := &OrderService{
		upstream: upstream,
		mailer:   mailer,
		pricing:  pricing,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/crearOrden", Body: req})
}

func (s *OrderService) CheckPaid(ctx context.Context, orderID int64) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{
		Method: http.MethodPost,
		Path:   "/checkIfPaid",
		Body:   map[string]int64{"orderid": orderID},
	})
}

func (s *OrderService) OrderTickets(ctx context.Context, orderID string) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodGet, Path: "/traerProdsOrden/" + url.PathEscape(orderID)})
}

// ConfirmOrder sends the confirmation email once per order and records the
// purchase. It reports whether the email went out (or already had).
func (s *OrderService) ConfirmOrder(ctx context.Context, req domain.ConfirmOrderRequest) (bool, error) {
	if req.OrderID == 0 || req.Email == "" {
		return false, ErrMissingFields
	}
	c := s.withDefaults(req)

	if s.cache != nil {
		ok, err := s.cache.AcquireConfirmationLock(ctx, c.OrderID, s.confirmationTTL)
		if err != nil {
			log.Printf("[orders] confirmation lock unavailable for order %d: %v", c.OrderID, err)
		} else if !ok {
			log.Printf("[orders] order %d already confirmed, skipping email", c.OrderID)
			return true, nil
		}
	}

	if err := s.mailer.SendOrderConfirmation(ctx, c); err != nil {
		log.Printf("[orders] confirmation email for order %d failed: %v", c.OrderID, err)
		if s.cache != nil {
			_ = s.cache.ReleaseConfirmationLock(ctx, c.OrderID)
		}
		return false, nil
	}

	if err := s.publish(ctx, c); errors.Is(err, ErrNotPaid) {
		log.Printf("[orders] order %d is not paid upstream, purchase not recorded", c.OrderID)
	} else if err != nil {
		log.Printf("[orders] WARNING: failed to publish %s for order %d: %v", purchaseEvent, c.OrderID, err)
	}
	return true, nil
}

func (s *OrderService) withDefaults(req domain.ConfirmOrderRequest) email.OrderConfirmation {
	c := email.OrderConfirmation{
		To:         req.Email,
		Name:       req.Name,
		OrderID:    req.OrderID,
		TicketType: req.TicketType,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.TotalPrice,
	}
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.TicketType == "" {
		c.TicketType = defaultTicketType
	}
	if c.Quantity < 1 {
		c.Quantity = 1
	}
	if c.UnitPrice == "" {
		c.UnitPrice = domain.FormatPrice(s.pricing.BasePrice)
	}
	if c.TotalPrice == "" {
		c.TotalPrice = c.UnitPrice
	}
	return c
}

func (s *OrderService) publish(ctx context.Context, c email.OrderConfirmation) error {
	if s.producer == nil || s.purchasesTopic == "" {
		return nil
	}

	resp, err := s.CheckPaid(ctx, c.OrderID)
	if err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}
	if !resp.OK() || !resp.Get("response").Bool() {
		return ErrNotPaid
	}

	// Amounts come from server pricing, never from the request.
	quote, err := s.pricing.Quote(c.TicketType == lunchTicketType, c.Quantity)
	if err != nil {
		return err
	}
	event := domain.PurchaseEvent{
		ID:       uuid.NewString(),
		Event:    purchaseEvent,
		OrderID:  c.OrderID,
		Value:    quote.TotalPrice,
		Currency: currency,
		Email:    c.To,
		Items: []domain.LineItem{{
			Name:     quote.TicketType(),
			Quantity: quote.Quantity,
			Price:    quote.UnitPrice,
		}},
		OccurredAt: time.Now().UTC(),
	}
	return s.producer.Publish(ctx, s.purchasesTopic, fmt.Sprint(c.OrderID), event)
}

var _ OrdersUseCase = (*OrderService)(nil)
