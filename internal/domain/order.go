package domain

import "time"

// Order is the upstream identity of a purchase attempt.
type Order struct {
	ID          int64  `json:"orderid"`
	PaymentLink string `json:"paymentlink"`
}

// CreateOrderRequest is the body sent to the BFF (and relayed upstream) to open an order.
type CreateOrderRequest struct {
	Company    string `json:"company" binding:"required"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Lunch      *bool  `json:"lunch" binding:"required"`
	OptIn      *bool  `json:"optIn" binding:"required"`
	TicketType string `json:"ticketType,omitempty"`
	UnitPrice  int64  `json:"unitPrice,omitempty"`
	TotalPrice int64  `json:"totalPrice,omitempty"`
}

// NewCreateOrderRequest freezes the draft and its quote into a creation request.
func NewCreateOrderRequest(d BookingDraft, q Quote) CreateOrderRequest {
	lunch, optIn := q.Lunch, d.OptIn
	return CreateOrderRequest{
		Company:    d.Company,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Phone:      d.Phone,
		Quantity:   q.Quantity,
		Lunch:      &lunch,
		OptIn:      &optIn,
		TicketType: q.TicketType(),
		UnitPrice:  q.UnitPrice,
		TotalPrice: q.TotalPrice,
	}
}

type PaymentStatus struct {
	Paid bool `json:"response"`
}

// ConfirmOrderRequest asks the BFF to send the order confirmation email.
type ConfirmOrderRequest struct {
	OrderID    int64  `json:"orderid" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Name       string `json:"name"`
	TicketType string `json:"ticketType"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	TotalPrice string `json:"totalPrice"`
}

type LineItem struct {
	Name     string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// PurchaseEvent is the tracking record emitted once an order is observed paid.
type PurchaseEvent struct {
	ID         string     `json:"event_id"`
	Event      string     `json:"event"`
	OrderID    int64      `json:"order_id"`
	Value      int64      `json:"value"`
	Currency   string     `json:"currency"`
	Email      string     `json:"email,omitempty"`
	Items      []LineItem `json:"items"`
	OccurredAt time.Time  `json:"occurred_at"`
}
