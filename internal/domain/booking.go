package domain

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// BookingDraft is the in-progress purchase held by the booking flow.
type BookingDraft struct {
	Company   string `json:"company" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Lunch     bool   `json:"lunch"`
	Quantity  int    `json:"quantity" validate:"min=1"`
	OptIn     bool   `json:"optIn"`
}

// NewBookingDraft returns an empty draft with the defaults the booking form opens with.
func NewBookingDraft() BookingDraft {
	return BookingDraft{Quantity: 1, OptIn: true}
}

func (d *BookingDraft) Increment() {
	d.Quantity++
}

// Decrement lowers the quantity but never below 1.
func (d *BookingDraft) Decrement() {
	if d.Quantity > 1 {
		d.Quantity--
	}
}

func (d BookingDraft) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

type Pricing struct {
	BasePrice  int64
	LunchPrice int64
}

// Quote is the price snapshot frozen at submission time.
type Quote struct {
	Quantity   int
	Lunch      bool
	UnitPrice  int64
	TotalPrice int64
}

func (p Pricing) UnitPrice(lunch bool) int64 {
	if lunch {
		return p.BasePrice + p.LunchPrice
	}
	return p.BasePrice
}

func (p Pricing) Quote(lunch bool, quantity int) (Quote, error) {
	if quantity < 1 {
		return Quote{}, ErrInvalidQuantity
	}
	unit := p.UnitPrice(lunch)
	return Quote{
		Quantity:   quantity,
		Lunch:      lunch,
		UnitPrice:  unit,
		TotalPrice: unit * int64(quantity),
	}, nil
}

// TicketType is the line-item name shown in receipts and tracking.
func (q Quote) TicketType() string {
	if q.Lunch {
		return "Entrada + Almuerzo VIP"
	}
	return "Entrada General"
}

// FormatPrice renders an amount in pesos the way receipts print it ("$12.000").
func FormatPrice(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
