package domain

import (
	"bytes"
	"encoding/json"
)

// Ticket is a purchased seat as returned by the commerce API.
type Ticket struct {
	ProdInfoID int64   `json:"prodinfoid"`
	OrderID    int64   `json:"orderid"`
	Nombre     string  `json:"nombre"`
	Apellido   *string `json:"apellido"`
	Empresa    *string `json:"empresa"`
	Provincia  *string `json:"provincia"`
	Industria  *string `json:"industria"`
	LinkedIn   *string `json:"linkedin"`
	Interes    *string `json:"interes"`
	Mail       *string `json:"mail"`
	Telefono   *string `json:"telefono"`
	IsComplete int     `json:"is_complete"`
	UpdatedAt  *string `json:"updated_at"`
}

type TicketProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type MyTickets struct {
	Success  bool           `json:"success"`
	Email    string         `json:"email"`
	Tickets  []Ticket       `json:"tickets"`
	Progress TicketProgress `json:"progress"`
}

// TicketUpdate is the nomination payload for one ticket.
type TicketUpdate struct {
	Nombre    string `json:"nombre" validate:"required"`
	Apellido  string `json:"apellido" validate:"required"`
	Empresa   string `json:"empresa,omitempty"`
	Provincia string `json:"provincia,omitempty"`
	Industria string `json:"industria,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,linkedin"`
	Interes   string `json:"interes,omitempty"`
	Mail      string `json:"mail" validate:"required,email"`
	Telefono  string `json:"telefono,omitempty"`
}

// TicketAccess describes the QR ticket email for a nominated attendee.
type TicketAccess struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email" binding:"required"`
	TicketID FlexID `json:"ticketId" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Almuerzo bool   `json:"almuerzo"`
}

type ScanOutcome string

const (
	ScanValid       ScanOutcome = "VALID"
	ScanAlreadyUsed ScanOutcome = "ALREADY_USED"
	ScanInvalid     ScanOutcome = "INVALID"
)

// ScanResult is the staff-facing outcome of validating a ticket token.
type ScanResult struct {
	Outcome ScanOutcome
	Status  int
	Message string
	Ticket  map[string]any
	Body    json.RawMessage
}

// FlexID accepts an identifier sent either as a JSON string or a JSON number.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}
