package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Event holds the conference details printed on tickets and receipts.
type Event struct {
	Year     int
	Date     string
	Time     string
	Venue    string
	Address  string
	Calendar string
}

var DefaultEvent = Event{
	Year:     2026,
	Date:     "11 MARZO, 2026",
	Time:     "09:00 HS",
	Venue:    "JANO'S COSTANERA",
	Address:  "Av. Rafael Obligado 6340, CABA",
	Calendar: "20260311T120000Z/20260311T210000Z",
}

// CalendarURL links to a prefilled Google Calendar entry for the event.
func (e Event) CalendarURL() string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", "Food Delivery Day - Argentina")
	q.Set("details", "Tu entrada para el evento. Presentá el QR adjunto al ingresar.")
	q.Set("location", "Jano's Costanera, "+e.Address)
	q.Set("dates", e.Calendar)
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
