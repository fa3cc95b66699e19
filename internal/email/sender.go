package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/foodday/internal/domain"
)

// QRSource produces the QR for a ticket token.
type QRSource interface {
	ImageURL(token string) string
	Render(token string) ([]byte, error)
}

type OrderConfirmation struct {
	To         string
	Name       string
	OrderID    int64
	TicketType string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

type Sender struct {
	transport    Transport
	contactEmail string
	siteURL      string
	event        Event
	qr           QRSource
	leadNotifier Notifier
}

type Option func(*Sender)

func WithContactEmail(addr string) Option {
	return func(s *Sender) {
		s.contactEmail = addr
	}
}

func WithSiteURL(site string) Option {
	return func(s *Sender) {
		s.siteURL = strings.TrimRight(site, "/")
	}
}

func WithQR(qr QRSource) Option {
	return func(s *Sender) {
		s.qr = qr
	}
}

// WithLeadNotifier sets where sponsor leads go when the email cannot be sent.
func WithLeadNotifier(n Notifier) Option {
	return func(s *Sender) {
		s.leadNotifier = n
	}
}

func NewSender(transport Transport, opts ...Option) *Sender {
	s := &Sender{
		transport:    transport,
		contactEmail: "info@fooddeliveryday.com.ar",
		event:        DefaultEvent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendAccessLink mails a magic-link (or password reset link when reset is true).
func (s *Sender) SendAccessLink(ctx context.Context, to, link string, reset bool) error {
	html, err := render("access_link.html", struct {
		Link  string
		Reset bool
		Event Event
	}{link, reset, s.event})
	if err != nil {
		return err
	}

	subject := "Acceso a tus entradas - Food Delivery Day"
	if reset {
		subject = "Restablecer contraseña - Food Delivery Day"
	}

	if err := s.transport.Send(ctx, Message{
		To:      []Address{{Email: to}},
		Subject: subject,
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("send access link: %w", err)
	}
	log.Printf("[email] access link sent to %s (reset=%t)", to, reset)
	return nil
}

func (s *Sender) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	html, err := render("order_confirmation.html", struct {
		OrderConfirmation
		SiteURL string
		Event   Event
	}{c, s.siteURL, s.event})
	if err != nil {
		return err
	}

	if err := s.transport.Send(ctx, Message{
		To:      []Address{{Email: c.To, Name: c.Name}},
		Subject: fmt.Sprintf("¡Pago Confirmado! - Orden #%d", c.OrderID),
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	log.Printf("[email] order confirmation sent to %s order=%d", c.To, c.OrderID)
	return nil
}

// SendTicketAccess mails the QR ticket to a nominated attendee.
func (s *Sender) SendTicketAccess(ctx context.Context, t domain.TicketAccess) error {
	attendee := strings.TrimSpace(t.Nombre + " " + t.Apellido)
	data := struct {
		Attendee     string
		Lunch        bool
		Token        string
		QRImageURL   string
		CalendarURL  string
		ContactEmail string
		Event        Event
	}{
		Attendee:     attendee,
		Lunch:        t.Almuerzo,
		Token:        t.Token,
		CalendarURL:  s.event.CalendarURL(),
		ContactEmail: s.contactEmail,
		Event:        s.event,
	}

	msg := Message{
		To:      []Address{{Email: t.Email, Name: attendee}},
		Subject: "🎟️ Tu entrada para Food Delivery Day",
	}
	if s.qr != nil {
		data.QRImageURL = s.qr.ImageURL(t.Token)
		img, err := s.qr.Render(t.Token)
		if err != nil {
			log.Printf("[email] qr render failed for ticket %s: %v", t.TicketID, err)
		} else {
			msg.Attachments = append(msg.Attachments, Attachment{
				Name:        fmt.Sprintf("entrada-%s.jpeg", t.TicketID),
				ContentType: "image/jpeg",
				Content:     img,
			})
		}
	}

	html, err := render("ticket_access.html", data)
	if err != nil {
		return err
	}
	msg.HTML = html

	if err := s.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("send ticket access: %w", err)
	}
	log.Printf("[email] ticket %s sent to %s", t.TicketID, t.Email)
	return nil
}

// SendSponsorLead mails the lead to the contact inbox; on failure the lead is
// posted to the chat webhook so it is not lost.
func (s *Sender) SendSponsorLead(ctx context.Context, lead domain.SponsorLead) error {
	html, err := render("sponsor_lead.html", lead)
	if err != nil {
		return err
	}

	sendErr := s.transport.Send(ctx, Message{
		To:      []Address{{Email: s.contactEmail}},
		ReplyTo: &Address{Email: lead.Email, Name: lead.Nombre},
		Subject: "📢 Nuevo Sponsor Interesado: " + lead.Empresa,
		HTML:    html,
	})
	if sendErr == nil {
		log.Printf("[email] sponsor lead %q sent to %s", lead.Empresa, s.contactEmail)
		return nil
	}

	log.Printf("[email] sponsor lead email failed: %v", sendErr)
	if s.leadNotifier == nil {
		return fmt.Errorf("send sponsor lead: %w", sendErr)
	}
	if err := s.leadNotifier.Notify(ctx, "❌ Error enviando Lead de Sponsor: "+lead.Empresa, leadFields(lead, sendErr)); err != nil {
		log.Printf("[email] sponsor lead fallback failed: %v", err)
		return fmt.Errorf("send sponsor lead: %w", sendErr)
	}
	return nil
}

func leadFields(lead domain.SponsorLead, cause error) []Field {
	nota := lead.Nota
	if nota == "" {
		nota = "Sin mensaje"
	} else if r := []rune(nota); len(r) > 500 {
		nota = string(r[:500])
	}
	return []Field{
		{Name: "Error", Value: cause.Error()},
		{Name: "Empresa", Value: lead.Empresa},
		{Name: "Contacto", Value: fmt.Sprintf("%s (%s)", lead.Nombre, lead.Puesto)},
		{Name: "Email", Value: lead.Email},
		{Name: "Teléfono", Value: lead.Telefono},
		{Name: "Mensaje", Value: nota},
	}
}
