package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/foodday/internal/checkout"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/spf13/cobra"
)

type buyOptions struct {
	draft      domain.BookingDraft
	noOptIn    bool
	basePrice  int64
	lunchPrice int64
	siteURL    string
}

type printer struct{}

func (printer) Open(link string) error {
	fmt.Printf("Complete the payment at:\n  %s\n", link)
	return nil
}

func (printer) Navigate(link string) error {
	fmt.Printf("Assign your attendees at:\n  %s\n", link)
	return nil
}

func (printer) Track(_ context.Context, event domain.PurchaseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "purchase: %s\n", data)
	return nil
}

func buyCmd() *cobra.Command {
	opts := buyOptions{draft: domain.NewBookingDraft()}

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Create an order and wait until it is paid",
		Long: `Create an order, print its payment link and poll every few seconds until
the payment is confirmed. Ctrl-C abandons the order.

Example:
  checkout buy --company Acme --first-name Ana --last-name Diaz \
    --email ana@acme.com --phone +5491100000000 --quantity 2 --lunch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuy(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.draft.Company, "company", "", "company name")
	f.StringVar(&opts.draft.FirstName, "first-name", "", "purchaser first name")
	f.StringVar(&opts.draft.LastName, "last-name", "", "purchaser last name")
	f.StringVar(&opts.draft.Email, "email", "", "purchaser email")
	f.StringVar(&opts.draft.Phone, "phone", "", "purchaser phone")
	f.IntVarP(&opts.draft.Quantity, "quantity", "q", 1, "number of tickets")
	f.BoolVar(&opts.draft.Lunch, "lunch", false, "add the VIP lunch")
	f.BoolVar(&opts.noOptIn, "no-opt-in", false, "do not subscribe to event news")
	f.Int64Var(&opts.basePrice, "base-price", 12000, "ticket price in ARS")
	f.Int64Var(&opts.lunchPrice, "lunch-price", 8000, "lunch add-on price in ARS")
	f.StringVar(&opts.siteURL, "site", envOr("NEXT_PUBLIC_SITE_URL", "https://fooddeliveryday.com.ar"), "public site URL")

	return cmd
}

func runBuy(ctx context.Context, opts buyOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := printer{}
	session := checkout.NewSession(newClient(),
		domain.Pricing{BasePrice: opts.basePrice, LunchPrice: opts.lunchPrice},
		checkout.WithLinkOpener(p),
		checkout.WithTracker(p),
		checkout.WithNavigator(opts.siteURL, p),
	)
	defer session.Close()

	draft := opts.draft
	draft.OptIn = !opts.noOptIn
	if err := session.UpdateDraft(func(d *domain.BookingDraft) { *d = draft }); err != nil {
		return err
	}

	if err := session.Submit(ctx); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	order, _ := session.Order()
	quote := session.Quote()
	fmt.Printf("Order #%d: %d x %s, total %s. Waiting for payment...\n",
		order.ID, quote.Quantity, quote.TicketType(), domain.FormatPrice(quote.TotalPrice))

	select {
	case <-session.Paid():
		fmt.Printf("Order #%d paid. A confirmation email is on its way.\n", order.ID)
		return nil
	case <-ctx.Done():
		fmt.Printf("Stopped waiting for order #%d.\n", order.ID)
		return nil
	}
}
