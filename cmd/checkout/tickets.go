package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/Domenick1991/foodday/internal/client"
	"github.com/spf13/cobra"
)

func ticketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tickets",
		Short: "List your tickets and their nomination status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			mine, err := c.MyTickets(cmd.Context())
			if err != nil {
				if errors.Is(err, client.ErrNoSession) {
					return fmt.Errorf("not logged in, run `checkout login` first")
				}
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Status == 401 {
					_ = saveSession(c)
				}
				return err
			}

			fmt.Printf("%s: %d of %d tickets nominated\n\n", mine.Email, mine.Progress.Completed, mine.Progress.Total)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TICKET\tORDER\tATTENDEE\tCOMPLETE")
			for _, t := range mine.Tickets {
				name := t.Nombre
				if t.Apellido != nil {
					name += " " + *t.Apellido
				}
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%t\n", t.ProdInfoID, t.OrderID, name, t.IsComplete == 1)
			}
			return w.Flush()
		},
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
