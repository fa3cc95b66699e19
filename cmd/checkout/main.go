package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Domenick1991/foodday/internal/client"
	"github.com/spf13/cobra"
)

var (
	bffURL      string
	sessionFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "checkout",
		Short:        "Buy and manage Food Delivery Day tickets from the terminal",
		SilenceUsage: true,
	}

	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&bffURL, "bff", envOr("FOODDAY_BFF_URL", "http://localhost:8080"), "BFF base URL")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", filepath.Join(home, ".foodday-session"), "where the ticket-holder session token is kept")

	rootCmd.AddCommand(buyCmd())
	rootCmd.AddCommand(requestLinkCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(ticketsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newClient returns a BFF client whose token slot is seeded from the session file.
func newClient() *client.Client {
	c := client.New(bffURL)
	if data, err := os.ReadFile(sessionFile); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			c.Tokens().Set(token)
		}
	}
	return c
}

func saveSession(c *client.Client) error {
	token, ok := c.Tokens().Get()
	if !ok {
		return os.Remove(sessionFile)
	}
	return os.WriteFile(sessionFile, []byte(token+"\n"), 0o600)
}
