package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func requestLinkCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "request-link [email]",
		Short: "Email a login link (or a password reset link with --reset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			var err error
			if reset {
				err = c.ForgotPassword(cmd.Context(), args[0])
			} else {
				err = c.RequestMagicLink(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Println("If the address has tickets, a link is on its way.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "send a password reset link instead")
	return cmd
}

func loginCmd() *cobra.Command {
	var (
		email     string
		password  string
		magicLink string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a password or the token from a magic link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			var err error
			switch {
			case magicLink != "":
				_, err = c.LoginWithMagicLink(cmd.Context(), magicLink)
			case email != "" && password != "":
				_, err = c.Login(cmd.Context(), email, password)
			default:
				return fmt.Errorf("either --token or --email and --password are required")
			}
			if err != nil {
				return err
			}
			if err := saveSession(c); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Println("Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&magicLink, "token", "", "token from a magic link")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			c.Logout()
			if err := saveSession(c); err != nil && !isNotExist(err) {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
