package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"nicolive-terminal/cmd/cmdutil"
)

var env *cmdutil.Env

// SetEnv sets the environment resolved by the root command
func SetEnv(e *cmdutil.Env) {
	env = e
}

// NewAuthCmd creates the auth command
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Niconico authentication",
		Long: `Commands to log in to Niconico and to check a session.

Sessions are kept in memory only. To reuse a session across runs, print it
with 'auth login --print-session' and pass it back with --session or
NICOLIVE_SESSION.`,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newTicketCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// newLoginCmd creates the login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with mail and password",
		Long:  "Log in to the configured site and obtain a user_session cookie.",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}

	cmd.Flags().Bool("print-session", false, "Print the user_session token after login")

	return cmd
}

// newTicketCmd creates the ticket command
func newTicketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Obtain a login ticket",
		Long:  "Exchange mail and password for a ticket as used by encoder clients.",
		Args:  cobra.NoArgs,
		RunE:  runTicket,
	}

	cmd.Flags().StringP("site", "s", "", "Ticket site (default from config, nicolive_encoder)")

	return cmd
}

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test session validity",
		Long:  "Test whether the given session, or a fresh login, is accepted by the server.",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

// runLogin handles the login command
func runLogin(cmd *cobra.Command, args []string) error {
	printSession, _ := cmd.Flags().GetBool("print-session")

	creds, err := env.Credentials()
	if err != nil {
		return err
	}

	client, err := env.NewClient()
	if err != nil {
		return err
	}

	fmt.Printf("Logging in to %s...\n", env.Config.Account.Site)

	client.SetAccount(creds)
	if err := client.Login(); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login succeeded")
	if printSession {
		if session, ok := client.Session(); ok {
			fmt.Printf("Session: %s\n", session)
		}
	}

	return nil
}

// runTicket handles the ticket command
func runTicket(cmd *cobra.Command, args []string) error {
	site, _ := cmd.Flags().GetString("site")

	creds, err := env.Credentials()
	if err != nil {
		return err
	}

	client, err := env.NewClient()
	if err != nil {
		return err
	}

	ticket, err := client.LoginByTicket(site, creds)
	if err != nil {
		return fmt.Errorf("ticket login failed: %w", err)
	}

	fmt.Printf("✓ Ticket: %s\n", ticket)
	return nil
}

// runCheck handles the check command
func runCheck(cmd *cobra.Command, args []string) error {
	client, err := env.NewClient()
	if err != nil {
		return err
	}

	if err := env.Authenticate(client); err != nil {
		return err
	}

	fmt.Print("Testing session... ")

	if !client.CheckSession() {
		fmt.Println("✗ Session is invalid")
		fmt.Println("Log in again with:")
		fmt.Println("  nicolive-terminal auth login --print-session")
		return fmt.Errorf("session is invalid")
	}

	fmt.Println("✓ Session is valid")
	return nil
}
