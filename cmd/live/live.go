package live

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mdp/qrterminal"
	"github.com/spf13/cobra"

	"nicolive-terminal/cmd/cmdutil"
	"nicolive-terminal/pkg/nicolive"
)

var env *cmdutil.Env

// SetEnv sets the environment resolved by the root command
func SetEnv(e *cmdutil.Env) {
	env = e
}

// NewLiveCmd creates the live command
func NewLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Discover the current broadcast",
		Long:  "Commands to query the publish status and RTMP endpoint of your broadcast.",
	}

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newShowCmd())

	return cmd
}

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show publish status",
		Long: `Show whether the account currently has a broadcast.

With --ticket the ticket based publish status is queried instead and the raw
response fields are printed.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	cmd.Flags().StringP("ticket", "t", "", "Query with a login ticket instead of the session")

	return cmd
}

// newProfileCmd creates the profile command
func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [live-id]",
		Short: "Show the RTMP endpoint of a broadcast",
		Long:  "Fetch the RTMP URL and stream key of the given live id.",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
}

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current broadcast endpoint",
		Long:  "Discover the current broadcast and print its live id, RTMP URL and stream key.",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	cmd.Flags().Bool("qr", false, "Also render the URL and key as QR codes")

	return cmd
}

// runStatus handles the status command
func runStatus(cmd *cobra.Command, args []string) error {
	ticket, _ := cmd.Flags().GetString("ticket")

	client, err := env.NewClient()
	if err != nil {
		return err
	}

	if ticket != "" {
		fields, err := client.PublishStatusByTicket(ticket)
		if err != nil {
			return fmt.Errorf("failed to get publish status: %w", err)
		}
		printFields(fields)
		return nil
	}

	if err := env.Authenticate(client); err != nil {
		return err
	}

	status, err := client.PublishStatus()
	if err != nil {
		return fmt.Errorf("failed to get publish status: %w", err)
	}

	switch status.State {
	case nicolive.StateLive:
		fmt.Printf("✓ Live: %s\n", status.LiveID)
	case nicolive.StateNotLive:
		fmt.Println("No live broadcast.")
	default:
		if status.ErrorCode == "unknown" {
			return errors.New("session is invalid, log in again")
		}
		return fmt.Errorf("unknown publish status (code %q)", status.ErrorCode)
	}

	return nil
}

// runProfile handles the profile command
func runProfile(cmd *cobra.Command, args []string) error {
	liveID := args[0]

	client, err := env.NewClient()
	if err != nil {
		return err
	}

	if err := env.Authenticate(client); err != nil {
		return err
	}

	profile, err := client.LiveProfile(liveID)
	if err != nil {
		return fmt.Errorf("failed to get live profile: %w", err)
	}

	printProfile(profile)
	return nil
}

// runShow handles the show command
func runShow(cmd *cobra.Command, args []string) error {
	withQR, _ := cmd.Flags().GetBool("qr")

	client, err := env.NewClient()
	if err != nil {
		return err
	}

	if err := env.Authenticate(client); err != nil {
		return err
	}

	liveID, ok := client.LiveID()
	if !ok {
		fmt.Println("No usable live broadcast found.")
		fmt.Println("Check the status with 'nicolive-terminal live status'.")
		return nil
	}

	url, okURL := client.LiveURL(liveID)
	key, okKey := client.LiveKey(liveID)
	if !okURL || !okKey {
		return fmt.Errorf("endpoint for %s is not available", liveID)
	}

	printProfile(nicolive.LiveProfile{LiveID: liveID, URL: url, Key: key})

	if withQR {
		fmt.Println("\nRTMP URL:")
		qrterminal.Generate(url, qrterminal.L, os.Stdout)
		fmt.Println("\nStream key:")
		qrterminal.Generate(key, qrterminal.L, os.Stdout)
	}

	return nil
}

func printProfile(profile nicolive.LiveProfile) {
	fmt.Printf("Live ID: %s\n", profile.LiveID)
	fmt.Printf("URL: %s\n", profile.URL)
	fmt.Printf("Key: %s\n", profile.Key)
}

func printFields(fields nicolive.Fields) {
	queries := make([]string, 0, len(fields))
	for q := range fields {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	for _, q := range queries {
		values := fields[q]
		if len(values) == 0 {
			fmt.Printf("%s: (none)\n", q)
			continue
		}
		for _, v := range values {
			fmt.Printf("%s: %s\n", q, v)
		}
	}
}
