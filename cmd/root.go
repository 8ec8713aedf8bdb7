package cmd

import (
	"fmt"
	"os"

	"nicolive-terminal/cmd/auth"
	"nicolive-terminal/cmd/cmdutil"
	configcmd "nicolive-terminal/cmd/config"
	"nicolive-terminal/cmd/live"
	"nicolive-terminal/pkg/config"
	"nicolive-terminal/pkg/core"
	"nicolive-terminal/pkg/storage"

	"github.com/spf13/cobra"
)

var (
	env = &cmdutil.Env{}

	configPath string
	logLevel   string
	sessionArg string
	mailArg    string
)

var rootCmd = &cobra.Command{
	Use:   "nicolive-terminal",
	Short: "Niconico Live broadcast endpoint lookup",
	Long: `A CLI tool to find the RTMP endpoint of your current Niconico Live broadcast.

This tool allows you to:
- Log in with a Niconico account or reuse an existing session
- Check whether your account currently has a broadcast
- Print the RTMP URL and stream key to feed an encoder

Examples:
  nicolive-terminal auth login --mail user@example.com
  nicolive-terminal live show --qr
  nicolive-terminal live status --session <user_session>`,
	SilenceUsage:      true,
	PersistentPreRunE: initEnv,
}

func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default .nicolive-data/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&sessionArg, "session", "", "existing user_session token (or NICOLIVE_SESSION)")
	rootCmd.PersistentFlags().StringVarP(&mailArg, "mail", "m", "", "account mail address (or NICOLIVE_MAIL)")

	rootCmd.AddCommand(auth.NewAuthCmd())
	rootCmd.AddCommand(live.NewLiveCmd())
	rootCmd.AddCommand(configcmd.NewConfigCmd())

	auth.SetEnv(env)
	live.SetEnv(env)
	configcmd.SetEnv(env)
}

func initEnv(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	storageManager, err := storage.NewStorageManager()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	cfg, err := storageManager.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	if mailArg != "" {
		cfg.Account.Mail = mailArg
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	core.InitLogger(cfg.Logging.Level)

	env.Storage = storageManager
	env.Config = cfg
	env.ConfigPath = configPath
	if env.ConfigPath == "" {
		env.ConfigPath = storageManager.ConfigPath()
	}
	env.Session = sessionArg
	if env.Session == "" {
		env.Session = os.Getenv("NICOLIVE_SESSION")
	}

	return nil
}
