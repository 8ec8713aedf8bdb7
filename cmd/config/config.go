package configcmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"nicolive-terminal/cmd/cmdutil"
)

var env *cmdutil.Env

// SetEnv sets the environment resolved by the root command
func SetEnv(e *cmdutil.Env) {
	env = e
}

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long:  "Commands to create and inspect the configuration file. Passwords are never stored.",
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration")

	return cmd
}

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
}

// newPathCmd creates the path command
func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(env.ConfigPath)
			return nil
		},
	}
}

// newRemoveCmd creates the remove command
func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the managed configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Storage.RemoveConfig(); err != nil {
				return fmt.Errorf("failed to remove config: %w", err)
			}
			fmt.Printf("✓ Removed %s\n", env.Storage.ConfigPath())
			return nil
		},
	}
}

// runInit handles the init command
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := env.Storage.InitConfig(force)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("✓ Wrote default configuration to %s\n", path)
	return nil
}

// runShow handles the show command
func runShow(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(env.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	fmt.Printf("# %s\n", env.ConfigPath)
	fmt.Print(string(data))
	return nil
}
