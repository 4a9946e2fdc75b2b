// Package cli implements the railwatchd command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
}

var flags rootFlags

// NewRootCmd creates the top-level "railwatchd" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "railwatchd",
		Short: "Track train identity continuity inside a game simulation",
		Long: "railwatchd observes entity-lifecycle events from a host game engine,\n" +
			"keeps a registry of live trains, and republishes derived train-removed\n" +
			"notifications over HTTP and websocket.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .railwatch)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if flags.configDir != "" {
		return flags.configDir
	}
	if v := os.Getenv("RAILWATCH_CONFIG_DIR"); v != "" {
		return v
	}
	return ".railwatch"
}
