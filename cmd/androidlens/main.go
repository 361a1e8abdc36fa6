// Androidlens shows the metadata of a forensically seized Android device.
//
// It fetches device data from an HTTP API (or built-in sample data) and
// presents it as a terminal dashboard, a web dashboard with live toasts, or
// one-shot printed output.
//
// Usage:
//
//	androidlens [command] [flags]
//
// Running without arguments launches the terminal dashboard when stdout is
// a terminal and prints the device details otherwise.
// See 'androidlens --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/androidlens/internal/config"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	configPath string
	apiURL     string
)

var rootCmd = &cobra.Command{
	Use:   "androidlens",
	Short: "Android Lens device metadata dashboard",
	Long: `Android Lens presents the metadata of a seized Android device.

Device data comes from the HTTP API configured in the config file (or --api).
Without an API the built-in sample device is shown.

If no command is specified, the terminal dashboard launches when stdout is a
terminal; otherwise the device details are printed.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if ui.IsTerminal() {
			return runDashboard(cmd, args)
		}
		return runShow(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: OS config dir)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Device API base URL (overrides api.base_url)")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies global flag overrides
func loadConfig() (*config.Registry, error) {
	var (
		reg *config.Registry
		err error
	)
	if configPath != "" {
		reg, err = config.LoadFile(configPath)
	} else {
		reg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if apiURL != "" {
		reg.API.BaseURL = apiURL
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("androidlens %s (%s, %s)\n", version.Full(), info.GoVersion, info.Platform)
	},
}
