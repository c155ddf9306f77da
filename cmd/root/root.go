// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	User      string
	FileType  string
	LogLevel  string
	LogFormat string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies, built on first use
	AppContainer *container.Container

	// ConfigFile is an explicit config path given with --config
	ConfigFile string

	// DatabasePath overrides database.path when set
	DatabasePath string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-import",
		Short: "Import Russian bank statements into a local ledger with automatic categorization.",
		Long: `statement-import detects the issuing bank of a CSV or PDF statement,
parses its transactions, categorizes them with keyword rules and an optional
language model, and stores them for a user and account without duplicates.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-import!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.LoadConfig(ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyFlagOverrides(cfg)
			AppConfig = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
			AppContainer = nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.statement-import, .statement-import and .)")
	Cmd.PersistentFlags().StringVar(&DatabasePath, "db", "", "SQLite database path")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

func applyFlagOverrides(cfg *config.Config) {
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if DatabasePath != "" {
		cfg.Database.Path = DatabasePath
	}
}

// GetConfig returns the loaded configuration, falling back to defaults when
// the pre-run hook has not executed.
func GetConfig() (*config.Config, error) {
	if AppConfig != nil {
		return AppConfig, nil
	}
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, err
	}
	AppConfig = cfg
	return cfg, nil
}

// GetContainer returns the shared container, creating it on first call.
func GetContainer() (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	c, err := container.NewContainer(cfg, container.WithLogger(Log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	AppContainer = c
	return c, nil
}
