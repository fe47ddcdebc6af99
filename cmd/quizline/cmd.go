package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/mroshb/quizline/internal/config"
	"github.com/mroshb/quizline/internal/database"
	"github.com/mroshb/quizline/pkg/logger"
)

func newCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:     "quizline",
		Short:   "A trivia quiz you can play on the console or over the network.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&opts.tcpAddr, "tcp-addr", "", "address for the line protocol, empty to disable (env: TCP_ADDR)")
	fs.StringVar(&opts.wsAddr, "ws-addr", "", "address for the WebSocket server, empty to disable (env: WS_ADDR)")
	fs.BoolVar(&opts.console, "console", true, "serve the local console (env: CONSOLE_ENABLED)")

	cmd.AddCommand(newImportCmd(), newTokenCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("quizline v{{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// setup loads the environment, the logger and the configuration shared
// by every subcommand.
func setup() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment")
	}

	logger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			return nil, fmt.Errorf("production security validation failed: %w", err)
		}
		logger.Info("Production security validation passed")
	}

	return cfg, nil
}

// openDatabase connects and migrates the catalog database.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}
