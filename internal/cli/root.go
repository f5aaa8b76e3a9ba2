// Package cli wires the backoffice binary: configuration, logging and the
// commands that run the HTTP server or bootstrap a tenant.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/contalink/backoffice/internal/pkg/config"
	"github.com/contalink/backoffice/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the root command of the backoffice binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "backoffice",
		Short:         "Multi-tenant accounting and inventory back-office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (trace|debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// bootstrap loads the configuration and initialises the logger.
func bootstrap(ctx context.Context, opts *RootOptions) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	format := logger.FormatConsole
	if cfg.IsProduction() {
		format = logger.FormatJSON
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  format,
		Service: "backoffice",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}
