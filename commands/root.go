// Package commands provides the dcatbr command tree.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendata-br/dcatbr/config"
)

// appContext carries the loaded configuration and logger into subcommands.
type appContext struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRoot builds the root dcatbr command.
func NewRoot(version, buildTime string) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	app := &appContext{}

	cmd := &cobra.Command{
		Use:   "dcatbr",
		Short: "DCAT-BR metadata toolkit for open data portals",
		Long: `dcatbr evaluates open data portal metadata against the DCAT-BR
application profile.

It fetches dataset metadata from a dados.gov.br style portal, converts
flat CSV exports to DCAT-BR RDF, validates the resulting graphs with
SHACL, and writes validation reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			loader := config.NewLoader(logger)
			var cfg *config.Config
			if configPath != "" {
				cfg, err = loader.LoadFile(configPath)
			} else {
				cfg, err = loader.Load()
			}
			if err != nil {
				return err
			}

			app.cfg = cfg
			app.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newEvaluateCmd(app),
		newFetchCmd(app),
		newValidateCmd(app),
		newVersionCmd(version, buildTime),
	)
	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
