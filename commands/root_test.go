package commands

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-br/dcatbr/config"
)

func TestNewRootSubcommands(t *testing.T) {
	cmd := NewRoot("0.1.0", "dev")

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"evaluate", "fetch", "validate", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		logger, err := newLogger(level)
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, logger)
	}

	_, err := newLogger("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestConverterForTrimsSlash(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Portal.BaseURL = "https://dados.example.gov.br/"

	conv := converterFor(cfg)
	require.NotNil(t, conv)
}

func TestEvaluateFlags(t *testing.T) {
	app := &appContext{cfg: config.DefaultConfig(), logger: slog.Default()}
	cmd := newEvaluateCmd(app)

	limit, err := cmd.Flags().GetInt("limit")
	require.NoError(t, err)
	assert.Equal(t, -1, limit)
	require.NotNil(t, cmd.Flags().Lookup("output-dir"))
	require.NotNil(t, cmd.Flags().Lookup("shapes-dir"))
}

func TestFetchDefaults(t *testing.T) {
	app := &appContext{cfg: config.DefaultConfig(), logger: slog.Default()}

	list := newFetchListCmd(app)
	out, err := list.Flags().GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "lista_conjuntos.csv", out)

	details := newFetchDetailsCmd(app)
	in, err := details.Flags().GetString("input")
	require.NoError(t, err)
	assert.Equal(t, "lista_conjuntos.csv", in)
	out, err = details.Flags().GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "dados/dados_scraping.csv", out)
}
