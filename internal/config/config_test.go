package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scapegoat"
	"github.com/INLOpen/scapegoat/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "griefer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.InDelta(t, scapegoat.DefaultAlpha, cfg.Tree.Alpha, 1e-12)
	assert.Equal(t, config.DefaultCapacity, cfg.Tree.Capacity)
	assert.Equal(t, config.DefaultStrict, cfg.Loader.Strict)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Logging.Format)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
tree:
  alpha: 0.75
  capacity: 5000
loader:
  strict: true
output:
  format: table
logging:
  level: debug
  format: json
metrics:
  addr: "127.0.0.1:9102"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, cfg.Tree.Alpha, 1e-12)
	assert.Equal(t, 5000, cfg.Tree.Capacity)
	assert.True(t, cfg.Loader.Strict)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9102", cfg.Metrics.Addr)

	tree := scapegoat.New(cfg.TreeOptions()...)
	assert.InDelta(t, 0.75, tree.Alpha(), 1e-12)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "alpha too small", body: "tree:\n  alpha: 0.5\n", wantErr: config.ErrInvalidAlpha},
		{name: "alpha too large", body: "tree:\n  alpha: 1.0\n", wantErr: config.ErrInvalidAlpha},
		{name: "negative capacity", body: "tree:\n  capacity: -1\n", wantErr: config.ErrInvalidCapacity},
		{name: "bad output format", body: "output:\n  format: xml\n", wantErr: config.ErrInvalidFormat},
		{name: "bad log level", body: "logging:\n  level: loud\n", wantErr: config.ErrInvalidLogLevel},
		{name: "bad log format", body: "logging:\n  format: xml\n", wantErr: config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("GRIEFER_TREE_ALPHA", "0.8")
	t.Setenv("GRIEFER_OUTPUT_FORMAT", "table")

	cfg, err := config.LoadConfig(writeConfig(t, "tree:\n  alpha: 0.7\n"))
	require.NoError(t, err)

	assert.InDelta(t, 0.8, cfg.Tree.Alpha, 1e-12)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := config.LoggingConfig{Level: "info", Format: "json"}.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
