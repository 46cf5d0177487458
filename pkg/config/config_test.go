package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/binarytree/pkg/config"
)

const (
	testMaxDepth   = 64
	testBenchItems = 250
	testBenchSeed  = 7
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "binarytree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// TestLoadConfig_EmptyFile verifies defaults fill every section.
func TestLoadConfig_EmptyFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

// TestLoadConfig_File verifies values are read from YAML.
func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `
tree:
  max_depth: 64
logging:
  level: debug
  format: json
output:
  format: table
  color: true
render:
  title: "Orders"
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  metrics_addr: ":9464"
bench:
  items: 250
  seed: 7
`))
	require.NoError(t, err)

	assert.Equal(t, testMaxDepth, cfg.Tree.MaxDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, "Orders", cfg.Render.Title)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, ":9464", cfg.Telemetry.MetricsAddr)
	assert.Equal(t, testBenchItems, cfg.Bench.Items)
	assert.Equal(t, int64(testBenchSeed), cfg.Bench.Seed)
}

// TestLoadConfig_Invalid verifies each validation rule.
func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"max depth", "tree:\n  max_depth: 0\n", config.ErrInvalidMaxDepth},
		{"log level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"output format", "output:\n  format: svg\n", config.ErrInvalidOutputFormat},
		{"bench items", "bench:\n  items: -1\n", config.ErrInvalidBenchItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestLoadConfig_MissingExplicitFile verifies an explicit path must exist.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestLoadConfig_Env verifies environment variables override the file.
func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("BINARYTREE_TREE_MAX_DEPTH", "32")
	t.Setenv("BINARYTREE_OUTPUT_FORMAT", "yaml")

	cfg, err := config.LoadConfig(writeConfig(t, "tree:\n  max_depth: 64\n"))
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Tree.MaxDepth)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
}
