package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pagelayout/assembly"
	"github.com/tsawler/pagelayout/model"
)

func TestDefaultMatchesAssemblyDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	got := cfg.AssemblyConfig(nil)
	want := assembly.DefaultConfig()
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestParseOverridesOnlyGivenKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
assembly:
  merge_threshold: 0.6
  label_policy:
    strong: [table, formula, code]
reading_order:
  spanning_threshold: 0.8
workers: 3
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Assembly.MergeThreshold)
	assert.Equal(t, 0.2, cfg.Assembly.ContainmentThreshold)
	assert.Equal(t, 10, cfg.Assembly.MaxIterations)
	assert.Equal(t, []model.Label{model.LabelTable, model.LabelFormula, model.LabelCode}, cfg.Assembly.LabelPolicy.Strong)
	assert.Equal(t, []model.Label{model.LabelText, model.LabelListItem}, cfg.Assembly.LabelPolicy.Weak)
	assert.Equal(t, 0.8, cfg.ReadingOrder.SpanningThreshold)
	assert.Equal(t, 3, cfg.Workers)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseLabelNames(t *testing.T) {
	cfg, err := Parse([]byte("assembly:\n  protected_labels: [Table, page-header, section_header]\n"))
	require.NoError(t, err)
	assert.Equal(t, []model.Label{model.LabelTable, model.LabelPageHeader, model.LabelSectionHeader}, cfg.Assembly.ProtectedLabels)

	_, err = Parse([]byte("assembly:\n  protected_labels: [sidebar]\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownLabel))
}

func TestParseTieBreak(t *testing.T) {
	cfg, err := Parse([]byte("assembly:\n  tie_break: highest-confidence\n"))
	require.NoError(t, err)
	assert.Equal(t, assembly.TieHighestConfidence, cfg.AssemblyConfig(nil).TieBreak)

	_, err = Parse([]byte("assembly:\n  tie_break: coin_flip\n"))
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"merge threshold", "assembly:\n  merge_threshold: 1.5\n"},
		{"containment threshold", "assembly:\n  containment_threshold: 0\n"},
		{"iterations", "assembly:\n  max_iterations: 0\n"},
		{"workers", "workers: 0\n"},
		{"min overlap", "reading_order:\n  min_overlap: -1\n"},
		{"spanning", "reading_order:\n  spanning_threshold: 2\n"},
		{"log level", "log_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("workers: [1, 2"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagelayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Assembly.ProtectedLabels = []model.Label{model.LabelTable, model.LabelKeyValueRegion}

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "key_value_region")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
