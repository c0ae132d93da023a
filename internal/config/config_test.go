package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edaqa/internal/errors"
)

func TestLoad_DefaultsMatchDocumented(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EDAQA_MIN_ROWS", "10")
	t.Setenv("EDAQA_ZERO_SHARE", "0.25")
	t.Setenv("EDAQA_REPORT_TITLE", "Orders")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Thresholds.MinRows)
	assert.Equal(t, 0.25, cfg.Thresholds.ZeroShare)
	assert.Equal(t, "Orders", cfg.Report.Title)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edaqa.yaml")
	content := `
thresholds:
  min_rows: 30
  max_columns: 12
scoring:
  acceptance_threshold: 0.7
profiling:
  top_k: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Thresholds.MinRows)
	assert.Equal(t, 12, cfg.Thresholds.MaxColumns)
	assert.Equal(t, 0.7, cfg.Scoring.AcceptanceThreshold)
	assert.Equal(t, 3, cfg.Profiling.TopK)
	// untouched knobs keep their defaults
	assert.Equal(t, 0.5, cfg.Thresholds.MinMissingShare)
}

func TestLoad_ExplicitZerosAreKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edaqa.yaml")
	content := `
thresholds:
  min_rows: 0
scoring:
  acceptance_threshold: 0
  too_many_columns: 0
  has_many_zero_values: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("EDAQA_ZERO_SHARE", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Thresholds.MinRows)
	assert.Equal(t, 0.0, cfg.Thresholds.ZeroShare)
	assert.Equal(t, 0.0, cfg.Scoring.AcceptanceThreshold)
	assert.Equal(t, 0.0, cfg.Scoring.TooManyColumnsWeight)
	assert.Equal(t, 0.0, cfg.Scoring.ZeroValuesWeight)
	// knobs absent from the file keep their defaults
	assert.Equal(t, 0.2, cfg.Scoring.TooFewRowsWeight)
	assert.Equal(t, 100, cfg.Thresholds.MaxColumns)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("EDAQA_MIN_MISSING_SHARE", "1.5")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rows", func(c *Config) { c.Thresholds.MinRows = -1 }},
		{"zero share above one", func(c *Config) { c.Thresholds.ZeroShare = 2 }},
		{"top k", func(c *Config) { c.Profiling.TopK = 0 }},
		{"bins", func(c *Config) { c.Report.HistogramBins = 0 }},
		{"delimiter", func(c *Config) { c.Source.Delimiter = ";;" }},
		{"weight", func(c *Config) { c.Scoring.ConstantWeight = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestScoringWeights(t *testing.T) {
	w := Default().Scoring.Weights()
	assert.Len(t, w, 5)
	assert.Equal(t, 0.2, w["too_few_rows"])
}
