package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"edaqa/adapters/sink"
	"edaqa/domain/quality"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,amount,city,flag\n")
	for i := 0; i < rows; i++ {
		amount := 0
		if i%2 == 1 {
			amount = i
		}
		fmt.Fprintf(&b, "%d,%d,%s,1\n", i, amount, []string{"Oslo", "Rome", "Lima"}[i%3])
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestOverview(t *testing.T) {
	out, err := run(t, "overview", writeCSV(t, 10))
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 10")
	assert.Contains(t, out, "Columns: 4")
	assert.Regexp(t, `city\s+categorical\s+0\.0000\s+3`, out)
}

func TestFlagsJSON(t *testing.T) {
	out, err := run(t, "flags", writeCSV(t, 10))
	require.NoError(t, err)

	var score quality.QualityScore
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.True(t, score.Flags.TooFewRows)
	assert.True(t, score.Flags.HasConstantColumns)
	assert.Equal(t, []string{"flag"}, score.Flags.ConstantColumnNames)
	assert.True(t, score.Flags.HasManyZeroValues)
	assert.Equal(t, quality.ScopeFull, score.Flags.Scope)
}

func TestFlagsYAML(t *testing.T) {
	out, err := run(t, "flags", writeCSV(t, 10), "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "quality_score")
	assert.Contains(t, doc, "flags")
}

func TestFlagsUnknownFormat(t *testing.T) {
	_, err := run(t, "flags", writeCSV(t, 10), "--format", "xml")
	assert.Error(t, err)
}

func TestQualityCommand(t *testing.T) {
	out, err := run(t, "quality",
		"--n-rows", "5000", "--n-cols", "12",
		"--max-missing-share", "0.1",
		"--numeric-cols", "8", "--categorical-cols", "4")
	require.NoError(t, err)

	var score quality.QualityScore
	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.InDelta(t, 0.95, score.Score, 1e-9)
	assert.True(t, score.OKForModel)
	assert.Equal(t, quality.ScopeAggregated, score.Flags.Scope)
}

func TestQualityCommandRejectsEmptyShape(t *testing.T) {
	_, err := run(t, "quality", "--n-rows", "0", "--n-cols", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n_rows and n_cols must be > 0")
}

func TestFeatures(t *testing.T) {
	out, err := run(t, "features", writeCSV(t, 7))
	require.NoError(t, err)

	var f features
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 7, f.NRows)
	assert.Equal(t, 4, f.NCols)
	assert.Equal(t, []string{"id", "amount", "city", "flag"}, f.Columns)
}

func TestReportWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, "report", writeCSV(t, 20), "--out-dir", dir, "--title", "Cities", "--hist-bins", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "written to "+dir)

	for _, name := range []string{sink.MarkdownFile, sink.HTMLFile, sink.XLSXFile, sink.QualityFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	md, err := os.ReadFile(filepath.Join(dir, sink.MarkdownFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Cities")
}

func TestReportRejectsInvalidOverride(t *testing.T) {
	_, err := run(t, "report", writeCSV(t, 5), "--hist-bins", "0", "--out-dir", t.TempDir())
	assert.Error(t, err)
}

func TestUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := run(t, "overview", path)
	assert.Error(t, err)
}
