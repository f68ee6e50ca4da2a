package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_WritesChartsAndWorkbook(t *testing.T) {
	input := writeInput(t, "march.csv", testutil.SpendingCSV("2024-03-01", 20))
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "run", "--input", input, "--out", outDir, "--xlsx", "--csv", "--history", "5")
	require.NoError(t, err)

	for _, name := range []string{historyFile, forecastFile} {
		f, err := os.Open(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Positive(t, cfg.Width)
	}

	wb, err := excelize.OpenFile(filepath.Join(outDir, "march_forecast.xlsx"))
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "Daily")
	assert.FileExists(t, filepath.Join(outDir, "march_forecast.csv"))

	assert.Contains(t, out, "march.csv")
	assert.Contains(t, out, "2024-03-20")
	assert.NotContains(t, out, "2024-03-15")
	assert.Contains(t, out, "2024-03-30")
	assert.Contains(t, out, "wrote")
}

func TestRun_ReportsInputErrors(t *testing.T) {
	input := writeInput(t, "bad.csv", testutil.MissingAmountCSV)

	_, err := execute(t, "run", "--input", input, "--out", t.TempDir(), "--quiet")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column(s): Amount")
}

func TestRun_RequiresInput(t *testing.T) {
	_, err := execute(t, "run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestRun_Quiet(t *testing.T) {
	input := writeInput(t, "spend.csv", testutil.SampleCSV)

	out, err := execute(t, "run", "--input", input, "--out", t.TempDir(), "--quiet")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "go_version")
}

func TestRun_ReadsTextUnderAnotherExtension(t *testing.T) {
	input := writeInput(t, "spending.txt", testutil.SpendingCSV("2024-01-01", 20))
	out := t.TempDir()

	_, err := execute(t, "run", "--input", input, "--out", out, "--quiet")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "daily_spending.png"))
}

func TestRun_RejectsUnsupportedInput(t *testing.T) {
	input := writeInput(t, "notes.txt", "Date\x00Amount")

	_, err := execute(t, "run", "--input", input, "--out", t.TempDir(), "--quiet")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt")
}
