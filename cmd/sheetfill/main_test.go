package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/sheet"
	"github.com/xuri/excelize/v2"
)

func writeTracker(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Change ID", "Application", "Developer", "Comments"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"CR-001", "", "", "urgent"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"CR-009", "Payments", "", ""}))

	path := filepath.Join(dir, "tracker.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeBundle(t *testing.T, dir string) string {
	t.Helper()
	bundle := filepath.Join(dir, "bundle")
	require.NoError(t, os.MkdirAll(bundle, 0o755))

	eml := strings.Join([]string{
		"From: dev@example.com",
		"Subject: CR-001 change request",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Application: Billing",
		"Developer: Asha Rao",
		"",
	}, "\r\n")
	require.NoError(t, os.WriteFile(filepath.Join(bundle, "CR-001.eml"), []byte(eml), 0o644))
	return bundle
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFillCommand(t *testing.T) {
	dir := t.TempDir()
	tracker := writeTracker(t, dir)
	bundle := writeBundle(t, dir)
	workdir := t.TempDir()
	reportPath := filepath.Join(dir, "report.yaml")

	out, err := execute(t, "fill", tracker, bundle,
		"--workdir", workdir,
		"--report", reportPath,
		"--report-format", "yaml",
		"--log-level", "error",
	)
	require.NoError(t, err)

	filled := filepath.Join(dir, "tracker_filled.xlsx")
	assert.Contains(t, out, filled)
	assert.Contains(t, out, "2 rows, 1 matched, 2 filled")

	ds, err := sheet.Open(filled)
	require.NoError(t, err)
	defer ds.Close()

	v, err := ds.Value(0, "Application")
	require.NoError(t, err)
	assert.Equal(t, "Billing", v)
	v, err = ds.Value(0, "Developer")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", v)

	// CR-009 has no document: its empty target is flagged, its filled one is not.
	color, err := ds.FillColor(1, "Developer")
	require.NoError(t, err)
	assert.Equal(t, "FFFF00", color)
	color, err = ds.FillColor(1, "Application")
	require.NoError(t, err)
	assert.Empty(t, color)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "book_name: tracker.xlsx")
	assert.Contains(t, string(report), "status: no_document")

	entries, err := os.ReadDir(workdir)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace is removed after the run")

	// Filling the output again changes nothing.
	again := filepath.Join(dir, "again.xlsx")
	_, err = execute(t, "fill", filled, bundle, "-o", again, "--log-level", "error")
	require.NoError(t, err)
	a, err := os.ReadFile(filled)
	require.NoError(t, err)
	b, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFillCommand_ConfigErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	tracker := writeTracker(t, dir)
	bundle := writeBundle(t, dir)
	outPath := filepath.Join(dir, "out.xlsx")

	_, err := execute(t, "fill", tracker, bundle, "-o", outPath, "--id-column", "Ticket", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier column not found")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFillCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "fill", filepath.Join(t.TempDir(), "nope.xlsx"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestRulesCommand(t *testing.T) {
	dir := t.TempDir()
	tracker := writeTracker(t, dir)

	out, err := execute(t, "rules", tracker, "--variant", "hybrid")
	require.NoError(t, err)
	assert.Contains(t, out, "variant: hybrid\n")
	assert.Contains(t, out, "Developer: table ")
	assert.Contains(t, out, "Comments: generated ")
	assert.NotContains(t, out, "Change ID:")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sheetfill dev (unknown)\n", out)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "tracker_filled.xlsx"), defaultOutputPath(filepath.Join("a", "tracker.xlsx")))
	assert.Equal(t, "tracker_filled", defaultOutputPath("tracker"))
}
