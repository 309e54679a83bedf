package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caret/internal/config"
	"github.com/hupe1980/caret/testutil"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	var stdout, stderr bytes.Buffer
	err := run(t.Context(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func sampleFile(t *testing.T) string {
	return testutil.WriteFile(t, "s.jsonl", testutil.JSONL(
		`{"text":"alpha"}`, `{"text":"beta"}`, `{"text":"alpha"}`,
	))
}

func TestRun_Usage(t *testing.T) {
	_, stderr, err := runCLI(t, "")
	assert.Error(t, err)
	assert.Contains(t, stderr, "usage: caret")

	_, _, err = runCLI(t, "", "frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	stdout, _, err := runCLI(t, "", "help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "commands:")

	_, stderr, err = runCLI(t, "", "scan", "--help")
	require.NoError(t, err)
	assert.Contains(t, stderr, "--threshold")
}

func TestRun_Info(t *testing.T) {
	stdout, _, err := runCLI(t, "", "info", sampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, stdout, "lines:       3")
	assert.Contains(t, stdout, "zero-copy:   true")
	assert.Contains(t, stdout, "format:      jsonl")
}

func TestRun_Line(t *testing.T) {
	stdout, _, err := runCLI(t, "", "line", sampleFile(t), "1", "0")
	require.NoError(t, err)
	assert.Equal(t, "{\"text\":\"beta\"}\n{\"text\":\"alpha\"}\n", stdout)

	_, _, err = runCLI(t, "", "line", sampleFile(t), "9")
	assert.ErrorContains(t, err, "out of range")

	_, _, err = runCLI(t, "", "line", sampleFile(t), "x")
	assert.Error(t, err)
}

func TestRun_ScanStdin(t *testing.T) {
	in := string(testutil.JSONL(`{"text":"a"}`, `{"text":"a"}`))
	stdout, _, err := runCLI(t, in, "scan", "-", "--strategy", "exact", "--format", "jsonl")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 total | 1 unique | 1 duplicates (50.0%)")
	assert.Contains(t, stdout, "strategy: exact")
}

func TestRun_ScanReport(t *testing.T) {
	stdout, _, err := runCLI(t, "", "scan", sampleFile(t), "--strategy", "exact", "--report", "-")
	require.NoError(t, err)
	assert.Equal(t, "{\"line\":2,\"canonical\":0,\"distance\":0}\n", stdout)

	_, _, err = runCLI(t, "", "scan", sampleFile(t), "--threshold", "65")
	assert.ErrorContains(t, err, "threshold")
}

func TestRun_Export(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clean.jsonl.gz")
	stdout, _, err := runCLI(t, "", "export", sampleFile(t), "--out", out, "-t", "0", "--log-json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 2 lines")

	// The export reads back as a gzip dataset with the unique lines.
	stdout, _, err = runCLI(t, "", "info", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "compression: gzip")
	assert.Contains(t, stdout, "lines:       2")

	_, _, err = runCLI(t, "", "export", sampleFile(t))
	assert.ErrorContains(t, err, "--out is required")
}

func TestRun_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "caret.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scan:\n  strategy: exact\nlog:\n  level: warn\n"), 0o644))

	stdout, _, err := runCLI(t, "", "scan", sampleFile(t), "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "strategy: exact")

	_, _, err = runCLI(t, "", "info", sampleFile(t), "--memory-limit", "lots")
	assert.ErrorContains(t, err, "--memory-limit")
}
