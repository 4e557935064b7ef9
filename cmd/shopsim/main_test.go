package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsim/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestRunCommand_DryRunWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")

	err := execute(t, "run", "--dry-run",
		"--start", "2024-01-01", "--end", "2024-01-03",
		"--seed", "5", "--products", "20", "--report", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunCommand_RejectsStartAfterEnd(t *testing.T) {
	err := execute(t, "run", "--dry-run", "--start", "2024-02-01", "--end", "2024-01-01")
	assert.ErrorIs(t, err, config.ErrInvalidStartDate)
}

func TestCatalogCommand_DryRun(t *testing.T) {
	err := execute(t, "catalog", "--dry-run", "--products", "10", "--seed", "3", "--date", "2024-01-01")
	assert.NoError(t, err)
}

func TestOpenSession_KeepsExplicitZeroSeed(t *testing.T) {
	require.NoError(t, execute(t, "catalog", "--dry-run", "--seed", "0", "--products", "5", "--date", "2024-01-01"))

	s, err := openSession(catalogCmd)
	require.NoError(t, err)
	defer s.close(context.Background())

	assert.Equal(t, uint64(0), s.seed)
}
