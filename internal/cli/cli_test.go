package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-kintai/internal/app"
	"go-kintai/internal/config"
	"go-kintai/internal/events"
	"go-kintai/internal/shared/idempotency"
	"go-kintai/internal/shared/retry"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/tablestore/memory"
	"go-kintai/internal/timerules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// useMemoryApp points every store-backed command at backend.
func useMemoryApp(t *testing.T, backend *memory.Backend) {
	t.Helper()
	t.Setenv("STORE_BACKEND", config.BackendMemory)

	old := buildApp
	buildApp = func(_ context.Context, cfg *config.Config, log *zap.Logger) (*app.App, error) {
		return &app.App{
			Config:      cfg,
			Logger:      log,
			Rules:       timerules.Default(),
			Backend:     backend,
			Store:       tablestore.New(backend, tablestore.WithRetryPolicy(retry.NoRetry())),
			Idempotency: idempotency.NewMemory(idempotency.DefaultTTL),
			Publisher:   events.NewNoopPublisher(),
		}, nil
	}
	t.Cleanup(func() { buildApp = old })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Run("argument", func(t *testing.T) {
		out, err := run(t, "", "hash-password", "s3cret")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))
	})
	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, "from-stdin\n", "hash-password")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-stdin")))
	})
	t.Run("empty", func(t *testing.T) {
		_, err := run(t, "\n", "hash-password")
		assert.Error(t, err)
	})
}

func TestHolidays(t *testing.T) {
	out, err := run(t, "", "holidays", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-01\t元日")
	assert.Contains(t, out, "2024-05-06")

	_, err = run(t, "", "holidays", "--year", "1900")
	assert.Error(t, err)
}

func TestPurge(t *testing.T) {
	backend := memory.New("cli")
	backend.Seed(tablestore.Events, [][]string{
		tablestore.Events.Columns(),
		{"e1", "2024-04-01", "", "Offsite", "", "", "", ""},
	})
	useMemoryApp(t, backend)

	_, err := run(t, "", "purge", "events")
	assert.ErrorContains(t, err, "--yes")
	assert.Len(t, backend.Rows(tablestore.Events), 2)

	_, err = run(t, "", "purge", "payroll", "--yes")
	assert.ErrorContains(t, err, "unknown table")

	out, err := run(t, "", "purge", "events", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "purged events\n", out)
	assert.Equal(t, [][]string{tablestore.Events.Columns()}, backend.Rows(tablestore.Events))
}

func TestInitTables(t *testing.T) {
	backend := memory.New("cli")
	useMemoryApp(t, backend)

	_, err := run(t, "", "init-tables")
	require.NoError(t, err)
	for _, table := range tablestore.Tables() {
		rows := backend.Rows(table)
		require.NotEmpty(t, rows, table)
		assert.Equal(t, table.Columns(), rows[0])
	}
}

func TestSummary(t *testing.T) {
	backend := memory.New("cli")
	backend.Seed(tablestore.AttendanceLogs, [][]string{
		tablestore.AttendanceLogs.Columns(),
		{"a1", "2024-04-01", "Tanaka", "年休", "08:30", "17:00", "7.5", "1", "2024", ""},
		{"a1", "2024-04-02", "Tanaka", "年休", "08:30", "17:00", "7.5", "1", "2024", ""},
	})
	useMemoryApp(t, backend)

	out, err := run(t, "", "summary", "--fiscal-year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Tanaka")
	assert.Contains(t, out, "2.00")

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	out, err = run(t, "", "summary", "--fiscal-year", "2024", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

func TestIsTerminal_PipeAndReader(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("x")))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	assert.False(t, isTerminal(r))
}
