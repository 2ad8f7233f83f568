package shell_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/migrations"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	lotService "github.com/m04kA/SMC-ParkingService/internal/service/lot"
	sessionsService "github.com/m04kA/SMC-ParkingService/internal/service/sessions"
	"github.com/m04kA/SMC-ParkingService/internal/shell"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

var (
	entryAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	exitAt  = entryAt.Add(90 * time.Minute)
)

// runScript прогоняет команды через shell поверх настоящей SQLite базы.
// Все въезды происходят в entryAt, все выезды в exitAt.
func runScript(t *testing.T, script string) string {
	t.Helper()

	raw, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "shell.db")+"?_pragma=busy_timeout(5000)&_time_format=sqlite")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	ctx := context.Background()
	require.NoError(t, migrations.Apply(ctx, raw, "sqlite"))

	db := dbmetrics.Wrap(raw, nil)
	lots := lotRepo.NewRepository(db, "sqlite")
	sessions := sessionRepo.NewRepository(db, "sqlite")
	tx := txmanager.NewTransactionManager(db, txmanager.WithSerializableLevel(sql.LevelDefault))

	var m *metrics.Metrics
	entry := record_entry.NewUseCase(lots, sessions, tx, m, nopLogger{}).WithTimeProvider(&clock{now: entryAt})
	exit := record_exit.NewUseCase(lots, sessions, tx, m,
		record_exit.Settings{DefaultRatePerHour: 5, OverflowPolicy: domain.OverflowPolicyReject}, nopLogger{}).WithTimeProvider(&clock{now: exitAt})

	var out bytes.Buffer
	sh := shell.New(entry, exit,
		lotService.NewService(lots, sessions, tx, m, nopLogger{}),
		sessionsService.NewService(sessions, nopLogger{}),
		strings.NewReader(script), &out)

	require.NoError(t, sh.Run(ctx))
	return out.String()
}

func TestShell_NotCreated(t *testing.T) {
	out := runScript(t, "status\npark ABC-123 A1\n")

	assert.Equal(t, "Parking lot not created\nParking lot not created\n", out)
}

func TestShell_Scenario(t *testing.T) {
	script := strings.Join([]string{
		"create_parking_lot 2",
		"park ABC-123 A1",
		"park abc-123 A2",
		"park XYZ-9 B1",
		"park QQQ-1 C1",
		"",
		"leave NOPE",
		"foo",
		"exit",
		"status",
	}, "\n")

	lines := strings.Split(strings.TrimSpace(runScript(t, script)), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "Created a parking lot with 2 slots", lines[0])
	assert.Equal(t, "Parked ABC-123 at A1 (session 1), 1 spots left", lines[1])
	assert.Equal(t, "Vehicle abc-123 is already parked", lines[2])
	assert.Equal(t, "Parked XYZ-9 at B1 (session 2), 0 spots left", lines[3])
	assert.Equal(t, "Sorry, parking lot is full", lines[4])
	assert.Equal(t, "Not found", lines[5])
	assert.Equal(t, "Unknown command: foo", lines[6])
}

func TestShell_LeaveAndHistory(t *testing.T) {
	script := strings.Join([]string{
		"create_parking_lot 10",
		"park ABC-123 A1",
		"leave ABC-123 5",
		"history ABC-123",
		"status",
		"create_parking_lot 3",
	}, "\n")

	out := runScript(t, script)

	assert.Contains(t, out, "ABC-123 left A1 after 1h30m0s: 2 h x $5.00 = $10.00")
	assert.Contains(t, out, "#1 A1 2024-03-01T10:00:00Z - 2024-03-01T11:30:00Z, 2 h, $10.00")
	assert.Contains(t, out, "Capacity: 10, available: 10, occupied: 0")
	assert.Contains(t, out, "Parking lot resized to 3 slots, 3 available")
}
