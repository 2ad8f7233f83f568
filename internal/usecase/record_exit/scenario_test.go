package record_exit_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/migrations"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type parkingLot struct {
	lots  *lotRepo.Repository
	entry *record_entry.UseCase
	exit  *record_exit.UseCase
	clock *clock
}

func newParkingLot(t *testing.T, capacity int, policy string) *parkingLot {
	t.Helper()

	raw, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "scenario.db")+"?_pragma=busy_timeout(5000)&_time_format=sqlite")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	ctx := context.Background()
	require.NoError(t, migrations.Apply(ctx, raw, "sqlite"))

	db := dbmetrics.Wrap(raw, nil)
	lots := lotRepo.NewRepository(db, "sqlite")
	sessions := sessionRepo.NewRepository(db, "sqlite")
	tx := txmanager.NewTransactionManager(db, txmanager.WithSerializableLevel(sql.LevelDefault))

	c := &clock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	_, err = lots.Create(ctx, capacity, c.now)
	require.NoError(t, err)

	var m *metrics.Metrics
	return &parkingLot{
		lots:  lots,
		entry: record_entry.NewUseCase(lots, sessions, tx, m, nopLogger{}).WithTimeProvider(c),
		exit: record_exit.NewUseCase(lots, sessions, tx, m,
			record_exit.Settings{DefaultRatePerHour: 5, OverflowPolicy: policy}, nopLogger{}).WithTimeProvider(c),
		clock: c,
	}
}

func (p *parkingLot) available(t *testing.T) int {
	t.Helper()
	lot, err := p.lots.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, lot.Validate())
	return lot.AvailableSpots
}

func TestScenario_EntryDuplicateExit(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 10, domain.OverflowPolicyReject)

	entered, err := p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "ABC-123", ParkingSpot: "A1"})
	require.NoError(t, err)
	assert.Equal(t, "parked", entered.Status)
	assert.Equal(t, 9, p.available(t))

	_, err = p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "ABC-123", ParkingSpot: "A2"})
	assert.ErrorIs(t, err, record_entry.ErrAlreadyParked)
	assert.Equal(t, 9, p.available(t))

	p.clock.now = p.clock.now.Add(90 * time.Minute)
	paid, err := p.exit.Execute(ctx, &record_exit.Request{LicensePlate: "ABC-123", RatePerHour: ptr.Ptr(5.0)})
	require.NoError(t, err)
	assert.Equal(t, 2, paid.DurationHours)
	assert.InDelta(t, 10.0, paid.Fee, 1e-9)
	assert.Equal(t, "exited", paid.Status)
	assert.Equal(t, 10, p.available(t))
}

func TestScenario_FullLotLeavesCounterUnchanged(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 2, domain.OverflowPolicyReject)

	for i, plate := range []string{"AAA-111", "BBB-222"} {
		_, err := p.entry.Execute(ctx, &record_entry.Request{LicensePlate: plate, ParkingSpot: string(rune('A' + i))})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, p.available(t))

	_, err := p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "CCC-333", ParkingSpot: "C"})
	assert.ErrorIs(t, err, record_entry.ErrLotFull)
	assert.Equal(t, 0, p.available(t))

	_, err = p.exit.Execute(ctx, &record_exit.Request{LicensePlate: "ZZZ-000"})
	assert.ErrorIs(t, err, record_exit.ErrSessionNotFound)
	assert.Equal(t, 0, p.available(t))
}

func TestScenario_CounterStaysWithinBounds(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 3, domain.OverflowPolicyReject)
	plates := []string{"P1", "P2", "P3", "P4", "P5"}

	// чередуем въезды и выезды, включая заведомо ошибочные
	for round := 0; round < 3; round++ {
		for _, plate := range plates {
			_, _ = p.entry.Execute(ctx, &record_entry.Request{LicensePlate: plate, ParkingSpot: "X"})
			available := p.available(t)
			assert.GreaterOrEqual(t, available, 0)
			assert.LessOrEqual(t, available, 3)
		}
		p.clock.now = p.clock.now.Add(30 * time.Minute)
		for _, plate := range plates {
			_, _ = p.exit.Execute(ctx, &record_exit.Request{LicensePlate: plate})
			available := p.available(t)
			assert.GreaterOrEqual(t, available, 0)
			assert.LessOrEqual(t, available, 3)
		}
		assert.Equal(t, 3, p.available(t))
	}
}

func TestScenario_RejectPolicyRollsBackSessionClose(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 1, domain.OverflowPolicyReject)

	_, err := p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "ABC-123", ParkingSpot: "A1"})
	require.NoError(t, err)

	// счётчик вернулся к вместимости, хотя машина ещё на стоянке
	_, err = p.lots.Update(ctx, 1, 1, p.clock.now)
	require.NoError(t, err)

	_, err = p.exit.Execute(ctx, &record_exit.Request{LicensePlate: "ABC-123"})
	assert.ErrorIs(t, err, record_exit.ErrCapacityInvariant)

	// сессия осталась активной, потому что транзакция откатилась
	_, err = p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "ABC-123", ParkingSpot: "A1"})
	assert.ErrorIs(t, err, record_entry.ErrAlreadyParked)
}

func TestScenario_ClampPolicyKeepsCounterAtCapacity(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 1, domain.OverflowPolicyClamp)

	_, err := p.entry.Execute(ctx, &record_entry.Request{LicensePlate: "ABC-123", ParkingSpot: "A1"})
	require.NoError(t, err)

	_, err = p.lots.Update(ctx, 1, 1, p.clock.now)
	require.NoError(t, err)

	paid, err := p.exit.Execute(ctx, &record_exit.Request{LicensePlate: "ABC-123"})
	require.NoError(t, err)
	assert.Equal(t, 1, paid.AvailableSpots)
	assert.Equal(t, 1, p.available(t))
}

func TestScenario_ConcurrentEntriesAndExits(t *testing.T) {
	ctx := context.Background()
	p := newParkingLot(t, 5, domain.OverflowPolicyReject)

	const drivers = 12
	entryErrs := make([]error, drivers)

	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, entryErrs[i] = p.entry.Execute(ctx, &record_entry.Request{
				LicensePlate: fmt.Sprintf("CAR-%02d", i),
				ParkingSpot:  fmt.Sprintf("S%d", i),
			})
		}(i)
	}
	wg.Wait()

	var parked []string
	for i, err := range entryErrs {
		if err == nil {
			parked = append(parked, fmt.Sprintf("CAR-%02d", i))
			continue
		}
		assert.ErrorIs(t, err, record_entry.ErrLotFull)
	}
	require.Len(t, parked, 5)
	assert.Equal(t, 0, p.available(t))

	exitErrs := make([]error, len(parked))
	for i, plate := range parked {
		wg.Add(1)
		go func(i int, plate string) {
			defer wg.Done()
			_, exitErrs[i] = p.exit.Execute(ctx, &record_exit.Request{LicensePlate: plate})
		}(i, plate)
	}
	wg.Wait()

	for _, err := range exitErrs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 5, p.available(t))
}
