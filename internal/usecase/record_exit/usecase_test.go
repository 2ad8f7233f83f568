package record_exit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type mockLotRepository struct {
	mock.Mock
}

func (m *mockLotRepository) ReleaseSpot(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	args := m.Called(ctx, now)
	lot, _ := args.Get(0).(*domain.ParkingLot)
	return lot, args.Error(1)
}

func (m *mockLotRepository) ReleaseSpotClamped(ctx context.Context, now time.Time) (*domain.ParkingLot, error) {
	args := m.Called(ctx, now)
	lot, _ := args.Get(0).(*domain.ParkingLot)
	return lot, args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) GetActiveByPlate(ctx context.Context, licensePlate string) (*domain.Session, error) {
	args := m.Called(ctx, licensePlate)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepository) Close(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingMetrics struct {
	results []string
	fees    []float64
}

func (m *recordingMetrics) RecordExit(result string, fee float64) {
	m.results = append(m.results, result)
	m.fees = append(m.fees, fee)
}

func (m *recordingMetrics) SetAvailableSpots(int) {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var entryTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	lots     *mockLotRepository
	sessions *mockSessionRepository
	metrics  *recordingMetrics
	uc       *UseCase
}

func newFixture(now time.Time, settings Settings) *fixture {
	f := &fixture{
		lots:     &mockLotRepository{},
		sessions: &mockSessionRepository{},
		metrics:  &recordingMetrics{},
	}
	f.uc = NewUseCase(f.lots, f.sessions, passthroughTxManager{}, f.metrics, settings, nopLogger{}).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func activeSession() *domain.Session {
	return &domain.Session{
		ID:           7,
		LicensePlate: "ABC-123",
		ParkingSpot:  "A1",
		EntryTime:    entryTime,
		Status:       domain.StatusParked,
	}
}

func TestExecute_FeeRounding(t *testing.T) {
	tests := []struct {
		name      string
		stay      time.Duration
		rate      *float64
		wantHours int
		wantFee   float64
		wantRate  float64
	}{
		{name: "61 minutes at $5", stay: 61 * time.Minute, rate: ptr.Ptr(5.0), wantHours: 2, wantFee: 10, wantRate: 5},
		{name: "60 minutes at $5", stay: 60 * time.Minute, rate: ptr.Ptr(5.0), wantHours: 1, wantFee: 5, wantRate: 5},
		{name: "90 minutes at default rate", stay: 90 * time.Minute, rate: nil, wantHours: 2, wantFee: 6, wantRate: 3},
		{name: "immediate exit is free", stay: 0, rate: ptr.Ptr(5.0), wantHours: 0, wantFee: 0, wantRate: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exit := entryTime.Add(tt.stay)
			f := newFixture(exit, Settings{DefaultRatePerHour: 3})

			f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(activeSession(), nil)
			f.sessions.On("Close", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
				return s.ID == 7 &&
					s.ExitTime.Valid && s.ExitTime.Time.Equal(exit) &&
					s.BilledHours.Int64 == int64(tt.wantHours) &&
					s.Fee.Float64 == tt.wantFee
			})).Return(nil)
			f.lots.On("ReleaseSpot", mock.Anything, exit).
				Return(&domain.ParkingLot{ID: 1, TotalCapacity: 10, AvailableSpots: 10}, nil)

			result, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "abc-123", RatePerHour: tt.rate})
			require.NoError(t, err)

			assert.Equal(t, int64(7), result.SessionID)
			assert.Equal(t, tt.wantHours, result.DurationHours)
			assert.InDelta(t, tt.wantFee, result.Fee, 1e-9)
			assert.Equal(t, tt.wantRate, result.RatePerHour)
			assert.Equal(t, tt.stay, result.Duration)
			assert.Equal(t, "exited", result.Status)
			assert.Equal(t, 10, result.AvailableSpots)
			assert.Equal(t, []string{metrics.ResultSuccess}, f.metrics.results)

			f.sessions.AssertExpectations(t)
			f.lots.AssertExpectations(t)
		})
	}
}

func TestExecute_SessionNotFound(t *testing.T) {
	f := newFixture(entryTime, Settings{DefaultRatePerHour: 5})
	f.sessions.On("GetActiveByPlate", mock.Anything, "XYZ-999").Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "XYZ-999"})

	assert.ErrorIs(t, err, ErrSessionNotFound)
	f.lots.AssertNotCalled(t, "ReleaseSpot", mock.Anything, mock.Anything)
	assert.Equal(t, []string{metrics.ResultNotFound}, f.metrics.results)
}

func TestExecute_SessionClosedConcurrently(t *testing.T) {
	f := newFixture(entryTime.Add(time.Hour), Settings{DefaultRatePerHour: 5})
	f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(activeSession(), nil)
	f.sessions.On("Close", mock.Anything, mock.Anything).Return(sessionRepo.ErrSessionNotFound)

	_, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "ABC-123"})

	assert.ErrorIs(t, err, ErrSessionNotFound)
	f.lots.AssertNotCalled(t, "ReleaseSpot", mock.Anything, mock.Anything)
}

func TestExecute_OverflowRejected(t *testing.T) {
	now := entryTime.Add(time.Hour)
	f := newFixture(now, Settings{DefaultRatePerHour: 5, OverflowPolicy: domain.OverflowPolicyReject})
	f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(activeSession(), nil)
	f.sessions.On("Close", mock.Anything, mock.Anything).Return(nil)
	f.lots.On("ReleaseSpot", mock.Anything, now).Return(nil, lotRepo.ErrCapacityExceeded)

	_, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "ABC-123"})

	assert.ErrorIs(t, err, ErrCapacityInvariant)
	f.lots.AssertNotCalled(t, "ReleaseSpotClamped", mock.Anything, mock.Anything)
	assert.Equal(t, []string{metrics.ResultError}, f.metrics.results)
}

func TestExecute_OverflowClamped(t *testing.T) {
	now := entryTime.Add(time.Hour)
	f := newFixture(now, Settings{DefaultRatePerHour: 5, OverflowPolicy: domain.OverflowPolicyClamp})
	f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(activeSession(), nil)
	f.sessions.On("Close", mock.Anything, mock.Anything).Return(nil)
	f.lots.On("ReleaseSpot", mock.Anything, now).Return(nil, lotRepo.ErrCapacityExceeded)
	f.lots.On("ReleaseSpotClamped", mock.Anything, now).
		Return(&domain.ParkingLot{ID: 1, TotalCapacity: 10, AvailableSpots: 10}, nil)

	result, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "ABC-123"})

	require.NoError(t, err)
	assert.Equal(t, 10, result.AvailableSpots)
	assert.Equal(t, 5.0, result.Fee)
}

func TestExecute_DefaultPolicyIsReject(t *testing.T) {
	f := newFixture(entryTime, Settings{})
	assert.Equal(t, domain.OverflowPolicyReject, f.uc.settings.OverflowPolicy)
}

func TestExecute_StorageFailure(t *testing.T) {
	f := newFixture(entryTime.Add(time.Hour), Settings{DefaultRatePerHour: 5})
	f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(nil, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "ABC-123"})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "empty plate", req: Request{LicensePlate: " "}},
		{name: "plate too long", req: Request{LicensePlate: "ABCDEFGHIJKLMNOPQ"}},
		{name: "negative rate", req: Request{LicensePlate: "ABC-123", RatePerHour: ptr.Ptr(-1.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(entryTime, Settings{DefaultRatePerHour: 5})

			_, err := f.uc.Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			f.sessions.AssertNotCalled(t, "GetActiveByPlate", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_CounterOutOfRangeAfterRelease(t *testing.T) {
	tests := []struct {
		name   string
		policy string
		setup  func(f *fixture, now time.Time)
	}{
		{
			name:   "release",
			policy: domain.OverflowPolicyReject,
			setup: func(f *fixture, now time.Time) {
				f.lots.On("ReleaseSpot", mock.Anything, now).
					Return(&domain.ParkingLot{ID: 1, TotalCapacity: 10, AvailableSpots: 11}, nil)
			},
		},
		{
			name:   "clamp",
			policy: domain.OverflowPolicyClamp,
			setup: func(f *fixture, now time.Time) {
				f.lots.On("ReleaseSpot", mock.Anything, now).Return(nil, lotRepo.ErrCapacityExceeded)
				f.lots.On("ReleaseSpotClamped", mock.Anything, now).
					Return(&domain.ParkingLot{ID: 1, TotalCapacity: -1, AvailableSpots: 0}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := entryTime.Add(time.Hour)
			f := newFixture(now, Settings{DefaultRatePerHour: 5, OverflowPolicy: tt.policy})
			f.sessions.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(activeSession(), nil)
			f.sessions.On("Close", mock.Anything, mock.Anything).Return(nil)
			tt.setup(f, now)

			_, err := f.uc.Execute(context.Background(), &Request{LicensePlate: "ABC-123"})

			assert.ErrorIs(t, err, ErrInternal)
			assert.ErrorIs(t, err, domain.ErrLotInvariant)
			assert.Equal(t, []string{metrics.ResultError}, f.metrics.results)
		})
	}
}
