package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) GetActiveByPlate(ctx context.Context, licensePlate string) (*domain.Session, error) {
	args := m.Called(ctx, licensePlate)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepository) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	args := m.Called(ctx, filter)
	s, _ := args.Get(0).([]*domain.Session)
	return s, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var entry = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestGetActiveByPlate(t *testing.T) {
	repo := &mockSessionRepository{}
	svc := NewService(repo, nopLogger{})

	repo.On("GetActiveByPlate", mock.Anything, "ABC-123").Return(&domain.Session{
		ID: 1, LicensePlate: "ABC-123", ParkingSpot: "A1", EntryTime: entry, Status: domain.StatusParked,
	}, nil)

	resp, err := svc.GetActiveByPlate(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "A1", resp.ParkingSpot)
	assert.Equal(t, "parked", resp.Status)
	assert.False(t, resp.ExitTime.Valid)
}

func TestGetActiveByPlate_Errors(t *testing.T) {
	repo := &mockSessionRepository{}
	svc := NewService(repo, nopLogger{})

	repo.On("GetActiveByPlate", mock.Anything, "NONE").Return(nil, sessionRepo.ErrSessionNotFound)
	repo.On("GetActiveByPlate", mock.Anything, "BROKEN").Return(nil, errors.New("io"))

	_, err := svc.GetActiveByPlate(context.Background(), "none")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetActiveByPlate(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.GetActiveByPlate(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_BuildsFilter(t *testing.T) {
	repo := &mockSessionRepository{}
	svc := NewService(repo, nopLogger{})

	exited := domain.StatusExited
	repo.On("List", mock.Anything, domain.SessionsFilter{
		LicensePlate: ptr.Ptr("ABC-123"),
		Status:       &exited,
		Limit:        domain.DefaultSessionsLimit,
	}).Return([]*domain.Session{{
		ID:           1,
		LicensePlate: "ABC-123",
		ParkingSpot:  "A1",
		EntryTime:    entry,
		ExitTime:     null.TimeFrom(entry.Add(90 * time.Minute)),
		BilledHours:  null.IntFrom(2),
		RatePerHour:  null.FloatFrom(5),
		Fee:          null.FloatFrom(10),
		Status:       domain.StatusExited,
	}}, nil)

	resp, err := svc.List(context.Background(), &models.ListSessionsRequest{
		LicensePlate: ptr.Ptr("abc-123"),
		Status:       ptr.Ptr("exited"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, 10.0, resp.Sessions[0].Fee.Float64)
	repo.AssertExpectations(t)
}

func TestList_LimitBounds(t *testing.T) {
	repo := &mockSessionRepository{}
	svc := NewService(repo, nopLogger{})

	repo.On("List", mock.Anything, domain.SessionsFilter{Limit: domain.MaxSessionsLimit}).Return([]*domain.Session{}, nil)

	resp, err := svc.List(context.Background(), &models.ListSessionsRequest{Limit: 10_000})
	require.NoError(t, err)
	assert.Empty(t, resp.Sessions)

	_, err = svc.List(context.Background(), &models.ListSessionsRequest{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_InvalidStatus(t *testing.T) {
	svc := NewService(&mockSessionRepository{}, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListSessionsRequest{Status: ptr.Ptr("towed")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
