package lot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// LotRepository интерфейс репозитория стоянки
type LotRepository interface {
	Get(ctx context.Context) (*domain.ParkingLot, error)
	Create(ctx context.Context, totalCapacity int, now time.Time) (*domain.ParkingLot, error)
	Update(ctx context.Context, totalCapacity, availableSpots int, now time.Time) (*domain.ParkingLot, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	CountActive(ctx context.Context) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder gauge свободных мест
type MetricsRecorder interface {
	SetAvailableSpots(available int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
