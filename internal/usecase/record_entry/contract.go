package record_entry

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// LotRepository интерфейс репозитория стоянки
type LotRepository interface {
	Get(ctx context.Context) (*domain.ParkingLot, error)
	ReserveSpot(ctx context.Context, now time.Time) (*domain.ParkingLot, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetActiveByPlate(ctx context.Context, licensePlate string) (*domain.Session, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder доменные метрики въездов
type MetricsRecorder interface {
	RecordEntry(result string)
	SetAvailableSpots(available int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
