package sessions

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetActiveByPlate(ctx context.Context, licensePlate string) (*domain.Session, error)
	List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
