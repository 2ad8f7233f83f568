package get_active_session

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
)

type SessionService interface {
	GetActiveByPlate(ctx context.Context, licensePlate string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
