package configure_lot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/lot/models"
)

type LotService interface {
	Configure(ctx context.Context, req *models.ConfigureLotRequest) (*models.LotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
