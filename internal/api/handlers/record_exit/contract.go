package record_exit

import (
	"context"

	recordExit "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
)

type RecordExitUseCase interface {
	Execute(ctx context.Context, req *recordExit.Request) (*recordExit.PaymentResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
