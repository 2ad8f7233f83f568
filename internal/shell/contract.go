package shell

import (
	"context"

	lotModels "github.com/m04kA/SMC-ParkingService/internal/service/lot/models"
	sessionModels "github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
	recordEntry "github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
	recordExit "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
)

type EntryRecorder interface {
	Execute(ctx context.Context, req *recordEntry.Request) (*recordEntry.Response, error)
}

type ExitRecorder interface {
	Execute(ctx context.Context, req *recordExit.Request) (*recordExit.PaymentResult, error)
}

type LotService interface {
	GetAvailability(ctx context.Context) (*lotModels.AvailabilityResponse, error)
	Configure(ctx context.Context, req *lotModels.ConfigureLotRequest) (*lotModels.LotResponse, error)
}

type SessionService interface {
	List(ctx context.Context, req *sessionModels.ListSessionsRequest) (*sessionModels.SessionListResponse, error)
}
