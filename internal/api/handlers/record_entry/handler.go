package record_entry

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	recordEntry "github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный госномер или место парковки"
	msgLotFull            = "свободных мест нет"
	msgAlreadyParked      = "автомобиль уже находится на стоянке"
	msgNotConfigured      = "стоянка не настроена"
)

type Handler struct {
	useCase RecordEntryUseCase
	logger  Logger
}

func NewHandler(useCase RecordEntryUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/entries
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RecordEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /entries - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, recordEntry.ErrInvalidInput):
			h.logger.Warn("POST /entries - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, recordEntry.ErrLotFull):
			h.logger.Warn("POST /entries - Lot full: plate=%s", req.LicensePlate)
			handlers.RespondConflict(w, msgLotFull)

		case errors.Is(err, recordEntry.ErrAlreadyParked):
			h.logger.Warn("POST /entries - Already parked: plate=%s", req.LicensePlate)
			handlers.RespondConflict(w, msgAlreadyParked)

		case errors.Is(err, recordEntry.ErrConfigurationNotFound):
			h.logger.Warn("POST /entries - Lot not configured")
			handlers.RespondNotFound(w, msgNotConfigured)

		default:
			h.logger.Error("POST /entries - Failed to record entry: plate=%s, error=%v", req.LicensePlate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /entries - Entry recorded: session_id=%d, plate=%s", result.ID, result.LicensePlate)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
