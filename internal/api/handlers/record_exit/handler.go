package record_exit

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	recordExit "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный госномер или ставка"
	msgSessionNotFound    = "активная парковка для этого номера не найдена"
)

type Handler struct {
	useCase RecordExitUseCase
	logger  Logger
}

func NewHandler(useCase RecordExitUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/exits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RecordExitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /exits - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, recordExit.ErrInvalidInput):
			h.logger.Warn("POST /exits - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, recordExit.ErrSessionNotFound):
			h.logger.Warn("POST /exits - Session not found: plate=%s", req.LicensePlate)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			// ErrCapacityInvariant тоже сюда: это ошибка сервера, а не клиента
			h.logger.Error("POST /exits - Failed to record exit: plate=%s, error=%v", req.LicensePlate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /exits - Exit recorded: session_id=%d, plate=%s, hours=%d, fee=%.2f",
		result.SessionID, result.LicensePlate, result.DurationHours, result.Fee)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
