package get_active_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/sessions"
)

const (
	msgInvalidPlate    = "некорректный госномер"
	msgSessionNotFound = "машина с таким номером не найдена на стоянке"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/active/{licensePlate}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	plate := mux.Vars(r)["licensePlate"]

	result, err := h.service.GetActiveByPlate(r.Context(), plate)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("GET /sessions/active/{plate} - Invalid plate: %q", plate)
			handlers.RespondBadRequest(w, msgInvalidPlate)

		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/active/{plate} - Not found: plate=%s", plate)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("GET /sessions/active/{plate} - Failed to get session: plate=%s, error=%v", plate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
