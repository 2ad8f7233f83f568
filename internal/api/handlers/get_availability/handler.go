package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/lot"
)

const msgNotConfigured = "стоянка не настроена"

type Handler struct {
	service LotService
	logger  Logger
}

func NewHandler(service LotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/lot/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAvailability(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, lot.ErrConfigurationNotFound):
			h.logger.Warn("GET /lot/availability - Lot not configured")
			handlers.RespondNotFound(w, msgNotConfigured)

		default:
			h.logger.Error("GET /lot/availability - Failed to get availability: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
