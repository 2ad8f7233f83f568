package configure_lot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/lot"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingCapacity       = "не указана вместимость стоянки"
	msgInvalidCapacity       = "вместимость не может быть отрицательной"
	msgCapacityBelowOccupied = "вместимость меньше числа припаркованных машин"
)

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

// Handle PUT /api/v1/lot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ConfigureLotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /lot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, ok := req.ToServiceRequest()
	if !ok {
		h.logger.Warn("PUT /lot - Missing totalCapacity")
		handlers.RespondBadRequest(w, msgMissingCapacity)
		return
	}

	result, err := h.service.Configure(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, lot.ErrInvalidInput):
			h.logger.Warn("PUT /lot - Invalid capacity: %d", serviceReq.TotalCapacity)
			handlers.RespondBadRequest(w, msgInvalidCapacity)

		case errors.Is(err, lot.ErrCapacityBelowOccupancy):
			h.logger.Warn("PUT /lot - Capacity below occupancy: %v", err)
			handlers.RespondConflict(w, msgCapacityBelowOccupied)

		default:
			h.logger.Error("PUT /lot - Failed to configure lot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /lot - Lot configured: total=%d, available=%d, created=%t",
		result.TotalCapacity, result.AvailableSpots, result.Created)
	handlers.RespondJSON(w, http.StatusOK, result)
}
