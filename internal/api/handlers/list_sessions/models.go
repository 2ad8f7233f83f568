package list_sessions

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(plateStr, statusStr, limitStr string) (*models.ListSessionsRequest, error) {
	req := &models.ListSessionsRequest{}

	if plateStr != "" {
		req.LicensePlate = &plateStr
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid limit value: %w", err)
		}
		req.Limit = limit
	}

	return req, nil
}
