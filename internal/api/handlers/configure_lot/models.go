package configure_lot

import "github.com/m04kA/SMC-ParkingService/internal/service/lot/models"

// ConfigureLotRequest HTTP request model
type ConfigureLotRequest struct {
	TotalCapacity *int `json:"totalCapacity"`
}

// ToServiceRequest возвращает false, если вместимость не передана
func (r *ConfigureLotRequest) ToServiceRequest() (*models.ConfigureLotRequest, bool) {
	if r.TotalCapacity == nil {
		return nil, false
	}
	return &models.ConfigureLotRequest{TotalCapacity: *r.TotalCapacity}, true
}
