package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ConfigureLotRequest запрос на создание или изменение вместимости стоянки
type ConfigureLotRequest struct {
	TotalCapacity int `json:"totalCapacity"`
}

// AvailabilityResponse текущая заполненность стоянки
type AvailabilityResponse struct {
	TotalCapacity  int     `json:"totalCapacity"`
	AvailableSpots int     `json:"availableSpots"`
	OccupiedSpots  int     `json:"occupiedSpots"`
	OccupancyRate  float64 `json:"occupancyRate"` // 0-100
}

// LotResponse результат настройки стоянки
type LotResponse struct {
	TotalCapacity  int       `json:"totalCapacity"`
	AvailableSpots int       `json:"availableSpots"`
	OccupiedSpots  int       `json:"occupiedSpots"`
	Created        bool      `json:"created"` // true, если стоянка создана этим запросом
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromDomainAvailability конвертирует доменную модель в ответ
func FromDomainAvailability(lot *domain.ParkingLot) *AvailabilityResponse {
	return &AvailabilityResponse{
		TotalCapacity:  lot.TotalCapacity,
		AvailableSpots: lot.AvailableSpots,
		OccupiedSpots:  lot.OccupiedSpots(),
		OccupancyRate:  lot.OccupancyRate(),
	}
}

// FromDomainLot конвертирует доменную модель в ответ на настройку
func FromDomainLot(lot *domain.ParkingLot, created bool) *LotResponse {
	return &LotResponse{
		TotalCapacity:  lot.TotalCapacity,
		AvailableSpots: lot.AvailableSpots,
		OccupiedSpots:  lot.OccupiedSpots(),
		Created:        created,
		UpdatedAt:      lot.UpdatedAt,
	}
}
