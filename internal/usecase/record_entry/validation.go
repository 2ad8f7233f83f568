package record_entry

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// normalizeRequest приводит номер к верхнему регистру и обрезает пробелы
func normalizeRequest(req *Request) *Request {
	return &Request{
		LicensePlate: domain.NormalizeLicensePlate(req.LicensePlate),
		ParkingSpot:  strings.TrimSpace(req.ParkingSpot),
	}
}

// validateRequest валидирует нормализованный запрос
func validateRequest(req *Request) error {
	if req.LicensePlate == "" {
		return fmt.Errorf("%w: licensePlate is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.LicensePlate) > domain.MaxLicensePlateLength {
		return fmt.Errorf("%w: licensePlate must be at most %d characters", ErrInvalidInput, domain.MaxLicensePlateLength)
	}

	if req.ParkingSpot == "" {
		return fmt.Errorf("%w: parkingSpot is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ParkingSpot) > domain.MaxParkingSpotLength {
		return fmt.Errorf("%w: parkingSpot must be at most %d characters", ErrInvalidInput, domain.MaxParkingSpotLength)
	}

	return nil
}
