package record_exit

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует запрос; номер уже нормализован
func validateRequest(req *Request) error {
	if req.LicensePlate == "" {
		return fmt.Errorf("%w: licensePlate is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.LicensePlate) > domain.MaxLicensePlateLength {
		return fmt.Errorf("%w: licensePlate must be at most %d characters", ErrInvalidInput, domain.MaxLicensePlateLength)
	}

	if req.RatePerHour != nil {
		rate := *req.RatePerHour
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
			return fmt.Errorf("%w: ratePerHour must be a non-negative number", ErrInvalidInput)
		}
	}

	return nil
}
