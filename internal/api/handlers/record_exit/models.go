package record_exit

import (
	"time"

	recordExit "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
)

// RecordExitRequest HTTP request model
type RecordExitRequest struct {
	LicensePlate string   `json:"licensePlate"`
	RatePerHour  *float64 `json:"ratePerHour,omitempty"` // если не указана, используется тариф из конфигурации
}

// PaymentResponse HTTP response model
type PaymentResponse struct {
	SessionID       int64   `json:"sessionId"`
	LicensePlate    string  `json:"licensePlate"`
	ParkingSpot     string  `json:"parkingSpot"`
	EntryTime       string  `json:"entryTime"`
	ExitTime        string  `json:"exitTime"`
	DurationMinutes int64   `json:"durationMinutes"`
	DurationHours   int     `json:"durationHours"`
	RatePerHour     float64 `json:"ratePerHour"`
	Fee             float64 `json:"fee"`
	Status          string  `json:"status"`
	AvailableSpots  int     `json:"availableSpots"`
}

func (r *RecordExitRequest) ToUseCaseRequest() *recordExit.Request {
	return &recordExit.Request{
		LicensePlate: r.LicensePlate,
		RatePerHour:  r.RatePerHour,
	}
}

func FromUseCaseResponse(res *recordExit.PaymentResult) *PaymentResponse {
	return &PaymentResponse{
		SessionID:       res.SessionID,
		LicensePlate:    res.LicensePlate,
		ParkingSpot:     res.ParkingSpot,
		EntryTime:       res.EntryTime.Format(time.RFC3339),
		ExitTime:        res.ExitTime.Format(time.RFC3339),
		DurationMinutes: int64(res.Duration / time.Minute),
		DurationHours:   res.DurationHours,
		RatePerHour:     res.RatePerHour,
		Fee:             res.Fee,
		Status:          res.Status,
		AvailableSpots:  res.AvailableSpots,
	}
}
