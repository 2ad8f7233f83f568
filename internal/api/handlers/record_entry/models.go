package record_entry

import (
	"time"

	recordEntry "github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
)

// RecordEntryRequest HTTP request model
type RecordEntryRequest struct {
	LicensePlate string `json:"licensePlate"`
	ParkingSpot  string `json:"parkingSpot"`
}

// SessionResponse HTTP response model
type SessionResponse struct {
	ID             int64  `json:"id"`
	LicensePlate   string `json:"licensePlate"`
	ParkingSpot    string `json:"parkingSpot"`
	EntryTime      string `json:"entryTime"`
	Status         string `json:"status"`
	AvailableSpots int    `json:"availableSpots"`
	TotalCapacity  int    `json:"totalCapacity"`
}

func (r *RecordEntryRequest) ToUseCaseRequest() *recordEntry.Request {
	return &recordEntry.Request{
		LicensePlate: r.LicensePlate,
		ParkingSpot:  r.ParkingSpot,
	}
}

func FromUseCaseResponse(resp *recordEntry.Response) *SessionResponse {
	return &SessionResponse{
		ID:             resp.ID,
		LicensePlate:   resp.LicensePlate,
		ParkingSpot:    resp.ParkingSpot,
		EntryTime:      resp.EntryTime.Format(time.RFC3339),
		Status:         resp.Status,
		AvailableSpots: resp.AvailableSpots,
		TotalCapacity:  resp.TotalCapacity,
	}
}
