package models

import (
	"time"

	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ListSessionsRequest фильтр истории сессий
type ListSessionsRequest struct {
	LicensePlate *string // nil - все номера
	Status       *string // parked | exited, nil - любой
	Limit        int     // 0 - domain.DefaultSessionsLimit
}

// SessionResponse DTO сессии. Поля выезда равны null, пока машина на стоянке.
type SessionResponse struct {
	ID           int64      `json:"id"`
	LicensePlate string     `json:"licensePlate"`
	ParkingSpot  string     `json:"parkingSpot"`
	EntryTime    time.Time  `json:"entryTime"`
	ExitTime     null.Time  `json:"exitTime"`
	BilledHours  null.Int   `json:"billedHours"`
	RatePerHour  null.Float `json:"ratePerHour"`
	Fee          null.Float `json:"fee"`
	Status       string     `json:"status"`
}

// SessionListResponse ответ со списком сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	return &SessionResponse{
		ID:           s.ID,
		LicensePlate: s.LicensePlate,
		ParkingSpot:  s.ParkingSpot,
		EntryTime:    s.EntryTime,
		ExitTime:     s.ExitTime,
		BilledHours:  s.BilledHours,
		RatePerHour:  s.RatePerHour,
		Fee:          s.Fee,
		Status:       string(s.Status),
	}
}

// FromDomainSessionList конвертирует список domain моделей в DTO
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	resp := &SessionListResponse{
		Sessions: make([]SessionResponse, 0, len(sessions)),
	}

	for _, s := range sessions {
		if item := FromDomainSession(s); item != nil {
			resp.Sessions = append(resp.Sessions, *item)
		}
	}

	return resp
}
