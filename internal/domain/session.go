package domain

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// SessionStatus represents the state of a vehicle session
type SessionStatus string

const (
	StatusParked SessionStatus = "parked"
	StatusExited SessionStatus = "exited"
)

// IsValid returns true for known statuses
func (s SessionStatus) IsValid() bool {
	return s == StatusParked || s == StatusExited
}

// ParseSessionStatus converts a raw string into SessionStatus
func ParseSessionStatus(raw string) (SessionStatus, error) {
	status := SessionStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown session status %q", raw)
	}
	return status, nil
}

// Session is a single stay of a vehicle in the lot.
// Exit fields stay null while the vehicle is parked.
type Session struct {
	ID           int64
	LicensePlate string
	ParkingSpot  string
	EntryTime    time.Time
	ExitTime     null.Time
	BilledHours  null.Int
	RatePerHour  null.Float
	Fee          null.Float
	Status       SessionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the vehicle occupies a spot
func (s *Session) IsActive() bool {
	return s.Status == StatusParked
}

// SessionsFilter filters session history; nil fields are ignored
type SessionsFilter struct {
	LicensePlate *string
	Status       *SessionStatus
	Limit        int
}

// NormalizeLicensePlate trims and upper-cases a plate so "abc-123 " and "ABC-123" match
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
