package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrLotInvariant is returned when the counter leaves [0, total_capacity]
var ErrLotInvariant = errors.New("domain: parking lot counter out of range")

// ParkingLot is the single lot configuration row with its live spot counter
type ParkingLot struct {
	ID             int64
	TotalCapacity  int
	AvailableSpots int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsFull returns true when no spot can be reserved
func (l *ParkingLot) IsFull() bool {
	return l.AvailableSpots <= 0
}

// OccupiedSpots returns the number of spots taken by parked vehicles
func (l *ParkingLot) OccupiedSpots() int {
	return l.TotalCapacity - l.AvailableSpots
}

// Validate checks 0 <= available_spots <= total_capacity
func (l *ParkingLot) Validate() error {
	if l.TotalCapacity < 0 {
		return fmt.Errorf("%w: total capacity %d is negative", ErrLotInvariant, l.TotalCapacity)
	}
	if l.AvailableSpots < 0 || l.AvailableSpots > l.TotalCapacity {
		return fmt.Errorf("%w: available %d, total %d", ErrLotInvariant, l.AvailableSpots, l.TotalCapacity)
	}
	return nil
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (l *ParkingLot) OccupancyRate() float64 {
	if l.TotalCapacity == 0 {
		return 0
	}
	return float64(l.OccupiedSpots()) / float64(l.TotalCapacity) * 100
}
