package domain

import (
	"math"
	"time"
)

// Charge is the billing outcome of a finished session
type Charge struct {
	Duration    time.Duration
	BilledHours int
	RatePerHour float64
	Fee         float64
}

// BilledHours returns the number of started hours between entry and exit.
// Any partial hour counts as a full one; exit before entry bills nothing.
func BilledHours(entry, exit time.Time) int {
	d := exit.Sub(entry)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}

// CalculateFee bills started hours at ratePerHour, rounded to cents
func CalculateFee(entry, exit time.Time, ratePerHour float64) Charge {
	hours := BilledHours(entry, exit)
	duration := exit.Sub(entry)
	if duration < 0 {
		duration = 0
	}

	return Charge{
		Duration:    duration,
		BilledHours: hours,
		RatePerHour: ratePerHour,
		Fee:         RoundToCents(float64(hours) * ratePerHour),
	}
}

// RoundToCents rounds half away from zero to two decimals
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
