package record_exit

import "time"

// Settings параметры тарификации
type Settings struct {
	DefaultRatePerHour float64 // тариф, если в запросе ставка не передана
	OverflowPolicy     string  // domain.OverflowPolicyReject | domain.OverflowPolicyClamp
}

// Request модель запроса на выезд
type Request struct {
	LicensePlate string   // Госномер
	RatePerHour  *float64 // Ставка за час (nil - тариф по умолчанию)
}

// PaymentResult итог выезда
type PaymentResult struct {
	SessionID      int64
	LicensePlate   string
	ParkingSpot    string
	EntryTime      time.Time
	ExitTime       time.Time
	Duration       time.Duration // Фактическое время стоянки
	DurationHours  int           // Оплачиваемые часы (округление вверх)
	RatePerHour    float64
	Fee            float64
	Status         string
	AvailableSpots int // Свободных мест после выезда
}
