package record_entry

import "time"

// Request модель запроса на въезд
type Request struct {
	LicensePlate string // Госномер
	ParkingSpot  string // Обозначение места ("A1", "12")
}

// Response модель созданной сессии
type Response struct {
	ID             int64     // ID сессии
	LicensePlate   string    // Нормализованный госномер
	ParkingSpot    string    // Место
	EntryTime      time.Time // Время въезда
	Status         string    // Статус сессии (parked)
	AvailableSpots int       // Свободных мест после въезда
	TotalCapacity  int       // Вместимость стоянки
}
