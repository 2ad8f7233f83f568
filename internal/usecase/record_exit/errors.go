package record_exit

import "errors"

var (
	// ErrSessionNotFound возвращается, когда у номера нет активной сессии
	ErrSessionNotFound = errors.New("record_exit: session not found")

	// ErrCapacityInvariant возвращается, когда освобождение места превысило бы вместимость
	ErrCapacityInvariant = errors.New("record_exit: available spots would exceed total capacity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_exit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_exit: internal error")
)
