package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда активная сессия не найдена
	ErrSessionNotFound = errors.New("sessions.service: session not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sessions.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions.service: internal error")
)
