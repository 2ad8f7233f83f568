package record_entry

import "errors"

var (
	// ErrLotFull возвращается, когда свободных мест нет
	ErrLotFull = errors.New("record_entry: lot full")

	// ErrAlreadyParked возвращается, когда номер уже находится на стоянке
	ErrAlreadyParked = errors.New("record_entry: already parked")

	// ErrConfigurationNotFound возвращается, когда стоянка не настроена
	ErrConfigurationNotFound = errors.New("record_entry: parking lot is not configured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_entry: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_entry: internal error")
)
