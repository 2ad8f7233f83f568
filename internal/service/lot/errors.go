package lot

import "errors"

var (
	// ErrConfigurationNotFound возвращается, когда стоянка не настроена
	ErrConfigurationNotFound = errors.New("lot.service: parking lot is not configured")

	// ErrCapacityBelowOccupancy возвращается, когда новая вместимость меньше числа припаркованных машин
	ErrCapacityBelowOccupancy = errors.New("lot.service: capacity is below current occupancy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("lot.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lot.service: internal error")
)
