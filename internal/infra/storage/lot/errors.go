package lot

import "errors"

var (
	// ErrLotNotFound возвращается, когда стоянка ещё не настроена
	ErrLotNotFound = errors.New("lot.repository: parking lot not found")

	// ErrLotAlreadyExists возвращается при повторном создании стоянки
	ErrLotAlreadyExists = errors.New("lot.repository: parking lot already exists")

	// ErrNoSpotsAvailable возвращается, когда свободных мест нет
	ErrNoSpotsAvailable = errors.New("lot.repository: no spots available")

	// ErrCapacityExceeded возвращается, когда освобождение места превысило бы вместимость
	ErrCapacityExceeded = errors.New("lot.repository: available spots would exceed total capacity")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("lot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("lot.repository: failed to execute query")
)
