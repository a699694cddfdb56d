package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда парковочное место не найдено
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotUnderMaintenance возвращается, когда место выведено на обслуживание
	ErrSlotUnderMaintenance = errors.New("create_booking: slot is under maintenance")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с существующей бронью
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available for this interval")

	// ErrInvalidStartTime возвращается, когда запрошенное время начала в прошлом
	ErrInvalidStartTime = errors.New("create_booking: start time must be in the future")

	// ErrInvalidDuration возвращается при недопустимой длительности брони
	ErrInvalidDuration = errors.New("create_booking: invalid booking duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
