package get_available_slots

import "errors"

var (
	// ErrInvalidStartTime возвращается, когда запрошенное время начала в прошлом
	ErrInvalidStartTime = errors.New("get_available_slots: start time must be in the future")

	// ErrInvalidDuration возвращается при недопустимой длительности
	ErrInvalidDuration = errors.New("get_available_slots: invalid duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
