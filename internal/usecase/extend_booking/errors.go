package extend_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("extend_booking: booking not found")

	// ErrAccessDenied возвращается, когда продление запрашивает не владелец брони
	ErrAccessDenied = errors.New("extend_booking: access denied")

	// ErrCannotExtend возвращается, когда бронь нельзя продлить (сессия не активна)
	ErrCannotExtend = errors.New("extend_booking: booking cannot be extended")

	// ErrSlotNotAvailable возвращается, когда продленный интервал пересекается с чужой бронью
	ErrSlotNotAvailable = errors.New("extend_booking: slot is not available for the extended interval")

	// ErrInvalidDuration возвращается, когда запрошенное продление вне диапазона 1..24 часов
	ErrInvalidDuration = errors.New("extend_booking: invalid extension duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("extend_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_booking: internal error")
)
