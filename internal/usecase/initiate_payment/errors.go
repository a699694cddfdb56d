package initiate_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("initiate_payment: booking not found")

	// ErrAccessDenied возвращается, когда оплату инициирует не владелец брони
	ErrAccessDenied = errors.New("initiate_payment: access denied")

	// ErrAlreadyPaid возвращается, когда бронь уже оплачена
	ErrAlreadyPaid = errors.New("initiate_payment: booking is already paid")

	// ErrProviderUnavailable возвращается, когда платежный шлюз недоступен
	ErrProviderUnavailable = errors.New("initiate_payment: payment provider is unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("initiate_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("initiate_payment: internal error")
)
