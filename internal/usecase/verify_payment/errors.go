package verify_payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж с таким providerRef не найден
	ErrPaymentNotFound = errors.New("verify_payment: payment not found")

	// ErrProviderUnavailable возвращается, когда платежный шлюз недоступен
	ErrProviderUnavailable = errors.New("verify_payment: payment provider is unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
