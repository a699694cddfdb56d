package paymentservice

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда провайдер не знает такую транзакцию
	ErrPaymentNotFound = errors.New("paymentservice client: payment not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrProviderUnavailable возвращается, когда провайдер недоступен
	// Платеж остается pending; вызывающий повторяет верификацию позже
	ErrProviderUnavailable = errors.New("paymentservice client: provider unavailable")
)
