package paymentservice

import "encoding/json"

// InitiateRequest запрос на инициацию платежа у провайдера
type InitiateRequest struct {
	PaymentID int64   `json:"payment_id"`
	BookingID int64   `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// InitiateResponse ответ провайдера на инициацию платежа
type InitiateResponse struct {
	PaymentURL  string `json:"payment_url"`
	ProviderRef string `json:"provider_ref"`
}

// VerifyResponse ответ провайдера на проверку платежа
// Сервис интерпретирует только поле Status; RawResponse сохраняется как есть
type VerifyResponse struct {
	Status      string          `json:"status"`
	RawResponse json.RawMessage `json:"raw_response,omitempty"`
}

// IsSuccessful возвращает true, если провайдер подтвердил платеж
func (r *VerifyResponse) IsSuccessful() bool {
	return r.Status == "success" || r.Status == "completed"
}

// ErrorResponse модель ошибки от платежного провайдера
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
