package settle_overstay

import (
	"time"

	settleOverstay "github.com/m04kA/SMC-ParkingService/internal/usecase/settle_overstay"
)

// SettleOverstayRequest HTTP request model
type SettleOverstayRequest struct {
	PaymentMethod string `json:"paymentMethod"` // cash, pos или manual
}

// OverstayPaymentResponse HTTP response model
type OverstayPaymentResponse struct {
	PaymentID     int64   `json:"paymentId"`
	BookingID     int64   `json:"bookingId"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	ReceiptNumber string  `json:"receiptNumber"`

	EffectiveEnd    string  `json:"effectiveEnd"`
	OverstayMinutes int     `json:"overstayMinutes"`
	BillableHours   int     `json:"billableHours"`
	HourlyRate      float64 `json:"hourlyRate"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *settleOverstay.Response) *OverstayPaymentResponse {
	return &OverstayPaymentResponse{
		PaymentID:       resp.PaymentID,
		BookingID:       resp.BookingID,
		Amount:          resp.Amount,
		Method:          resp.Method,
		Status:          resp.Status,
		ReceiptNumber:   resp.ReceiptNumber,
		EffectiveEnd:    resp.EffectiveEnd.Format(time.RFC3339),
		OverstayMinutes: resp.OverstayMinutes,
		BillableHours:   resp.BillableHours,
		HourlyRate:      resp.HourlyRate,
	}
}
