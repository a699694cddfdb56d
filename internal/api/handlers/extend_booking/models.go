package extend_booking

import (
	"time"

	extendBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
)

// ExtendBookingRequest HTTP request model
type ExtendBookingRequest struct {
	ExtensionHours int `json:"extensionHours"`
}

// ExtensionResponse HTTP response model
type ExtensionResponse struct {
	ID                int64   `json:"id"`
	OriginalBookingID int64   `json:"originalBookingId"`
	SlotID            int64   `json:"slotId"`
	UserID            int64   `json:"userId"`
	LocationID        int64   `json:"locationId"`
	PlateNumber       string  `json:"plateNumber"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	DurationHours     int     `json:"durationHours"`
	TotalPrice        float64 `json:"totalPrice"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"paymentStatus"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendBooking.Response) *ExtensionResponse {
	return &ExtensionResponse{
		ID:                resp.ID,
		OriginalBookingID: resp.OriginalBookingID,
		SlotID:            resp.SlotID,
		UserID:            resp.UserID,
		LocationID:        resp.LocationID,
		PlateNumber:       resp.PlateNumber,
		StartTime:         resp.StartTime.Format(time.RFC3339),
		EndTime:           resp.EndTime.Format(time.RFC3339),
		DurationHours:     resp.DurationHours,
		TotalPrice:        resp.TotalPrice,
		Status:            resp.Status,
		PaymentStatus:     resp.PaymentStatus,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
