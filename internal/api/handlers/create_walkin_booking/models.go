package create_walkin_booking

import (
	"time"

	createWalkin "github.com/m04kA/SMC-ParkingService/internal/usecase/create_walkin_booking"
)

// CreateWalkinBookingRequest HTTP request model
type CreateWalkinBookingRequest struct {
	SlotID        int64  `json:"slotId"`
	CustomerPhone string `json:"customerPhone"`
	PlateNumber   string `json:"plateNumber"`
	DurationHours int    `json:"durationHours"`
	PaymentMethod string `json:"paymentMethod"` // cash, pos или manual
}

// WalkinBookingResponse HTTP response model
type WalkinBookingResponse struct {
	ID              int64   `json:"id"`
	SlotID          int64   `json:"slotId"`
	UserID          int64   `json:"userId"`
	LocationID      int64   `json:"locationId"`
	PlateNumber     string  `json:"plateNumber"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationHours   int     `json:"durationHours"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	AttendantUserID int64   `json:"attendantUserId"`
	ReceiptNumber   string  `json:"receiptNumber"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateWalkinBookingRequest) ToUseCaseRequest(attendantUserID int64) *createWalkin.Request {
	return &createWalkin.Request{
		AttendantUserID: attendantUserID,
		SlotID:          r.SlotID,
		CustomerPhone:   r.CustomerPhone,
		PlateNumber:     r.PlateNumber,
		DurationHours:   r.DurationHours,
		PaymentMethod:   r.PaymentMethod,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createWalkin.Response) *WalkinBookingResponse {
	return &WalkinBookingResponse{
		ID:              resp.ID,
		SlotID:          resp.SlotID,
		UserID:          resp.UserID,
		LocationID:      resp.LocationID,
		PlateNumber:     resp.PlateNumber,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationHours:   resp.DurationHours,
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		AttendantUserID: resp.AttendantUserID,
		ReceiptNumber:   resp.ReceiptNumber,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
