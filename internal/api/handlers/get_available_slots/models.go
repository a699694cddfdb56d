package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель парковочного места с признаком доступности
type SlotResponse struct {
	ID          int64   `json:"id"`
	Identifier  string  `json:"identifier"`
	HourlyPrice float64 `json:"hourlyPrice"`
	Status      string  `json:"status"`
	Available   bool    `json:"available"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	LocationID int64          `json:"locationId"`
	StartTime  string         `json:"startTime"`
	EndTime    string         `json:"endTime"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			ID:          slot.ID,
			Identifier:  slot.Identifier,
			HourlyPrice: slot.HourlyPrice,
			Status:      slot.Status,
			Available:   slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		LocationID: resp.LocationID,
		StartTime:  resp.StartTime.Format(time.RFC3339),
		EndTime:    resp.EndTime.Format(time.RFC3339),
		Slots:      slots,
	}
}
