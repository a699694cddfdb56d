package events

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Routing keys публикуемых событий
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingStatusUpdated = "booking.status_updated"
	KeyBookingDeleted       = "booking.deleted"
)

// BookingEvent конверт события о бронировании
// Доставка fire-and-forget: подписчики используют события только для
// обновления интерфейса, сервис не ждет подтверждения и не ретраит
type BookingEvent struct {
	Event      string         `json:"event"`
	LocationID int64          `json:"location_id"`
	Booking    BookingPayload `json:"booking"`
	EmittedAt  time.Time      `json:"emitted_at"`
}

// BookingPayload данные брони в событии
type BookingPayload struct {
	ID                int64   `json:"id"`
	SlotID            int64   `json:"slot_id"`
	UserID            int64   `json:"user_id"`
	PlateNumber       string  `json:"plate_number"`
	StartTime         string  `json:"start_time"` // RFC 3339
	EndTime           string  `json:"end_time"`   // RFC 3339
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"payment_status"`
	TotalPrice        float64 `json:"total_price"`
	OriginalBookingID *int64  `json:"original_booking_id,omitempty"`
}

// FromDomainBooking конвертирует domain модель в payload события
func FromDomainBooking(b *domain.Booking) BookingPayload {
	return BookingPayload{
		ID:                b.ID,
		SlotID:            b.SlotID,
		UserID:            b.UserID,
		PlateNumber:       b.PlateNumber,
		StartTime:         b.StartTime.Format(time.RFC3339),
		EndTime:           b.EndTime.Format(time.RFC3339),
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		TotalPrice:        b.TotalPrice,
		OriginalBookingID: b.OriginalBookingID,
	}
}
