package domain

import "time"

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents a reservation of one slot for the half-open
// interval [StartTime, EndTime)
//
// A booking with OriginalBookingID set is an extension link: it continues
// the chain rooted at that booking with no gap and no overlap
// (StartTime equals the previous link's EndTime exactly).
type Booking struct {
	ID            int64
	SlotID        int64
	UserID        int64
	LocationID    int64 // Денормализовано из слота при создании
	PlateNumber   string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours int // Оплачиваемые часы (с учетом часового буфера для отложенных броней)
	TotalPrice    float64
	Status        BookingStatus
	PaymentStatus PaymentStatus

	OriginalBookingID *int64 // Корень цепочки продлений (только у продлений)
	AttendantUserID   *int64 // Заполнен только для броней, созданных оператором

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExtension returns true if this booking is an extension link of another booking
func (b *Booking) IsExtension() bool {
	return b.OriginalBookingID != nil
}

// ChainRootID returns the id of the chain root: the booking itself for an
// independent booking, or the original booking for an extension link
func (b *Booking) ChainRootID() int64 {
	if b.OriginalBookingID != nil {
		return *b.OriginalBookingID
	}
	return b.ID
}

// IsAttendantCreated returns true if the booking was created by an attendant
func (b *Booking) IsAttendantCreated() bool {
	return b.AttendantUserID != nil
}

// OccupiesSlot returns true if the booking holds its slot's interval
// (pending and active bookings both block independent overlapping bookings)
func (b *Booking) OccupiesSlot() bool {
	return b.Status == StatusPending || b.Status == StatusActive
}

// CanBeExtended returns true if the booking may grow an extension chain
func (b *Booking) CanBeExtended() bool {
	return b.Status == StatusActive
}

// CanBeCompleted returns true if an explicit end-session action is allowed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusActive
}

// LocationBookingsFilter фильтр для получения бронирований локации
type LocationBookingsFilter struct {
	LocationID     int64          // Обязательный параметр
	SlotID         *int64         // Фильтр по слоту (опционально)
	PlateNumber    *string        // Фильтр по госномеру (опционально)
	Status         *BookingStatus // Фильтр по статусу (опционально)
	StartedBefore  *time.Time     // start_time < значение (опционально)
	EndedBefore    *time.Time     // end_time < значение (опционально)
	OnlyChainRoots bool           // Только корни цепочек (без продлений)
}
