package domain

import "time"

// PaymentKind distinguishes what a payment record settles
type PaymentKind string

const (
	PaymentKindBooking  PaymentKind = "booking"  // Оплата самой брони
	PaymentKindOverstay PaymentKind = "overstay" // Оплата превышения времени
)

// PaymentMethod represents how a payment is collected
type PaymentMethod string

const (
	MethodGateway PaymentMethod = "gateway"
	MethodCash    PaymentMethod = "cash"
	MethodPOS     PaymentMethod = "pos"
	MethodManual  PaymentMethod = "manual"
)

// PaymentRecordStatus represents the state of a payment record
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
)

// Payment represents a settlement record attached to a booking
//
// At most one booking-kind payment exists per booking; overstay settlements
// are separate records created by the attendant flow.
type Payment struct {
	ID            int64
	BookingID     int64
	Kind          PaymentKind
	Amount        float64
	Method        PaymentMethod
	Status        PaymentRecordStatus
	ProviderRef   *string // Идентификатор транзакции платежного провайдера
	ReceiptNumber *string // Номер квитанции для оплат на месте

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompleted returns true if the payment has been settled
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentRecordCompleted
}

// IsCollectedOnSite returns true for methods settled at the counter
// without a provider round-trip
func (m PaymentMethod) IsCollectedOnSite() bool {
	return m == MethodCash || m == MethodPOS || m == MethodManual
}
