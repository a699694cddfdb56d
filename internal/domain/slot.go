package domain

import "time"

// SlotStatus represents the coarse status of a parking slot
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotOccupied    SlotStatus = "occupied"
	SlotReserved    SlotStatus = "reserved"
	SlotMaintenance SlotStatus = "maintenance"
)

// Slot represents a single physical parking space belonging to a location
//
// The status field mirrors "someone is supposed to be here right now", not
// "the reserved window is still running": it is only mutated when a booking
// becomes active or is explicitly completed, never by a timer. Availability
// for a future window is decided by interval checks over bookings, not by
// this field.
type Slot struct {
	ID          int64
	LocationID  int64
	Identifier  string // Человекочитаемый номер места, например "A-12"
	HourlyPrice float64
	Status      SlotStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if new bookings may target this slot
func (s *Slot) IsBookable() bool {
	return s.Status != SlotMaintenance
}

// EffectiveHourlyRate returns the slot's hourly price with a fallback
// for slots that have no rate configured
func (s *Slot) EffectiveHourlyRate() float64 {
	if s.HourlyPrice <= 0 {
		return DefaultHourlyRate
	}
	return s.HourlyPrice
}
