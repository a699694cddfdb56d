package domain

import "time"

// OverstayResult is a derived value describing how far a booking's vehicle
// has run past the effective end of its reservation chain; it is computed
// on demand and never persisted
type OverstayResult struct {
	Booking      *Booking  // Корень цепочки
	EffectiveEnd time.Time // EndTime последнего звена цепочки

	IsOverstayed bool

	OverstayMinutes    int // Полные минуты сверх EffectiveEnd
	OverstayHours      int // Округление вверх, только для отображения
	GracePeriodMinutes int
	BillableMinutes    int // Минуты сверх льготного периода
	BillableHours      int // Округление вверх, тарифицируемые часы
	HourlyRate         float64
	AdditionalCost     float64
}

// NewZeroOverstay returns the result for a booking still inside its window
func NewZeroOverstay(booking *Booking, effectiveEnd time.Time) *OverstayResult {
	return &OverstayResult{
		Booking:            booking,
		EffectiveEnd:       effectiveEnd,
		IsOverstayed:       false,
		GracePeriodMinutes: GracePeriodMinutes,
		HourlyRate:         0,
	}
}

// ComputeOverstay derives the billing figures for a booking whose chain
// ends at effectiveEnd, evaluated at now with the given hourly rate
//
// Minutes are floored from the raw elapsed time; hours are always rounded
// up, so a single minute past the grace period already bills a full hour.
func ComputeOverstay(booking *Booking, effectiveEnd time.Time, now time.Time, hourlyRate float64) *OverstayResult {
	if !now.After(effectiveEnd) {
		return NewZeroOverstay(booking, effectiveEnd)
	}

	overstayMinutes := int(now.Sub(effectiveEnd).Minutes())

	billableMinutes := overstayMinutes - GracePeriodMinutes
	if billableMinutes < 0 {
		billableMinutes = 0
	}

	billableHours := ceilDiv(billableMinutes, 60)

	return &OverstayResult{
		Booking:            booking,
		EffectiveEnd:       effectiveEnd,
		IsOverstayed:       true,
		OverstayMinutes:    overstayMinutes,
		OverstayHours:      ceilDiv(overstayMinutes, 60),
		GracePeriodMinutes: GracePeriodMinutes,
		BillableMinutes:    billableMinutes,
		BillableHours:      billableHours,
		HourlyRate:         hourlyRate,
		AdditionalCost:     float64(billableHours) * hourlyRate,
	}
}

func ceilDiv(minutes, per int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + per - 1) / per
}
