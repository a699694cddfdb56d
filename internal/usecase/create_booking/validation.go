package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PlateNumber) == "" {
		return fmt.Errorf("%w: plateNumber is required", ErrInvalidInput)
	}

	if req.DurationHours < 1 {
		return fmt.Errorf("%w: durationHours must be at least 1", ErrInvalidDuration)
	}

	if req.DurationHours > domain.MaxBookingDurationHours {
		return fmt.Errorf("%w: durationHours must not exceed %d", ErrInvalidDuration, domain.MaxBookingDurationHours)
	}

	if req.StartTime != nil && !req.StartTime.After(now) {
		return ErrInvalidStartTime
	}

	return nil
}

// bookingWindow вычисляет окно брони и количество оплачиваемых часов
//
// Бронь с текущего момента: окно [now, now+duration), оплата за duration часов.
// Отложенная бронь: окно начинается на час раньше запрошенного времени, и
// этот буферный час оплачивается, то есть окно
// [requested-1h, requested+duration) за duration+1 часов.
func bookingWindow(req *Request, now time.Time) (start, end time.Time, billedHours int) {
	if req.StartTime == nil {
		start = now
		billedHours = req.DurationHours
	} else {
		start = req.StartTime.Add(-time.Duration(domain.ScheduledLeadInHours) * time.Hour)
		billedHours = req.DurationHours + domain.ScheduledLeadInHours
	}

	end = start.Add(time.Duration(billedHours) * time.Hour)
	return start, end, billedHours
}
