package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd)
// и [bStart, bEnd)
//
// Строгие неравенства с обеих сторон: соприкасающиеся интервалы
// (aEnd == bStart) пересечением не считаются. Предикат симметричен и
// покрывает в том числе полное вложение одного интервала в другой.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// firstConflict возвращает первую бронь, чей интервал пересекается с
// запрошенным окном [start, end), или nil, если конфликтов нет
//
// Брони, не удерживающие интервал (completed, cancelled), пропускаются:
// репозиторий их уже отфильтровал, но предикат не полагается на это.
func firstConflict(start, end time.Time, bookings []*domain.Booking) *domain.Booking {
	for _, booking := range bookings {
		if !booking.OccupiesSlot() {
			continue
		}
		if overlaps(booking.StartTime, booking.EndTime, start, end) {
			return booking
		}
	}
	return nil
}
