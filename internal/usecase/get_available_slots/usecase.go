package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case для получения мест локации с признаком доступности
//
// Доступность считается по интервалам броней, а не по статусу места:
// занятое сейчас место может быть свободно на запрошенное будущее окно.
// Чтение без транзакции; ответ - моментальный снимок, гарантию дает
// только последующее создание брони
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%d, duration=%dh", req.LocationID, req.DurationHours)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Вычисляем проверяемое окно
	start := now
	if req.StartTime != nil {
		start = *req.StartTime
	}
	end := start.Add(time.Duration(req.DurationHours) * time.Hour)

	// 3. Получаем все места локации
	slots, err := uc.slotRepo.GetByLocation(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots for location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 4. Для каждого места проверяем пересечения с существующими бронями
	infos := make([]SlotInfo, 0, len(slots))
	for _, slot := range slots {
		available := slot.IsBookable()

		if available {
			overlapping, err := uc.bookingRepo.GetActiveOverlapping(ctx, slot.ID, start, end)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to get overlapping bookings for slot id=%d: %v",
					slot.ID, err)
				return nil, fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
			}

			for _, booking := range overlapping {
				if booking.OccupiesSlot() {
					available = false
					break
				}
			}
		}

		infos = append(infos, SlotInfo{
			ID:          slot.ID,
			Identifier:  slot.Identifier,
			HourlyPrice: slot.EffectiveHourlyRate(),
			Status:      string(slot.Status),
			Available:   available,
		})
	}

	uc.logger.Info("GetAvailableSlots: location=%d, %d slots checked for [%s, %s)",
		req.LocationID, len(infos),
		start.Format(domain.DateTimeFormat), end.Format(domain.DateTimeFormat))

	return &Response{
		LocationID: req.LocationID,
		StartTime:  start,
		EndTime:    end,
		Slots:      infos,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if req.DurationHours < 1 || req.DurationHours > domain.MaxBookingDurationHours {
		return fmt.Errorf("%w: durationHours must be between 1 and %d",
			ErrInvalidDuration, domain.MaxBookingDurationHours)
	}

	if req.StartTime != nil && !req.StartTime.After(now) {
		return ErrInvalidStartTime
	}

	return nil
}
