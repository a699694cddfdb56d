package overstay

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// Calculator вычисляет превышение времени стоянки и его стоимость
//
// Чистое чтение: результат - функция сохраненного состояния и момента now,
// который передается явно (в тестах подставляется фиксированное время).
// Побочных эффектов нет; оформление платежа за превышение - отдельный
// usecase settle_overstay
type Calculator struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	logger      Logger
}

// NewCalculator создает новый экземпляр калькулятора превышений
func NewCalculator(bookingRepo BookingRepository, slotRepo SlotRepository, logger Logger) *Calculator {
	return &Calculator{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		logger:      logger,
	}
}

// ComputeOverstay вычисляет превышение для брони на момент now
// Эффективное окончание брони - это EndTime последнего звена цепочки
// продлений (само бронирование, если продлений нет)
func (c *Calculator) ComputeOverstay(ctx context.Context, bookingID int64, now time.Time) (*domain.OverstayResult, error) {
	booking, err := c.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			c.logger.Warn("ComputeOverstay: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		c.logger.Error("ComputeOverstay: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ComputeOverstay - repository error: %v", ErrInternal, err)
	}

	return c.computeForBooking(ctx, booking, now)
}

// ComputeForBooking вычисляет превышение для уже загруженной брони
// Используется сервисом валидации автомобиля, чтобы не читать бронь дважды
func (c *Calculator) ComputeForBooking(ctx context.Context, booking *domain.Booking, now time.Time) (*domain.OverstayResult, error) {
	return c.computeForBooking(ctx, booking, now)
}

func (c *Calculator) computeForBooking(ctx context.Context, booking *domain.Booking, now time.Time) (*domain.OverstayResult, error) {
	latest, err := c.bookingRepo.GetLatestInChain(ctx, booking.ChainRootID())
	if err != nil {
		c.logger.Error("computeForBooking: failed to resolve chain for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: computeForBooking - failed to resolve chain: %v", ErrInternal, err)
	}

	effectiveEnd := latest.EndTime
	if !now.After(effectiveEnd) {
		return domain.NewZeroOverstay(booking, effectiveEnd), nil
	}

	slot, err := c.slotRepo.GetByID(ctx, booking.SlotID)
	if err != nil {
		c.logger.Error("computeForBooking: failed to get slot id=%d: %v", booking.SlotID, err)
		return nil, fmt.Errorf("%w: computeForBooking - failed to get slot: %v", ErrInternal, err)
	}

	result := domain.ComputeOverstay(booking, effectiveEnd, now, slot.EffectiveHourlyRate())

	c.logger.Info("computeForBooking: booking id=%d overstay=%dmin billable=%dmin cost=%.2f",
		booking.ID, result.OverstayMinutes, result.BillableMinutes, result.AdditionalCost)

	return result, nil
}

// ListOverstayedVehicles возвращает активные брони локации, чье эффективное
// окончание в прошлом и стоимость превышения ненулевая
// Результат отсортирован по давности окончания: самые просроченные первыми
func (c *Calculator) ListOverstayedVehicles(ctx context.Context, locationID int64, now time.Time) ([]*domain.OverstayResult, error) {
	status := domain.StatusActive
	filter := domain.LocationBookingsFilter{
		LocationID:     locationID,
		Status:         &status,
		OnlyChainRoots: true,
	}

	roots, err := c.bookingRepo.GetByLocationWithFilter(ctx, filter)
	if err != nil {
		c.logger.Error("ListOverstayedVehicles: repository error for location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: ListOverstayedVehicles - repository error: %v", ErrInternal, err)
	}

	results := make([]*domain.OverstayResult, 0)
	for _, root := range roots {
		result, err := c.computeForBooking(ctx, root, now)
		if err != nil {
			return nil, err
		}
		if result.IsOverstayed && result.AdditionalCost > 0 {
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].EffectiveEnd.Before(results[j].EffectiveEnd)
	})

	c.logger.Info("ListOverstayedVehicles: %d of %d active bookings overstayed at location id=%d",
		len(results), len(roots), locationID)

	return results, nil
}
