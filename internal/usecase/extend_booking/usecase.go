package extend_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase use case для продления активной парковочной сессии
//
// Продление не изменяет существующую бронь, а добавляет новое звено цепочки:
// отдельную бронь с тем же местом, начинающуюся ровно в момент окончания
// последнего звена. Эффективное окончание сессии - окончание последнего звена
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	events      EventPublisher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// Execute выполняет use case продления брони
// Использует сериализуемую транзакцию: поиск последнего звена и вставка
// нового должны быть атомарными, иначе два параллельных продления
// пристроятся к одному и тому же звену
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendBooking: booking=%d, user=%d, hours=%d",
		req.BookingID, req.UserID, req.ExtensionHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ExtendBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Вся проверка и вставка звена в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронь с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ExtendBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ExtendBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2.2. Продлить бронь может только ее владелец
		if booking.UserID != req.UserID {
			uc.logger.Warn("ExtendBooking: user=%d is not the owner of booking id=%d",
				req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		// 2.3. Находим корень цепочки; статус сессии живет на корне
		root := booking
		if booking.IsExtension() {
			root, err = uc.bookingRepo.GetByID(txCtx, booking.ChainRootID())
			if err != nil {
				uc.logger.Error("ExtendBooking: failed to get chain root id=%d: %v",
					booking.ChainRootID(), err)
				return fmt.Errorf("%w: failed to get chain root: %v", ErrInternal, err)
			}
		}

		if !root.CanBeExtended() {
			uc.logger.Warn("ExtendBooking: booking id=%d cannot be extended, status=%s",
				root.ID, root.Status)
			return ErrCannotExtend
		}

		// 2.4. Последнее звено цепочки с блокировкой (FOR UPDATE)
		latest, err := uc.bookingRepo.GetLatestInChain(txCtx, root.ID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to get latest chain link for root id=%d: %v",
				root.ID, err)
			return fmt.Errorf("%w: failed to get latest chain link: %v", ErrInternal, err)
		}

		// Новое звено стыкуется без зазора и без пересечения
		start := latest.EndTime
		end := start.Add(time.Duration(req.ExtensionHours) * time.Hour)

		// 2.5. Проверяем конфликт с чужими бронями на продленном интервале
		existing, err := uc.bookingRepo.GetActiveOverlapping(txCtx, root.SlotID, start, end)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		for _, other := range existing {
			// Звенья собственной цепочки конфликтом не считаются
			if other.ChainRootID() == root.ID {
				continue
			}
			if other.OccupiesSlot() {
				uc.logger.Warn("ExtendBooking: slot id=%d busy, conflicting booking id=%d",
					root.SlotID, other.ID)
				return ErrSlotNotAvailable
			}
		}

		// 2.6. Тариф берем с места на момент продления
		slot, err := uc.slotRepo.GetByID(txCtx, root.SlotID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to get slot id=%d: %v", root.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		extension := &domain.Booking{
			SlotID:            root.SlotID,
			UserID:            root.UserID,
			LocationID:        root.LocationID,
			PlateNumber:       root.PlateNumber,
			StartTime:         start,
			EndTime:           end,
			DurationHours:     req.ExtensionHours,
			TotalPrice:        float64(req.ExtensionHours) * slot.EffectiveHourlyRate(),
			Status:            domain.StatusActive,
			PaymentStatus:     domain.PaymentPending,
			OriginalBookingID: ptr.Ptr(root.ID),
		}

		created, err := uc.bookingRepo.Create(txCtx, extension)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to create extension link: %v", err)
			return fmt.Errorf("%w: failed to create extension link: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ExtendBooking: successfully created extension id=%d for root id=%d, [%s, %s)",
		result.ID, result.ChainRootID(),
		result.StartTime.Format(domain.DateTimeFormat),
		result.EndTime.Format(domain.DateTimeFormat))

	uc.events.BookingCreated(ctx, result)

	return &Response{
		ID:                result.ID,
		OriginalBookingID: result.ChainRootID(),
		SlotID:            result.SlotID,
		UserID:            result.UserID,
		LocationID:        result.LocationID,
		PlateNumber:       result.PlateNumber,
		StartTime:         result.StartTime,
		EndTime:           result.EndTime,
		DurationHours:     result.DurationHours,
		TotalPrice:        result.TotalPrice,
		Status:            string(result.Status),
		PaymentStatus:     string(result.PaymentStatus),
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ExtensionHours < domain.MinExtensionHours || req.ExtensionHours > domain.MaxExtensionHours {
		return fmt.Errorf("%w: extensionHours must be between %d and %d",
			ErrInvalidDuration, domain.MinExtensionHours, domain.MaxExtensionHours)
	}

	return nil
}
