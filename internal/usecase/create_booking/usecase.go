package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	events       EventPublisher
	timeProvider TimeProvider
	logger       Logger
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
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		events:       events,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
// при одновременных бронях на одно место
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, slot=%d, plate=%s, duration=%dh",
		req.UserID, req.SlotID, req.PlateNumber, req.DurationHours)

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Вычисляем окно брони с учетом часового буфера для отложенных броней
	start, end, billedHours := bookingWindow(req, now)

	// Переменная для хранения результата
	var result *domain.Booking

	// 4. Выполняем проверку доступности и вставку в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем место с блокировкой (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 4.2. Места на обслуживании не бронируются
		if !slot.IsBookable() {
			uc.logger.Warn("CreateBooking: slot id=%d is under maintenance", req.SlotID)
			return ErrSlotUnderMaintenance
		}

		// 4.3. Получаем пересекающиеся брони с блокировкой (FOR UPDATE)
		existing, err := uc.bookingRepo.GetActiveOverlapping(txCtx, req.SlotID, start, end)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		// 4.4. Проверяем конфликт интервалов в коде, не полагаясь только на SQL
		if conflict := firstConflict(start, end, existing); conflict != nil {
			uc.logger.Warn("CreateBooking: slot id=%d busy, conflicting booking id=%d [%s, %s)",
				req.SlotID, conflict.ID,
				conflict.StartTime.Format(domain.DateTimeFormat),
				conflict.EndTime.Format(domain.DateTimeFormat))
			return ErrSlotNotAvailable
		}

		// 4.5. Создаем бронь: оплата еще не подтверждена, место не занимается
		booking := &domain.Booking{
			SlotID:        req.SlotID,
			UserID:        req.UserID,
			LocationID:    slot.LocationID,
			PlateNumber:   req.PlateNumber,
			StartTime:     start,
			EndTime:       end,
			DurationHours: billedHours,
			TotalPrice:    float64(billedHours) * slot.EffectiveHourlyRate(),
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, window [%s, %s), price=%.2f",
		result.ID, result.StartTime.Format(domain.DateTimeFormat),
		result.EndTime.Format(domain.DateTimeFormat), result.TotalPrice)

	uc.events.BookingCreated(ctx, result)

	return &Response{
		ID:            result.ID,
		SlotID:        result.SlotID,
		UserID:        result.UserID,
		LocationID:    result.LocationID,
		PlateNumber:   result.PlateNumber,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		DurationHours: result.DurationHours,
		TotalPrice:    result.TotalPrice,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}
