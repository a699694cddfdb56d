package create_walkin_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
	userClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase use case для оформления брони оператором на месте
//
// В отличие от самостоятельной брони клиент уже стоит перед шлагбаумом:
// бронь сразу активна и оплачена, место занимается синхронно в той же
// транзакции, оплата фиксируется как принятая на месте
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	slotSync     SlotStatusSynchronizer
	paymentRepo  PaymentRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	events       EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	slotSync SlotStatusSynchronizer,
	paymentRepo PaymentRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		slotSync:     slotSync,
		paymentRepo:  paymentRepo,
		userClient:   userClient,
		txManager:    txManager,
		events:       events,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case оформления брони оператором
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateWalkinBooking: attendant=%d, slot=%d, plate=%s, duration=%dh",
		req.AttendantUserID, req.SlotID, req.PlateNumber, req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateWalkinBooking: validation failed: %v", err)
		return nil, err
	}

	method := domain.PaymentMethod(req.PaymentMethod)

	// 2. Проверяем, что оформляющий пользователь - оператор
	attendant, err := uc.userClient.GetUser(ctx, req.AttendantUserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateWalkinBooking: attendant id=%d not found", req.AttendantUserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateWalkinBooking: failed to get attendant id=%d: %v", req.AttendantUserID, err)
		return nil, fmt.Errorf("%w: failed to get attendant: %v", ErrInternal, err)
	}

	if !attendant.IsAttendant() {
		uc.logger.Warn("CreateWalkinBooking: user id=%d is not an attendant", req.AttendantUserID)
		return nil, ErrAccessDenied
	}

	// 3. Находим или заводим клиента по телефону
	customer, err := uc.userClient.GetOrCreateByPhone(ctx, req.CustomerPhone)
	if err != nil {
		uc.logger.Error("CreateWalkinBooking: failed to resolve customer by phone: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve customer: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	start := now
	end := start.Add(time.Duration(req.DurationHours) * time.Hour)

	var (
		result  *domain.Booking
		receipt string
	)

	// 4. Проверка доступности, вставка и занятие места в одной
	// сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем место с блокировкой (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateWalkinBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateWalkinBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if !slot.IsBookable() {
			uc.logger.Warn("CreateWalkinBooking: slot id=%d is under maintenance", req.SlotID)
			return ErrSlotUnderMaintenance
		}

		// 4.2. Оператор должен быть закреплен за локацией места
		if !attendant.AssignedTo(slot.LocationID) {
			uc.logger.Warn("CreateWalkinBooking: attendant id=%d is not assigned to location id=%d",
				req.AttendantUserID, slot.LocationID)
			return ErrAccessDenied
		}

		// 4.3. Проверяем конфликт интервалов
		existing, err := uc.bookingRepo.GetActiveOverlapping(txCtx, req.SlotID, start, end)
		if err != nil {
			uc.logger.Error("CreateWalkinBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		for _, existingBooking := range existing {
			if existingBooking.OccupiesSlot() {
				uc.logger.Warn("CreateWalkinBooking: slot id=%d busy, conflicting booking id=%d",
					req.SlotID, existingBooking.ID)
				return ErrSlotNotAvailable
			}
		}

		totalPrice := float64(req.DurationHours) * slot.EffectiveHourlyRate()

		// 4.4. Создаем бронь: оплата уже принята, сессия начинается немедленно
		booking := &domain.Booking{
			SlotID:          req.SlotID,
			UserID:          customer.ID,
			LocationID:      slot.LocationID,
			PlateNumber:     req.PlateNumber,
			StartTime:       start,
			EndTime:         end,
			DurationHours:   req.DurationHours,
			TotalPrice:      totalPrice,
			Status:          domain.StatusActive,
			PaymentStatus:   domain.PaymentPaid,
			AttendantUserID: ptr.Ptr(req.AttendantUserID),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateWalkinBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 4.5. Фиксируем оплату, принятую на месте
		receipt = newReceiptNumber(now)
		payment := &domain.Payment{
			BookingID:     created.ID,
			Kind:          domain.PaymentKindBooking,
			Amount:        totalPrice,
			Method:        method,
			Status:        domain.PaymentRecordCompleted,
			ReceiptNumber: ptr.Ptr(receipt),
		}

		if _, err := uc.paymentRepo.Create(txCtx, payment); err != nil {
			uc.logger.Error("CreateWalkinBooking: failed to create payment record: %v", err)
			return fmt.Errorf("%w: failed to create payment record: %v", ErrInternal, err)
		}

		// 4.6. Занимаем место синхронно, последней записью; синхронизатор
		// работает на транзакционном контексте
		if err := uc.slotSync.Occupy(txCtx, req.SlotID); err != nil {
			uc.logger.Error("CreateWalkinBooking: failed to occupy slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to occupy slot: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateWalkinBooking: successfully created booking id=%d for user=%d, receipt=%s",
		result.ID, result.UserID, receipt)

	uc.events.BookingCreated(ctx, result)

	return &Response{
		ID:              result.ID,
		SlotID:          result.SlotID,
		UserID:          result.UserID,
		LocationID:      result.LocationID,
		PlateNumber:     result.PlateNumber,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationHours:   result.DurationHours,
		TotalPrice:      result.TotalPrice,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		AttendantUserID: req.AttendantUserID,
		ReceiptNumber:   receipt,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AttendantUserID <= 0 {
		return fmt.Errorf("%w: attendantUserID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PlateNumber) == "" {
		return fmt.Errorf("%w: plateNumber is required", ErrInvalidInput)
	}

	if req.DurationHours < 1 || req.DurationHours > domain.MaxBookingDurationHours {
		return fmt.Errorf("%w: durationHours must be between 1 and %d",
			ErrInvalidDuration, domain.MaxBookingDurationHours)
	}

	if !domain.PaymentMethod(req.PaymentMethod).IsCollectedOnSite() {
		return ErrInvalidPaymentMethod
	}

	return nil
}

// newReceiptNumber генерирует номер квитанции для оплаты на месте
func newReceiptNumber(now time.Time) string {
	return fmt.Sprintf("PRK-%d-%s", now.Unix(), uuid.NewString()[:8])
}
