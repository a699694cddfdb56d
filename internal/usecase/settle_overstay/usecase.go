package settle_overstay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	userClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase use case для оформления оплаты превышения времени стоянки
//
// Оплата принимается оператором на месте (наличные, терминал или ручная
// корректировка). Сумма считается на момент оформления: расчет и создание
// платежной записи выполняются в одной сериализуемой транзакции, чтобы два
// оператора не оформили оплату одного превышения дважды
type UseCase struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	userClient   UserServiceClient
	calculator   OverstayCalculator
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	userClient UserServiceClient,
	calculator OverstayCalculator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		userClient:   userClient,
		calculator:   calculator,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case оформления оплаты превышения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SettleOverstay: booking=%d, attendant=%d, method=%s",
		req.BookingID, req.AttendantUserID, req.PaymentMethod)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SettleOverstay: validation failed: %v", err)
		return nil, err
	}

	method := domain.PaymentMethod(req.PaymentMethod)

	// 2. Проверяем, что оформляющий пользователь - оператор
	attendant, err := uc.userClient.GetUser(ctx, req.AttendantUserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("SettleOverstay: attendant id=%d not found", req.AttendantUserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("SettleOverstay: failed to get attendant id=%d: %v", req.AttendantUserID, err)
		return nil, fmt.Errorf("%w: failed to get attendant: %v", ErrInternal, err)
	}

	if !attendant.IsAttendant() {
		uc.logger.Warn("SettleOverstay: user id=%d is not an attendant", req.AttendantUserID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	var (
		payment *domain.Payment
		result  *domain.OverstayResult
	)

	// 3. Расчет и создание платежа атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем бронь с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("SettleOverstay: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("SettleOverstay: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3.2. Оператор должен быть закреплен за локацией брони
		if !attendant.AssignedTo(booking.LocationID) {
			uc.logger.Warn("SettleOverstay: attendant id=%d is not assigned to location id=%d",
				req.AttendantUserID, booking.LocationID)
			return ErrAccessDenied
		}

		// 3.3. Превышение оформляется только по активной сессии: после
		// завершения или отмены время от now продолжало бы накручивать сумму
		if booking.Status != domain.StatusActive {
			uc.logger.Warn("SettleOverstay: booking id=%d is not active, status=%s",
				req.BookingID, booking.Status)
			return ErrSessionNotActive
		}

		// 3.4. Превышение по этой брони еще не оплачивалось
		existing, err := uc.paymentRepo.GetByBookingAndKind(txCtx, booking.ChainRootID(), domain.PaymentKindOverstay)
		if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Error("SettleOverstay: failed to get existing overstay payment: %v", err)
			return fmt.Errorf("%w: failed to get existing overstay payment: %v", ErrInternal, err)
		}
		if existing != nil && existing.IsCompleted() {
			uc.logger.Warn("SettleOverstay: overstay for booking id=%d already settled by payment id=%d",
				req.BookingID, existing.ID)
			return ErrAlreadySettled
		}

		// 3.5. Считаем превышение на текущий момент
		computed, err := uc.calculator.ComputeForBooking(txCtx, booking, now)
		if err != nil {
			uc.logger.Error("SettleOverstay: failed to compute overstay for booking id=%d: %v",
				req.BookingID, err)
			return fmt.Errorf("%w: failed to compute overstay: %v", ErrInternal, err)
		}

		if !computed.IsOverstayed || computed.AdditionalCost <= 0 {
			uc.logger.Warn("SettleOverstay: booking id=%d has no billable overstay", req.BookingID)
			return ErrNoOverstay
		}

		// 3.6. Платеж за превышение фиксируется сразу как принятый
		receipt := newReceiptNumber(now)
		created, err := uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID:     booking.ChainRootID(),
			Kind:          domain.PaymentKindOverstay,
			Amount:        computed.AdditionalCost,
			Method:        method,
			Status:        domain.PaymentRecordCompleted,
			ReceiptNumber: ptr.Ptr(receipt),
		})
		if err != nil {
			uc.logger.Error("SettleOverstay: failed to create overstay payment: %v", err)
			return fmt.Errorf("%w: failed to create overstay payment: %v", ErrInternal, err)
		}

		payment = created
		result = computed
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("SettleOverstay: payment id=%d created for booking id=%d, amount=%.2f, receipt=%s",
		payment.ID, payment.BookingID, payment.Amount, receiptOrEmpty(payment))

	return &Response{
		PaymentID:       payment.ID,
		BookingID:       payment.BookingID,
		Amount:          payment.Amount,
		Method:          string(payment.Method),
		Status:          string(payment.Status),
		ReceiptNumber:   receiptOrEmpty(payment),
		EffectiveEnd:    result.EffectiveEnd,
		OverstayMinutes: result.OverstayMinutes,
		BillableHours:   result.BillableHours,
		HourlyRate:      result.HourlyRate,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.AttendantUserID <= 0 {
		return fmt.Errorf("%w: attendantUserID must be positive", ErrInvalidInput)
	}

	if !domain.PaymentMethod(req.PaymentMethod).IsCollectedOnSite() {
		return ErrInvalidPaymentMethod
	}

	return nil
}

// newReceiptNumber генерирует номер квитанции оплаты превышения
func newReceiptNumber(now time.Time) string {
	return fmt.Sprintf("OVS-%d-%s", now.Unix(), uuid.NewString()[:8])
}

func receiptOrEmpty(p *domain.Payment) string {
	if p.ReceiptNumber == nil {
		return ""
	}
	return *p.ReceiptNumber
}
