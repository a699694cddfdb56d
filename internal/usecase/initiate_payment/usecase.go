package initiate_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	paymentClient "github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

const paymentCurrency = "RUB"

// UseCase use case для инициации оплаты брони через платежный шлюз
//
// На бронь существует не более одной платежной записи вида booking:
// повторный вызов переиспользует незавершенный платеж вместо создания
// нового. Обращение к шлюзу выполняется вне транзакции
type UseCase struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	paymentClient PaymentServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		paymentClient: paymentClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case инициации оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("InitiatePayment: booking=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	var payment *domain.Payment

	// 2. Находим или заводим платежную запись в сериализуемой транзакции:
	// проверка "не более одного платежа на бронь" должна быть атомарной
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("InitiatePayment: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("InitiatePayment: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.UserID != req.UserID {
			uc.logger.Warn("InitiatePayment: user=%d is not the owner of booking id=%d",
				req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		if booking.PaymentStatus == domain.PaymentPaid {
			uc.logger.Warn("InitiatePayment: booking id=%d is already paid", req.BookingID)
			return ErrAlreadyPaid
		}

		existing, err := uc.paymentRepo.GetByBookingAndKind(txCtx, req.BookingID, domain.PaymentKindBooking)
		if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Error("InitiatePayment: failed to get existing payment: %v", err)
			return fmt.Errorf("%w: failed to get existing payment: %v", ErrInternal, err)
		}

		if existing != nil {
			if existing.IsCompleted() {
				uc.logger.Warn("InitiatePayment: booking id=%d already has a completed payment id=%d",
					req.BookingID, existing.ID)
				return ErrAlreadyPaid
			}
			// Переиспользуем незавершенный платеж
			uc.logger.Info("InitiatePayment: reusing pending payment id=%d for booking id=%d",
				existing.ID, req.BookingID)
			payment = existing
			return nil
		}

		created, err := uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID: req.BookingID,
			Kind:      domain.PaymentKindBooking,
			Amount:    booking.TotalPrice,
			Method:    domain.MethodGateway,
			Status:    domain.PaymentRecordPending,
		})
		if err != nil {
			uc.logger.Error("InitiatePayment: failed to create payment record: %v", err)
			return fmt.Errorf("%w: failed to create payment record: %v", ErrInternal, err)
		}

		payment = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Обращаемся к платежному шлюзу
	initResp, err := uc.paymentClient.InitiatePayment(ctx, &paymentClient.InitiateRequest{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		Currency:  paymentCurrency,
	})
	if err != nil {
		uc.logger.Error("InitiatePayment: provider call failed for payment id=%d: %v", payment.ID, err)
		if errors.Is(err, paymentClient.ErrProviderUnavailable) {
			return nil, ErrProviderUnavailable
		}
		return nil, fmt.Errorf("%w: provider call failed: %v", ErrInternal, err)
	}

	// 4. Привязываем идентификатор транзакции провайдера к платежу
	if err := uc.paymentRepo.SetProviderRef(ctx, payment.ID, initResp.ProviderRef); err != nil {
		uc.logger.Error("InitiatePayment: failed to set provider ref for payment id=%d: %v", payment.ID, err)
		return nil, fmt.Errorf("%w: failed to set provider ref: %v", ErrInternal, err)
	}

	uc.logger.Info("InitiatePayment: payment id=%d initiated for booking id=%d, providerRef=%s",
		payment.ID, payment.BookingID, initResp.ProviderRef)

	return &Response{
		PaymentID:   payment.ID,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount,
		PaymentURL:  initResp.PaymentURL,
		ProviderRef: initResp.ProviderRef,
	}, nil
}
