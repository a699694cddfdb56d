package verify_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/payment"
	paymentClient "github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

// UseCase use case для проверки платежа у провайдера
//
// Проверка идемпотентна по providerRef: сколько бы раз ее ни вызвали
// (ручной повтор, редирект и вебхук одновременно), переход платежа в
// completed и активация брони происходят не более одного раза. Повторные
// вызовы для уже подтвержденного платежа возвращают успех без побочных
// эффектов
type UseCase struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	slotSync      SlotStatusSynchronizer
	paymentClient PaymentServiceClient
	txManager     TransactionManager
	events        EventPublisher
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	slotSync SlotStatusSynchronizer,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		slotSync:      slotSync,
		paymentClient: paymentClient,
		txManager:     txManager,
		events:        events,
		logger:        logger,
	}
}

// Execute выполняет use case проверки платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: providerRef=%s", req.ProviderRef)

	if strings.TrimSpace(req.ProviderRef) == "" {
		return nil, fmt.Errorf("%w: providerRef is required", ErrInvalidInput)
	}

	// 1. Быстрый путь: платеж уже подтвержден ранее
	payment, err := uc.getPayment(ctx, req.ProviderRef)
	if err != nil {
		return nil, err
	}

	if payment.IsCompleted() {
		uc.logger.Info("VerifyPayment: payment id=%d already completed, nothing to do", payment.ID)
		return alreadyVerified(payment), nil
	}

	// 2. Спрашиваем провайдера; вызов вне транзакции
	verifyResp, err := uc.paymentClient.VerifyPayment(ctx, req.ProviderRef)
	if err != nil {
		uc.logger.Error("VerifyPayment: provider call failed for providerRef=%s: %v", req.ProviderRef, err)
		if errors.Is(err, paymentClient.ErrProviderUnavailable) {
			return nil, ErrProviderUnavailable
		}
		return nil, fmt.Errorf("%w: provider call failed: %v", ErrInternal, err)
	}

	// 3. Провайдер не подтвердил платеж: все остается pending, вызывающая
	// сторона может повторить проверку позже
	if !verifyResp.IsSuccessful() {
		uc.logger.Warn("VerifyPayment: provider reported status=%s for payment id=%d",
			verifyResp.Status, payment.ID)
		return &Response{
			PaymentID: payment.ID,
			BookingID: payment.BookingID,
			Verified:  false,
			Status:    string(domain.PaymentRecordPending),
		}, nil
	}

	var activated *domain.Booking
	alreadyDone := false

	// 4. Переход completed + активация брони + занятие места атомарно
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем платеж с блокировкой (FOR UPDATE):
		// параллельная проверка могла успеть раньше
		current, err := uc.paymentRepo.GetByProviderRef(txCtx, req.ProviderRef)
		if err != nil {
			uc.logger.Error("VerifyPayment: failed to re-read payment: %v", err)
			return fmt.Errorf("%w: failed to re-read payment: %v", ErrInternal, err)
		}

		if current.IsCompleted() {
			alreadyDone = true
			return nil
		}

		booking, err := uc.bookingRepo.GetByID(txCtx, current.BookingID)
		if err != nil {
			uc.logger.Error("VerifyPayment: failed to get booking id=%d: %v", current.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if err := uc.paymentRepo.UpdateStatus(txCtx, current.ID, domain.PaymentRecordCompleted); err != nil {
			uc.logger.Error("VerifyPayment: failed to complete payment id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to complete payment: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.Activate(txCtx, booking.ID); err != nil {
			uc.logger.Error("VerifyPayment: failed to activate booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to activate booking: %v", ErrInternal, err)
		}

		// Статус места пишется последним; синхронизатор работает на
		// транзакционном контексте
		if err := uc.slotSync.Occupy(txCtx, booking.SlotID); err != nil {
			uc.logger.Error("VerifyPayment: failed to occupy slot id=%d: %v", booking.SlotID, err)
			return fmt.Errorf("%w: failed to occupy slot: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusActive
		booking.PaymentStatus = domain.PaymentPaid
		activated = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if alreadyDone {
		uc.logger.Info("VerifyPayment: payment id=%d completed by a concurrent verification", payment.ID)
		return alreadyVerified(payment), nil
	}

	uc.logger.Info("VerifyPayment: payment id=%d completed, booking id=%d activated, slot id=%d occupied",
		payment.ID, activated.ID, activated.SlotID)

	uc.events.BookingStatusUpdated(ctx, activated)

	return &Response{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Verified:  true,
		Status:    string(domain.PaymentRecordCompleted),
	}, nil
}

func (uc *UseCase) getPayment(ctx context.Context, providerRef string) (*domain.Payment, error) {
	payment, err := uc.paymentRepo.GetByProviderRef(ctx, providerRef)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("VerifyPayment: payment with providerRef=%s not found", providerRef)
			return nil, ErrPaymentNotFound
		}
		uc.logger.Error("VerifyPayment: failed to get payment by providerRef=%s: %v", providerRef, err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
	}
	return payment, nil
}

func alreadyVerified(payment *domain.Payment) *Response {
	return &Response{
		PaymentID: payment.ID,
		BookingID: payment.BookingID,
		Verified:  true,
		Status:    string(domain.PaymentRecordCompleted),
	}
}
