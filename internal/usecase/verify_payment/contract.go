package verify_payment

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Activate(ctx context.Context, id int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByProviderRef(ctx context.Context, providerRef string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentRecordStatus) error
}

// SlotStatusSynchronizer интерфейс синхронизатора статусов слотов
type SlotStatusSynchronizer interface {
	Occupy(ctx context.Context, slotID int64) error
}

// PaymentServiceClient интерфейс клиента платежного шлюза
type PaymentServiceClient interface {
	VerifyPayment(ctx context.Context, providerRef string) (*paymentservice.VerifyResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий о бронированиях
type EventPublisher interface {
	BookingStatusUpdated(ctx context.Context, booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
