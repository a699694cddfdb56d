package initiate_payment

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByBookingAndKind(ctx context.Context, bookingID int64, kind domain.PaymentKind) (*domain.Payment, error)
	SetProviderRef(ctx context.Context, id int64, providerRef string) error
}

// PaymentServiceClient интерфейс клиента платежного шлюза
type PaymentServiceClient interface {
	InitiatePayment(ctx context.Context, req *paymentservice.InitiateRequest) (*paymentservice.InitiateResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
