package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByLocationWithFilter(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error)
	GetActiveByPlate(ctx context.Context, locationID int64, plateNumber string) (*domain.Booking, error)
	CompleteChain(ctx context.Context, rootID int64, actualEnd *time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// SlotStatusSynchronizer интерфейс синхронизатора статусов слотов
type SlotStatusSynchronizer interface {
	Release(ctx context.Context, slotID int64) error
}

// OverstayCalculator интерфейс калькулятора превышений
type OverstayCalculator interface {
	ComputeForBooking(ctx context.Context, booking *domain.Booking, now time.Time) (*domain.OverstayResult, error)
	ListOverstayedVehicles(ctx context.Context, locationID int64, now time.Time) ([]*domain.OverstayResult, error)
}

// EventPublisher интерфейс публикации событий о бронированиях
type EventPublisher interface {
	BookingStatusUpdated(ctx context.Context, booking *domain.Booking)
	BookingDeleted(ctx context.Context, booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
