package validate_vehicle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

type BookingService interface {
	ValidateVehicle(ctx context.Context, userID, locationID int64, plateNumber string, now time.Time) (*models.ValidateVehicleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
