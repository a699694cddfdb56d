package get_overstayed_vehicles

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

type BookingService interface {
	GetOverstayedVehicles(ctx context.Context, userID, locationID int64, now time.Time) (*models.OverstayedVehiclesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
