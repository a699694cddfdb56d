package create_walkin_booking

import (
	"context"

	createWalkin "github.com/m04kA/SMC-ParkingService/internal/usecase/create_walkin_booking"
)

type CreateWalkinBookingUseCase interface {
	Execute(ctx context.Context, req *createWalkin.Request) (*createWalkin.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
