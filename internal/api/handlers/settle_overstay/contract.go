package settle_overstay

import (
	"context"

	settleOverstay "github.com/m04kA/SMC-ParkingService/internal/usecase/settle_overstay"
)

type SettleOverstayUseCase interface {
	Execute(ctx context.Context, req *settleOverstay.Request) (*settleOverstay.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
