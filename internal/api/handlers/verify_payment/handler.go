package verify_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	verifyPayment "github.com/m04kA/SMC-ParkingService/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgPaymentNotFound     = "платеж не найден"
	msgProviderUnavailable = "платежный сервис временно недоступен, повторите попытку позже"
)

// VerifyPaymentRequest HTTP request model
type VerifyPaymentRequest struct {
	ProviderRef string `json:"providerRef"`
}

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/verify
// Вызывается как редиректом пользователя, так и вебхуком провайдера,
// поэтому маршрут не требует заголовка X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &verifyPayment.Request{
		ProviderRef: req.ProviderRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/verify - Payment not found: provider_ref=%s", req.ProviderRef)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, verifyPayment.ErrProviderUnavailable):
			h.logger.Error("POST /payments/verify - Provider unavailable: provider_ref=%s", req.ProviderRef)
			handlers.RespondError(w, http.StatusBadGateway, msgProviderUnavailable)

		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/verify - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/verify - Failed to verify payment: provider_ref=%s, error=%v",
				req.ProviderRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/verify - Payment verified: payment_id=%d, booking_id=%d, verified=%t",
		result.PaymentID, result.BookingID, result.Verified)
	handlers.RespondJSON(w, http.StatusOK, result)
}
