package settle_overstay

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	settleOverstay "github.com/m04kA/SMC-ParkingService/internal/usecase/settle_overstay"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgUserNotFound       = "пользователь не найден"
	msgForbidden          = "доступ запрещен"
	msgSessionNotActive   = "парковочная сессия не активна"
	msgNoOverstay         = "превышение времени стоянки отсутствует"
	msgAlreadySettled     = "превышение уже оплачено"
	msgInvalidMethod      = "недопустимый способ оплаты на месте"
)

type Handler struct {
	useCase SettleOverstayUseCase
	logger  Logger
}

func NewHandler(useCase SettleOverstayUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/overstay/settle
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/overstay/settle - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req SettleOverstayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/overstay/settle - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	attendantUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/overstay/settle - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &settleOverstay.Request{
		BookingID:       bookingID,
		AttendantUserID: attendantUserID,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, settleOverstay.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settleOverstay.ErrUserNotFound):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Attendant not found: user_id=%d", attendantUserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, settleOverstay.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Access denied: booking_id=%d, user_id=%d",
				bookingID, attendantUserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settleOverstay.ErrSessionNotActive):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Session is not active: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSessionNotActive)

		case errors.Is(err, settleOverstay.ErrNoOverstay):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - No billable overstay: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNoOverstay)

		case errors.Is(err, settleOverstay.ErrAlreadySettled):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Already settled: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadySettled)

		case errors.Is(err, settleOverstay.ErrInvalidPaymentMethod):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Invalid payment method: method=%s", req.PaymentMethod)
			handlers.RespondBadRequest(w, msgInvalidMethod)

		case errors.Is(err, settleOverstay.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/overstay/settle - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/overstay/settle - Failed to settle overstay: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/overstay/settle - Overstay settled: payment_id=%d, booking_id=%d, receipt=%s",
		result.PaymentID, bookingID, result.ReceiptNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
