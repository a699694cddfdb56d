package create_walkin_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	createWalkin "github.com/m04kA/SMC-ParkingService/internal/usecase/create_walkin_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSlotNotFound         = "парковочное место не найдено"
	msgSlotUnderMaintenance = "парковочное место на обслуживании"
	msgSlotNotAvailable     = "парковочное место занято на выбранный интервал"
	msgUserNotFound         = "пользователь не найден"
	msgForbidden            = "доступ запрещен"
	msgInvalidDuration      = "некорректная длительность бронирования"
	msgInvalidMethod        = "недопустимый способ оплаты на месте"
)

type Handler struct {
	useCase CreateWalkinBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateWalkinBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/walkin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateWalkinBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/walkin - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Оформляющий оператор определяется по заголовку X-User-ID
	attendantUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/walkin - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(attendantUserID))
	if err != nil {
		switch {
		case errors.Is(err, createWalkin.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/walkin - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createWalkin.ErrSlotUnderMaintenance):
			h.logger.Warn("POST /bookings/walkin - Slot under maintenance: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnderMaintenance)

		case errors.Is(err, createWalkin.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/walkin - Slot not available: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createWalkin.ErrUserNotFound):
			h.logger.Warn("POST /bookings/walkin - Attendant not found: user_id=%d", attendantUserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createWalkin.ErrAccessDenied):
			h.logger.Warn("POST /bookings/walkin - Access denied: user_id=%d, slot_id=%d",
				attendantUserID, req.SlotID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createWalkin.ErrInvalidDuration):
			h.logger.Warn("POST /bookings/walkin - Invalid duration: duration=%d", req.DurationHours)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createWalkin.ErrInvalidPaymentMethod):
			h.logger.Warn("POST /bookings/walkin - Invalid payment method: method=%s", req.PaymentMethod)
			handlers.RespondBadRequest(w, msgInvalidMethod)

		case errors.Is(err, createWalkin.ErrInvalidInput):
			h.logger.Warn("POST /bookings/walkin - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/walkin - Failed to create walkin booking: user_id=%d, slot_id=%d, error=%v",
				attendantUserID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/walkin - Walkin booking created: booking_id=%d, attendant_id=%d, slot_id=%d",
		result.ID, attendantUserID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
