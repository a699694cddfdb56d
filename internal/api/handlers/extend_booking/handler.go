package extend_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	extendBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotExtend       = "бронирование нельзя продлить"
	msgSlotNotAvailable   = "парковочное место занято на продленный интервал"
	msgInvalidDuration    = "некорректная длительность продления"
)

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/extend - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &extendBooking.Request{
		BookingID:      bookingID,
		UserID:         userID,
		ExtensionHours: req.ExtensionHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/extend - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/extend - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, extendBooking.ErrCannotExtend):
			h.logger.Warn("POST /bookings/{id}/extend - Cannot extend: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCannotExtend)

		case errors.Is(err, extendBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/{id}/extend - Slot not available: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, extendBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings/{id}/extend - Invalid duration: hours=%d", req.ExtensionHours)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, extendBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/extend - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/extend - Failed to extend booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/extend - Booking extended: extension_id=%d, root_id=%d, user_id=%d",
		result.ID, result.OriginalBookingID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
