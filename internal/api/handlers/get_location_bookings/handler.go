package get_location_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidSlotID     = "некорректный ID парковочного места"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgUserNotFound      = "пользователь не найден"
	msgForbidden         = "доступ запрещен"
	msgInvalidFilter     = "некорректные параметры фильтра"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /locations/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetLocationBookingsRequest{
		UserID:     userID,
		LocationID: locationID,
	}

	query := r.URL.Query()
	if slotIDStr := query.Get("slotId"); slotIDStr != "" {
		slotID, err := strconv.ParseInt(slotIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/bookings - Invalid slot ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlotID)
			return
		}
		req.SlotID = &slotID
	}
	if plate := query.Get("plateNumber"); plate != "" {
		req.PlateNumber = &plate
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if query.Get("onlyChainRoots") == "true" {
		req.OnlyChainRoots = true
	}

	result, err := h.service.GetLocationBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("GET /locations/{id}/bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/bookings - Access denied: location_id=%d, user_id=%d",
				locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/bookings - Invalid filter: location_id=%d", locationID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /locations/{id}/bookings - Failed to get bookings: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/bookings - Retrieved %d bookings: location_id=%d, user_id=%d",
		len(result.Bookings), locationID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
