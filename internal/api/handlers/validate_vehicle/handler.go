package validate_vehicle

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgMissingPlate      = "не указан госномер автомобиля"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgUserNotFound      = "пользователь не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/locations/{locationId}/validate-vehicle
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/validate-vehicle - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	plateNumber := r.URL.Query().Get("plateNumber")
	if plateNumber == "" {
		h.logger.Warn("GET /locations/{id}/validate-vehicle - Missing plate number")
		handlers.RespondBadRequest(w, msgMissingPlate)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /locations/{id}/validate-vehicle - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ValidateVehicle(r.Context(), userID, locationID, plateNumber, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("GET /locations/{id}/validate-vehicle - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/validate-vehicle - Access denied: location_id=%d, user_id=%d",
				locationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/validate-vehicle - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgMissingPlate)

		default:
			h.logger.Error("GET /locations/{id}/validate-vehicle - Failed to validate vehicle: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/validate-vehicle - Vehicle validated: location_id=%d, plate=%s, valid=%t",
		locationID, plateNumber, result.Valid)
	handlers.RespondJSON(w, http.StatusOK, result)
}
