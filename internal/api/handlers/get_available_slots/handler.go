package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidStartTime  = "некорректный формат времени начала, ожидается RFC 3339"
	msgStartTimeInPast   = "время начала должно быть в будущем"
	msgInvalidDuration   = "некорректная длительность"
)

// Длительность окна по умолчанию, если параметр не передан
const defaultDurationHours = 1

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locations/{id}/available-slots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	query := r.URL.Query()

	req := &getAvailableSlots.Request{
		LocationID:    locationID,
		DurationHours: defaultDurationHours,
	}

	if startStr := query.Get("startTime"); startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid start time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStartTime)
			return
		}
		req.StartTime = &parsed
	}

	if durationStr := query.Get("durationHours"); durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		req.DurationHours = duration
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidStartTime):
			h.logger.Warn("GET /locations/{id}/available-slots - Start time in past: location_id=%d", locationID)
			handlers.RespondBadRequest(w, msgStartTimeInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid duration: location_id=%d", locationID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /locations/{id}/available-slots - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidLocationID)

		default:
			h.logger.Error("GET /locations/{id}/available-slots - Failed to get slots: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/available-slots - Retrieved %d slots: location_id=%d",
		len(result.Slots), locationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
