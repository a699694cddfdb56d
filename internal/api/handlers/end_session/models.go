package end_session

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// EndSessionRequest HTTP request model
type EndSessionRequest struct {
	ActualEndTime *string `json:"actualEndTime,omitempty"` // RFC 3339; отсутствует - завершение текущим моментом
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *EndSessionRequest) ToServiceRequest(userID int64) (*models.CompleteSessionRequest, error) {
	req := &models.CompleteSessionRequest{UserID: userID}

	if r.ActualEndTime != nil {
		parsed, err := time.Parse(time.RFC3339, *r.ActualEndTime)
		if err != nil {
			return nil, err
		}
		req.ActualEndTime = &parsed
	}

	return req, nil
}
