package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CompleteSessionRequest запрос на явное завершение парковочной сессии
type CompleteSessionRequest struct {
	UserID        int64      `json:"userId"`
	ActualEndTime *time.Time `json:"actualEndTime,omitempty"` // Фактический момент выезда (опционально)
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetLocationBookingsRequest запрос на получение бронирований локации
type GetLocationBookingsRequest struct {
	UserID         int64   `json:"userId"`
	LocationID     int64   `json:"locationId"`
	SlotID         *int64  `json:"slotId,omitempty"`      // Фильтр по слоту (опционально)
	PlateNumber    *string `json:"plateNumber,omitempty"` // Фильтр по госномеру (опционально)
	Status         *string `json:"status,omitempty"`      // Фильтр по статусу (опционально)
	OnlyChainRoots bool    `json:"onlyChainRoots,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetLocationBookingsRequest) ToDomainFilter() (domain.LocationBookingsFilter, error) {
	filter := domain.LocationBookingsFilter{
		LocationID:     r.LocationID,
		SlotID:         r.SlotID,
		PlateNumber:    r.PlateNumber,
		OnlyChainRoots: r.OnlyChainRoots,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	SlotID        int64   `json:"slotId"`
	UserID        int64   `json:"userId"`
	LocationID    int64   `json:"locationId"`
	PlateNumber   string  `json:"plateNumber"`
	StartTime     string  `json:"startTime"` // ISO 8601
	EndTime       string  `json:"endTime"`   // ISO 8601
	DurationHours int     `json:"durationHours"`
	TotalPrice    float64 `json:"totalPrice"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`

	OriginalBookingID *int64 `json:"originalBookingId,omitempty"`
	AttendantUserID   *int64 `json:"attendantUserId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// OverstayDetails данные о превышении времени стоянки
type OverstayDetails struct {
	EffectiveEnd       string  `json:"effectiveEnd"` // ISO 8601
	OverstayMinutes    int     `json:"overstayMinutes"`
	OverstayHours      int     `json:"overstayHours"`
	GracePeriodMinutes int     `json:"gracePeriodMinutes"`
	BillableMinutes    int     `json:"billableMinutes"`
	BillableHours      int     `json:"billableHours"`
	HourlyRate         float64 `json:"hourlyRate"`
	AdditionalCost     float64 `json:"additionalCost"`
}

// ValidateVehicleResponse результат проверки автомобиля на локации
type ValidateVehicleResponse struct {
	Valid           bool             `json:"valid"`
	IsOverstayed    bool             `json:"isOverstayed"`
	Booking         *BookingResponse `json:"booking,omitempty"`
	OverstayDetails *OverstayDetails `json:"overstayDetails,omitempty"`
}

// OverstayedVehicleInfo автомобиль, превысивший время стоянки
type OverstayedVehicleInfo struct {
	Booking         BookingResponse `json:"booking"`
	OverstayDetails OverstayDetails `json:"overstayDetails"`
}

// OverstayedVehiclesResponse ответ со списком превысивших время автомобилей
type OverstayedVehiclesResponse struct {
	LocationID int64                   `json:"locationId"`
	Vehicles   []OverstayedVehicleInfo `json:"vehicles"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                b.ID,
		SlotID:            b.SlotID,
		UserID:            b.UserID,
		LocationID:        b.LocationID,
		PlateNumber:       b.PlateNumber,
		StartTime:         b.StartTime.Format(time.RFC3339),
		EndTime:           b.EndTime.Format(time.RFC3339),
		DurationHours:     b.DurationHours,
		TotalPrice:        b.TotalPrice,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		OriginalBookingID: b.OriginalBookingID,
		AttendantUserID:   b.AttendantUserID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// FromDomainOverstay конвертирует результат расчета превышения в DTO
func FromDomainOverstay(r *domain.OverstayResult) *OverstayDetails {
	if r == nil {
		return nil
	}

	return &OverstayDetails{
		EffectiveEnd:       r.EffectiveEnd.Format(time.RFC3339),
		OverstayMinutes:    r.OverstayMinutes,
		OverstayHours:      r.OverstayHours,
		GracePeriodMinutes: r.GracePeriodMinutes,
		BillableMinutes:    r.BillableMinutes,
		BillableHours:      r.BillableHours,
		HourlyRate:         r.HourlyRate,
		AdditionalCost:     r.AdditionalCost,
	}
}

// FromDomainOverstayList конвертирует список превышений в DTO
func FromDomainOverstayList(locationID int64, results []*domain.OverstayResult) *OverstayedVehiclesResponse {
	resp := &OverstayedVehiclesResponse{
		LocationID: locationID,
		Vehicles:   make([]OverstayedVehicleInfo, 0, len(results)),
	}

	for _, result := range results {
		booking := FromDomainBooking(result.Booking)
		details := FromDomainOverstay(result)
		if booking == nil || details == nil {
			continue
		}
		resp.Vehicles = append(resp.Vehicles, OverstayedVehicleInfo{
			Booking:         *booking,
			OverstayDetails: *details,
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusActive,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
