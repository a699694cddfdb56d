package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	userClient "github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	userClient  UserServiceClient
	slotSync    SlotStatusSynchronizer
	overstay    OverstayCalculator
	events      EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	slotSync SlotStatusSynchronizer,
	overstay OverstayCalculator,
	events EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userClient:  userClient,
		slotSync:    slotSync,
		overstay:    overstay,
		events:      events,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только свою бронь; оператор - брони своей локации
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetLocationBookings получает бронирования локации с фильтрацией
// Доступно только операторам, закрепленным за локацией
func (s *Service) GetLocationBookings(ctx context.Context, req *models.GetLocationBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetLocationBookings: fetching bookings for location=%d, user=%d", req.LocationID, req.UserID)

	if err := s.checkAttendantAccess(ctx, req.UserID, req.LocationID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetLocationBookings: invalid filter for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByLocationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetLocationBookings: repository error for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: GetLocationBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLocationBookings: successfully fetched %d bookings for location=%d", len(bookings), req.LocationID)
	return models.FromDomainBookingList(bookings), nil
}

// CompleteSession явно завершает парковочную сессию (active -> completed)
// и освобождает слот
//
// Завершается вся цепочка продлений: клиент покидает место один раз,
// и оставшиеся интервалы звеньев не должны держать освобожденный слот.
// Завершить можно по ID любого звена - цепочка разрешается до корня.
//
// Порядок записи фиксированный: сначала брони, затем статус слота.
// Освобождение слота идемпотентно, поэтому падение между двумя записями
// лечится повторным вызовом завершения
func (s *Service) CompleteSession(ctx context.Context, bookingID int64, req *models.CompleteSessionRequest) (*models.BookingResponse, error) {
	s.logger.Info("CompleteSession: completing booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, bookingID, "CompleteSession")
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("CompleteSession: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, err
	}

	if !booking.CanBeCompleted() {
		s.logger.Warn("CompleteSession: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
		return nil, ErrCannotComplete
	}

	if req.ActualEndTime != nil && !req.ActualEndTime.After(booking.StartTime) {
		s.logger.Warn("CompleteSession: actual end %s is not after start of booking id=%d",
			req.ActualEndTime.Format(time.RFC3339), bookingID)
		return nil, fmt.Errorf("%w: actual end time must be after booking start", ErrInvalidInput)
	}

	rootID := booking.ChainRootID()
	if err := s.bookingRepo.CompleteChain(ctx, rootID, req.ActualEndTime); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("CompleteSession: repository error for chain root id=%d: %v", rootID, err)
		return nil, fmt.Errorf("%w: CompleteSession - repository error: %v", ErrInternal, err)
	}

	// Освобождение слота - последняя запись
	if err := s.slotSync.Release(ctx, booking.SlotID); err != nil {
		s.logger.Error("CompleteSession: failed to release slot id=%d for booking id=%d: %v",
			booking.SlotID, bookingID, err)
		return nil, fmt.Errorf("%w: CompleteSession - failed to release slot: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCompleted
	if req.ActualEndTime != nil && req.ActualEndTime.Before(booking.EndTime) {
		booking.EndTime = *req.ActualEndTime
	}

	s.events.BookingStatusUpdated(ctx, booking)

	s.logger.Info("CompleteSession: successfully completed chain root id=%d, slot id=%d released",
		rootID, booking.SlotID)
	return models.FromDomainBooking(booking), nil
}

// CancelBooking отменяет неоплаченную бронь (pending -> cancelled)
// Активную сессию отменить нельзя - она завершается через CompleteSession.
// Место не трогаем: для pending брони оно не занималось
func (s *Service) CancelBooking(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("CancelBooking: cancelling booking id=%d by user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, bookingID, "CancelBooking")
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("CancelBooking: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, err
	}

	if booking.Status != domain.StatusPending {
		s.logger.Warn("CancelBooking: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusCancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("CancelBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: CancelBooking - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled

	s.events.BookingDeleted(ctx, booking)

	s.logger.Info("CancelBooking: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// ValidateVehicle проверяет автомобиль по госномеру на локации
// Возвращает активную бронь (если есть) и расчет превышения времени
// Используется оператором для контроля на месте; доступно только
// операторам, закрепленным за локацией
func (s *Service) ValidateVehicle(ctx context.Context, userID, locationID int64, plateNumber string, now time.Time) (*models.ValidateVehicleResponse, error) {
	s.logger.Info("ValidateVehicle: plate=%s at location=%d by user=%d", plateNumber, locationID, userID)

	if plateNumber == "" {
		return nil, fmt.Errorf("%w: plate number is required", ErrInvalidInput)
	}

	if err := s.checkAttendantAccess(ctx, userID, locationID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetActiveByPlate(ctx, locationID, plateNumber)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Info("ValidateVehicle: no active booking for plate=%s at location=%d", plateNumber, locationID)
			return &models.ValidateVehicleResponse{Valid: false}, nil
		}
		s.logger.Error("ValidateVehicle: repository error for plate=%s: %v", plateNumber, err)
		return nil, fmt.Errorf("%w: ValidateVehicle - repository error: %v", ErrInternal, err)
	}

	result, err := s.overstay.ComputeForBooking(ctx, booking, now)
	if err != nil {
		s.logger.Error("ValidateVehicle: failed to compute overstay for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: ValidateVehicle - failed to compute overstay: %v", ErrInternal, err)
	}

	resp := &models.ValidateVehicleResponse{
		Valid:        true,
		IsOverstayed: result.IsOverstayed,
		Booking:      models.FromDomainBooking(booking),
	}
	if result.IsOverstayed {
		resp.OverstayDetails = models.FromDomainOverstay(result)
	}

	return resp, nil
}

// GetOverstayedVehicles возвращает автомобили локации, превысившие время
// стоянки, отсортированные по давности окончания
// Доступно только операторам, закрепленным за локацией
func (s *Service) GetOverstayedVehicles(ctx context.Context, userID, locationID int64, now time.Time) (*models.OverstayedVehiclesResponse, error) {
	s.logger.Info("GetOverstayedVehicles: location=%d, user=%d", locationID, userID)

	if err := s.checkAttendantAccess(ctx, userID, locationID); err != nil {
		return nil, err
	}

	results, err := s.overstay.ListOverstayedVehicles(ctx, locationID, now)
	if err != nil {
		s.logger.Error("GetOverstayedVehicles: failed to list overstays for location=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: GetOverstayedVehicles - failed to list overstays: %v", ErrInternal, err)
	}

	return models.FromDomainOverstayList(locationID, results), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkBookingAccess проверяет, что пользователь имеет доступ к брони:
// владелец либо оператор локации брони
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	if err := s.checkAttendantAccess(ctx, userID, booking.LocationID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkAttendantAccess проверяет, что пользователь - оператор, закрепленный за локацией
func (s *Service) checkAttendantAccess(ctx context.Context, userID, locationID int64) error {
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkAttendantAccess: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("checkAttendantAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkAttendantAccess - failed to get user: %v", ErrInternal, err)
	}

	if !user.IsAttendant() || !user.AssignedTo(locationID) {
		s.logger.Warn("checkAttendantAccess: user=%d is not an attendant of location=%d", userID, locationID)
		return ErrAccessDenied
	}

	return nil
}
