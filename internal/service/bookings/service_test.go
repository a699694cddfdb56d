package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings      map[int64]*domain.Booking
	byPlate       *domain.Booking
	completed     []int64
	statusUpdates map[int64]domain.BookingStatus
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		bookings:      map[int64]*domain.Booking{},
		statusUpdates: map[int64]domain.BookingStatus{},
	}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByLocationWithFilter(_ context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.LocationID == filter.LocationID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetActiveByPlate(_ context.Context, _ int64, _ string) (*domain.Booking, error) {
	if f.byPlate == nil {
		return nil, bookingstorage.ErrBookingNotFound
	}
	return f.byPlate, nil
}

func (f *fakeBookingRepo) CompleteChain(_ context.Context, rootID int64, actualEnd *time.Time) error {
	f.completed = append(f.completed, rootID)
	for _, b := range f.bookings {
		if b.ChainRootID() != rootID {
			continue
		}
		if b.Status != domain.StatusActive {
			continue
		}
		b.Status = domain.StatusCompleted
		if actualEnd != nil && actualEnd.Before(b.EndTime) {
			b.EndTime = *actualEnd
		}
	}
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	f.statusUpdates[id] = status
	return nil
}

type fakeUserClient struct {
	users map[int64]*userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

type fakeSlotSync struct {
	released []int64
}

func (f *fakeSlotSync) Release(_ context.Context, slotID int64) error {
	f.released = append(f.released, slotID)
	return nil
}

type fakeOverstayCalc struct {
	result *domain.OverstayResult
	list   []*domain.OverstayResult
}

func (f *fakeOverstayCalc) ComputeForBooking(_ context.Context, _ *domain.Booking, _ time.Time) (*domain.OverstayResult, error) {
	return f.result, nil
}

func (f *fakeOverstayCalc) ListOverstayedVehicles(_ context.Context, _ int64, _ time.Time) ([]*domain.OverstayResult, error) {
	return f.list, nil
}

type fakeEvents struct {
	updated []*domain.Booking
	deleted []*domain.Booking
}

func (f *fakeEvents) BookingStatusUpdated(_ context.Context, booking *domain.Booking) {
	f.updated = append(f.updated, booking)
}

func (f *fakeEvents) BookingDeleted(_ context.Context, booking *domain.Booking) {
	f.deleted = append(f.deleted, booking)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	testEnd   = testStart.Add(2 * time.Hour)
)

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		SlotID:        10,
		UserID:        7,
		LocationID:    3,
		PlateNumber:   "А123БВ777",
		StartTime:     testStart,
		EndTime:       testEnd,
		Status:        domain.StatusActive,
		PaymentStatus: domain.PaymentPaid,
	}
}

func attendantOf(locationID int64) *userservice.User {
	return &userservice.User{ID: 50, Role: userservice.RoleAttendant, LocationID: ptr.Ptr(locationID)}
}

func newService(repo *fakeBookingRepo, users *fakeUserClient, slotSync *fakeSlotSync, calc *fakeOverstayCalc, events *fakeEvents) *Service {
	return NewService(repo, users, slotSync, calc, events, nopLogger{})
}

func TestService_GetByID(t *testing.T) {
	t.Run("owner sees own booking", func(t *testing.T) {
		svc := newService(newFakeBookingRepo(activeBooking()), &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		resp, err := svc.GetByID(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("attendant of the location sees the booking", func(t *testing.T) {
		users := &fakeUserClient{users: map[int64]*userservice.User{50: attendantOf(3)}}
		svc := newService(newFakeBookingRepo(activeBooking()), users, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.GetByID(context.Background(), 1, 50)
		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		users := &fakeUserClient{users: map[int64]*userservice.User{50: attendantOf(99)}}
		svc := newService(newFakeBookingRepo(activeBooking()), users, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.GetByID(context.Background(), 1, 50)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newService(newFakeBookingRepo(), &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.GetByID(context.Background(), 404, 7)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_CompleteSession(t *testing.T) {
	t.Run("completes active session and releases slot", func(t *testing.T) {
		repo := newFakeBookingRepo(activeBooking())
		slotSync := &fakeSlotSync{}
		events := &fakeEvents{}
		svc := newService(repo, &fakeUserClient{}, slotSync, &fakeOverstayCalc{}, events)

		resp, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)
		assert.Equal(t, []int64{1}, repo.completed)
		assert.Equal(t, []int64{10}, slotSync.released)
		require.Len(t, events.updated, 1)
	})

	t.Run("extension links are completed together with the root", func(t *testing.T) {
		root := activeBooking()
		link := activeBooking()
		link.ID = 2
		link.StartTime = testEnd
		link.EndTime = testEnd.Add(2 * time.Hour)
		link.OriginalBookingID = ptr.Ptr(int64(1))

		repo := newFakeBookingRepo(root, link)
		slotSync := &fakeSlotSync{}
		svc := newService(repo, &fakeUserClient{}, slotSync, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.completed)
		// Интервал звена больше не держит освобожденный слот
		assert.Equal(t, domain.StatusCompleted, link.Status)
		assert.Equal(t, []int64{10}, slotSync.released)
	})

	t.Run("completing by an extension id resolves the chain root", func(t *testing.T) {
		root := activeBooking()
		link := activeBooking()
		link.ID = 2
		link.StartTime = testEnd
		link.EndTime = testEnd.Add(2 * time.Hour)
		link.OriginalBookingID = ptr.Ptr(int64(1))

		repo := newFakeBookingRepo(root, link)
		slotSync := &fakeSlotSync{}
		svc := newService(repo, &fakeUserClient{}, slotSync, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.CompleteSession(context.Background(), 2, &models.CompleteSessionRequest{UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.completed)
		assert.Equal(t, domain.StatusCompleted, root.Status)
		assert.Equal(t, []int64{10}, slotSync.released)
	})

	t.Run("records the actual end time", func(t *testing.T) {
		repo := newFakeBookingRepo(activeBooking())
		svc := newService(repo, &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		actualEnd := testStart.Add(90 * time.Minute)
		resp, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 7, ActualEndTime: &actualEnd})

		require.NoError(t, err)
		assert.Equal(t, actualEnd.Format(time.RFC3339), resp.EndTime)
	})

	t.Run("actual end before start is rejected", func(t *testing.T) {
		repo := newFakeBookingRepo(activeBooking())
		svc := newService(repo, &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		before := testStart.Add(-time.Minute)
		_, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 7, ActualEndTime: &before})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, repo.completed)
	})

	t.Run("pending session cannot be completed", func(t *testing.T) {
		pending := activeBooking()
		pending.Status = domain.StatusPending
		repo := newFakeBookingRepo(pending)
		slotSync := &fakeSlotSync{}
		svc := newService(repo, &fakeUserClient{}, slotSync, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 7})

		assert.ErrorIs(t, err, ErrCannotComplete)
		assert.Empty(t, slotSync.released)
	})

	t.Run("stranger cannot complete", func(t *testing.T) {
		repo := newFakeBookingRepo(activeBooking())
		svc := newService(repo, &fakeUserClient{users: map[int64]*userservice.User{}}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.CompleteSession(context.Background(), 1, &models.CompleteSessionRequest{UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_CancelBooking(t *testing.T) {
	t.Run("pending booking is cancelled", func(t *testing.T) {
		pending := activeBooking()
		pending.Status = domain.StatusPending
		pending.PaymentStatus = domain.PaymentPending
		repo := newFakeBookingRepo(pending)
		events := &fakeEvents{}
		svc := newService(repo, &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, events)

		resp, err := svc.CancelBooking(context.Background(), 1, 7)

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		assert.Equal(t, domain.StatusCancelled, repo.statusUpdates[1])
		require.Len(t, events.deleted, 1)
	})

	t.Run("active session cannot be cancelled", func(t *testing.T) {
		repo := newFakeBookingRepo(activeBooking())
		events := &fakeEvents{}
		svc := newService(repo, &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, events)

		_, err := svc.CancelBooking(context.Background(), 1, 7)

		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, repo.statusUpdates)
		assert.Empty(t, events.deleted)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		completed := activeBooking()
		completed.Status = domain.StatusCompleted
		svc := newService(newFakeBookingRepo(completed), &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.CancelBooking(context.Background(), 1, 7)
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}

func TestService_ValidateVehicle(t *testing.T) {
	now := testEnd.Add(30 * time.Minute)
	users := func() *fakeUserClient {
		return &fakeUserClient{users: map[int64]*userservice.User{50: attendantOf(3)}}
	}

	t.Run("vehicle with active booking is valid", func(t *testing.T) {
		booking := activeBooking()
		repo := newFakeBookingRepo(booking)
		repo.byPlate = booking
		calc := &fakeOverstayCalc{result: domain.NewZeroOverstay(booking, testEnd.Add(time.Hour))}
		svc := newService(repo, users(), &fakeSlotSync{}, calc, &fakeEvents{})

		resp, err := svc.ValidateVehicle(context.Background(), 50, 3, "А123БВ777", now)

		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.False(t, resp.IsOverstayed)
		require.NotNil(t, resp.Booking)
		assert.Nil(t, resp.OverstayDetails)
	})

	t.Run("overstayed vehicle carries the billing details", func(t *testing.T) {
		booking := activeBooking()
		repo := newFakeBookingRepo(booking)
		repo.byPlate = booking
		calc := &fakeOverstayCalc{
			result: domain.ComputeOverstay(booking, testEnd, now, 100),
		}
		svc := newService(repo, users(), &fakeSlotSync{}, calc, &fakeEvents{})

		resp, err := svc.ValidateVehicle(context.Background(), 50, 3, "А123БВ777", now)

		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.True(t, resp.IsOverstayed)
		require.NotNil(t, resp.OverstayDetails)
	})

	t.Run("unknown plate is reported as not valid", func(t *testing.T) {
		repo := newFakeBookingRepo()
		svc := newService(repo, users(), &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		resp, err := svc.ValidateVehicle(context.Background(), 50, 3, "Х999ХХ99", now)

		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Nil(t, resp.Booking)
	})

	t.Run("only assigned attendants may validate", func(t *testing.T) {
		foreign := &fakeUserClient{users: map[int64]*userservice.User{50: attendantOf(99)}}
		svc := newService(newFakeBookingRepo(), foreign, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.ValidateVehicle(context.Background(), 50, 3, "А123БВ777", now)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("customer may not validate", func(t *testing.T) {
		customer := &fakeUserClient{users: map[int64]*userservice.User{7: {ID: 7, Role: userservice.RoleCustomer}}}
		svc := newService(newFakeBookingRepo(), customer, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.ValidateVehicle(context.Background(), 7, 3, "А123БВ777", now)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_GetOverstayedVehicles(t *testing.T) {
	now := testEnd.Add(time.Hour)

	t.Run("returns the location overstay list", func(t *testing.T) {
		booking := activeBooking()
		calc := &fakeOverstayCalc{
			list: []*domain.OverstayResult{domain.ComputeOverstay(booking, testEnd, now, 100)},
		}
		users := &fakeUserClient{users: map[int64]*userservice.User{50: attendantOf(3)}}
		svc := newService(newFakeBookingRepo(), users, &fakeSlotSync{}, calc, &fakeEvents{})

		resp, err := svc.GetOverstayedVehicles(context.Background(), 50, 3, now)

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.LocationID)
		require.Len(t, resp.Vehicles, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newService(newFakeBookingRepo(), &fakeUserClient{users: map[int64]*userservice.User{}}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

		_, err := svc.GetOverstayedVehicles(context.Background(), 404, 3, now)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_GetUserBookings(t *testing.T) {
	booking := activeBooking()
	other := activeBooking()
	other.ID = 2
	other.Status = domain.StatusCompleted

	repo := newFakeBookingRepo(booking, other)
	svc := newService(repo, &fakeUserClient{}, &fakeSlotSync{}, &fakeOverstayCalc{}, &fakeEvents{})

	t.Run("all bookings of the user", func(t *testing.T) {
		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("filtered by status", func(t *testing.T) {
		status := "completed"
		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: &status})

		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, int64(2), resp.Bookings[0].ID)
	})

	t.Run("invalid status", func(t *testing.T) {
		status := "parked"
		_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: &status})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
