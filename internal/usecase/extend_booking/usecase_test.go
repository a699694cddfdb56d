package extend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingstorage "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings    map[int64]*domain.Booking
	latest      *domain.Booking
	overlapping []*domain.Booking
	created     *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingstorage.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeBookingRepo) GetLatestInChain(_ context.Context, rootID int64) (*domain.Booking, error) {
	if f.latest != nil {
		return f.latest, nil
	}
	return f.bookings[rootID], nil
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.overlapping, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = 100
	f.created = booking
	return booking, nil
}

type fakeSlotRepo struct {
	slot *domain.Slot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, _ int64) (*domain.Slot, error) {
	return f.slot, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEvents struct {
	created []*domain.Booking
}

func (f *fakeEvents) BookingCreated(_ context.Context, booking *domain.Booking) {
	f.created = append(f.created, booking)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour) // 12:00

	newRoot := func() *domain.Booking {
		return &domain.Booking{
			ID:            1,
			SlotID:        10,
			UserID:        7,
			LocationID:    3,
			PlateNumber:   "А123БВ777",
			StartTime:     start,
			EndTime:       end,
			DurationHours: 2,
			Status:        domain.StatusActive,
			PaymentStatus: domain.PaymentPaid,
		}
	}

	slot := &domain.Slot{ID: 10, LocationID: 3, HourlyPrice: 100, Status: domain.SlotOccupied}

	newUC := func(bookingRepo *fakeBookingRepo, events *fakeEvents) *UseCase {
		return NewUseCase(bookingRepo, &fakeSlotRepo{slot: slot}, &fakeTxManager{}, events, nopLogger{})
	}

	t.Run("extension docks at the end of the chain", func(t *testing.T) {
		root := newRoot()
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: root}}
		events := &fakeEvents{}
		uc := newUC(bookingRepo, events)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.OriginalBookingID)
		assert.Equal(t, end, resp.StartTime)
		assert.Equal(t, end.Add(2*time.Hour), resp.EndTime)
		assert.Equal(t, 200.0, resp.TotalPrice)
		assert.Equal(t, string(domain.StatusActive), resp.Status)
		assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
		require.NotNil(t, bookingRepo.created)
		require.NotNil(t, bookingRepo.created.OriginalBookingID)
		assert.Equal(t, int64(1), *bookingRepo.created.OriginalBookingID)
		require.Len(t, events.created, 1)
	})

	t.Run("extension of an extension resolves the chain root", func(t *testing.T) {
		root := newRoot()
		link := &domain.Booking{
			ID:                2,
			SlotID:            10,
			UserID:            7,
			LocationID:        3,
			StartTime:         end,
			EndTime:           end.Add(1 * time.Hour), // 13:00
			Status:            domain.StatusActive,
			OriginalBookingID: ptr.Ptr(int64(1)),
		}
		bookingRepo := &fakeBookingRepo{
			bookings: map[int64]*domain.Booking{1: root, 2: link},
			latest:   link,
		}
		uc := newUC(bookingRepo, &fakeEvents{})

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 2, UserID: 7, ExtensionHours: 1})

		require.NoError(t, err)
		// Новое звено указывает на корень цепочки, не на промежуточное звено
		assert.Equal(t, int64(1), resp.OriginalBookingID)
		assert.Equal(t, link.EndTime, resp.StartTime)
	})

	t.Run("own chain links are not conflicts", func(t *testing.T) {
		root := newRoot()
		bookingRepo := &fakeBookingRepo{
			bookings: map[int64]*domain.Booking{1: root},
			overlapping: []*domain.Booking{
				{ID: 2, SlotID: 10, Status: domain.StatusActive, OriginalBookingID: ptr.Ptr(int64(1))},
			},
		}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: 2})
		require.NoError(t, err)
	})

	t.Run("foreign booking on extended interval blocks", func(t *testing.T) {
		root := newRoot()
		bookingRepo := &fakeBookingRepo{
			bookings: map[int64]*domain.Booking{1: root},
			overlapping: []*domain.Booking{
				{ID: 50, SlotID: 10, UserID: 99, StartTime: end, EndTime: end.Add(time.Hour), Status: domain.StatusPending},
			},
		}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: 2})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("only the owner can extend", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: newRoot()}}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 99, ExtensionHours: 2})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("completed session cannot be extended", func(t *testing.T) {
		root := newRoot()
		root.Status = domain.StatusCompleted
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: root}}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: 2})
		assert.ErrorIs(t, err, ErrCannotExtend)
	})

	t.Run("booking not found", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{}}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 404, UserID: 7, ExtensionHours: 2})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("extension hours out of range", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: newRoot()}}
		uc := newUC(bookingRepo, &fakeEvents{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: 0})
		assert.ErrorIs(t, err, ErrInvalidDuration)

		_, err = uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 7, ExtensionHours: domain.MaxExtensionHours + 1})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}
