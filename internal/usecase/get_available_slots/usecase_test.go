package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type fakeBookingRepo struct {
	overlapping map[int64][]*domain.Booking
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, slotID int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.overlapping[slotID], nil
}

type fakeSlotRepo struct {
	slots []*domain.Slot
}

func (f *fakeSlotRepo) GetByLocation(_ context.Context, _ int64) ([]*domain.Slot, error) {
	return f.slots, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	slots := []*domain.Slot{
		{ID: 1, LocationID: 3, Identifier: "A-1", HourlyPrice: 100, Status: domain.SlotAvailable},
		{ID: 2, LocationID: 3, Identifier: "A-2", HourlyPrice: 100, Status: domain.SlotOccupied},
		{ID: 3, LocationID: 3, Identifier: "A-3", Status: domain.SlotMaintenance},
	}

	newUC := func(bookingRepo *fakeBookingRepo) *UseCase {
		return &UseCase{
			bookingRepo:  bookingRepo,
			slotRepo:     &fakeSlotRepo{slots: slots},
			timeProvider: &fixedTime{now: now},
			logger:       nopLogger{},
		}
	}

	t.Run("availability follows booking intervals", func(t *testing.T) {
		// Место 1 занято бронью на проверяемое окно, место 2 свободно,
		// несмотря на статус occupied
		bookingRepo := &fakeBookingRepo{
			overlapping: map[int64][]*domain.Booking{
				1: {{ID: 9, StartTime: now, EndTime: now.Add(time.Hour), Status: domain.StatusActive}},
			},
		}
		uc := newUC(bookingRepo)

		resp, err := uc.Execute(context.Background(), &Request{LocationID: 3, DurationHours: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.LocationID)
		assert.Equal(t, now, resp.StartTime)
		assert.Equal(t, now.Add(2*time.Hour), resp.EndTime)
		require.Len(t, resp.Slots, 3)

		assert.False(t, resp.Slots[0].Available)
		assert.True(t, resp.Slots[1].Available)
		// Место на обслуживании всегда недоступно
		assert.False(t, resp.Slots[2].Available)
	})

	t.Run("cancelled bookings do not block", func(t *testing.T) {
		bookingRepo := &fakeBookingRepo{
			overlapping: map[int64][]*domain.Booking{
				1: {{ID: 9, StartTime: now, EndTime: now.Add(time.Hour), Status: domain.StatusCancelled}},
			},
		}
		uc := newUC(bookingRepo)

		resp, err := uc.Execute(context.Background(), &Request{LocationID: 3, DurationHours: 2})

		require.NoError(t, err)
		assert.True(t, resp.Slots[0].Available)
	})

	t.Run("maintenance slot reports the default rate", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{})

		resp, err := uc.Execute(context.Background(), &Request{LocationID: 3, DurationHours: 1})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultHourlyRate, resp.Slots[2].HourlyPrice)
	})

	t.Run("future window starts at the requested time", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{})

		start := now.Add(3 * time.Hour)
		resp, err := uc.Execute(context.Background(), &Request{LocationID: 3, StartTime: &start, DurationHours: 2})

		require.NoError(t, err)
		assert.Equal(t, start, resp.StartTime)
		assert.Equal(t, start.Add(2*time.Hour), resp.EndTime)
	})

	t.Run("start time in the past", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{})

		past := now.Add(-time.Hour)
		_, err := uc.Execute(context.Background(), &Request{LocationID: 3, StartTime: &past, DurationHours: 2})
		assert.ErrorIs(t, err, ErrInvalidStartTime)
	})

	t.Run("invalid duration", func(t *testing.T) {
		uc := newUC(&fakeBookingRepo{})

		_, err := uc.Execute(context.Background(), &Request{LocationID: 3, DurationHours: 0})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}
