package create_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{
			name:   "partial overlap",
			aStart: at(0), aEnd: at(2), // 09:00 - 11:00
			bStart: at(1), bEnd: at(3), // 10:00 - 12:00
			want: true,
		},
		{
			name:   "touching boundaries do not overlap",
			aStart: at(0), aEnd: at(2), // 09:00 - 11:00
			bStart: at(2), bEnd: at(4), // 11:00 - 13:00
			want: false,
		},
		{
			name:   "full containment",
			aStart: at(0), aEnd: at(4), // 09:00 - 13:00
			bStart: at(1), bEnd: at(2), // 10:00 - 11:00
			want: true,
		},
		{
			name:   "identical intervals",
			aStart: at(0), aEnd: at(2),
			bStart: at(0), bEnd: at(2),
			want: true,
		},
		{
			name:   "disjoint intervals",
			aStart: at(0), aEnd: at(1),
			bStart: at(3), bEnd: at(4),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Предикат симметричен
			assert.Equal(t, tt.want, overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestFirstConflict(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	t.Run("returns overlapping booking", func(t *testing.T) {
		existing := []*domain.Booking{
			{ID: 1, StartTime: at(0), EndTime: at(2), Status: domain.StatusActive},
		}

		conflict := firstConflict(at(1), at(3), existing)
		require.NotNil(t, conflict)
		assert.Equal(t, int64(1), conflict.ID)
	})

	t.Run("skips completed and cancelled bookings", func(t *testing.T) {
		existing := []*domain.Booking{
			{ID: 1, StartTime: at(0), EndTime: at(2), Status: domain.StatusCompleted},
			{ID: 2, StartTime: at(0), EndTime: at(2), Status: domain.StatusCancelled},
		}

		assert.Nil(t, firstConflict(at(1), at(3), existing))
	})

	t.Run("pending bookings hold the interval", func(t *testing.T) {
		existing := []*domain.Booking{
			{ID: 7, StartTime: at(0), EndTime: at(2), Status: domain.StatusPending},
		}

		conflict := firstConflict(at(1), at(3), existing)
		require.NotNil(t, conflict)
		assert.Equal(t, int64(7), conflict.ID)
	})

	t.Run("no conflict for touching window", func(t *testing.T) {
		existing := []*domain.Booking{
			{ID: 1, StartTime: at(0), EndTime: at(2), Status: domain.StatusActive},
		}

		assert.Nil(t, firstConflict(at(2), at(4), existing))
	})
}
