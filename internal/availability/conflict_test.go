package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
)

var conflictNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func booking(id int64, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	return &domain.Booking{ID: id, Status: status, StartTs: start, EndTs: end}
}

func TestCheckConflict_Ok(t *testing.T) {
	start := conflictNow.AddDate(0, 0, 7)
	end := start.Add(70 * time.Minute)

	existing := []*domain.Booking{
		booking(1, domain.StatusConfirmed, start.Add(-2*time.Hour), start.Add(-1*time.Hour)),
	}

	assert.Nil(t, CheckConflict(start, end, 0, conflictNow, existing))
}

func TestCheckConflict_PastTimeRegardlessOfBookings(t *testing.T) {
	// 2020-01-01T10:00:00Z в прошлом; результат не зависит от существующих записей
	start := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	overlapping := []*domain.Booking{
		booking(1, domain.StatusConfirmed, start, end),
	}

	conflict := CheckConflict(start, end, 0, conflictNow, overlapping)
	require.NotNil(t, conflict)
	assert.Equal(t, CodePastTime, conflict.Code)
	assert.Nil(t, conflict.Conflicting)
}

func TestCheckConflict_TooFarFuture(t *testing.T) {
	start := conflictNow.AddDate(0, domain.MaxAdvanceBookingMonths, 1)
	end := start.Add(time.Hour)

	conflict := CheckConflict(start, end, 0, conflictNow, nil)
	require.NotNil(t, conflict)
	assert.Equal(t, CodeTooFarFuture, conflict.Code)
}

func TestCheckConflict_HorizonBoundaryIsBookable(t *testing.T) {
	start := conflictNow.AddDate(0, domain.MaxAdvanceBookingMonths, 0)
	end := start.Add(time.Hour)

	assert.Nil(t, CheckConflict(start, end, 0, conflictNow, nil))
}

func TestCheckConflict_OverlapShapes(t *testing.T) {
	start := conflictNow.AddDate(0, 0, 7) // 12:00
	end := start.Add(time.Hour)           // 13:00

	tests := []struct {
		name     string
		exStart  time.Time
		exEnd    time.Time
		conflict bool
	}{
		{"starts inside", start.Add(30 * time.Minute), end.Add(time.Hour), true},
		{"ends inside", start.Add(-time.Hour), start.Add(30 * time.Minute), true},
		{"fully contains", start.Add(-time.Hour), end.Add(time.Hour), true},
		{"fully contained", start.Add(10 * time.Minute), end.Add(-10 * time.Minute), true},
		{"ends exactly at start", start.Add(-time.Hour), start, false},
		{"starts exactly at end", end, end.Add(time.Hour), false},
		{"disjoint before", start.Add(-3 * time.Hour), start.Add(-2 * time.Hour), false},
		{"disjoint after", end.Add(2 * time.Hour), end.Add(3 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []*domain.Booking{booking(42, domain.StatusConfirmed, tt.exStart, tt.exEnd)}
			conflict := CheckConflict(start, end, 0, conflictNow, existing)

			if tt.conflict {
				require.NotNil(t, conflict)
				assert.Equal(t, CodeSlotConflict, conflict.Code)
				assert.Equal(t, int64(42), conflict.Conflicting.ID)
			} else {
				assert.Nil(t, conflict)
			}
		})
	}
}

func TestCheckConflict_BufferBeforeExtendsProposal(t *testing.T) {
	start := conflictNow.AddDate(0, 0, 7)
	end := start.Add(time.Hour)

	// Запись заканчивается ровно в начале заявки: без буфера конфликта нет,
	// буфер в 15 минут наезжает на нее
	existing := []*domain.Booking{
		booking(7, domain.StatusConfirmed, start.Add(-time.Hour), start),
	}

	assert.Nil(t, CheckConflict(start, end, 0, conflictNow, existing))

	conflict := CheckConflict(start, end, 15, conflictNow, existing)
	require.NotNil(t, conflict)
	assert.Equal(t, CodeSlotConflict, conflict.Code)
}

func TestCheckConflict_CancelledBookingReleasesInterval(t *testing.T) {
	start := conflictNow.AddDate(0, 0, 7)
	end := start.Add(time.Hour)

	existing := []*domain.Booking{
		booking(1, domain.StatusCancelled, start, end),
	}

	assert.Nil(t, CheckConflict(start, end, 0, conflictNow, existing))
}

func TestCheckConflict_NonCancelledStatusesOccupy(t *testing.T) {
	start := conflictNow.AddDate(0, 0, 7)
	end := start.Add(time.Hour)

	for _, status := range []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusNoShow,
	} {
		existing := []*domain.Booking{booking(1, status, start, end)}
		conflict := CheckConflict(start, end, 0, conflictNow, existing)
		require.NotNil(t, conflict, "status %s must occupy the interval", status)
	}
}
