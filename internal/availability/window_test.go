package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/ptr"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

func workingDay(start, end string) domain.DaySchedule {
	return domain.DaySchedule{
		IsWorking: true,
		Start:     ptr.Ptr(types.TimeString(start)),
		End:       ptr.Ptr(types.TimeString(end)),
	}
}

// Понедельник 2026-09-07
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func mondayWeek(day domain.DaySchedule) domain.WeekSchedule {
	return domain.WeekSchedule{Monday: day}
}

func TestResolveDay_WeeklyClosedVariants(t *testing.T) {
	tests := []struct {
		name string
		day  domain.DaySchedule
	}{
		{"not working", domain.DaySchedule{IsWorking: false}},
		{"missing record", domain.DaySchedule{}},
		{"working without start", domain.DaySchedule{IsWorking: true, End: ptr.Ptr(types.TimeString("18:00"))}},
		{"working without end", domain.DaySchedule{IsWorking: true, Start: ptr.Ptr(types.TimeString("09:00"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ResolveDay(mondayWeek(tt.day), monday, nil)
			assert.False(t, w.IsOpen)
			require.NotNil(t, w.ClosedReason)
			assert.Equal(t, domain.DefaultClosedReason, *w.ClosedReason)
		})
	}
}

func TestResolveDay_ExceptionCannotOpenClosedWeekday(t *testing.T) {
	ex := &domain.AvailabilityException{
		Kind:      domain.ExceptionOpenCustom,
		StartTime: ptr.Ptr(types.TimeString("10:00")),
		EndTime:   ptr.Ptr(types.TimeString("14:00")),
	}

	w := ResolveDay(mondayWeek(domain.DaySchedule{IsWorking: false}), monday, []*domain.AvailabilityException{ex})
	assert.False(t, w.IsOpen)
}

func TestResolveDay_ClosedException(t *testing.T) {
	week := mondayWeek(workingDay("09:00", "18:00"))

	t.Run("with reason", func(t *testing.T) {
		ex := &domain.AvailabilityException{Kind: domain.ExceptionClosed, Reason: ptr.Ptr("inventory day")}
		w := ResolveDay(week, monday, []*domain.AvailabilityException{ex})
		assert.False(t, w.IsOpen)
		require.NotNil(t, w.ClosedReason)
		assert.Equal(t, "inventory day", *w.ClosedReason)
	})

	t.Run("without reason", func(t *testing.T) {
		ex := &domain.AvailabilityException{Kind: domain.ExceptionClosed}
		w := ResolveDay(week, monday, []*domain.AvailabilityException{ex})
		assert.False(t, w.IsOpen)
		require.NotNil(t, w.ClosedReason)
		assert.Equal(t, domain.DefaultClosedReason, *w.ClosedReason)
	})
}

func TestResolveDay_OpenCustomOverridesWindow(t *testing.T) {
	week := mondayWeek(workingDay("09:00", "18:00"))
	ex := &domain.AvailabilityException{
		Kind:      domain.ExceptionOpenCustom,
		StartTime: ptr.Ptr(types.TimeString("11:00")),
		EndTime:   ptr.Ptr(types.TimeString("15:00")),
	}

	w := ResolveDay(week, monday, []*domain.AvailabilityException{ex})
	require.True(t, w.IsOpen)
	assert.Equal(t, 11*60, w.StartMinutes)
	assert.Equal(t, 15*60, w.EndMinutes)
}

func TestResolveDay_ClosedTakesPrecedenceOverOpenCustom(t *testing.T) {
	week := mondayWeek(workingDay("09:00", "18:00"))
	exceptions := []*domain.AvailabilityException{
		{
			Kind:      domain.ExceptionOpenCustom,
			StartTime: ptr.Ptr(types.TimeString("11:00")),
			EndTime:   ptr.Ptr(types.TimeString("15:00")),
		},
		{Kind: domain.ExceptionClosed, Reason: ptr.Ptr("holiday")},
	}

	w := ResolveDay(week, monday, exceptions)
	assert.False(t, w.IsOpen)
	require.NotNil(t, w.ClosedReason)
	assert.Equal(t, "holiday", *w.ClosedReason)
}

func TestResolveDay_PartialClosureBecomesBlackout(t *testing.T) {
	week := mondayWeek(workingDay("09:00", "18:00"))
	ex := &domain.AvailabilityException{
		Kind:      domain.ExceptionClosed,
		StartTime: ptr.Ptr(types.TimeString("12:00")),
		EndTime:   ptr.Ptr(types.TimeString("13:00")),
		Reason:    ptr.Ptr("lunch break"),
	}

	w := ResolveDay(week, monday, []*domain.AvailabilityException{ex})
	require.True(t, w.IsOpen)
	assert.Equal(t, 9*60, w.StartMinutes)
	assert.Equal(t, 18*60, w.EndMinutes)
	require.Len(t, w.Blackouts, 1)
	assert.Equal(t, Interval{Start: 12 * 60, End: 13 * 60}, w.Blackouts[0])
}

func TestResolveDay_SundayFirstWeekdayMapping(t *testing.T) {
	week := domain.WeekSchedule{
		Sunday:   workingDay("10:00", "14:00"),
		Saturday: workingDay("08:00", "12:00"),
	}

	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	w := ResolveDay(week, sunday, nil)
	require.True(t, w.IsOpen)
	assert.Equal(t, 10*60, w.StartMinutes)

	w = ResolveDay(week, saturday, nil)
	require.True(t, w.IsOpen)
	assert.Equal(t, 8*60, w.StartMinutes)

	// Понедельник не задан - закрыт
	w = ResolveDay(week, monday, nil)
	assert.False(t, w.IsOpen)
}
