// Package availability чистая логика вычисления доступности: резолв рабочего окна дня,
// генерация сетки слотов и проверка конфликтов интервалов.
// Пакет не делает I/O; данные ему загружает вызывающий слой.
// Внутри все времена - целые минуты от полуночи, HH:MM только на границе.
package availability

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
)

// DayWindow эффективное состояние дня после применения недельного расписания и исключений
type DayWindow struct {
	IsOpen       bool
	StartMinutes int
	EndMinutes   int
	Blackouts    []Interval // закрытые под-интервалы внутри окна
	ClosedReason *string    // только для закрытых дней
}

// Window возвращает рабочее окно как интервал
func (w DayWindow) Window() Interval {
	return Interval{Start: w.StartMinutes, End: w.EndMinutes}
}

// ResolveDay вычисляет эффективное окно дня.
//
// Правила (в порядке приоритета):
//  1. Недельное расписание авторитетно: нерабочий день недели закрыт,
//     исключения не консультируются и открыть его не могут.
//  2. Исключение closed без окна закрывает весь день (причина - из исключения).
//  3. Исключение open_custom с обоими временами переопределяет окно дня.
//  4. Исключение closed с окном закрывает только этот под-интервал (blackout).
//
// При нескольких исключениях на дату (уникальность схемой не гарантируется)
// полное закрытие имеет приоритет над open_custom.
func ResolveDay(week domain.WeekSchedule, date time.Time, exceptions []*domain.AvailabilityException) DayWindow {
	day := week.Day(date.Weekday())
	if day.IsClosed() {
		reason := domain.DefaultClosedReason
		return DayWindow{IsOpen: false, ClosedReason: &reason}
	}

	for _, ex := range exceptions {
		if !ex.IsFullDayClosure() {
			continue
		}
		reason := domain.DefaultClosedReason
		if ex.Reason != nil && *ex.Reason != "" {
			reason = *ex.Reason
		}
		return DayWindow{IsOpen: false, ClosedReason: &reason}
	}

	start := day.Start.Minutes()
	end := day.End.Minutes()

	var blackouts []Interval
	for _, ex := range exceptions {
		if !ex.HasWindow() {
			continue
		}
		switch ex.Kind {
		case domain.ExceptionOpenCustom:
			start = ex.StartTime.Minutes()
			end = ex.EndTime.Minutes()
		case domain.ExceptionClosed:
			blackouts = append(blackouts, Interval{
				Start: ex.StartTime.Minutes(),
				End:   ex.EndTime.Minutes(),
			})
		}
	}

	return DayWindow{
		IsOpen:       true,
		StartMinutes: start,
		EndMinutes:   end,
		Blackouts:    blackouts,
	}
}
