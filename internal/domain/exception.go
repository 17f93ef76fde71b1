package domain

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// ExceptionKind вид исключения из недельного расписания
type ExceptionKind string

const (
	// ExceptionClosed закрытие: без окна - весь день, с окном - только под-интервал (blackout)
	ExceptionClosed ExceptionKind = "closed"

	// ExceptionOpenCustom переопределение рабочего окна дня на [StartTime, EndTime)
	ExceptionOpenCustom ExceptionKind = "open_custom"
)

// AvailabilityException переопределение расписания на конкретную календарную дату.
// Создается и удаляется владельцем/менеджером бизнеса; поток бронирования
// исключения никогда не изменяет.
type AvailabilityException struct {
	ID         int64
	BusinessID int64
	Date       time.Time // дата без времени
	Kind       ExceptionKind
	StartTime  *types.TimeString
	EndTime    *types.TimeString
	Reason     *string
	CreatedAt  time.Time
}

// HasWindow returns true if both StartTime and EndTime are present
func (e *AvailabilityException) HasWindow() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// IsFullDayClosure returns true for a closed exception that covers the whole day
func (e *AvailabilityException) IsFullDayClosure() bool {
	return e.Kind == ExceptionClosed && !e.HasWindow()
}
