package domain

import "github.com/kmalyshev/ABS-BookingService/pkg/types"

// Причины недоступности слота
const (
	SlotReasonBooked    = "booked"
	SlotReasonException = "exception"
)

// Slot represents one candidate time slot of a day grid.
// Derived on every availability query, never persisted.
type Slot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	Reason      *string // "booked" | "exception", только для недоступных слотов
}
