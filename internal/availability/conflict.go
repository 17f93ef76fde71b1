package availability

import (
	"fmt"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
)

// ConflictCode машинный код отказа write-пути
type ConflictCode string

const (
	CodeSlotConflict ConflictCode = "SLOT_CONFLICT"
	CodePastTime     ConflictCode = "PAST_TIME"
	CodeTooFarFuture ConflictCode = "TOO_FAR_FUTURE"
)

// ConflictError отказ проверки конфликтов. Для SLOT_CONFLICT несет
// конфликтующую запись, чтобы вызывающий мог показать детали без второго запроса.
type ConflictError struct {
	Code        ConflictCode
	Conflicting *domain.Booking
}

func (e *ConflictError) Error() string {
	if e.Conflicting != nil {
		return fmt.Sprintf("availability: %s with booking id=%d", e.Code, e.Conflicting.ID)
	}
	return fmt.Sprintf("availability: %s", e.Code)
}

// CheckConflict проверяет предложенный интервал записи против существующих.
//
// proposedEnd уже включает длительность услуги и bufferAfter (ответственность
// вызывающего при создании записи); bufferBefore применяется здесь к началу.
// existing должны относиться к той же паре (бизнес, сотрудник) - фильтрует вызывающий.
//
// Порядок проверок: прошлое и горизонт отсекаются до скана записей, поэтому
// заявка в прошлом получает PAST_TIME независимо от существующих записей.
// Пересечение строгое: запись, заканчивающаяся ровно в начале заявки
// (или начинающаяся ровно в ее конце), конфликтом не считается.
func CheckConflict(
	proposedStart, proposedEnd time.Time,
	bufferBeforeMinutes int,
	now time.Time,
	existing []*domain.Booking,
) *ConflictError {
	if proposedStart.Before(now) {
		return &ConflictError{Code: CodePastTime}
	}

	horizon := now.AddDate(0, domain.MaxAdvanceBookingMonths, 0)
	if proposedStart.After(horizon) {
		return &ConflictError{Code: CodeTooFarFuture}
	}

	bufferedStart := proposedStart.Add(-time.Duration(bufferBeforeMinutes) * time.Minute)

	for _, b := range existing {
		if !b.OccupiesSlot() {
			continue
		}
		if b.StartTs.Before(proposedEnd) && b.EndTs.After(bufferedStart) {
			return &ConflictError{Code: CodeSlotConflict, Conflicting: b}
		}
	}

	return nil
}
