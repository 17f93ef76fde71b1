package availability

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// Overlaps строгая проверка пересечения полуоткрытых интервалов.
// Интервалы, касающиеся границами (i.End == o.Start), НЕ пересекаются.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Contains проверяет, что o целиком лежит внутри i
func (i Interval) Contains(o Interval) bool {
	return o.Start >= i.Start && o.End <= i.End
}

// EnumerateSlots генерирует сетку кандидатов внутри окна дня.
//
// Кандидаты идут от начала окна с шагом stepMinutes; слот [t, t+slotDurationMinutes)
// эмитится, пока его конец не выходит за окно. Для каждого кандидата:
//   - пересекается с занятым интервалом -> isAvailable=false, reason "booked";
//   - иначе целиком внутри blackout-окна -> isAvailable=false, reason "exception";
//   - иначе доступен.
//
// Два продакшен-вызова этой функции намеренно различаются параметрами:
// витрина слотов - step == slotDuration == длительность услуги;
// write-путь (подбор альтернатив) - step 30 минут, slotDuration = длительность + буферы.
//
// Функция чистая и детерминированная: одинаковые входы дают одинаковый результат.
// Закрытый день или нулевое/отрицательное окно дают пустую сетку.
func EnumerateSlots(window DayWindow, stepMinutes, slotDurationMinutes int, occupied []Interval) []domain.Slot {
	if !window.IsOpen || stepMinutes <= 0 || slotDurationMinutes <= 0 {
		return []domain.Slot{}
	}

	slots := make([]domain.Slot, 0)

	for t := window.StartMinutes; t+slotDurationMinutes <= window.EndMinutes; t += stepMinutes {
		candidate := Interval{Start: t, End: t + slotDurationMinutes}

		slot := domain.Slot{
			StartTime:   types.FromMinutes(candidate.Start),
			EndTime:     types.FromMinutes(candidate.End),
			IsAvailable: true,
		}

		if overlapsAny(candidate, occupied) {
			reason := domain.SlotReasonBooked
			slot.IsAvailable = false
			slot.Reason = &reason
		} else if containedInAny(candidate, window.Blackouts) {
			reason := domain.SlotReasonException
			slot.IsAvailable = false
			slot.Reason = &reason
		}

		slots = append(slots, slot)
	}

	return slots
}

// WidenOccupied расширяет сохраненные интервалы записей под проверку "голого" слота.
// Инвариант: слот [t, t+d) пересекается с расширенным интервалом
// [start-bufferAfter, end+bufferBefore) тогда и только тогда, когда буферизованная
// заявка [t-bufferBefore, t+d+bufferAfter) пересекается с сохраненным [start, end).
// Это держит витрину слотов и write-путь проверки конфликтов в точном согласии.
func WidenOccupied(stored []Interval, bufferBeforeMinutes, bufferAfterMinutes int) []Interval {
	widened := make([]Interval, len(stored))
	for i, iv := range stored {
		widened[i] = Interval{
			Start: iv.Start - bufferAfterMinutes,
			End:   iv.End + bufferBeforeMinutes,
		}
	}
	return widened
}

// OccupiedIntervals проецирует активные записи на минуты указанной даты.
// Отмененные записи интервал не держат и пропускаются.
func OccupiedIntervals(bookings []*domain.Booking, date time.Time) []Interval {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	intervals := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.OccupiesSlot() {
			continue
		}
		intervals = append(intervals, Interval{
			Start: int(b.StartTs.Sub(midnight).Minutes()),
			End:   int(b.EndTs.Sub(midnight).Minutes()),
		})
	}
	return intervals
}

func overlapsAny(candidate Interval, intervals []Interval) bool {
	for _, iv := range intervals {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}

func containedInAny(candidate Interval, intervals []Interval) bool {
	for _, iv := range intervals {
		if iv.Contains(candidate) {
			return true
		}
	}
	return false
}
