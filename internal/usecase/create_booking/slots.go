package create_booking

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// suggestAlternativeSlots подбирает ближайшие свободные альтернативы при конфликте.
// Сетка кандидатов строится с шагом BookingStepMinutes, занятость проверяется
// для полного интервала услуги вместе с буферами, чтобы предложенный слот
// гарантированно проходил проверку конфликтов при повторной попытке.
//
// Инвариант: кандидат [t, t+duration+bb+ba) против сдвинутого занятого
// [s+bb, e+bb) - это в точности предикат CheckConflict для буферизованной
// заявки [t-bb, t+duration+ba) против сохраненного [s, e).
func suggestAlternativeSlots(
	window availability.DayWindow,
	service *serviceParams,
	occupied []availability.Interval,
	date time.Time,
	now time.Time,
) []domain.Slot {
	combined := service.DurationMinutes + service.BufferBeforeMinutes + service.BufferAfterMinutes

	shifted := make([]availability.Interval, len(occupied))
	for i, iv := range occupied {
		shifted[i] = availability.Interval{
			Start: iv.Start + service.BufferBeforeMinutes,
			End:   iv.End + service.BufferBeforeMinutes,
		}
	}

	candidates := availability.EnumerateSlots(window, domain.BookingStepMinutes, combined, shifted)

	sameDay := date.Year() == now.Year() && date.Month() == now.Month() && date.Day() == now.Day()
	nowMinutes := now.Hour()*60 + now.Minute()

	suggested := make([]domain.Slot, 0, domain.MaxSuggestedSlots)
	for _, candidate := range candidates {
		if !candidate.IsAvailable {
			continue
		}
		if sameDay && candidate.StartTime.Minutes() < nowMinutes {
			continue
		}

		// Клиенту показываем длительность самой услуги, буферы - внутренняя механика
		endTime, err := candidate.StartTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			continue
		}

		suggested = append(suggested, domain.Slot{
			StartTime:   candidate.StartTime,
			EndTime:     endTime,
			IsAvailable: true,
		})
		if len(suggested) == domain.MaxSuggestedSlots {
			break
		}
	}

	return suggested
}

// serviceParams параметры услуги, влияющие на расчёт слотов
type serviceParams struct {
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
}

// slotStart собирает timestamp начала слота из даты и времени "HH:MM"
func slotStart(date time.Time, start types.TimeString) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(time.Duration(start.Minutes()) * time.Minute)
}
