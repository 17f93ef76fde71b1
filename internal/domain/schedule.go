package domain

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// DaySchedule рабочие часы одного дня недели.
// День считается нерабочим, если IsWorking=false ИЛИ не задано start/end -
// эти случаи эквивалентны.
type DaySchedule struct {
	IsWorking bool              `json:"isWorking"`
	Start     *types.TimeString `json:"start,omitempty"`
	End       *types.TimeString `json:"end,omitempty"`
}

// IsClosed returns true if the day is not bookable at all
func (d DaySchedule) IsClosed() bool {
	return !d.IsWorking || d.Start == nil || d.End == nil
}

// WeekSchedule недельное расписание бизнеса
type WeekSchedule struct {
	Sunday    DaySchedule `json:"sunday"`
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
}

// Day возвращает расписание на день недели.
// Единственная точка маппинга weekday -> день: time.Weekday нумеруется
// с воскресенья (0), индексация таблицы совпадает с ним.
func (w WeekSchedule) Day(weekday time.Weekday) DaySchedule {
	days := [7]DaySchedule{
		w.Sunday,
		w.Monday,
		w.Tuesday,
		w.Wednesday,
		w.Thursday,
		w.Friday,
		w.Saturday,
	}
	return days[int(weekday)%7]
}
