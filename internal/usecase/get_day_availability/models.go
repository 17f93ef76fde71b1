package get_day_availability

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// Request модель запроса расписания слотов на день
type Request struct {
	BusinessID int64     // ID бизнеса
	StaffID    int64     // ID сотрудника
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
}

// Response модель ответа с сеткой слотов на день
type Response struct {
	Date         time.Time     // Дата, на которую запрашивались слоты
	BusinessID   int64         // ID бизнеса
	StaffID      int64         // ID сотрудника
	ServiceID    int64         // ID услуги
	IsWorkingDay bool          // Работает ли бизнес в этот день
	WorkingHours *WorkingHours // Рабочее окно дня (nil, если день нерабочий)
	ClosedReason *string       // Причина закрытия (только для нерабочего дня)
	Slots        []domain.Slot // Сетка слотов
}

// WorkingHours рабочее окно дня
type WorkingHours struct {
	Start types.TimeString // Начало рабочего дня, например "09:00"
	End   types.TimeString // Конец рабочего дня, например "18:00"
}
