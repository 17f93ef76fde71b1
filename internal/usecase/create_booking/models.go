package create_booking

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     int64            // ID клиента (из заголовка авторизации)
	BusinessID int64            // ID бизнеса
	StaffID    int64            // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64     // ID созданной записи
	BusinessID int64     // ID бизнеса
	StaffID    int64     // ID сотрудника
	ServiceID  int64     // ID услуги
	ClientID   *int64    // ID клиента
	StartTs    time.Time // Начало записи
	EndTs      time.Time // Конец записи (включая буфер после услуги)
	Status     string    // Статус записи

	// Денормализованные данные
	ServiceTitle string   // Название услуги
	ServicePrice *float64 // Цена услуги
	ClientName   *string  // Имя клиента на момент записи
	Notes        *string  // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// ConflictDetails детали конфликта для ответа 409
type ConflictDetails struct {
	Code        string          // SLOT_CONFLICT | PAST_TIME | TOO_FAR_FUTURE
	Conflicting *domain.Booking // Запись, с которой произошёл конфликт (только для SLOT_CONFLICT)
	Suggested   []domain.Slot   // Ближайшие свободные альтернативы (только для SLOT_CONFLICT)
}

// Error реализует интерфейс error
func (c *ConflictDetails) Error() string {
	return "create_booking: conflict " + c.Code
}
