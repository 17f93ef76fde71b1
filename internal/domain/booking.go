package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a client appointment in the system.
// The interval [StartTs, EndTs) is immutable after creation; EndTs already
// includes the service duration plus the after-buffer applied at creation time.
type Booking struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ServiceID  int64
	ClientID   *int64 // nil для гостевых записей
	StartTs    time.Time
	EndTs      time.Time
	Status     BookingStatus

	// Denormalized data for history
	ServiceTitle string
	ServicePrice *float64 // nil, если цена услуги не задана
	ClientName   *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the booking still holds its time interval.
// Cancellation releases the interval without deleting the record.
func (b *Booking) OccupiesSlot() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// ClientDisplayName returns the denormalized client name or the guest placeholder
func (b *Booking) ClientDisplayName() string {
	if b.ClientName != nil && *b.ClientName != "" {
		return *b.ClientName
	}
	return GuestClientName
}

// ValidStatusTransition проверяет допустимость перехода статуса.
// Отмена освобождает интервал; терминальные статусы не меняются.
func ValidStatusTransition(from, to BookingStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusNoShow || to == StatusCancelled
	default:
		return false
	}
}

// IsKnownStatus проверяет, что статус из допустимого набора
func IsKnownStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// BusinessBookingsFilter фильтр для получения записей бизнеса
type BusinessBookingsFilter struct {
	BusinessID       int64          // Обязательный параметр
	StaffID          *int64         // Фильтр по сотруднику (опционально)
	StartDate        *time.Time     // Начало периода, дата без времени (опционально)
	EndDate          *time.Time     // Конец периода включительно (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные записи
}
