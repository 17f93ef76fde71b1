package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Booking policy constants
const (
	// BookingStepMinutes шаг сетки кандидатов на write-пути (подбор альтернатив);
	// витрина слотов шагает длительностью услуги, эти сетки намеренно разные
	BookingStepMinutes = 30

	// MaxAdvanceBookingMonths горизонт бронирования
	MaxAdvanceBookingMonths = 3

	// MaxSuggestedSlots сколько альтернативных слотов предлагать при конфликте
	MaxSuggestedSlots = 3
)

// Validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxExceptionReasonLength    = 300
)

// DefaultClosedReason причина закрытия дня, когда исключение не задало свою
const DefaultClosedReason = "non-working day"

// GuestClientName отображаемое имя клиента, когда профиль недоступен
const GuestClientName = "guest"
