package notifyservice

import "time"

// Каналы уведомлений
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Типы событий
const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

// Notification запрос на отправку уведомления.
// Шаблонизация текста - на стороне NotifyService, мы передаем только факты.
type Notification struct {
	Event        string    `json:"event"`
	BookingID    int64     `json:"booking_id"`
	BusinessID   int64     `json:"business_id"`
	ClientID     *int64    `json:"client_id,omitempty"`
	ServiceTitle string    `json:"service_title"`
	StartTs      time.Time `json:"start_ts"`
	EndTs        time.Time `json:"end_ts"`
}
