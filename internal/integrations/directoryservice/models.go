package directoryservice

import "github.com/kmalyshev/ABS-BookingService/internal/domain"

// Business модель бизнеса из DirectoryService
type Business struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	OwnerID      int64               `json:"owner_id"`
	ManagerIDs   []int64             `json:"manager_ids"`
	WeekSchedule domain.WeekSchedule `json:"week_schedule"`
	Staff        []Staff             `json:"staff"`
}

// Staff сотрудник бизнеса
type Staff struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Service модель услуги из DirectoryService
type Service struct {
	ID                  int64    `json:"id"`
	BusinessID          int64    `json:"business_id"`
	Title               string   `json:"title"`
	DurationMinutes     int      `json:"duration_minutes"`
	BufferBeforeMinutes int      `json:"buffer_before_minutes"`
	BufferAfterMinutes  int      `json:"buffer_after_minutes"`
	Price               *float64 `json:"price,omitempty"`
	StaffIDs            []int64  `json:"staff_ids"` // сотрудники, оказывающие услугу
}

// ClientProfile профиль клиента
type ClientProfile struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone,omitempty"`
}

// ErrorResponse модель ошибки от DirectoryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
