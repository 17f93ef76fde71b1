package get_day_availability

import (
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	getDayAvailability "github.com/kmalyshev/ABS-BookingService/internal/usecase/get_day_availability"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime   string  `json:"startTime"` // "10:00"
	EndTime     string  `json:"endTime"`   // "11:00"
	IsAvailable bool    `json:"isAvailable"`
	Reason      *string `json:"reason,omitempty"` // "booked" | "exception"
}

// WorkingHoursResponse HTTP модель рабочего окна
type WorkingHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailabilityResponse HTTP response model
type DayAvailabilityResponse struct {
	Date         string                `json:"date"`
	BusinessID   int64                 `json:"businessId"`
	StaffID      int64                 `json:"staffId"`
	ServiceID    int64                 `json:"serviceId"`
	IsWorkingDay bool                  `json:"isWorkingDay"`
	WorkingHours *WorkingHoursResponse `json:"workingHours,omitempty"`
	ClosedReason *string               `json:"closedReason,omitempty"`
	Slots        []SlotResponse        `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDayAvailability.Response) *DayAvailabilityResponse {
	out := &DayAvailabilityResponse{
		Date:         resp.Date.Format(domain.DateFormat),
		BusinessID:   resp.BusinessID,
		StaffID:      resp.StaffID,
		ServiceID:    resp.ServiceID,
		IsWorkingDay: resp.IsWorkingDay,
		ClosedReason: resp.ClosedReason,
		Slots:        make([]SlotResponse, len(resp.Slots)),
	}

	if resp.WorkingHours != nil {
		out.WorkingHours = &WorkingHoursResponse{
			Start: resp.WorkingHours.Start.String(),
			End:   resp.WorkingHours.End.String(),
		}
	}

	for i, slot := range resp.Slots {
		out.Slots[i] = SlotResponse{
			StartTime:   slot.StartTime.String(),
			EndTime:     slot.EndTime.String(),
			IsAvailable: slot.IsAvailable,
			Reason:      slot.Reason,
		}
	}

	return out
}
