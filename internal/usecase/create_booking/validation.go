package create_booking

import (
	"fmt"

	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}

	return nil
}

// validateStaffExists проверяет, что сотрудник существует в бизнесе и активен
func validateStaffExists(business *directoryservice.Business, staffID int64) error {
	for _, staff := range business.Staff {
		if staff.ID == staffID {
			if !staff.IsActive {
				return ErrStaffNotFound
			}
			return nil
		}
	}
	return ErrStaffNotFound
}

// validateServiceByStaff проверяет, что сотрудник оказывает указанную услугу
func validateServiceByStaff(service *directoryservice.Service, staffID int64) error {
	for _, id := range service.StaffIDs {
		if id == staffID {
			return nil
		}
	}
	return ErrServiceNotProvidedByStaff
}

// validateSlotWithinWindow проверяет, что услуга целиком помещается в рабочее окно дня
// и не попадает в закрытый интервал
func validateSlotWithinWindow(window availability.DayWindow, startMinutes, durationMinutes int) error {
	if startMinutes < window.StartMinutes || startMinutes+durationMinutes > window.EndMinutes {
		return ErrOutsideWorkingHours
	}

	candidate := availability.Interval{Start: startMinutes, End: startMinutes + durationMinutes}
	for _, blackout := range window.Blackouts {
		if blackout.Contains(candidate) {
			return ErrSlotBlackedOut
		}
	}

	return nil
}
