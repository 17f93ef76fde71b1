package get_day_availability

import (
	"fmt"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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

	return nil
}

// validateDate проверяет, что дата в пределах окна бронирования
func validateDate(requestDate time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, requestDate.Location())

	// Дата в прошлом
	if requestDateOnly.Before(today) {
		return ErrInvalidDate
	}

	// Горизонт бронирования
	maxDate := today.AddDate(0, domain.MaxAdvanceBookingMonths, 0)
	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only view availability %d months in advance", ErrDateTooFarInFuture, domain.MaxAdvanceBookingMonths)
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
