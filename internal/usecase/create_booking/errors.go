package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или неактивен
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotProvidedByStaff возвращается, когда сотрудник не оказывает услугу
	ErrServiceNotProvidedByStaff = errors.New("create_booking: service is not provided by this staff member")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно дня
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrSlotBlackedOut возвращается, когда слот попадает в закрытый интервал дня
	ErrSlotBlackedOut = errors.New("create_booking: slot falls into a blocked interval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
