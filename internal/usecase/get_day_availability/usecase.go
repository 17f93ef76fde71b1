package get_day_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	directoryClient "github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// UseCase use case для получения сетки слотов на день
type UseCase struct {
	bookingRepo     BookingRepository
	exceptionRepo   ExceptionRepository
	directoryClient DirectoryServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	exceptionRepo ExceptionRepository,
	directoryClient DirectoryServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		exceptionRepo:   exceptionRepo,
		directoryClient: directoryClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayAvailability: business=%d, staff=%d, service=%d, date=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetDayAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем бизнес
	business, err := uc.directoryClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetDayAvailability: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 5. Проверяем, что сотрудник существует и активен
	if err := validateStaffExists(business, req.StaffID); err != nil {
		uc.logger.Warn("GetDayAvailability: staff id=%d not found in business id=%d", req.StaffID, req.BusinessID)
		return nil, err
	}

	// 6. Получаем услугу
	service, err := uc.directoryClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("GetDayAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 7. Проверяем, что сотрудник оказывает услугу
	if err := validateServiceByStaff(service, req.StaffID); err != nil {
		uc.logger.Warn("GetDayAvailability: service id=%d not provided by staff id=%d",
			req.ServiceID, req.StaffID)
		return nil, err
	}

	// 8. Разрешаем рабочее окно дня: недельный график + исключения
	exceptions, err := uc.exceptionRepo.GetByBusinessAndDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	window := availability.ResolveDay(business.WeekSchedule, req.Date, exceptions)
	if !window.IsOpen {
		reason := window.ClosedReason
		if reason == nil {
			r := domain.DefaultClosedReason
			reason = &r
		}
		uc.logger.Info("GetDayAvailability: business=%d is closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:         req.Date,
			BusinessID:   req.BusinessID,
			StaffID:      req.StaffID,
			ServiceID:    req.ServiceID,
			IsWorkingDay: false,
			ClosedReason: reason,
			Slots:        []domain.Slot{},
		}, nil
	}

	// 9. Получаем активные записи сотрудника на эту дату
	filter := domain.BusinessBookingsFilter{
		BusinessID: req.BusinessID,
		StaffID:    &req.StaffID,
		StartDate:  &req.Date,
		EndDate:    &req.Date,
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 10. Проекция записей на минуты дня с расширением на буферы услуги:
	// слот свободен, только если услуга помещается вместе с её буферами
	occupied := availability.WidenOccupied(
		availability.OccupiedIntervals(bookings, req.Date),
		service.BufferBeforeMinutes,
		service.BufferAfterMinutes,
	)

	// 11. Генерируем сетку слотов с шагом, равным длительности услуги
	slots := availability.EnumerateSlots(window, service.DurationMinutes, service.DurationMinutes, occupied)

	// 12. Для сегодняшнего дня скрываем уже прошедшие слоты
	if isSameDay(req.Date, now) {
		nowMinutes := now.Hour()*60 + now.Minute()
		filtered := make([]domain.Slot, 0, len(slots))
		for _, slot := range slots {
			if slot.StartTime.Minutes() >= nowMinutes {
				filtered = append(filtered, slot)
			}
		}
		slots = filtered
	}

	uc.logger.Info("GetDayAvailability: generated %d slots for business=%d, staff=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:         req.Date,
		BusinessID:   req.BusinessID,
		StaffID:      req.StaffID,
		ServiceID:    req.ServiceID,
		IsWorkingDay: true,
		WorkingHours: &WorkingHours{
			Start: types.FromMinutes(window.StartMinutes),
			End:   types.FromMinutes(window.EndMinutes),
		},
		Slots: slots,
	}, nil
}

// isSameDay проверяет, что обе даты приходятся на один календарный день
func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
