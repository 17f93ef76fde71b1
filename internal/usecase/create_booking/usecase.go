package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	directoryClient "github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/notifyservice"
)

// UseCase use case для создания записи на услугу
type UseCase struct {
	bookingRepo     BookingRepository
	exceptionRepo   ExceptionRepository
	directoryClient DirectoryServiceClient
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	exceptionRepo ExceptionRepository,
	directoryClient DirectoryServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		exceptionRepo:   exceptionRepo,
		directoryClient: directoryClient,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка занятости и вставка выполняются в сериализуемой транзакции
// с блокировкой записей дня (FOR UPDATE) - это закрывает гонку двойного бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, business=%d, staff=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес
	business, err := uc.directoryClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Проверяем, что сотрудник существует и активен
	if err := validateStaffExists(business, req.StaffID); err != nil {
		uc.logger.Warn("CreateBooking: staff id=%d not found in business id=%d", req.StaffID, req.BusinessID)
		return nil, err
	}

	// 5. Получаем услугу
	service, err := uc.directoryClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Проверяем, что сотрудник оказывает услугу
	if err := validateServiceByStaff(service, req.StaffID); err != nil {
		uc.logger.Warn("CreateBooking: service id=%d not provided by staff id=%d",
			req.ServiceID, req.StaffID)
		return nil, err
	}

	// 7. Получаем профиль клиента с graceful degradation:
	// недоступность DirectoryService не должна блокировать создание записи
	clientName := domain.GuestClientName
	profile, err := uc.directoryClient.GetClientProfileWithGracefulDegradation(ctx, req.UserID)
	if err != nil {
		uc.logger.Warn("CreateBooking: client profile unavailable for user id=%d, using fallback: %v", req.UserID, err)
	} else if profile != nil {
		clientName = profile.DisplayName
	}

	params := &serviceParams{
		DurationMinutes:     service.DurationMinutes,
		BufferBeforeMinutes: service.BufferBeforeMinutes,
		BufferAfterMinutes:  service.BufferAfterMinutes,
	}

	startTs := slotStart(req.Date, req.StartTime)
	// Запись занимает интервал услуги вместе с буфером после неё,
	// буфер до услуги учитывается на этапе проверки конфликтов
	endTs := startTs.Add(time.Duration(params.DurationMinutes+params.BufferAfterMinutes) * time.Minute)

	var result *domain.Booking

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Разрешаем рабочее окно дня: недельный график + исключения
		exceptions, err := uc.exceptionRepo.GetByBusinessAndDate(txCtx, req.BusinessID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get exceptions: %v", err)
			return fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
		}

		window := availability.ResolveDay(business.WeekSchedule, req.Date, exceptions)
		if !window.IsOpen {
			uc.logger.Warn("CreateBooking: business=%d is closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
			return ErrBusinessClosed
		}

		// 8.2. Слот должен помещаться в рабочее окно и не попадать в закрытые интервалы
		if err := validateSlotWithinWindow(window, req.StartTime.Minutes(), params.DurationMinutes); err != nil {
			uc.logger.Warn("CreateBooking: slot %s rejected by working window: %v", req.StartTime, err)
			return err
		}

		// 8.3. Получаем активные записи сотрудника на эту дату с блокировкой (FOR UPDATE)
		filter := domain.BusinessBookingsFilter{
			BusinessID: req.BusinessID,
			StaffID:    &req.StaffID,
			StartDate:  &req.Date,
			EndDate:    &req.Date,
		}

		bookings, err := uc.bookingRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 8.4. Проверяем конфликт с существующими записями
		if conflict := availability.CheckConflict(startTs, endTs, params.BufferBeforeMinutes, now, bookings); conflict != nil {
			uc.logger.Warn("CreateBooking: conflict %s for user=%d, staff=%d, time=%s",
				conflict.Code, req.UserID, req.StaffID, req.StartTime)

			details := &ConflictDetails{
				Code:        string(conflict.Code),
				Conflicting: conflict.Conflicting,
			}
			// Альтернативы предлагаем только при занятом слоте
			if conflict.Code == availability.CodeSlotConflict {
				occupied := availability.OccupiedIntervals(bookings, req.Date)
				details.Suggested = suggestAlternativeSlots(window, params, occupied, req.Date, now)
			}
			return details
		}

		// 8.5. Создаем запись с денормализацией данных услуги и клиента
		booking := &domain.Booking{
			BusinessID:   req.BusinessID,
			StaffID:      req.StaffID,
			ServiceID:    req.ServiceID,
			ClientID:     &req.UserID,
			StartTs:      startTs,
			EndTs:        endTs,
			Status:       domain.StatusConfirmed,
			ServiceTitle: service.Title,
			ServicePrice: service.Price,
			ClientName:   &clientName,
			Notes:        req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 9. Уведомление о создании не критично: ошибку только логируем
	if err := uc.notifyClient.SendBookingCreated(ctx, &notifyservice.Notification{
		BookingID:    result.ID,
		BusinessID:   result.BusinessID,
		ClientID:     result.ClientID,
		ServiceTitle: result.ServiceTitle,
		StartTs:      result.StartTs,
		EndTs:        result.EndTs,
	}); err != nil {
		uc.logger.Warn("CreateBooking: failed to send creation notification for booking id=%d: %v", result.ID, err)
	}

	// Конвертируем в response
	return &Response{
		ID:           result.ID,
		BusinessID:   result.BusinessID,
		StaffID:      result.StaffID,
		ServiceID:    result.ServiceID,
		ClientID:     result.ClientID,
		StartTs:      result.StartTs,
		EndTs:        result.EndTs,
		Status:       string(result.Status),
		ServiceTitle: result.ServiceTitle,
		ServicePrice: result.ServicePrice,
		ClientName:   result.ClientName,
		Notes:        result.Notes,
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
