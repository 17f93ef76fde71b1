package exceptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	exceptionRepo "github.com/kmalyshev/ABS-BookingService/internal/infra/storage/exception"
	directoryClient "github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions/models"
)

// Service сервис для управления исключениями графика (праздники, особые дни)
type Service struct {
	exceptionRepo   ExceptionRepository
	directoryClient DirectoryServiceClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса исключений графика
func NewService(
	exceptionRepo ExceptionRepository,
	directoryClient DirectoryServiceClient,
	logger Logger,
) *Service {
	return &Service{
		exceptionRepo:   exceptionRepo,
		directoryClient: directoryClient,
		logger:          logger,
	}
}

// Create создает новое исключение графика
// Доступно только владельцу и менеджерам бизнеса
func (s *Service) Create(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("Create: creating exception for business=%d, date=%s, kind=%s by user=%d",
		req.BusinessID, req.Date, req.Kind, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	exc, err := s.buildException(req)
	if err != nil {
		s.logger.Warn("Create: invalid exception for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	created, err := s.exceptionRepo.Create(ctx, exc)
	if err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionExists) {
			s.logger.Warn("Create: full-day exception already exists for business=%d, date=%s", req.BusinessID, req.Date)
			return nil, ErrExceptionExists
		}
		s.logger.Error("Create: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created exception id=%d for business=%d", created.ID, created.BusinessID)
	return models.FromDomainException(created), nil
}

// Delete удаляет исключение графика
// Доступно только владельцу и менеджерам бизнеса, которому принадлежит исключение
func (s *Service) Delete(ctx context.Context, req *models.DeleteExceptionRequest) error {
	s.logger.Info("Delete: deleting exception id=%d for business=%d by user=%d",
		req.ExceptionID, req.BusinessID, req.UserID)

	exc, err := s.exceptionRepo.GetByID(ctx, req.ExceptionID)
	if err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			s.logger.Warn("Delete: exception id=%d not found", req.ExceptionID)
			return ErrExceptionNotFound
		}
		s.logger.Error("Delete: repository error for exception id=%d: %v", req.ExceptionID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	// Исключение должно принадлежать бизнесу из запроса
	if exc.BusinessID != req.BusinessID {
		s.logger.Warn("Delete: exception id=%d belongs to business=%d, requested business=%d",
			req.ExceptionID, exc.BusinessID, req.BusinessID)
		return ErrExceptionNotFound
	}

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return err
	}

	if err := s.exceptionRepo.Delete(ctx, req.ExceptionID); err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			return ErrExceptionNotFound
		}
		s.logger.Error("Delete: repository error for exception id=%d: %v", req.ExceptionID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted exception id=%d", req.ExceptionID)
	return nil
}

// List возвращает исключения бизнеса за период [from, to]
// Доступно только владельцу и менеджерам бизнеса
func (s *Service) List(ctx context.Context, req *models.ListExceptionsRequest) (*models.ExceptionListResponse, error) {
	s.logger.Info("List: fetching exceptions for business=%d, period=%s to %s by user=%d",
		req.BusinessID, req.From, req.To, req.UserID)

	if err := s.checkBusinessAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	from, err := time.Parse(domain.DateFormat, req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid 'from' date format, expected YYYY-MM-DD", ErrInvalidInput)
	}
	to, err := time.Parse(domain.DateFormat, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid 'to' date format, expected YYYY-MM-DD", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 'to' date is before 'from' date", ErrInvalidInput)
	}

	exceptions, err := s.exceptionRepo.GetByBusinessAndDateRange(ctx, req.BusinessID, from, to)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d exceptions for business=%d", len(exceptions), req.BusinessID)
	return models.FromDomainExceptionList(exceptions), nil
}

// Вспомогательные методы

// buildException валидирует запрос и собирает domain модель
func (s *Service) buildException(req *models.CreateExceptionRequest) (*domain.AvailabilityException, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	kind := domain.ExceptionKind(req.Kind)
	if kind != domain.ExceptionClosed && kind != domain.ExceptionOpenCustom {
		return nil, fmt.Errorf("%w: unknown exception kind %q", ErrInvalidInput, req.Kind)
	}

	// open_custom задаёт рабочее окно и требует оба времени;
	// closed допускает либо оба времени (частичное закрытие), либо ни одного (весь день)
	hasStart := req.StartTime != nil
	hasEnd := req.EndTime != nil
	if hasStart != hasEnd {
		return nil, fmt.Errorf("%w: startTime and endTime must be set together", ErrInvalidInput)
	}
	if kind == domain.ExceptionOpenCustom && !hasStart {
		return nil, fmt.Errorf("%w: open_custom exception requires startTime and endTime", ErrInvalidInput)
	}

	if hasStart {
		if err := req.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid startTime, expected HH:MM", ErrInvalidInput)
		}
		if err := req.EndTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid endTime, expected HH:MM", ErrInvalidInput)
		}
		if !req.StartTime.IsBefore(*req.EndTime) {
			return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxExceptionReasonLength {
		return nil, fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}

	return &domain.AvailabilityException{
		BusinessID: req.BusinessID,
		Date:       date,
		Kind:       kind,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	}, nil
}

// checkBusinessAccess проверяет, что пользователь - владелец или менеджер бизнеса
func (s *Service) checkBusinessAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.directoryClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrBusinessNotFound) {
			s.logger.Warn("checkBusinessAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkBusinessAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkBusinessAccess - failed to get business: %v", ErrInternal, err)
	}

	if business.OwnerID == userID {
		return nil
	}

	for _, managerID := range business.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	s.logger.Warn("checkBusinessAccess: user=%d has no access to business=%d", userID, businessID)
	return ErrAccessDenied
}
