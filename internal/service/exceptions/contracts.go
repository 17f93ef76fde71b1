package exceptions

import (
	"context"
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/internal/integrations/directoryservice"
)

// ExceptionRepository интерфейс репозитория исключений графика
type ExceptionRepository interface {
	Create(ctx context.Context, exc *domain.AvailabilityException) (*domain.AvailabilityException, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error)
	GetByBusinessAndDateRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.AvailabilityException, error)
	Delete(ctx context.Context, id int64) error
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*directoryservice.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
