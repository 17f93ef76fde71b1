package list_exceptions

import (
	"context"

	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions/models"
)

type ExceptionService interface {
	List(ctx context.Context, req *models.ListExceptionsRequest) (*models.ExceptionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
