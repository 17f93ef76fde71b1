package delete_exception

import (
	"context"

	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions/models"
)

type ExceptionService interface {
	Delete(ctx context.Context, req *models.DeleteExceptionRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
