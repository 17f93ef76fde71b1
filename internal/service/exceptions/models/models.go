package models

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// Request модели

// CreateExceptionRequest запрос на создание исключения графика
type CreateExceptionRequest struct {
	UserID     int64             `json:"userId"`
	BusinessID int64             `json:"businessId"`
	Date       string            `json:"date"` // "2026-01-07"
	Kind       string            `json:"kind"` // "closed" | "open_custom"
	StartTime  *types.TimeString `json:"startTime,omitempty"`
	EndTime    *types.TimeString `json:"endTime,omitempty"`
	Reason     *string           `json:"reason,omitempty"`
}

// DeleteExceptionRequest запрос на удаление исключения графика
type DeleteExceptionRequest struct {
	UserID      int64 `json:"userId"`
	BusinessID  int64 `json:"businessId"`
	ExceptionID int64 `json:"exceptionId"`
}

// ListExceptionsRequest запрос на список исключений за период
type ListExceptionsRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	From       string `json:"from"` // "2026-01-01"
	To         string `json:"to"`   // "2026-01-31"
}

// Response модели

// ExceptionResponse ответ с данными исключения графика
type ExceptionResponse struct {
	ID         int64             `json:"id"`
	BusinessID int64             `json:"businessId"`
	Date       string            `json:"date"`
	Kind       string            `json:"kind"`
	StartTime  *types.TimeString `json:"startTime,omitempty"`
	EndTime    *types.TimeString `json:"endTime,omitempty"`
	Reason     *string           `json:"reason,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ExceptionListResponse ответ со списком исключений
type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// Методы конвертации

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.AvailabilityException) *ExceptionResponse {
	if e == nil {
		return nil
	}

	return &ExceptionResponse{
		ID:         e.ID,
		BusinessID: e.BusinessID,
		Date:       e.Date.Format(domain.DateFormat),
		Kind:       string(e.Kind),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt,
	}
}

// FromDomainExceptionList конвертирует список domain моделей в DTO
func FromDomainExceptionList(exceptions []*domain.AvailabilityException) *ExceptionListResponse {
	if exceptions == nil {
		return &ExceptionListResponse{
			Exceptions: []ExceptionResponse{},
		}
	}

	resp := &ExceptionListResponse{
		Exceptions: make([]ExceptionResponse, len(exceptions)),
	}

	for i, exc := range exceptions {
		if excResp := FromDomainException(exc); excResp != nil {
			resp.Exceptions[i] = *excResp
		}
	}

	return resp
}
