package create_exception

import (
	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions/models"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// CreateExceptionRequest HTTP request model
type CreateExceptionRequest struct {
	Date      string  `json:"date"` // "2026-01-07"
	Kind      string  `json:"kind"` // "closed" | "open_custom"
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateExceptionRequest) ToServiceRequest(businessID, userID int64) *models.CreateExceptionRequest {
	req := &models.CreateExceptionRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       r.Date,
		Kind:       r.Kind,
		Reason:     r.Reason,
	}

	if r.StartTime != nil {
		start := types.TimeString(*r.StartTime)
		req.StartTime = &start
	}
	if r.EndTime != nil {
		end := types.TimeString(*r.EndTime)
		req.EndTime = &end
	}

	return req
}
