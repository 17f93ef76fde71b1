package create_booking

import (
	"time"

	"github.com/kmalyshev/ABS-BookingService/internal/domain"
	createBooking "github.com/kmalyshev/ABS-BookingService/internal/usecase/create_booking"
	"github.com/kmalyshev/ABS-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID int64   `json:"businessId"`
	StaffID    int64   `json:"staffId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2026-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64    `json:"id"`
	BusinessID   int64    `json:"businessId"`
	StaffID      int64    `json:"staffId"`
	ServiceID    int64    `json:"serviceId"`
	ClientID     *int64   `json:"clientId,omitempty"`
	StartTs      string   `json:"startTs"` // ISO 8601
	EndTs        string   `json:"endTs"`   // ISO 8601
	Status       string   `json:"status"`
	ServiceTitle string   `json:"serviceTitle"`
	ServicePrice *float64 `json:"servicePrice,omitempty"`
	ClientName   *string  `json:"clientName,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// ConflictingBookingResponse данные записи, с которой произошёл конфликт
type ConflictingBookingResponse struct {
	ID           int64   `json:"id"`
	StartTs      string  `json:"startTs"`
	EndTs        string  `json:"endTs"`
	Status       string  `json:"status"`
	ServiceTitle string  `json:"serviceTitle"`
	ClientName   *string `json:"clientName,omitempty"`
}

// SuggestedSlotResponse свободная альтернатива при конфликте
type SuggestedSlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

// ConflictResponse тело ответа 409 Conflict
type ConflictResponse struct {
	Code               string                      `json:"code"`
	Message            string                      `json:"message"`
	ConflictingBooking *ConflictingBookingResponse `json:"conflictingBooking,omitempty"`
	SuggestedSlots     []SuggestedSlotResponse     `json:"suggestedSlots,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:     userID,
		BusinessID: r.BusinessID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID,
		BusinessID:   resp.BusinessID,
		StaffID:      resp.StaffID,
		ServiceID:    resp.ServiceID,
		ClientID:     resp.ClientID,
		StartTs:      resp.StartTs.Format(time.RFC3339),
		EndTs:        resp.EndTs.Format(time.RFC3339),
		Status:       resp.Status,
		ServiceTitle: resp.ServiceTitle,
		ServicePrice: resp.ServicePrice,
		ClientName:   resp.ClientName,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}

// FromConflictDetails конвертирует детали конфликта в тело 409
func FromConflictDetails(details *createBooking.ConflictDetails, message string) *ConflictResponse {
	resp := &ConflictResponse{
		Code:    details.Code,
		Message: message,
	}

	if details.Conflicting != nil {
		resp.ConflictingBooking = &ConflictingBookingResponse{
			ID:           details.Conflicting.ID,
			StartTs:      details.Conflicting.StartTs.Format(time.RFC3339),
			EndTs:        details.Conflicting.EndTs.Format(time.RFC3339),
			Status:       string(details.Conflicting.Status),
			ServiceTitle: details.Conflicting.ServiceTitle,
			ClientName:   details.Conflicting.ClientName,
		}
	}

	if len(details.Suggested) > 0 {
		resp.SuggestedSlots = make([]SuggestedSlotResponse, len(details.Suggested))
		for i, slot := range details.Suggested {
			resp.SuggestedSlots[i] = SuggestedSlotResponse{
				StartTime: slot.StartTime.String(),
				EndTime:   slot.EndTime.String(),
			}
		}
	}

	return resp
}
