package create_booking

import (
	"errors"
	"net/http"

	"github.com/kmalyshev/ABS-BookingService/internal/api/handlers"
	"github.com/kmalyshev/ABS-BookingService/internal/api/middleware"
	"github.com/kmalyshev/ABS-BookingService/internal/availability"
	createBooking "github.com/kmalyshev/ABS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgBusinessNotFound   = "бизнес не найден"
	msgStaffNotFound      = "сотрудник не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceNotByStaff  = "сотрудник не оказывает выбранную услугу"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgOutsideHours       = "слот выходит за рамки рабочего времени"
	msgSlotBlackedOut     = "выбранное время недоступно в этот день"

	msgMissingUserID = "отсутствует ID пользователя"

	msgSlotTaken    = "выбранный временной слот уже занят"
	msgPastTime     = "нельзя создать запись на прошедшее время"
	msgTooFarFuture = "запись так далеко вперёд недоступна"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Конфликт слота отдаём отдельным телом 409 с деталями и альтернативами
		var conflict *createBooking.ConflictDetails
		if errors.As(err, &conflict) {
			h.logger.Warn("POST /bookings - Conflict %s: user_id=%d, business_id=%d, staff_id=%d",
				conflict.Code, userID, req.BusinessID, req.StaffID)
			handlers.RespondConflict(w, FromConflictDetails(conflict, conflictMessage(conflict.Code)))
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: business_id=%d, staff_id=%d", req.BusinessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceNotProvidedByStaff):
			h.logger.Warn("POST /bookings - Service not provided by staff: staff_id=%d, service_id=%d", req.StaffID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotByStaff)

		case errors.Is(err, createBooking.ErrBusinessClosed):
			h.logger.Warn("POST /bookings - Business closed: business_id=%d, date=%s", req.BusinessID, req.Date)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: business_id=%d, time=%s", req.BusinessID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrSlotBlackedOut):
			h.logger.Warn("POST /bookings - Slot blacked out: business_id=%d, date=%s, time=%s", req.BusinessID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotBlackedOut)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, business_id=%d, error=%v",
				userID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, business_id=%d",
		result.ID, userID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// conflictMessage возвращает человекочитаемое сообщение для кода конфликта
func conflictMessage(code string) string {
	switch availability.ConflictCode(code) {
	case availability.CodePastTime:
		return msgPastTime
	case availability.CodeTooFarFuture:
		return msgTooFarFuture
	default:
		return msgSlotTaken
	}
}
