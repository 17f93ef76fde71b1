package delete_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmalyshev/ABS-BookingService/internal/api/handlers"
	"github.com/kmalyshev/ABS-BookingService/internal/api/middleware"
	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions"
	"github.com/kmalyshev/ABS-BookingService/internal/service/exceptions/models"
)

const (
	msgInvalidBusinessID  = "некорректный идентификатор бизнеса"
	msgInvalidExceptionID = "некорректный ID исключения"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgNotFound           = "исключение не найдено"
	msgBusinessNotFound   = "бизнес не найден"
)

type Handler struct {
	service ExceptionService
	logger  Logger
}

func NewHandler(service ExceptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/exceptions/{exceptionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil || businessID <= 0 {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	exceptionID, err := strconv.ParseInt(vars["exceptionId"], 10, 64)
	if err != nil || exceptionID <= 0 {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Invalid exception ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Delete(r.Context(), &models.DeleteExceptionRequest{
		UserID:      userID,
		BusinessID:  businessID,
		ExceptionID: exceptionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, exceptions.ErrExceptionNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Not found: exception_id=%d", exceptionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, exceptions.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, exceptions.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{excId} - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/exceptions/{excId} - Failed: exception_id=%d, error=%v",
				exceptionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/exceptions/{excId} - Exception deleted: exception_id=%d, business_id=%d",
		exceptionID, businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
