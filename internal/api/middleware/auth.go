package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kmalyshev/ABS-BookingService/internal/api/handlers"
)

type userIDKey struct{}

// HeaderUserID заголовок с идентификатором пользователя, проставляется API-гейтвеем
const HeaderUserID = "X-User-ID"

const msgMissingUserID = "отсутствует ID пользователя"

// Auth извлекает идентификатор пользователя из заголовка X-User-ID
// и кладет его в контекст запроса. Без валидного заголовка - 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает идентификатор пользователя из контекста запроса
// Второе значение false, если запрос прошёл без авторизации
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
