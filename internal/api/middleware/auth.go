package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingOps/internal/api/handlers"
	"github.com/m04kA/SMC-BookingOps/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type ctxKey int

const actorKey ctxKey = iota

// Auth достает пользователя из заголовков X-User-ID и X-User-Role
// Аутентификацию выполняет шлюз, сюда приходят уже проверенные заголовки
// Роль system снаружи не принимается
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if id == "" {
			handlers.RespondUnauthorized(w, "отсутствует ID пользователя")
			return
		}

		role := domain.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))))
		if role == "" {
			role = domain.RoleCustomer
		}
		if !role.IsValid() || role == domain.RoleSystem {
			handlers.RespondForbidden(w, "недопустимая роль пользователя")
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor возвращает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
