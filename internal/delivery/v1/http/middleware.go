package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/nutrimercado/go-backend/internal/usecase"
	"github.com/nutrimercado/go-backend/pkg/e"
)

type ctxKey string

const identityKey ctxKey = "identity"

// AuthMiddleware проверяет Bearer-токен и кладёт личность пользователя в контекст.
type AuthMiddleware struct {
	tokens usecase.TokenManager
}

func NewAuthMiddleware(tokens usecase.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			WriteError(w, e.ErrUnauthorized)
			return
		}

		ident, err := m.tokens.ParseAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			WriteError(w, e.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только администраторов. Подключается после Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromCtx(r.Context())
		if ident == nil {
			WriteError(w, e.ErrUnauthorized)
			return
		}
		if !ident.IsAdmin {
			WriteError(w, e.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx извлекает аутентифицированного пользователя из контекста запроса.
func IdentityFromCtx(ctx context.Context) *usecase.Identity {
	ident, _ := ctx.Value(identityKey).(*usecase.Identity)
	return ident
}
