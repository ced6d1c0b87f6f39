package api

import (
	"context"
	"net/http"

	"filesmanager-backend/internal/models"
)

// contextKey é um tipo privado para evitar colisões de chaves no contexto
type contextKey string

const userContextKey = contextKey("user")

// tokenHeader é o header onde o cliente manda o token de sessão
const tokenHeader = "X-Token"

// AuthMiddleware resolve o X-Token para um usuário e o injeta no
// contexto da requisição. Qualquer falha aborta com 401, sem efeitos
// colaterais.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(tokenHeader)

		user, err := h.authService.ResolveUser(r.Context(), token)
		if err != nil {
			h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext recupera o usuário injetado pelo AuthMiddleware
func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}
