package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configura e retorna o roteador Chi
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Token"},
		AllowCredentials: false,
		MaxAge:           300, // Tempo de cache da preflight
	}))

	// Endpoints públicos (sem autenticação)
	r.Get("/status", h.handleGetStatus)
	r.Get("/stats", h.handleGetStats)
	r.Get("/connect", h.handleConnect)
	r.Get("/disconnect", h.handleDisconnect)

	// O conteúdo é público para arquivos publicados, então a checagem
	// de acesso fica no serviço, não no middleware
	r.Get("/files/{id}/data", h.handleGetFileData)

	// Endpoints protegidos (requerem X-Token válido)
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Get("/users/me", h.handleGetMe)

		r.Post("/files", h.handleCreateFile)
		r.Get("/files", h.handleListFiles)
		r.Get("/files/{id}", h.handleGetFile)
		r.Put("/files/{id}/publish", h.handlePublishFile)
		r.Put("/files/{id}/unpublish", h.handleUnpublishFile)
	})

	return r
}
