package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"filesmanager-backend/internal/repository"
	"filesmanager-backend/internal/service"
	"filesmanager-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler gerencia as dependências para os handlers HTTP
type Handler struct {
	authService *service.AuthService
	fileService *service.FileService
	store       repository.Store // Necessário para /status e /stats
	sessions    session.Store
	validate    *validator.Validate
}

// NewHandler cria uma nova instância do Handler
func NewHandler(
	authSvc *service.AuthService,
	fileSvc *service.FileService,
	store repository.Store,
	sessions session.Store,
) *Handler {
	return &Handler{
		authService: authSvc,
		fileService: fileSvc,
		store:       store,
		sessions:    sessions,
		validate:    validator.New(),
	}
}

// === Funções Auxiliares de Resposta ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Erro ao serializar JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"Erro interno ao serializar resposta"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError mapeia os erros estáveis do serviço para HTTP
func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		h.respondWithError(w, http.StatusNotFound, "Not found")
	case service.IsBadRequest(err):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Erro interno: %v", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// === Handlers de Aplicação ===

// handleGetStatus (GET /status) informa a saúde das duas conexões.
// Os nomes dos campos seguem o formato histórico da API.
func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	sessionsAlive := h.sessions.Ping(r.Context()) == nil
	dbAlive := h.store.Ping(r.Context()) == nil

	h.respondWithJSON(w, http.StatusOK, map[string]bool{
		"redis": sessionsAlive,
		"db":    dbAlive,
	})
}

// handleGetStats (GET /stats) retorna os contadores globais
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.CountUsers(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	files, err := h.store.CountFiles(r.Context())
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}

// === Handlers de Sessão ===

// handleConnect (GET /connect) troca uma credencial Basic por um token
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	token, err := h.authService.Connect(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleDisconnect (GET /disconnect) revoga o token da sessão atual
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Disconnect(r.Context(), r.Header.Get(tokenHeader)); err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetMe (GET /users/me) retorna o usuário da sessão
func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// === Handlers de Arquivo ===

// handleCreateFile (POST /files)
func (h *Handler) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	// A validação estrutural roda aqui para devolver o motivo estável
	// esperado pelo cliente; o serviço revalida antes de persistir
	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	file, err := h.fileService.CreateFile(r.Context(), user, req)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, file)
}

// validationMessage traduz o primeiro erro do validator para o motivo
// curto do contrato da API
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return service.ErrMissingName.Error()
		case "Type":
			return service.ErrMissingType.Error()
		case "Data":
			return service.ErrMissingData.Error()
		}
	}
	return "Payload inválido"
}

// handleGetFile (GET /files/{id})
func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := h.fileService.GetFile(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, file)
}

// handleListFiles (GET /files?parentId=&page=)
func (h *Handler) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// page ausente ou inválida cai para a primeira página
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	files, err := h.fileService.ListFiles(r.Context(), user, r.URL.Query().Get("parentId"), page)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, files)
}

// handlePublishFile (PUT /files/{id}/publish)
func (h *Handler) handlePublishFile(w http.ResponseWriter, r *http.Request) {
	h.setFileVisibility(w, r, true)
}

// handleUnpublishFile (PUT /files/{id}/unpublish)
func (h *Handler) handleUnpublishFile(w http.ResponseWriter, r *http.Request) {
	h.setFileVisibility(w, r, false)
}

func (h *Handler) setFileVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user, ok := userFromContext(r.Context())
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := h.fileService.SetPublic(r.Context(), user, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, file)
}

// handleGetFileData (GET /files/{id}/data?size=) serve os bytes crus.
// O token é opcional: sem sessão válida, só arquivos públicos saem.
func (h *Handler) handleGetFileData(w http.ResponseWriter, r *http.Request) {
	// Token inválido não é erro aqui: vira apenas "sem usuário"
	requester, _ := h.authService.ResolveUser(r.Context(), r.Header.Get(tokenHeader))

	reader, contentType, err := h.fileService.ReadContent(
		r.Context(),
		requester,
		chi.URLParam(r, "id"),
		r.URL.Query().Get("size"),
	)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		// Headers já foram enviados; só registra o erro de stream
		log.Printf("Erro ao transmitir conteúdo: %v", err)
	}
}
