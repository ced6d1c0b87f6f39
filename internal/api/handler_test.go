package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filesmanager-backend/internal/models"
	"filesmanager-backend/internal/repository"
	"filesmanager-backend/internal/service"
	"filesmanager-backend/internal/session"
	"filesmanager-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   http.Handler
	store    *repository.InMemoryStore
	sessions *session.InMemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewInMemoryStore()
	sessions := session.NewInMemoryStore()
	disk := storage.NewDisk(t.TempDir())

	store.AddUser(&models.User{
		ID:           "u1",
		Email:        "bob@dylan.com",
		PasswordHash: service.HashPassword("toto1234!"),
	})
	store.AddUser(&models.User{
		ID:           "u2",
		Email:        "joe@dylan.com",
		PasswordHash: service.HashPassword("banana"),
	})

	authSvc := service.NewAuthService(store, sessions)
	fileSvc := service.NewFileService(store, disk, nil)
	handler := NewHandler(authSvc, fileSvc, store, sessions)

	return &testEnv{
		router:   handler.Routes(),
		store:    store,
		sessions: sessions,
	}
}

// sessionFor grava uma sessão direto no store e retorna o token
func (e *testEnv) sessionFor(t *testing.T, userID string) string {
	t.Helper()
	token := "tok-" + userID
	require.NoError(t, e.sessions.Set(context.Background(), "auth_"+token, userID, time.Hour))
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	payload := decodeJSON(t, rec)
	errObj, ok := payload["error"].(map[string]interface{})
	require.True(t, ok, "resposta sem envelope de erro: %s", rec.Body.String())
	return errObj["message"].(string)
}

func TestStatusAndStats(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeJSON(t, rec)
	assert.Equal(t, true, status["redis"])
	assert.Equal(t, true, status["db"])

	rec = env.do(t, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeJSON(t, rec)
	assert.Equal(t, float64(2), stats["users"])
	assert.Equal(t, float64(0), stats["files"])
}

func TestConnectDisconnectFlow(t *testing.T) {
	env := newTestEnv(t)

	// Credencial correta emite token
	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("bob@dylan.com:toto1234!")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	token := decodeJSON(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	// O token resolve a sessão em /users/me
	rec = env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeJSON(t, rec)
	assert.Equal(t, "u1", me["id"])
	assert.Equal(t, "bob@dylan.com", me["email"])

	// Logout revoga
	rec = env.do(t, http.MethodGet, "/disconnect", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Segundo logout do mesmo token falha
	rec = env.do(t, http.MethodGet, "/disconnect", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnect_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("bob@dylan.com:errada")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, rec))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
		{http.MethodGet, "/files/abc"},
		{http.MethodPut, "/files/abc/publish"},
		{http.MethodPut, "/files/abc/unpublish"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := env.do(t, p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = env.do(t, p.method, p.path, "token-invalido", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCreateFile_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, "u1")

	tests := []struct {
		name     string
		body     map[string]interface{}
		expected string
	}{
		{"sem nome", map[string]interface{}{"type": "folder"}, "Missing name"},
		{"sem tipo", map[string]interface{}{"name": "a.txt"}, "Missing type"},
		{"tipo inválido", map[string]interface{}{"name": "a.txt", "type": "dir"}, "Missing type"},
		{"sem data", map[string]interface{}{"name": "a.txt", "type": "file"}, "Missing data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/files", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.expected, errorMessage(t, rec))
		})
	}

	// Pai inexistente
	rec := env.do(t, http.MethodPost, "/files", token, map[string]interface{}{
		"name": "a.txt", "type": "file", "data": "aGVsbG8=", "parentId": "nao-existe",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parent not found", errorMessage(t, rec))
}

// TestFileLifecycleScenario percorre o cenário completo: pasta "docs",
// arquivo "a.txt" dentro dela, leitura pelo dono, publish/unpublish e
// leitura por terceiro
func TestFileLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	owner := env.sessionFor(t, "u1")
	stranger := env.sessionFor(t, "u2")

	// 1. Cria a pasta na raiz
	rec := env.do(t, http.MethodPost, "/files", owner, map[string]interface{}{
		"name": "docs", "type": "folder",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	folder := decodeJSON(t, rec)
	assert.Equal(t, "folder", folder["type"])
	assert.Equal(t, "0", folder["parentId"])
	assert.Equal(t, "u1", folder["userId"])
	assert.Equal(t, false, folder["isPublic"])
	// localPath é interno e nunca aparece na representação externa
	assert.NotContains(t, folder, "localPath")
	assert.NotContains(t, folder, "local_path")

	folderID := folder["id"].(string)

	// 2. Cria o arquivo dentro da pasta
	rec = env.do(t, http.MethodPost, "/files", owner, map[string]interface{}{
		"name": "a.txt", "type": "file", "parentId": folderID, "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	file := decodeJSON(t, rec)
	assert.Equal(t, folderID, file["parentId"])
	assert.NotContains(t, file, "localPath")
	fileID := file["id"].(string)

	// 3. A listagem da pasta mostra o arquivo
	rec = env.do(t, http.MethodGet, "/files?parentId="+folderID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "a.txt", listing[0]["name"])

	// 4. O dono lê o conteúdo
	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	// 5. Terceiro não lê arquivo privado (nem anônimo)
	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data", stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 6. Publicado, o terceiro passa a ler
	rec = env.do(t, http.MethodPut, "/files/"+fileID+"/publish", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["isPublic"])

	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data", stranger, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	// 7. Despublicado, volta a ser 404 para terceiros
	rec = env.do(t, http.MethodPut, "/files/"+fileID+"/unpublish", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["isPublic"])

	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data", stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 8. Publish/unpublish por quem não é dono é NotFound
	rec = env.do(t, http.MethodPut, "/files/"+fileID+"/publish", stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 9. Ler o "conteúdo" da pasta é BadRequest
	rec = env.do(t, http.MethodGet, "/files/"+folderID+"/data", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A folder doesn't have content", errorMessage(t, rec))
}

func TestGetFile_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	owner := env.sessionFor(t, "u1")
	stranger := env.sessionFor(t, "u2")

	rec := env.do(t, http.MethodPost, "/files", owner, map[string]interface{}{
		"name": "docs", "type": "folder",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	folderID := decodeJSON(t, rec)["id"].(string)

	rec = env.do(t, http.MethodGet, "/files/"+folderID, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/files/"+folderID, stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorMessage(t, rec))
}

func TestListFiles_DefaultsAndInvalidParent(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, "u1")

	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodPost, "/files", token, map[string]interface{}{
			"name": fmt.Sprintf("f-%d", i), "type": "folder",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// Sem parentId lista a raiz
	rec := env.do(t, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing, 3)

	// Pai inexistente: lista vazia, não erro
	rec = env.do(t, http.MethodGet, "/files?parentId=nao-existe", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	// page fora do intervalo cai para a primeira página
	rec = env.do(t, http.MethodGet, "/files?page=abc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing, 3)
}

func TestGetFileData_InvalidSize(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, "u1")

	rec := env.do(t, http.MethodPost, "/files", token, map[string]interface{}{
		"name": "a.png", "type": "image", "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	fileID := decodeJSON(t, rec)["id"].(string)

	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data?size=300", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid size", errorMessage(t, rec))

	// Variante válida mas ainda não gerada
	rec = env.do(t, http.MethodGet, "/files/"+fileID+"/data?size=500", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFile_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	token := env.sessionFor(t, "u1")

	req := httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString("{nao é json"))
	req.Header.Set("X-Token", token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
