package repository

import (
	"context"
	"errors"

	"filesmanager-backend/internal/models"
)

// Erros sentinela do repositório, para o serviço mapear em erros de API
var (
	ErrUserNotFound = errors.New("usuário não encontrado")
	ErrFileNotFound = errors.New("arquivo não encontrado")
)

// UserStore define a interface para operações de usuário no DB
type UserStore interface {
	// GetUserByEmailAndHash busca por e-mail + digest da senha
	// (a verificação de credencial é uma consulta de igualdade)
	GetUserByEmailAndHash(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// FileStore define a interface para operações de metadados de arquivo no DB
type FileStore interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFileByID(ctx context.Context, id string) (*models.File, error)
	GetFileByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	// ListFilesByParent retorna os arquivos do dono sob parentID,
	// ordenados por nome, com paginação via skip/limit
	ListFilesByParent(ctx context.Context, ownerID, parentID string, skip, limit int) ([]*models.File, error)
	// SetFilePublic atualiza a visibilidade; ErrFileNotFound se o par
	// (id, dono) não existir
	SetFilePublic(ctx context.Context, id, ownerID string, isPublic bool) error
	CountFiles(ctx context.Context) (int64, error)
}

// Store é uma interface agregada para todas as operações de store
// Facilita a injeção de dependência
type Store interface {
	UserStore
	FileStore

	// Ping verifica a saúde da conexão (usado pelo /status)
	Ping(ctx context.Context) error
}
