package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"filesmanager-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore é a implementação da interface Store para o PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore cria uma nova instância do PostgresStore e pool de conexões
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("não foi possível criar pool de conexão: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("não foi possível pingar o banco de dados: %w", err)
	}

	log.Println("Pool de conexão com PostgreSQL estabelecido.")
	return &PostgresStore{db: pool}, nil
}

// Close fecha o pool de conexões
func (s *PostgresStore) Close() {
	s.db.Close()
}

// Ping verifica se a conexão com o banco continua viva
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// RunMigrations executa o script SQL de migração
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	_, err := s.db.Exec(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("falha ao executar migração: %w", err)
	}
	return nil
}

// --- UserStore ---

func (s *PostgresStore) GetUserByEmailAndHash(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
        SELECT id, email, password_hash
        FROM users
        WHERE email = $1 AND password_hash = $2`

	user := &models.User{}
	err := s.db.QueryRow(ctx, query, email, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário por credencial: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
        SELECT id, email, password_hash
        FROM users
        WHERE id = $1`

	user := &models.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("falha ao buscar usuário por ID: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar usuários: %w", err)
	}
	return count, nil
}

// --- FileStore ---

func (s *PostgresStore) CreateFile(ctx context.Context, file *models.File) error {
	query := `
        INSERT INTO files (id, owner_id, name, type, is_public, parent_id, local_path)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	// Pastas não têm blob: local_path vai como NULL
	var localPath sql.NullString
	if file.Type.HasContent() {
		localPath = sql.NullString{String: file.LocalPath, Valid: true}
	}

	_, err := s.db.Exec(ctx, query,
		file.ID,
		file.OwnerID,
		file.Name,
		string(file.Type),
		file.IsPublic,
		file.ParentID,
		localPath,
	)

	if err != nil {
		return fmt.Errorf("falha ao criar arquivo: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetFileByID(ctx context.Context, id string) (*models.File, error) {
	query := `
        SELECT id, owner_id, name, type, is_public, parent_id, COALESCE(local_path, '')
        FROM files
        WHERE id = $1`

	return s.scanFileRow(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) GetFileByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := `
        SELECT id, owner_id, name, type, is_public, parent_id, COALESCE(local_path, '')
        FROM files
        WHERE id = $1 AND owner_id = $2`

	return s.scanFileRow(s.db.QueryRow(ctx, query, id, ownerID))
}

func (s *PostgresStore) ListFilesByParent(ctx context.Context, ownerID, parentID string, skip, limit int) ([]*models.File, error) {
	query := `
        SELECT id, owner_id, name, type, is_public, parent_id, COALESCE(local_path, '')
        FROM files
        WHERE owner_id = $1 AND parent_id = $2
        ORDER BY name ASC
        LIMIT $3 OFFSET $4`

	rows, err := s.db.Query(ctx, query, ownerID, parentID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar arquivos: %w", err)
	}
	defer rows.Close()

	// Importante: inicializa como slice vazio, não nil, para consistência de JSON
	files := []*models.File{}

	for rows.Next() {
		file := &models.File{}
		err := rows.Scan(
			&file.ID,
			&file.OwnerID,
			&file.Name,
			&file.Type,
			&file.IsPublic,
			&file.ParentID,
			&file.LocalPath,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao escanear linha de arquivo: %w", err)
		}
		files = append(files, file)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os arquivos: %w", err)
	}

	return files, nil
}

func (s *PostgresStore) SetFilePublic(ctx context.Context, id, ownerID string, isPublic bool) error {
	query := `
        UPDATE files
        SET is_public = $1
        WHERE id = $2 AND owner_id = $3`

	tag, err := s.db.Exec(ctx, query, isPublic, id, ownerID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar visibilidade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (s *PostgresStore) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar arquivos: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) scanFileRow(row pgx.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.Type,
		&file.IsPublic,
		&file.ParentID,
		&file.LocalPath,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("falha ao buscar arquivo: %w", err)
	}
	return file, nil
}
