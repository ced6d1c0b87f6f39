package repository

import (
	"context"
	"sort"
	"sync"

	"filesmanager-backend/internal/models"
)

// InMemoryStore é uma implementação em-memória da interface Store
type InMemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User
	filesByID    map[string]*models.File
}

// NewInMemoryStore cria uma nova instância do store em memória
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		usersByID:    make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		filesByID:    make(map[string]*models.File),
	}
}

// --- UserStore ---

// AddUser insere um usuário diretamente (registro é externo a este serviço)
func (s *InMemoryStore) AddUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
}

// RemoveUser apaga um usuário (útil para simular contas excluídas)
func (s *InMemoryStore) RemoveUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, exists := s.usersByID[id]; exists {
		delete(s.usersByEmail, user.Email)
		delete(s.usersByID, id)
	}
}

func (s *InMemoryStore) GetUserByEmailAndHash(ctx context.Context, email, passwordHash string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[email]
	if !exists || user.PasswordHash != passwordHash {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *InMemoryStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.usersByID)), nil
}

// --- FileStore ---

func (s *InMemoryStore) CreateFile(ctx context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *file
	s.filesByID[file.ID] = &copied
	return nil
}

func (s *InMemoryStore) GetFileByID(ctx context.Context, id string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, exists := s.filesByID[id]
	if !exists {
		return nil, ErrFileNotFound
	}
	copied := *file
	return &copied, nil
}

func (s *InMemoryStore) GetFileByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, exists := s.filesByID[id]
	if !exists || file.OwnerID != ownerID {
		return nil, ErrFileNotFound
	}
	copied := *file
	return &copied, nil
}

func (s *InMemoryStore) ListFilesByParent(ctx context.Context, ownerID, parentID string, skip, limit int) ([]*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*models.File{}
	for _, file := range s.filesByID {
		if file.OwnerID == ownerID && file.ParentID == parentID {
			copied := *file
			matched = append(matched, &copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	if skip >= len(matched) {
		return []*models.File{}, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryStore) SetFilePublic(ctx context.Context, id, ownerID string, isPublic bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, exists := s.filesByID[id]
	if !exists || file.OwnerID != ownerID {
		return ErrFileNotFound
	}
	file.IsPublic = isPublic
	return nil
}

func (s *InMemoryStore) CountFiles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filesByID)), nil
}

// Ping nunca falha no store em memória
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}
