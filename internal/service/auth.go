package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"filesmanager-backend/internal/models"
	"filesmanager-backend/internal/repository"
	"filesmanager-backend/internal/session"

	"github.com/google/uuid"
)

const (
	// sessionKeyPrefix é o namespace das chaves de sessão no store
	sessionKeyPrefix = "auth_"
	// sessionTTL é a validade de um token a partir da emissão
	sessionTTL = 24 * time.Hour
)

// AuthService emite, valida e revoga tokens de sessão
type AuthService struct {
	users    repository.UserStore
	sessions session.Store
}

// NewAuthService cria um novo serviço de autenticação
func NewAuthService(users repository.UserStore, sessions session.Store) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// HashPassword calcula o digest usado na verificação de credencial.
// A consulta no store é por igualdade de digest, então o hash precisa
// ser determinístico.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Connect verifica a credencial "Basic base64(email:senha)" e emite um
// token de sessão opaco, válido por 24h
func (s *AuthService) Connect(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrUnauthorized
	}

	encoded := strings.TrimPrefix(authHeader, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrUnauthorized
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetUserByEmailAndHash(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Resposta genérica para evitar enumeração de usuários
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("falha ao verificar credencial: %w", err)
	}

	// Cada chamada emite um token independente: sessões simultâneas do
	// mesmo usuário são permitidas
	token := uuid.New().String()
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, user.ID, sessionTTL); err != nil {
		return "", fmt.Errorf("falha ao gravar sessão: %w", err)
	}

	return token, nil
}

// Disconnect revoga o token; depois disso qualquer resolução dele falha
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	key := sessionKeyPrefix + token
	if _, err := s.sessions.Get(ctx, key); err != nil {
		if errors.Is(err, session.ErrKeyNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("falha ao ler sessão: %w", err)
	}

	if err := s.sessions.Del(ctx, key); err != nil {
		return fmt.Errorf("falha ao remover sessão: %w", err)
	}
	return nil
}

// ResolveUser resolve um token para o usuário dono da sessão. É o único
// portão de autenticação: toda operação protegida passa por aqui antes
// de qualquer efeito colateral.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, session.ErrKeyNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("falha ao ler sessão: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Sessão viva apontando para conta que não existe mais
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("falha ao buscar usuário da sessão: %w", err)
	}

	return user, nil
}
