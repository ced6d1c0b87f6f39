package session

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound indica que a chave não existe (ou já expirou)
var ErrKeyNotFound = errors.New("chave de sessão não encontrada")

// Store é um armazenamento chave-valor com expiração por chave,
// usado para mapear tokens de sessão para IDs de usuário
type Store interface {
	// Set grava value sob key com o TTL dado
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get retorna o valor de key; ErrKeyNotFound se ausente ou expirada
	Get(ctx context.Context, key string) (string, error)
	// Del remove key (sem erro se a chave não existir)
	Del(ctx context.Context, key string) error

	// Ping verifica a saúde do store (usado pelo /status)
	Ping(ctx context.Context) error
	Close() error
}
