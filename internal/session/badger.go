package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore é a implementação persistente da interface Store,
// apoiada em BadgerDB (KV embarcado com TTL por entrada)
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore abre (ou cria) o banco de sessões no diretório dado
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o banco de sessões: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(value)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("falha ao gravar sessão: %w", err)
	}
	return nil
}

func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(raw)
		return nil
	})

	if err != nil {
		// Badger trata chave expirada como inexistente
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("falha ao ler sessão: %w", err)
	}
	return value, nil
}

func (s *BadgerStore) Del(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("falha ao remover sessão: %w", err)
	}
	return nil
}

// Ping verifica se o banco continua aberto
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("banco de sessões fechado")
	}
	return nil
}

// Close fecha o banco de sessões
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
