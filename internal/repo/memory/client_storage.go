package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var (
	_ ports.ClientStorageProvider = (*ClientStorage)(nil)
	_ ports.ClientStorage         = (*scopedStorage)(nil)
)

// ClientStorage - клиентское хранилище в памяти процесса.
// Данные живут до рестарта; подходит для локального запуска и тестов.
type ClientStorage struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewClientStorage() *ClientStorage {
	return &ClientStorage{scopes: make(map[string]map[string]string)}
}

func (s *ClientStorage) Scope(sessionID string) ports.ClientStorage {
	return &scopedStorage{parent: s, scope: sessionID}
}

// Drop - удалить все ключи сессии.
func (s *ClientStorage) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, sessionID)
}

type scopedStorage struct {
	parent *ClientStorage
	scope  string
}

func (s *scopedStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.parent.mu.RLock()
	defer s.parent.mu.RUnlock()
	v, ok := s.parent.scopes[s.scope][key]
	return v, ok, nil
}

func (s *scopedStorage) SetItem(_ context.Context, key, value string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	kv, ok := s.parent.scopes[s.scope]
	if !ok {
		kv = make(map[string]string)
		s.parent.scopes[s.scope] = kv
	}
	kv[key] = value
	return nil
}

func (s *scopedStorage) RemoveItem(_ context.Context, key string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.scopes[s.scope], key)
	return nil
}
