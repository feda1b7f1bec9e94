package ports

import "context"

// ClientStorage - долговечное клиентское хранилище одной сессии (аналог localStorage).
// Отсутствие ключа - не ошибка: ("", false, nil).
type ClientStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ClientStorageProvider - выдаёт хранилище, изолированное по идентификатору сессии.
type ClientStorageProvider interface {
	Scope(sessionID string) ClientStorage
}
