package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var (
	_ ports.ClientStorageProvider = (*ClientStorage)(nil)
	_ ports.ClientStorage         = (*scopedStorage)(nil)
)

// ClientStorage - клиентское хранилище сессий в таблице client_storage.
// Каждая сессия видит только свои ключи (scope = id сессии).
type ClientStorage struct {
	pool *pgxpool.Pool
}

func NewClientStorage(pool *pgxpool.Pool) *ClientStorage { return &ClientStorage{pool: pool} }

// Scope - хранилище одной сессии.
func (s *ClientStorage) Scope(sessionID string) ports.ClientStorage {
	return &scopedStorage{pool: s.pool, scope: sessionID}
}

// ScanKey - обход значений ключа key во всех сессиях (для выгрузки снимков корзин).
func (s *ClientStorage) ScanKey(ctx context.Context, key string, fn func(scope, value string) error) error {
	rows, err := s.pool.Query(ctx, `
		SELECT scope, value FROM client_storage
		WHERE key = $1
		ORDER BY scope
	`, key)
	if err != nil {
		return fmt.Errorf("query client_storage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scope, value string
		if err := rows.Scan(&scope, &value); err != nil {
			return fmt.Errorf("scan client_storage: %w", err)
		}
		if err := fn(scope, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

type scopedStorage struct {
	pool  *pgxpool.Pool
	scope string
}

func (s *scopedStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM client_storage
		WHERE scope = $1 AND key = $2
	`, s.scope, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", s.scope, key, err)
	}
	return value, true, nil
}

// SetItem - upsert по (scope, key).
func (s *scopedStorage) SetItem(ctx context.Context, key, value string) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO client_storage (scope, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (scope, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, s.scope, key, value); err != nil {
		return fmt.Errorf("set %s/%s: %w", s.scope, key, err)
	}
	return nil
}

func (s *scopedStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM client_storage WHERE scope = $1 AND key = $2
	`, s.scope, key); err != nil {
		return fmt.Errorf("remove %s/%s: %w", s.scope, key, err)
	}
	return nil
}
