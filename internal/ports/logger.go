package ports

import "context"

// Logger - контракт логгера для всех слоёв корзины.
// Контекст нужен, чтобы реализация могла дописать request_id/session_id.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any)
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}
