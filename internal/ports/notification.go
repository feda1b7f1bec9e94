package ports

import (
	"context"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

// NotificationPort - приёмник уведомлений одного уровня (branded/simple/alert).
type NotificationPort interface {
	Notify(ctx context.Context, toast domain.Toast)
	// Tier - имя уровня, на котором найден приёмник (например, "parent.simple").
	Tier() string
}

// FrameOutbox - очередь команд для встраивающей страницы.
type FrameOutbox interface {
	Emit(ctx context.Context, cmd domain.FrameCommand)
}
