package ports

import (
	"context"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

// SnapshotValidator - проверка сохранённого снимка корзины.
type SnapshotValidator interface {
	Validate(ctx context.Context, snapshot *domain.CartSnapshot) error
}
