package validate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

// Проверка, что SnapshotValidator удовлетворяет интерфейсу ports.SnapshotValidator.
var _ ports.SnapshotValidator = (*SnapshotValidator)(nil)

// ErrInvalidSnapshot - базовая ошибка валидации сохранённого снимка корзины.
var ErrInvalidSnapshot = errors.New("cart snapshot validation failed")

// SnapshotValidator - проверка снимков, лежащих в клиентском хранилище.
type SnapshotValidator struct{}

func NewSnapshotValidator() *SnapshotValidator { return &SnapshotValidator{} }

// Validate - позиции корректны, sku не повторяются, итоги совпадают с пересчётом.
func (v *SnapshotValidator) Validate(_ context.Context, snap *domain.CartSnapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidSnapshot)
	}
	if snap.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidSnapshot)
	}

	seen := make(map[string]struct{}, len(snap.Items))
	var (
		total domain.Money
		count int
	)
	for i := range snap.Items {
		it := &snap.Items[i]
		idx := strconv.Itoa(i)

		if !ValidSKU(it.SKU) {
			return fmt.Errorf("%w: items[%s].sku is corrupted (%q)", ErrInvalidSnapshot, idx, it.SKU)
		}
		if _, dup := seen[it.SKU]; dup {
			return fmt.Errorf("%w: items[%s].sku %q is duplicated", ErrInvalidSnapshot, idx, it.SKU)
		}
		seen[it.SKU] = struct{}{}

		if it.Quantity < 1 {
			return fmt.Errorf("%w: items[%s].quantity must be >= 1", ErrInvalidSnapshot, idx)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: items[%s].price must be non-negative", ErrInvalidSnapshot, idx)
		}
		total += it.Price.Mul(it.Quantity)
		count += it.Quantity
	}

	if snap.Total != total {
		return fmt.Errorf("%w: total %s does not match items (%s)", ErrInvalidSnapshot, snap.Total, total)
	}
	if snap.Count != count {
		return fmt.Errorf("%w: count %d does not match items (%d)", ErrInvalidSnapshot, snap.Count, count)
	}
	return nil
}
