package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

// SnapshotFromJSON - строгий разбор снимка корзины и его валидация.
func SnapshotFromJSON(ctx context.Context, validator ports.SnapshotValidator, raw []byte) (*domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	if err := validator.Validate(ctx, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
