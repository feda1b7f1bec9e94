package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/pkg/validate"
)

func validSnapshot() *domain.CartSnapshot {
	return &domain.CartSnapshot{
		Items: []domain.CartItem{
			{SKU: "WF-TS-001", Name: "Frog Tee", Price: 999, Quantity: 2},
			{SKU: "WF-MUG", Name: "Mug", Price: 500, Quantity: 1},
		},
		Total:     2498,
		Count:     3,
		Timestamp: 1_700_000_000_000,
	}
}

func TestSnapshotValidator_Validate(t *testing.T) {
	v := validate.NewSnapshotValidator()
	ctx := context.Background()

	t.Run("valid snapshot", func(t *testing.T) {
		if err := v.Validate(ctx, validSnapshot()); err != nil {
			t.Fatalf("expected valid snapshot, got: %v", err)
		}
	})

	t.Run("empty cart is valid", func(t *testing.T) {
		if err := v.Validate(ctx, &domain.CartSnapshot{Timestamp: 1}); err != nil {
			t.Fatalf("expected valid, got: %v", err)
		}
	})

	cases := []struct {
		name string
		make func() *domain.CartSnapshot
		msg  string
	}{
		{"nil", func() *domain.CartSnapshot { return nil }, "snapshot is nil"},
		{"no timestamp", func() *domain.CartSnapshot { s := validSnapshot(); s.Timestamp = 0; return s }, "timestamp"},
		{"undefined sku", func() *domain.CartSnapshot { s := validSnapshot(); s.Items[1].SKU = "undefined"; return s }, "items[1].sku is corrupted"},
		{"duplicate sku", func() *domain.CartSnapshot { s := validSnapshot(); s.Items[1].SKU = "WF-TS-001"; return s }, "duplicated"},
		{"zero quantity", func() *domain.CartSnapshot { s := validSnapshot(); s.Items[0].Quantity = 0; return s }, "quantity"},
		{"negative price", func() *domain.CartSnapshot { s := validSnapshot(); s.Items[0].Price = -1; return s }, "price"},
		{"total drift", func() *domain.CartSnapshot { s := validSnapshot(); s.Total = 2500; return s }, "total 25.00 does not match items (24.98)"},
		{"count drift", func() *domain.CartSnapshot { s := validSnapshot(); s.Count = 2; return s }, "count 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(ctx, tc.make())
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, validate.ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected %q in %q", tc.msg, err.Error())
			}
		})
	}
}
