package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/pkg/validate"
)

func fullAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		AddressLine1: "1 Lily Pad Ln",
		City:         "Dover",
		State:        "KS",
		ZipCode:      "66420",
	}
}

func TestMethods(t *testing.T) {
	if err := validate.Methods(domain.PaymentCash, domain.ShippingPickup); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	err := validate.Methods("", "")
	if !errors.Is(err, validate.ErrMissingMethod) || !strings.Contains(err.Error(), "payment method and shipping method") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validate.Methods(domain.PaymentPayPal, "  "); !errors.Is(err, validate.ErrMissingMethod) {
		t.Fatalf("blank shipping must be rejected, got %v", err)
	}
}

func TestAddress(t *testing.T) {
	if err := validate.Address(fullAddress()); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(a *domain.ShippingAddress)
		field string
	}{
		{"line1", func(a *domain.ShippingAddress) { a.AddressLine1 = " " }, "address line 1"},
		{"city", func(a *domain.ShippingAddress) { a.City = "" }, "city"},
		{"state", func(a *domain.ShippingAddress) { a.State = "" }, "state"},
		{"zip", func(a *domain.ShippingAddress) { a.ZipCode = "\t" }, "zip code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := fullAddress()
			tc.mut(&a)
			err := validate.Address(a)
			if !errors.Is(err, validate.ErrInvalidAddress) || !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected missing %s, got %v", tc.field, err)
			}
		})
	}

	a := fullAddress()
	a.AddressLine2 = ""
	if err := validate.Address(a); err != nil {
		t.Fatalf("address line 2 is optional, got %v", err)
	}
}

func TestCartItems(t *testing.T) {
	if err := validate.CartItems(nil); !errors.Is(err, validate.ErrEmptyCart) {
		t.Fatalf("empty cart: %v", err)
	}
	if err := validate.CartItems([]domain.CartItem{{SKU: "WF-1", Quantity: 1}}); err != nil {
		t.Fatalf("valid cart: %v", err)
	}
	for _, sku := range []string{"", "undefined", "  "} {
		err := validate.CartItems([]domain.CartItem{{SKU: "WF-1", Quantity: 1}, {SKU: sku, Quantity: 1}})
		if !errors.Is(err, validate.ErrInvalidCart) || !strings.Contains(err.Error(), "items[1]") {
			t.Fatalf("sku %q: expected ErrInvalidCart, got %v", sku, err)
		}
	}
}

func TestItem(t *testing.T) {
	ok := domain.CartItem{SKU: "WF-TS-001", Price: 999}

	tests := []struct {
		name    string
		item    domain.CartItem
		qty     int
		wantErr bool
	}{
		{"valid", ok, 2, false},
		{"default quantity", ok, 0, false},
		{"free item", domain.CartItem{SKU: "WF-GIFT"}, 1, false},
		{"blank sku", domain.CartItem{SKU: " ", Price: 1}, 1, true},
		{"negative price", domain.CartItem{SKU: "WF-1", Price: -1}, 1, true},
		{"negative quantity", ok, -3, true},
		{"huge quantity", ok, domain.MaxQuantity + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Item(tt.item, tt.qty)
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, validate.ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem, got %v", err)
			}
		})
	}
}
