//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/Gunvolt24/wf_cart/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeCartItem - позиция каталога с уникальным sku.
func MakeCartItem(opts ...func(*domain.CartItem)) domain.CartItem {
	it := domain.CartItem{
		SKU:   "WF-" + UniqSuffix(),
		Name:  "Frog Tee",
		Price: domain.MoneyFromFloat(9.99),
		Color: "green",
		Size:  "M",
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// MakeFrameHello - сообщение о возможностях фреймов для сессии sessionID.
func MakeFrameHello(sessionID string) domain.FrameHello {
	return domain.FrameHello{
		SessionID: sessionID,
		Frames: map[domain.FrameTarget]domain.FrameCapabilities{
			domain.FrameSelf:   {},
			domain.FrameParent: {Branded: true},
		},
		Anchors: []string{"#cartCount", "#cartTotal"},
	}
}
