package render

import (
	"fmt"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

// DOM-якоря корзины. Классы .cart-* остались от старой вёрстки.
const (
	AnchorCount       = "#cartCount"
	AnchorTotal       = "#cartTotal"
	AnchorBadge       = ".cart-badge"
	AnchorCounter     = ".cart-counter"
	AnchorLegacyTotal = ".cart-total"
)

// Anchors - все якоря, которые обновляет Renderer.
var Anchors = []string{AnchorCount, AnchorTotal, AnchorBadge, AnchorCounter, AnchorLegacyTotal}

// Renderer - проекция состояния корзины на якоря документа.
// Повторный вызов с тем же состоянием даёт тот же документ.
type Renderer struct {
	doc ports.Document
}

func NewRenderer(doc ports.Document) *Renderer {
	return &Renderer{doc: doc}
}

// Render - обновить все присутствующие якоря. Оба якоря суммы
// (#cartTotal и .cart-total) скрываются у пустой корзины.
func (r *Renderer) Render(state domain.CartState) {
	total := TotalLabel(state.Total)
	count := fmt.Sprintf("%d", state.Count)
	empty := state.Count == 0

	r.set(AnchorCount, CountLabel(state.Count))
	r.setTotal(AnchorTotal, total, empty)

	r.set(AnchorBadge, count)
	r.set(AnchorCounter, count)
	r.setTotal(AnchorLegacyTotal, total, empty)
}

func (r *Renderer) set(anchor, text string) {
	if !r.doc.Has(anchor) {
		return
	}
	r.doc.SetText(anchor, text)
}

func (r *Renderer) setTotal(anchor, text string, hidden bool) {
	if !r.doc.Has(anchor) {
		return
	}
	r.doc.SetText(anchor, text)
	r.doc.SetHidden(anchor, hidden)
}

// CountLabel - "1 item" / "N items".
func CountLabel(count int) string {
	if count == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", count)
}

// TotalLabel - "$12.34".
func TotalLabel(total domain.Money) string {
	return "$" + total.String()
}
