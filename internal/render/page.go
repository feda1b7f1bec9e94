package render

import (
	"sort"
	"sync"

	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var _ ports.Document = (*Page)(nil)

// Element - состояние одного якоря.
type Element struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
}

// Page - документ страницы в памяти. Якоря объявляет сама страница (FrameHello),
// а затем забирает их текущее состояние через Snapshot.
type Page struct {
	mu       sync.RWMutex
	elements map[string]Element
}

func NewPage(anchors ...string) *Page {
	p := &Page{elements: make(map[string]Element, len(anchors))}
	p.Declare(anchors...)
	return p
}

// Declare - добавить якоря; уже объявленные сохраняют своё состояние.
func (p *Page) Declare(anchors ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range anchors {
		if a == "" {
			continue
		}
		if _, ok := p.elements[a]; !ok {
			p.elements[a] = Element{}
		}
	}
}

func (p *Page) Has(anchor string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.elements[anchor]
	return ok
}

func (p *Page) SetText(anchor, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[anchor]; ok {
		el.Text = text
		p.elements[anchor] = el
	}
}

func (p *Page) SetHidden(anchor string, hidden bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[anchor]; ok {
		el.Hidden = hidden
		p.elements[anchor] = el
	}
}

// Snapshot - копия всех якорей.
func (p *Page) Snapshot() map[string]Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Element, len(p.elements))
	for k, v := range p.elements {
		out[k] = v
	}
	return out
}

// Anchors - объявленные якоря в алфавитном порядке.
func (p *Page) Anchors() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.elements))
	for k := range p.elements {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
