package session

import (
	"context"
	"sync"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
)

var _ ports.FrameOutbox = (*Outbox)(nil)

// DefaultOutboxSize - сколько команд ждут страницу, прежде чем старые начнут выбрасываться.
const DefaultOutboxSize = 256

// Outbox - очередь команд для страницы. Страница забирает её целиком через Drain.
type Outbox struct {
	mu      sync.Mutex
	size    int
	cmds    []domain.FrameCommand
	dropped int
}

func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{size: size}
}

// Emit - добавить команду; при переполнении выбрасывается самая старая.
func (o *Outbox) Emit(_ context.Context, cmd domain.FrameCommand) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.cmds) >= o.size {
		o.cmds = o.cmds[1:]
		o.dropped++
	}
	o.cmds = append(o.cmds, cmd)
}

// Drain - забрать все команды в порядке появления.
func (o *Outbox) Drain() []domain.FrameCommand {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.cmds
	o.cmds = nil
	if out == nil {
		out = []domain.FrameCommand{}
	}
	return out
}

// Dropped - сколько команд потеряно из-за переполнения.
func (o *Outbox) Dropped() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}
