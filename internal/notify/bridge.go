package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/internal/render"
	"github.com/Gunvolt24/wf_cart/internal/usecase"
)

// DefaultStatusDelay - пауза между тостом "добавлено" и тостом со статусом корзины.
const DefaultStatusDelay = 1500 * time.Millisecond

// Scheduler - отложенный запуск; по умолчанию time.AfterFunc.
type Scheduler func(d time.Duration, f func())

// Options - настройки Bridge.
type Options struct {
	StatusDelay    time.Duration
	AddedDuration  time.Duration
	StatusDuration time.Duration
	Scheduler      Scheduler
}

// Bridge - уведомления корзины поверх выбранного NotificationPort.
type Bridge struct {
	log  ports.Logger
	opts Options

	mu   sync.RWMutex
	port ports.NotificationPort

	pending sync.WaitGroup
}

func NewBridge(port ports.NotificationPort, log ports.Logger, opts Options) *Bridge {
	if opts.StatusDelay <= 0 {
		opts.StatusDelay = DefaultStatusDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Bridge{port: port, log: log, opts: opts}
}

// SetPort - заменить приёмник (после нового FrameHello).
func (b *Bridge) SetPort(port ports.NotificationPort) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.port = port
}

// Tier - текущий уровень приёмника.
func (b *Bridge) Tier() string {
	return b.current().Tier()
}

func (b *Bridge) current() ports.NotificationPort {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.port
}

// Notify - произвольное уведомление через текущий приёмник.
func (b *Bridge) Notify(ctx context.Context, level domain.ToastLevel, title, message string) {
	b.current().Notify(ctx, domain.Toast{Level: level, Title: title, Message: message})
}

// ItemAdded - два тоста на успешное добавление: сразу "добавлено",
// затем через StatusDelay статус корзины. Статус читается в момент показа.
func (b *Bridge) ItemAdded(ctx context.Context, item domain.CartItem, res usecase.AddResult, status func() domain.CartState) {
	b.current().Notify(ctx, domain.Toast{
		Level:      domain.ToastSuccess,
		Title:      "Added to Cart",
		Message:    AddedMessage(item.Name, res),
		DurationMs: int(b.opts.AddedDuration / time.Millisecond),
	})

	detached := context.WithoutCancel(ctx)
	b.pending.Add(1)
	b.opts.Scheduler(b.opts.StatusDelay, func() {
		defer b.pending.Done()
		st := status()
		if !st.NotificationsEnabled {
			b.log.Debugf(detached, "cart status toast skipped: notifications disabled")
			return
		}
		b.current().Notify(detached, domain.Toast{
			Level:      domain.ToastInfo,
			Title:      "Cart",
			Message:    StatusMessage(st.Count, st.Total),
			DurationMs: int(b.opts.StatusDuration / time.Millisecond),
		})
	})
}

// Wait - дождаться отложенных тостов (при остановке сессии и в тестах).
func (b *Bridge) Wait() { b.pending.Wait() }

// AddedMessage - текст тоста о добавлении товара.
func AddedMessage(name string, res usecase.AddResult) string {
	if name == "" {
		name = "Item"
	}
	switch {
	case !res.IsNew:
		return fmt.Sprintf("%s quantity updated to %d", name, res.Quantity)
	case res.Added > 1:
		return fmt.Sprintf("%d × %s added to cart", res.Added, name)
	default:
		return name + " added to cart"
	}
}

// StatusMessage - "<count> item(s) • $<total>" или "Cart is empty".
func StatusMessage(count int, total domain.Money) string {
	if count <= 0 {
		return "Cart is empty"
	}
	return render.CountLabel(count) + " • " + render.TotalLabel(total)
}
