package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/notify"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/internal/render"
	"github.com/Gunvolt24/wf_cart/internal/usecase"
	"github.com/Gunvolt24/wf_cart/pkg/ctxmeta"
)

// Options - настройки рантайма сессии.
type Options struct {
	Checkout             usecase.CheckoutConfig
	Notify               notify.Options
	RereadBeforeMutation bool
	OutboxSize           int
}

// NotificationInfo - что страница может узнать об уведомлениях сессии.
type NotificationInfo struct {
	Tier    string `json:"tier"`
	Enabled bool   `json:"enabled"`
}

// Runtime - корзина одной сессии страницы: store, документ, уведомления, оформление.
// События корзины обрабатываются строго по одному.
type Runtime struct {
	id  string
	log ports.Logger

	mu sync.Mutex // одно событие корзины за раз

	store    *usecase.CartStore
	page     *render.Page
	renderer *render.Renderer
	outbox   *Outbox
	bridge   *notify.Bridge
	checkout *usecase.CheckoutOrchestrator

	unsubscribe func()
}

// NewRuntime - собрать рантайм и загрузить корзину из хранилища.
func NewRuntime(ctx context.Context, id string, storage ports.ClientStorage, api ports.StorefrontAPI, log ports.Logger, opts Options) *Runtime {
	ctx = ctxmeta.WithSessionID(ctx, id)

	outbox := NewOutbox(opts.OutboxSize)
	bridge := notify.NewBridge(notify.Fallback(outbox), log, opts.Notify)
	page := render.NewPage()
	renderer := render.NewRenderer(page)

	store := usecase.NewCartStore(storage, log, usecase.WithRereadBeforeMutation(opts.RereadBeforeMutation))
	view := &checkoutView{out: outbox, bridge: bridge}

	r := &Runtime{
		id:       id,
		log:      log,
		store:    store,
		page:     page,
		renderer: renderer,
		outbox:   outbox,
		bridge:   bridge,
		checkout: usecase.NewCheckoutOrchestrator(store, storage, api, view, log, opts.Checkout),
	}
	r.unsubscribe = store.Subscribe(renderer.Render)

	st := store.Load(ctx)
	log.Debugf(ctx, "session loaded items=%d count=%d", len(st.Items), st.Count)
	return r
}

func (r *Runtime) ID() string { return r.id }

// Hello - страница сообщила о своих фреймах и якорях.
// Приёмник уведомлений выбирается заново, документ перерисовывается.
func (r *Runtime) Hello(ctx context.Context, hello domain.FrameHello) string {
	ctx = r.ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.page.Declare(hello.Anchors...)
	r.bridge.SetPort(notify.Discover(&hello, r.outbox))
	r.store.Republish()

	tier := r.bridge.Tier()
	r.log.Infof(ctx, "frame hello anchors=%d tier=%s", len(hello.Anchors), tier)
	return tier
}

// AddItem - добавить товар и запустить пару тостов.
// ErrPersist возвращается вместе с уже изменённым состоянием.
func (r *Runtime) AddItem(ctx context.Context, item domain.CartItem, quantity int) (domain.CartState, error) {
	ctx = r.ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.store.AddItem(ctx, item, quantity)
	if err != nil && !errors.Is(err, usecase.ErrPersist) {
		return r.store.State(), err
	}

	state := r.store.State()
	if state.NotificationsEnabled {
		if idx := state.Find(item.SKU); idx >= 0 {
			item = state.Items[idx]
		}
		r.bridge.ItemAdded(ctx, item, res, r.store.State)
	}
	return state, err
}

func (r *Runtime) RemoveItem(ctx context.Context, sku string) (domain.CartState, error) {
	ctx = r.ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.RemoveItem(ctx, sku)
	return r.store.State(), err
}

func (r *Runtime) UpdateItem(ctx context.Context, sku string, quantity int) (domain.CartState, error) {
	ctx = r.ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.UpdateItem(ctx, sku, quantity)
	return r.store.State(), err
}

func (r *Runtime) ClearCart(ctx context.Context) (domain.CartState, error) {
	ctx = r.ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.ClearCart(ctx)
	return r.store.State(), err
}

// SetNotificationsEnabled - включить/выключить тосты корзины.
func (r *Runtime) SetNotificationsEnabled(enabled bool) domain.CartState {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.SetNotificationsEnabled(enabled)
	return r.store.State()
}

// Cart - текущее состояние корзины.
func (r *Runtime) Cart() domain.CartState { return r.store.State() }

// Page - текущие значения якорей документа.
func (r *Runtime) Page() map[string]render.Element { return r.page.Snapshot() }

// Notifications - выбранный уровень уведомлений.
func (r *Runtime) Notifications() NotificationInfo {
	return NotificationInfo{Tier: r.bridge.Tier(), Enabled: r.store.State().NotificationsEnabled}
}

// Drain - забрать команды для страницы.
func (r *Runtime) Drain() []domain.FrameCommand { return r.outbox.Drain() }

// StartCheckout - открыть оформление заказа.
func (r *Runtime) StartCheckout(ctx context.Context) usecase.Outcome {
	return r.checkout.Start(r.ctx(ctx))
}

// SelectCheckout - сохранить выбор способов и адреса.
func (r *Runtime) SelectCheckout(sel usecase.Selection) usecase.CheckoutSnapshot {
	return r.checkout.Select(sel)
}

// SubmitCheckout - отправить заказ. Не держит блокировку событий корзины:
// повторный вызов во время отправки сразу получает отказ in_flight.
func (r *Runtime) SubmitCheckout(ctx context.Context) usecase.Outcome {
	return r.checkout.Submit(r.ctx(ctx))
}

// SignIn - страница сообщила о вошедшем пользователе.
func (r *Runtime) SignIn(ctx context.Context, user domain.User) error {
	return r.checkout.SignIn(r.ctx(ctx), user)
}

// SignOut - пользователь вышел; оформление снова потребует логина.
func (r *Runtime) SignOut(ctx context.Context) error {
	return r.checkout.SignOut(r.ctx(ctx))
}

// User - вошедший пользователь, если есть.
func (r *Runtime) User(ctx context.Context) (*domain.User, bool) {
	return r.checkout.User(r.ctx(ctx))
}

// Checkout - состояние оформления.
func (r *Runtime) Checkout() usecase.CheckoutSnapshot { return r.checkout.Snapshot() }

// PendingCheckout - оформление ждёт возвращения пользователя после логина.
func (r *Runtime) PendingCheckout(ctx context.Context) bool {
	return r.checkout.PendingCheckout(r.ctx(ctx))
}

// MarkShared - у ключа корзины сессии появился второй писатель
// (вытесненный рантайм и его преемник). Каждая мутация сначала перечитывает хранилище.
func (r *Runtime) MarkShared() {
	r.store.SetRereadBeforeMutation(true)
}

// Close - отписать рендер; отложенные тосты уходят в уже никому не нужный outbox.
// Запрос, успевший получить рантайм до вытеснения, может ещё писать в хранилище,
// поэтому закрытый рантайм тоже перечитывает его перед мутацией.
func (r *Runtime) Close() {
	r.MarkShared()
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func (r *Runtime) ctx(ctx context.Context) context.Context {
	return ctxmeta.WithSessionID(ctx, r.id)
}
