package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"github.com/Gunvolt24/wf_cart/pkg/validate"
)

// Stage - этап оформления заказа.
type Stage string

const (
	StageIdle              Stage = "idle"
	StageMethodSelection   Stage = "method_selection"
	StageAddressResolution Stage = "address_resolution"
	StagePreSubmit         Stage = "pre_submit_validation"
	StageSubmitting        Stage = "submitting"
	StageRedirectedLogin   Stage = "redirected_login"
	StageRedirectedReceipt Stage = "redirected_receipt"
)

// Terminal - после этого этапа страница уходит по редиректу.
func (s Stage) Terminal() bool {
	return s == StageRedirectedLogin || s == StageRedirectedReceipt
}

// RejectReason - причина отказа; отказ не завершает оформление.
type RejectReason string

const (
	ReasonValidation  RejectReason = "validation"
	ReasonInvalidCart RejectReason = "invalid_cart"
	ReasonTransport   RejectReason = "transport"
	ReasonBusiness    RejectReason = "business"
	ReasonInFlight    RejectReason = "in_flight"
)

// ErrInvalidUser - запись о пользователе без идентификатора.
var ErrInvalidUser = errors.New("user id is required")

// Outcome - результат шага оформления. Отказы возвращаются значением, а не ошибкой.
type Outcome struct {
	Stage       Stage        `json:"stage"`
	Reason      RejectReason `json:"reason,omitempty"`
	Message     string       `json:"message,omitempty"`
	OrderID     string       `json:"orderId,omitempty"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
	Err         error        `json:"-"`
}

// Rejected - шаг отклонён, введённые значения сохранены.
func (o Outcome) Rejected() bool { return o.Reason != "" }

// Terminal - оформление завершено редиректом.
func (o Outcome) Terminal() bool { return o.Stage.Terminal() }

// Selection - что покупатель выбрал в форме оформления.
type Selection struct {
	Payment       domain.PaymentMethod   `json:"paymentMethod"`
	Shipping      domain.ShippingMethod  `json:"shippingMethod"`
	AddressMode   domain.AddressMode     `json:"addressMode,omitempty"`
	CustomAddress domain.ShippingAddress `json:"customAddress"`
}

// CheckoutSnapshot - текущее состояние оформления для страницы.
type CheckoutSnapshot struct {
	Stage          Stage                   `json:"stage"`
	Selection      Selection               `json:"selection"`
	ProfileAddress *domain.ShippingAddress `json:"profileAddress,omitempty"`
	InFlight       bool                    `json:"inFlight"`
}

// CheckoutConfig - адреса страниц и ключи клиентского хранилища.
type CheckoutConfig struct {
	LoginURL   string // куда уводить неавторизованного пользователя
	ReceiptURL string // страница чека, к ней добавляется orderId
	ReturnURL  string // куда вернуть пользователя после логина
	UserKey    string // ключ записи о пользователе
	PendingKey string // флаг "оформление ждёт логина"
}

// DefaultCheckoutConfig - значения по умолчанию.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		LoginURL:   "/login",
		ReceiptURL: "/receipt",
		ReturnURL:  "/cart",
		UserKey:    "user",
		PendingKey: "pendingCheckout",
	}
}

const (
	msgInFlight        = "Your order is already being submitted"
	msgNoProfileAddr   = "No shipping address on file. Please enter a shipping address."
	msgEmptyCart       = "Your cart is empty"
	msgInvalidCart     = "Your cart contains an invalid item. Please remove it and try again."
	msgTransport       = "Could not reach the store. Please try again."
	msgBusinessDefault = "Order could not be placed"
)

// cart - то, что оформлению нужно от корзины.
type cart interface {
	State() domain.CartState
	ClearCart(ctx context.Context) error
}

// CheckoutOrchestrator - конечный автомат оформления заказа:
// авторизация, выбор способов, адрес, проверка корзины, отправка, редирект на чек.
type CheckoutOrchestrator struct {
	cart    cart
	storage ports.ClientStorage
	api     ports.StorefrontAPI
	view    ports.CheckoutView
	log     ports.Logger
	cfg     CheckoutConfig

	inFlight atomic.Bool

	mu           sync.Mutex
	stage        Stage
	user         *domain.User
	profile      *domain.UserProfileAddress
	profileReady bool
	sel          Selection
}

// NewCheckoutOrchestrator - DI-конструктор.
func NewCheckoutOrchestrator(
	c cart,
	storage ports.ClientStorage,
	api ports.StorefrontAPI,
	view ports.CheckoutView,
	log ports.Logger,
	cfg CheckoutConfig,
) *CheckoutOrchestrator {
	def := DefaultCheckoutConfig()
	if cfg.UserKey == "" {
		cfg.UserKey = def.UserKey
	}
	if cfg.PendingKey == "" {
		cfg.PendingKey = def.PendingKey
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = def.LoginURL
	}
	if cfg.ReceiptURL == "" {
		cfg.ReceiptURL = def.ReceiptURL
	}
	return &CheckoutOrchestrator{
		cart:    c,
		storage: storage,
		api:     api,
		view:    view,
		log:     log,
		cfg:     cfg,
		stage:   StageIdle,
	}
}

// Start - открыть оформление. Без авторизованного пользователя ставит флаг
// ожидающего оформления и уводит на логин; иначе загружает адрес профиля
// (один раз за сессию оформления) и переходит к выбору способов.
func (o *CheckoutOrchestrator) Start(ctx context.Context) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startLocked(ctx)
}

// Select - запомнить выбор покупателя. Значения переживают любые отказы.
func (o *CheckoutOrchestrator) Select(sel Selection) CheckoutSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sel.AddressMode == "" {
		sel.AddressMode = o.sel.AddressMode
	}
	o.sel = sel
	return o.snapshotLocked()
}

// Snapshot - состояние оформления.
func (o *CheckoutOrchestrator) Snapshot() CheckoutSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// PendingCheckout - пользователь был отправлен на логин посреди оформления.
func (o *CheckoutOrchestrator) PendingCheckout(ctx context.Context) bool {
	_, found, err := o.storage.GetItem(ctx, o.cfg.PendingKey)
	if err != nil {
		o.log.Warnf(ctx, "read pending checkout flag failed: %v", err)
		return false
	}
	return found
}

// SignIn - запомнить вошедшего пользователя в клиентском хранилище.
// Оформление начинается заново: адрес профиля будет загружен для нового пользователя.
func (o *CheckoutOrchestrator) SignIn(ctx context.Context, user domain.User) error {
	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" {
		return ErrInvalidUser
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.storage.SetItem(ctx, o.cfg.UserKey, string(raw)); err != nil {
		return fmt.Errorf("store user record: %w", err)
	}
	o.resetLocked()
	o.log.Infof(ctx, "user signed in user=%s", user.ID)
	return nil
}

// SignOut - удалить запись пользователя; следующий Start уведёт на логин.
func (o *CheckoutOrchestrator) SignOut(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.storage.RemoveItem(ctx, o.cfg.UserKey); err != nil {
		return fmt.Errorf("remove user record: %w", err)
	}
	o.resetLocked()
	o.log.Infof(ctx, "user signed out")
	return nil
}

// User - вошедший пользователь из клиентского хранилища.
func (o *CheckoutOrchestrator) User(ctx context.Context) (*domain.User, bool) {
	return o.readUser(ctx)
}

// Submit - проверить выбор, адрес и корзину, затем отправить заказ.
// Повторный Submit, пока первый не завершился, отклоняется.
func (o *CheckoutOrchestrator) Submit(ctx context.Context) Outcome {
	if !o.inFlight.CompareAndSwap(false, true) {
		metrics.CheckoutOutcomes.WithLabelValues(string(StageSubmitting), string(ReasonInFlight)).Inc()
		return Outcome{Stage: StageSubmitting, Reason: ReasonInFlight, Message: msgInFlight}
	}
	defer o.inFlight.Store(false)

	o.mu.Lock()
	payload, out, ok := o.prepareLocked(ctx)
	if !ok {
		o.mu.Unlock()
		return out
	}
	o.stage = StageSubmitting
	o.mu.Unlock()

	// без блокировки: Snapshot и Select доступны во время отправки
	o.view.SetBusy(ctx, true)
	res, err := o.api.AddOrder(ctx, payload)
	o.view.SetBusy(ctx, false)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.log.Errorf(ctx, "add order failed customer=%s err=%v", payload.CustomerID, err)
		return o.rejectLocked(ctx, StageSubmitting, ReasonTransport, msgTransport, err)
	}
	if res == nil || !res.Success {
		msg := msgBusinessDefault
		if res != nil && strings.TrimSpace(res.Error) != "" {
			msg = res.Error
		}
		o.log.Warnf(ctx, "order rejected by store customer=%s reason=%q", payload.CustomerID, msg)
		return o.rejectLocked(ctx, StageSubmitting, ReasonBusiness, msg, nil)
	}

	return o.completeLocked(ctx, res.OrderID, payload.CustomerID)
}

// ------ вспомогательные функции ------

func (o *CheckoutOrchestrator) startLocked(ctx context.Context) Outcome {
	if o.stage.Terminal() {
		o.resetLocked()
	}

	user, ok := o.readUser(ctx)
	if !ok {
		return o.redirectToLoginLocked(ctx)
	}
	o.user = user

	if err := o.storage.RemoveItem(ctx, o.cfg.PendingKey); err != nil {
		o.log.Warnf(ctx, "clear pending checkout flag failed: %v", err)
	}

	if !o.profileReady {
		o.loadProfileLocked(ctx)
	}
	if o.sel.AddressMode == "" {
		o.sel.AddressMode = domain.AddressCustom
		if o.profile.HasAddress() {
			o.sel.AddressMode = domain.AddressProfile
		}
	}

	o.stage = StageMethodSelection
	return Outcome{Stage: StageMethodSelection}
}

func (o *CheckoutOrchestrator) readUser(ctx context.Context) (*domain.User, bool) {
	raw, found, err := o.storage.GetItem(ctx, o.cfg.UserKey)
	if err != nil {
		o.log.Warnf(ctx, "read user record failed: %v", err)
		return nil, false
	}
	if !found || raw == "" {
		return nil, false
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		o.log.Warnf(ctx, "user record is not valid json: %v", err)
		return nil, false
	}
	if strings.TrimSpace(u.ID) == "" {
		return nil, false
	}
	return &u, true
}

func (o *CheckoutOrchestrator) redirectToLoginLocked(ctx context.Context) Outcome {
	if err := o.storage.SetItem(ctx, o.cfg.PendingKey, "true"); err != nil {
		o.log.Warnf(ctx, "set pending checkout flag failed: %v", err)
	}
	if o.cfg.ReturnURL != "" {
		if err := o.api.SetRedirect(ctx, o.cfg.ReturnURL); err != nil {
			o.log.Warnf(ctx, "set_redirect failed (ignored): %v", err)
		}
	}
	o.view.Redirect(ctx, o.cfg.LoginURL)
	o.stage = StageRedirectedLogin

	metrics.CheckoutOutcomes.WithLabelValues(string(StageRedirectedLogin), "").Inc()
	return Outcome{Stage: StageRedirectedLogin, RedirectURL: o.cfg.LoginURL}
}

// loadProfileLocked - адрес профиля; сбой загрузки равен отсутствию адреса.
func (o *CheckoutOrchestrator) loadProfileLocked(ctx context.Context) {
	o.profileReady = true
	profile, err := o.api.FetchUserAddress(ctx, o.user.ID)
	if err != nil {
		o.log.Warnf(ctx, "fetch profile address failed user=%s err=%v", o.user.ID, err)
		o.profile = nil
		return
	}
	if profile != nil && profile.Error != "" {
		o.log.Infof(ctx, "profile address unavailable user=%s: %s", o.user.ID, profile.Error)
	}
	o.profile = profile
}

// prepareLocked - этапы от выбора способов до готового payload.
func (o *CheckoutOrchestrator) prepareLocked(ctx context.Context) (*domain.OrderPayload, Outcome, bool) {
	if o.stage == StageIdle || o.stage.Terminal() {
		if out := o.startLocked(ctx); out.Stage != StageMethodSelection {
			return nil, out, false
		}
	}

	if err := validate.Methods(o.sel.Payment, o.sel.Shipping); err != nil {
		return nil, o.rejectLocked(ctx, StageMethodSelection, ReasonValidation, userMessage(err, validate.ErrMissingMethod), err), false
	}

	o.stage = StageAddressResolution
	addr, out, ok := o.resolveAddressLocked(ctx)
	if !ok {
		return nil, out, false
	}

	o.stage = StagePreSubmit
	state := o.cart.State()
	if err := validate.CartItems(state.Items); err != nil {
		if errors.Is(err, validate.ErrEmptyCart) {
			return nil, o.rejectLocked(ctx, StagePreSubmit, ReasonValidation, msgEmptyCart, err), false
		}
		o.log.Warnf(ctx, "cart failed pre-submit validation: %v", err)
		return nil, o.rejectLocked(ctx, StagePreSubmit, ReasonInvalidCart, msgInvalidCart, err), false
	}

	return buildPayload(o.user.ID, o.sel, state, addr), Outcome{}, true
}

// resolveAddressLocked - адрес доставки по выбранному режиму.
// Самовывозу адрес не нужен. Профиль без адреса переключает форму на ручной ввод.
func (o *CheckoutOrchestrator) resolveAddressLocked(ctx context.Context) (*domain.ShippingAddress, Outcome, bool) {
	if !o.sel.Shipping.NeedsAddress() {
		return nil, Outcome{}, true
	}

	if o.sel.AddressMode != domain.AddressCustom {
		if o.profile.HasAddress() {
			addr := o.profile.Shipping()
			if err := validate.Address(addr); err == nil {
				return &addr, Outcome{}, true
			}
		}
		o.sel.AddressMode = domain.AddressCustom
		o.view.SwitchAddressMode(ctx, domain.AddressCustom, msgNoProfileAddr)
		return nil, o.rejectLocked(ctx, StageAddressResolution, ReasonValidation, msgNoProfileAddr, validate.ErrInvalidAddress), false
	}

	addr := o.sel.CustomAddress.Trimmed()
	if err := validate.Address(addr); err != nil {
		return nil, o.rejectLocked(ctx, StageAddressResolution, ReasonValidation,
			"Please complete the shipping address: "+userMessage(err, validate.ErrInvalidAddress), err), false
	}
	return &addr, Outcome{}, true
}

// rejectLocked - показать ошибку и вернуть форму к выбору; введённое не сбрасывается.
func (o *CheckoutOrchestrator) rejectLocked(ctx context.Context, at Stage, reason RejectReason, msg string, err error) Outcome {
	o.stage = StageMethodSelection
	o.view.ShowError(ctx, msg)
	metrics.CheckoutOutcomes.WithLabelValues(string(at), string(reason)).Inc()
	return Outcome{Stage: at, Reason: reason, Message: msg, Err: err}
}

func (o *CheckoutOrchestrator) completeLocked(ctx context.Context, orderID, customerID string) Outcome {
	if err := o.cart.ClearCart(ctx); err != nil {
		// корзина в памяти уже пуста, не сохранилась только её запись
		o.log.Warnf(ctx, "clear cart after order %s: %v", orderID, err)
	}

	receipt := o.receiptURL(orderID)
	o.view.Close(ctx)
	o.view.Redirect(ctx, receipt)
	o.stage = StageRedirectedReceipt

	o.log.Infof(ctx, "order placed order_id=%s customer=%s", orderID, customerID)
	metrics.CheckoutOutcomes.WithLabelValues(string(StageRedirectedReceipt), "").Inc()
	return Outcome{Stage: StageRedirectedReceipt, OrderID: orderID, RedirectURL: receipt}
}

func (o *CheckoutOrchestrator) receiptURL(orderID string) string {
	u, err := url.Parse(o.cfg.ReceiptURL)
	if err != nil {
		return o.cfg.ReceiptURL + "?orderId=" + url.QueryEscape(orderID)
	}
	q := u.Query()
	q.Set("orderId", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}

func (o *CheckoutOrchestrator) resetLocked() {
	o.stage = StageIdle
	o.user = nil
	o.profile = nil
	o.profileReady = false
	o.sel = Selection{}
}

func (o *CheckoutOrchestrator) snapshotLocked() CheckoutSnapshot {
	snap := CheckoutSnapshot{
		Stage:     o.stage,
		Selection: o.sel,
		InFlight:  o.inFlight.Load(),
	}
	if o.profile.HasAddress() {
		addr := o.profile.Shipping()
		snap.ProfileAddress = &addr
	}
	return snap
}

// buildPayload - массивы параллельны порядку позиций корзины.
func buildPayload(customerID string, sel Selection, state domain.CartState, addr *domain.ShippingAddress) *domain.OrderPayload {
	p := &domain.OrderPayload{
		CustomerID:      customerID,
		ItemIDs:         make([]string, 0, len(state.Items)),
		Quantities:      make([]int, 0, len(state.Items)),
		Colors:          make([]*string, 0, len(state.Items)),
		Sizes:           make([]*string, 0, len(state.Items)),
		PaymentMethod:   sel.Payment,
		ShippingMethod:  sel.Shipping,
		Total:           state.Total,
		ShippingAddress: addr,
	}
	for _, it := range state.Items {
		p.ItemIDs = append(p.ItemIDs, it.SKU)
		p.Quantities = append(p.Quantities, it.Quantity)
		p.Colors = append(p.Colors, optional(it.Color))
		p.Sizes = append(p.Sizes, optional(it.Size))
	}
	return p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// userMessage - текст ошибки без префикса sentinel-ошибки.
func userMessage(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
