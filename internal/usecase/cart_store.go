package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
)

// ErrPersist - снимок корзины не удалось записать в хранилище.
// Состояние в памяти при этом уже изменено и отрисовано.
var ErrPersist = errors.New("cart persist failed")

// AddResult - сигнал "нужно уведомить" после добавления товара.
type AddResult struct {
	IsNew    bool // позиция появилась впервые
	Added    int  // сколько добавили этим вызовом
	Quantity int  // итоговое количество позиции
}

// Listener - подписчик на изменения корзины. Вызывается синхронно внутри мутации,
// поэтому не должен обращаться обратно к CartStore.
type Listener func(state domain.CartState)

// CartStore - владелец позиций корзины, итогов и их сохранения.
// Мутации сериализуются: пересчёт, отрисовка подписчиками и запись
// завершаются до начала следующей мутации.
type CartStore struct {
	storage ports.ClientStorage
	log     ports.Logger
	key     string
	now     func() time.Time
	reread  atomic.Bool

	mu        sync.Mutex
	state     domain.CartState
	listeners map[int]Listener
	nextID    int
}

// CartOption - настройка CartStore.
type CartOption func(*CartStore)

// WithRereadBeforeMutation - перечитывать хранилище перед каждой мутацией.
// Нужно, когда у ключа корзины может быть больше одного писателя.
func WithRereadBeforeMutation(on bool) CartOption {
	return func(s *CartStore) { s.reread.Store(on) }
}

// WithClock - источник времени для timestamp снимка.
func WithClock(now func() time.Time) CartOption {
	return func(s *CartStore) { s.now = now }
}

// WithStorageKey - ключ снимка в хранилище.
func WithStorageKey(key string) CartOption {
	return func(s *CartStore) { s.key = key }
}

// NewCartStore - пустая корзина; данные из хранилища подтягивает Load.
func NewCartStore(storage ports.ClientStorage, log ports.Logger, opts ...CartOption) *CartStore {
	s := &CartStore{
		storage:   storage,
		log:       log,
		key:       domain.StorageKey,
		now:       time.Now,
		state:     domain.CartState{Items: []domain.CartItem{}, NotificationsEnabled: true},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRereadBeforeMutation - включить перечитывание на живом store.
// Не ждёт текущую мутацию: следующая уже увидит новое значение.
func (s *CartStore) SetRereadBeforeMutation(on bool) { s.reread.Store(on) }

// Recalculate - чистый пересчёт итогов по позициям.
func Recalculate(items []domain.CartItem) (total domain.Money, count int) {
	for i := range items {
		total += items[i].Price.Mul(items[i].Quantity)
		count += items[i].Quantity
	}
	return total, count
}

// Load - гидратация из хранилища. Ошибка чтения или разбора не пробрасывается:
// корзина сбрасывается в пустую, а подписчики получают актуальное состояние.
func (s *CartStore) Load(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	s.recalculateLocked()
	s.publishLocked()
	return s.state.Clone()
}

// State - копия текущего состояния.
func (s *CartStore) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Recalculate - пересчитать итоги текущего состояния; повторный вызов ничего не меняет.
func (s *CartStore) Recalculate() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateLocked()
	return s.state.Clone()
}

// Republish - отдать подписчикам текущее состояние под блокировкой store,
// чтобы повторная отрисовка не обогнала идущую мутацию.
func (s *CartStore) Republish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked()
}

// Subscribe - подписка на изменения; возвращает функцию отписки.
func (s *CartStore) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SetNotificationsEnabled - включить/выключить всплывающие уведомления корзины.
func (s *CartStore) SetNotificationsEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.NotificationsEnabled = enabled
}

// AddItem - добавить товар: существующий sku увеличивает количество,
// новый добавляется в конец. quantity <= 0 трактуется как 1.
func (s *CartStore) AddItem(ctx context.Context, item domain.CartItem, quantity int) (AddResult, error) {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	res := AddResult{Added: quantity}
	if idx := s.state.Find(item.SKU); idx >= 0 {
		s.state.Items[idx].Quantity += quantity
		res.Quantity = s.state.Items[idx].Quantity
	} else {
		item.Quantity = quantity
		if item.Image == "" {
			item.Image = domain.DefaultImage(item.SKU)
		}
		s.state.Items = append(s.state.Items, item)
		res.IsNew = true
		res.Quantity = quantity
	}

	metrics.CartOps.WithLabelValues("add").Inc()
	return res, s.commitLocked(ctx)
}

// RemoveItem - удалить позицию; отсутствующий sku не ошибка.
func (s *CartStore) RemoveItem(ctx context.Context, sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
	return s.removeLocked(ctx, sku)
}

// UpdateItem - задать количество позиции. quantity <= 0 равносильно RemoveItem,
// отсутствующий sku оставляет корзину без изменений.
func (s *CartStore) UpdateItem(ctx context.Context, sku string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)

	if quantity <= 0 {
		return s.removeLocked(ctx, sku)
	}

	idx := s.state.Find(sku)
	if idx < 0 {
		return nil
	}
	s.state.Items[idx].Quantity = quantity

	metrics.CartOps.WithLabelValues("update").Inc()
	return s.commitLocked(ctx)
}

// ClearCart - очистить корзину.
func (s *CartStore) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []domain.CartItem{}
	metrics.CartOps.WithLabelValues("clear").Inc()
	return s.commitLocked(ctx)
}

// ------ вспомогательные функции ------

func (s *CartStore) removeLocked(ctx context.Context, sku string) error {
	idx := s.state.Find(sku)
	if idx < 0 {
		return nil
	}
	s.state.Items = append(s.state.Items[:idx], s.state.Items[idx+1:]...)

	metrics.CartOps.WithLabelValues("remove").Inc()
	return s.commitLocked(ctx)
}

// commitLocked - пересчёт, отрисовка подписчиками, запись в хранилище.
func (s *CartStore) commitLocked(ctx context.Context) error {
	s.recalculateLocked()
	s.publishLocked()
	return s.persistLocked(ctx)
}

func (s *CartStore) recalculateLocked() {
	s.state.Total, s.state.Count = Recalculate(s.state.Items)
}

func (s *CartStore) publishLocked() {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := s.state.Clone()
	for _, l := range s.listeners {
		l(snapshot)
	}
}

func (s *CartStore) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(domain.CartSnapshot{
		Items:     s.state.Items,
		Total:     s.state.Total,
		Count:     s.state.Count,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		metrics.CartPersistFailures.Inc()
		return fmt.Errorf("%w: marshal: %v", ErrPersist, err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(raw)); err != nil {
		metrics.CartPersistFailures.Inc()
		s.log.Warnf(ctx, "cart persist failed key=%s err=%v", s.key, err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// refreshLocked - перечитать хранилище перед мутацией, если так настроено.
func (s *CartStore) refreshLocked(ctx context.Context) {
	if !s.reread.Load() {
		return
	}
	s.loadLocked(ctx)
	s.recalculateLocked()
}

// loadLocked - чтение снимка; любые проблемы приводят к пустой корзине.
func (s *CartStore) loadLocked(ctx context.Context) {
	raw, found, err := s.storage.GetItem(ctx, s.key)
	switch {
	case err != nil:
		s.log.Warnf(ctx, "cart load failed key=%s err=%v (reset to empty)", s.key, err)
		s.resetLocked()
		return
	case !found || raw == "":
		s.state.Items = []domain.CartItem{}
		return
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warnf(ctx, "cart snapshot corrupted key=%s err=%v (reset to empty)", s.key, err)
		s.resetLocked()
		return
	}

	s.state.Items = mergeBySKU(snap.Items)
}

func (s *CartStore) resetLocked() {
	s.state.Items = []domain.CartItem{}
	metrics.CartOps.WithLabelValues("load_reset").Inc()
}

// mergeBySKU - одна позиция на sku; повреждённые количества выбрасываются.
func mergeBySKU(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := index[it.SKU]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.SKU] = len(out)
		out = append(out, it)
	}
	return out
}
