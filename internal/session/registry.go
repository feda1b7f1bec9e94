package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/cache/memory"
	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/pkg/ctxmeta"
)

// ErrInvalidFrameMessage - сообщение о фреймах не разобралось или без session id.
// Такое сообщение бессмысленно переобрабатывать.
var ErrInvalidFrameMessage = errors.New("invalid frame message")

// Factory - создание рантайма для новой сессии.
type Factory func(ctx context.Context, sessionID string) *Runtime

// NewFactory - фабрика рантаймов поверх общего хранилища и API магазина.
func NewFactory(provider ports.ClientStorageProvider, api ports.StorefrontAPI, log ports.Logger, opts Options) Factory {
	return func(ctx context.Context, sessionID string) *Runtime {
		return NewRuntime(ctx, sessionID, provider.Scope(sessionID), api, log, opts)
	}
}

// retireWindow - сколько помнить вытесненный ключ, если TTL сессий не задан.
const retireWindow = time.Minute

// Registry - рантаймы сессий в памяти: LRU по числу сессий и TTL по простою.
// Вытесненная сессия восстанавливается из хранилища при следующем обращении.
//
// Запрос, получивший рантайм до вытеснения, продолжает с ним работать, поэтому
// у ключа корзины какое-то время два писателя. Оба перечитывают хранилище
// перед каждой мутацией.
type Registry struct {
	cache   *memory.LRUCacheTTL[*Runtime]
	factory Factory
	log     ports.Logger
	window  time.Duration
	now     func() time.Time

	mu      sync.Mutex
	retired map[string]time.Time // ключ -> момент вытеснения
}

func NewRegistry(capacity int, ttl time.Duration, factory Factory, log ports.Logger) *Registry {
	r := &Registry{
		factory: factory,
		log:     log,
		window:  ttl,
		now:     time.Now,
		retired: make(map[string]time.Time),
	}
	if r.window <= 0 {
		r.window = retireWindow
	}
	r.cache = memory.NewLRUCacheTTL[*Runtime](capacity, ttl, func(_ string, rt *Runtime) {
		rt.Close()
	})
	// под блокировкой кэша: до того как под ключом появится преемник
	r.cache.SetRemoveHook(func(key string, rt *Runtime) {
		rt.MarkShared()
		r.retire(key)
	})
	return r
}

// Get - рантайм, если сессия уже в памяти.
func (r *Registry) Get(sessionID string) (*Runtime, bool) {
	return r.cache.Get(sessionID)
}

// GetOrCreate - рантайм сессии; новый загружает корзину из хранилища.
func (r *Registry) GetOrCreate(ctx context.Context, sessionID string) *Runtime {
	rt, created := r.cache.GetOrCreate(sessionID, func() *Runtime {
		shared := r.takeRetired(sessionID)
		// загрузку разделяют все ждущие запросы: отмена первого не должна её обрывать
		rt := r.factory(context.WithoutCancel(ctx), sessionID)
		if shared {
			rt.MarkShared()
		}
		return rt
	})
	if created {
		r.log.Debugf(ctxmeta.WithSessionID(ctx, sessionID), "session runtime created")
	}
	return rt
}

// Delete - выгрузить сессию из памяти; данные в хранилище остаются.
func (r *Registry) Delete(sessionID string) bool {
	return r.cache.Delete(sessionID)
}

// Len - число сессий в памяти.
func (r *Registry) Len() int { return r.cache.Len() }

// Run - периодическая очистка протухших сессий до отмены ctx.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.cache.Sweep(); n > 0 {
				r.log.Infof(ctx, "session sweep removed=%d active=%d", n, r.cache.Len())
			}
			r.forgetRetired()
		}
	}
}

// HandleFrameMessage - применить FrameHello, пришедший из шины (Kafka).
// sessionID - ключ сообщения; если он задан, payload обязан говорить о той же сессии.
func (r *Registry) HandleFrameMessage(ctx context.Context, sessionID string, raw []byte) error {
	hello, err := DecodeFrameHello(raw)
	if err != nil {
		return err
	}
	if key := strings.TrimSpace(sessionID); key != "" && key != hello.SessionID {
		return fmt.Errorf("%w: key %q does not match sessionId %q", ErrInvalidFrameMessage, key, hello.SessionID)
	}
	r.GetOrCreate(ctx, hello.SessionID).Hello(ctx, *hello)
	return nil
}

// DecodeFrameHello - строгий разбор FrameHello: без лишних полей и мусора после объекта.
func DecodeFrameHello(raw []byte) (*domain.FrameHello, error) {
	var hello domain.FrameHello
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&hello); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrameMessage, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidFrameMessage)
	}
	hello.SessionID = strings.TrimSpace(hello.SessionID)
	if hello.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidFrameMessage)
	}
	for target := range hello.Frames {
		switch target {
		case domain.FrameSelf, domain.FrameParent, domain.FrameTop:
		default:
			return nil, fmt.Errorf("%w: unknown frame %q", ErrInvalidFrameMessage, target)
		}
	}
	return &hello, nil
}

// ------ вспомогательные функции ------

func (r *Registry) retire(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retired[sessionID] = r.now()
}

// takeRetired - был ли ключ недавно вытеснен; отметка снимается.
func (r *Registry) takeRetired(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	at, ok := r.retired[sessionID]
	if !ok {
		return false
	}
	delete(r.retired, sessionID)
	return r.now().Sub(at) <= r.window
}

// forgetRetired - старые отметки: запросы к вытесненным рантаймам давно завершились.
func (r *Registry) forgetRetired() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, at := range r.retired {
		if now.Sub(at) > r.window {
			delete(r.retired, id)
		}
	}
}
