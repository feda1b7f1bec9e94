package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// EvictFunc - вызывается для вытесненного или протухшего значения вне блокировки кэша.
type EvictFunc[V any] func(key string, value V)

// RemoveHook - вызывается под блокировкой кэша в момент удаления записи.
// Должен быть быстрым и не обращаться к кэшу.
type RemoveHook[V any] func(key string, value V)

type created[V any] struct {
	value   V
	created bool
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// LRUCacheTTL - LRU-кэш с TTL по простою: каждое обращение продлевает жизнь записи.
type LRUCacheTTL[V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	onEvict  EvictFunc[V]
	onRemove RemoveHook[V]

	// создание значений: одно на ключ, без блокировки кэша
	group singleflight.Group

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// NewLRUCacheTTL - capacity <= 0 трактуется как 1, ttl <= 0 отключает протухание.
func NewLRUCacheTTL[V any](capacity int, ttl time.Duration, onEvict EvictFunc[V]) *LRUCacheTTL[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		onEvict:  onEvict,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get - значение по ключу; попадание делает запись самой свежей.
func (c *LRUCacheTTL[V]) Get(key string) (V, bool) {
	var (
		zero    V
		evicted []*entry[V]
	)
	defer func() { c.notify(evicted) }()

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		metrics.SessionOps.WithLabelValues("miss").Inc()
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if c.isExpired(ent, now) {
		metrics.SessionOps.WithLabelValues("expired").Inc()
		evicted = append(evicted, c.removeElement(elem))
		return zero, false
	}
	c.ll.MoveToFront(elem)
	ent.expiresAt = c.expiryFrom(now)

	metrics.SessionOps.WithLabelValues("hit").Inc()
	return ent.value, true
}

// GetOrCreate - существующее значение или результат create, сохранённый в кэше.
// create выполняется без блокировки кэша и не больше одного раза на ключ одновременно.
func (c *LRUCacheTTL[V]) GetOrCreate(key string, create func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, false
	}

	res, _, _ := c.group.Do(key, func() (any, error) {
		// значение могли создать между Get и Do
		if v, ok := c.touch(key); ok {
			return created[V]{value: v}, nil
		}
		v := create()
		return c.insert(key, v), nil
	})
	out := res.(created[V])
	return out.value, out.created
}

// SetRemoveHook - подписка на удаление записей (вытеснение, TTL, Delete).
func (c *LRUCacheTTL[V]) SetRemoveHook(hook RemoveHook[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRemove = hook
}

// Delete - удалить запись; onEvict вызывается.
func (c *LRUCacheTTL[V]) Delete(key string) bool {
	var evicted []*entry[V]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		return false
	}
	evicted = append(evicted, c.removeElement(elem))
	return true
}

// Sweep - удалить все протухшие записи; возвращает их число.
func (c *LRUCacheTTL[V]) Sweep() int {
	var evicted []*entry[V]
	defer func() { c.notify(evicted) }()

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}
	for elem := c.ll.Back(); elem != nil; {
		prev := elem.Prev()
		if ent := elem.Value.(*entry[V]); c.isExpired(ent, now) {
			evicted = append(evicted, c.removeElement(elem))
			metrics.SessionOps.WithLabelValues("expired").Inc()
		}
		elem = prev
	}
	return len(evicted)
}

// Len - число записей, включая ещё не вычищенные протухшие.
func (c *LRUCacheTTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// ------ вспомогательные функции ------

// touch - живая запись без учёта в метриках промахов; продлевает TTL.
// Протухшая запись удаляется сразу, до того как под этим ключом появится новое значение.
func (c *LRUCacheTTL[V]) touch(key string) (V, bool) {
	var (
		zero    V
		evicted []*entry[V]
	)
	defer func() { c.notify(evicted) }()

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if c.isExpired(ent, now) {
		evicted = append(evicted, c.removeElement(elem))
		metrics.SessionOps.WithLabelValues("expired").Inc()
		return zero, false
	}
	c.ll.MoveToFront(elem)
	ent.expiresAt = c.expiryFrom(now)
	return ent.value, true
}

// insert - положить созданное значение; при переполнении вытесняется самая старая запись.
func (c *LRUCacheTTL[V]) insert(key string, v V) created[V] {
	var evicted []*entry[V]
	defer func() { c.notify(evicted) }()

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		// ключ занят (например, протухшая запись): старая уходит, новое значение остаётся
		evicted = append(evicted, c.removeElement(elem))
	}
	evicted = c.pruneExpiredFromBack(now, evicted)

	c.index[key] = c.ll.PushFront(&entry[V]{key: key, value: v, expiresAt: c.expiryFrom(now)})
	metrics.SessionOps.WithLabelValues("created").Inc()

	if c.ll.Len() > c.capacity {
		if back := c.ll.Back(); back != nil {
			evicted = append(evicted, c.removeElement(back))
			metrics.SessionOps.WithLabelValues("evicted").Inc()
		}
	}
	metrics.SessionsActive.Set(float64(len(c.index)))
	return created[V]{value: v, created: true}
}

func (c *LRUCacheTTL[V]) removeElement(elem *list.Element) *entry[V] {
	ent := elem.Value.(*entry[V])
	delete(c.index, ent.key)
	c.ll.Remove(elem)
	if c.onRemove != nil {
		c.onRemove(ent.key, ent.value)
	}
	metrics.SessionsActive.Set(float64(len(c.index)))
	return ent
}

func (c *LRUCacheTTL[V]) isExpired(ent *entry[V], now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *LRUCacheTTL[V]) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack - снять протухшие записи с хвоста до первой актуальной.
func (c *LRUCacheTTL[V]) pruneExpiredFromBack(now time.Time, evicted []*entry[V]) []*entry[V] {
	if c.ttl <= 0 {
		return evicted
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return evicted
		}
		ent := back.Value.(*entry[V])
		if !c.isExpired(ent, now) {
			return evicted
		}
		evicted = append(evicted, c.removeElement(back))
		metrics.SessionOps.WithLabelValues("expired").Inc()
	}
}

func (c *LRUCacheTTL[V]) notify(evicted []*entry[V]) {
	if c.onEvict == nil {
		return
	}
	for _, ent := range evicted {
		c.onEvict(ent.key, ent.value)
	}
}
