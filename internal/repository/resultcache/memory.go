package resultcache

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/EashcodeX/itglue-clone-sub001/internal/domain/search/result"
)

// Defaults for the in-process tier.
const (
	DefaultTTL        = 30 * time.Second
	DefaultMaxEntries = 1000
)

const tierMemory = "memory"

type memEntry struct {
	key            string
	organizationID string
	results        []result.Result
	createdAt      time.Time
}

// Memory is an in-process TTL cache with a hard entry bound. When full, the
// oldest entry is evicted first.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front is oldest
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithMetrics counts hits and misses on a vec labelled (tier, result).
func WithMetrics(cacheTotal *prometheus.CounterVec) MemoryOption {
	return func(m *Memory) { m.cacheTotal = cacheTotal }
}

// NewMemory creates an in-process cache. Non-positive values fall back to defaults.
func NewMemory(ttl time.Duration, maxEntries int, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	m := &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get returns the cached results for key if present and fresh.
func (m *Memory) Get(_ context.Context, key string) ([]result.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		incCache(m.cacheTotal, tierMemory, "miss")
		return nil, false
	}
	e := el.Value.(*memEntry)
	if m.now().Sub(e.createdAt) >= m.ttl {
		m.remove(el)
		incCache(m.cacheTotal, tierMemory, "miss")
		return nil, false
	}
	incCache(m.cacheTotal, tierMemory, "hit")
	return slices.Clone(e.results), true
}

// Put stores results under key, replacing any previous entry.
func (m *Memory) Put(_ context.Context, key, organizationID string, results []result.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(key, organizationID, results, m.now())
}

// restore stores results that were created earlier elsewhere, keeping their age.
// Entries already past the TTL are dropped. A zero createdAt counts as now.
func (m *Memory) restore(key, organizationID string, results []result.Result, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if createdAt.IsZero() || createdAt.After(now) {
		createdAt = now
	}
	if now.Sub(createdAt) >= m.ttl {
		return
	}
	m.insert(key, organizationID, results, createdAt)
}

func (m *Memory) insert(key, organizationID string, results []result.Result, createdAt time.Time) {
	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	m.evictExpired(m.now())
	for m.order.Len() >= m.maxEntries {
		m.remove(m.order.Front())
	}

	m.entries[key] = m.order.PushBack(&memEntry{
		key:            key,
		organizationID: organizationID,
		results:        slices.Clone(results),
		createdAt:      createdAt,
	})
}

// InvalidateOrganization drops entries scoped to organizationID and every
// global entry, since global results may include that organization's records.
func (m *Memory) InvalidateOrganization(_ context.Context, organizationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*memEntry)
		if e.organizationID == "" || e.organizationID == organizationID {
			m.remove(el)
		}
		el = next
	}
	return nil
}

// Flush drops everything.
func (m *Memory) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

// Len returns the number of stored entries, fresh or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// evictExpired stops at the first fresh entry from the front. Restored entries
// can be older than their neighbours; Get still rejects them once expired.
func (m *Memory) evictExpired(now time.Time) {
	for el := m.order.Front(); el != nil; el = m.order.Front() {
		if now.Sub(el.Value.(*memEntry).createdAt) < m.ttl {
			return
		}
		m.remove(el)
	}
}

func (m *Memory) remove(el *list.Element) {
	delete(m.entries, el.Value.(*memEntry).key)
	m.order.Remove(el)
}

func incCache(cacheTotal *prometheus.CounterVec, tier, outcome string) {
	if cacheTotal != nil {
		cacheTotal.WithLabelValues(tier, outcome).Inc()
	}
}
