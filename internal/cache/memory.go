package cache

import (
	"container/list"
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time check: Memory implements Cache.
var _ Cache = (*Memory)(nil)

// Memory is a bounded in-process LRU cache. Reads slide the entry TTL
// forward; eviction removes least recently used entries until both the entry
// and byte budgets hold.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recent
	tags    map[string]map[string]struct{}

	bytes      int
	maxEntries int
	maxBytes   int

	hits, misses, sets, deletes, evictions int64

	entriesGauge prometheus.Gauge
	bytesGauge   prometheus.Gauge

	now func() time.Time
}

type entry struct {
	key       string
	value     []byte
	tags      []string
	ttl       time.Duration
	expiresAt time.Time
}

// NewMemory creates a cache bounded by maxEntries and maxBytes.
func NewMemory(maxEntries, maxBytes int) *Memory {
	return &Memory{
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		tags:       make(map[string]map[string]struct{}),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		now:        time.Now,
	}
}

// WithGauges publishes entry and byte counts to the given Prometheus gauges
// after every mutation.
func (m *Memory) WithGauges(entries, bytes prometheus.Gauge) *Memory {
	m.entriesGauge = entries
	m.bytesGauge = bytes
	return m
}

// publish pushes the current occupancy to the gauges. Caller holds the lock.
func (m *Memory) publish() {
	if m.entriesGauge != nil {
		m.entriesGauge.Set(float64(m.lru.Len()))
	}
	if m.bytesGauge != nil {
		m.bytesGauge.Set(float64(m.bytes))
	}
}

// Get returns the cached value and slides its TTL forward. Expired entries
// are removed and count as misses.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if m.now().After(e.expiresAt) {
		if m.now().Before(e.expiresAt.Add(staleGrace(e.ttl))) {
			// Stale-while-valid: one last serve instead of a synchronous
			// miss. The entry is dropped so the next read recomputes.
			v := e.value
			m.remove(el)
			m.hits++
			m.publish()
			return v, true
		}
		m.remove(el)
		m.misses++
		m.publish()
		return nil, false
	}

	e.expiresAt = m.now().Add(e.ttl)
	m.lru.MoveToFront(el)
	m.hits++
	return e.value, true
}

// Set stores a value under key with the given TTL and invalidation tags,
// evicting LRU entries as needed to stay within budget.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags []string) {
	if ttl <= 0 {
		return
	}
	// An entry over the byte budget would evict everything and still not fit.
	if m.maxBytes > 0 && len(key)+len(value) > m.maxBytes {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}

	e := &entry{
		key:       key,
		value:     value,
		tags:      tags,
		ttl:       ttl,
		expiresAt: m.now().Add(ttl),
	}
	el := m.lru.PushFront(e)
	m.entries[key] = el
	m.bytes += entrySize(e)
	for _, tag := range tags {
		set, ok := m.tags[tag]
		if !ok {
			set = make(map[string]struct{})
			m.tags[tag] = set
		}
		set[key] = struct{}{}
	}
	m.sets++

	for (m.maxEntries > 0 && m.lru.Len() > m.maxEntries) ||
		(m.maxBytes > 0 && m.bytes > m.maxBytes) {
		back := m.lru.Back()
		if back == nil || back == el && m.lru.Len() == 1 {
			break
		}
		m.remove(back)
		m.evictions++
	}
	m.publish()
}

// Delete removes a single key.
func (m *Memory) Delete(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return false
	}
	m.remove(el)
	m.deletes++
	m.publish()
	return true
}

// InvalidateTag removes every entry carrying the tag and returns the count.
func (m *Memory) InvalidateTag(_ context.Context, tag string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := m.tags[tag]
	n := 0
	for key := range keys {
		if el, ok := m.entries[key]; ok {
			m.remove(el)
			m.deletes++
			n++
		}
	}
	m.publish()
	return n
}

// InvalidatePattern removes entries whose key matches the regular expression
// and returns the count.
func (m *Memory) InvalidatePattern(_ context.Context, pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var doomed []*list.Element
	for key, el := range m.entries {
		if re.MatchString(key) {
			doomed = append(doomed, el)
		}
	}
	for _, el := range doomed {
		m.remove(el)
		m.deletes++
	}
	m.publish()
	return len(doomed), nil
}

// Clear drops everything. Counters survive.
func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(m.lru.Len())
	m.entries = make(map[string]*list.Element)
	m.lru.Init()
	m.tags = make(map[string]map[string]struct{})
	m.bytes = 0
	m.deletes += n
	m.publish()
}

// Stats returns a counter snapshot.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Hits:       m.hits,
		Misses:     m.misses,
		Sets:       m.sets,
		Deletes:    m.deletes,
		Evictions:  m.evictions,
		Entries:    m.lru.Len(),
		Bytes:      m.bytes,
		MaxEntries: m.maxEntries,
		MaxBytes:   m.maxBytes,
	}
}

// Health classifies the current snapshot.
func (m *Memory) Health() Health {
	return Evaluate(m.Stats())
}

// remove unlinks el from the LRU, the key map, and all tag sets. Caller holds
// the lock.
func (m *Memory) remove(el *list.Element) {
	e := el.Value.(*entry)
	m.lru.Remove(el)
	delete(m.entries, e.key)
	m.bytes -= entrySize(e)
	for _, tag := range e.tags {
		if set, ok := m.tags[tag]; ok {
			delete(set, e.key)
			if len(set) == 0 {
				delete(m.tags, tag)
			}
		}
	}
}

func entrySize(e *entry) int {
	return len(e.key) + len(e.value)
}

// staleGrace is how far past its nominal TTL an entry may still get one
// final serve: a tenth of the TTL.
func staleGrace(ttl time.Duration) time.Duration {
	return ttl / 10
}
