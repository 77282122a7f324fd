package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long cached analysis results stay valid.
const DefaultTTL = time.Hour

const memoryTierSize = 64

// Manager caches analysis payloads keyed by repository and parameters, with
// an in-process expirable LRU in front of the SQLite tier. Corrupt, missing,
// or expired entries are all plain misses; cache failures never fail a run.
type Manager struct {
	store *SQLiteStore
	mem   *expirable.LRU[string, memEntry]
	ttl   time.Duration
}

// memEntry carries the original creation time alongside the payload so the
// memory tier expires entries on the same deadline as the durable tier. The
// LRU's own TTL alone would restart the clock every time a durable hit
// repopulates the tier.
type memEntry struct {
	payload   []byte
	createdAt time.Time
}

// NewManager opens (or creates) the cache database at path.
func NewManager(path string, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store: store,
		mem:   expirable.NewLRU[string, memEntry](memoryTierSize, nil, ttl),
		ttl:   ttl,
	}, nil
}

func (m *Manager) Close() error {
	return m.store.Close()
}

// Key builds a deterministic cache key from the repository URL and any
// parameters that affect the result.
func (m *Manager) Key(kind, repoURL string, params map[string]string) string {
	all := map[string]string{"repo_url": repoURL}
	for k, v := range params {
		all[k] = v
	}
	// json.Marshal sorts map keys, so the hash is stable
	blob, _ := json.Marshal(all)
	sum := sha256.Sum256(blob)
	return kind + "_" + hex.EncodeToString(sum[:])
}

// Get loads a cached value into out. It returns false on any miss, including
// expiry and undecodable payloads. Expiry is always judged against the
// entry's original creation time, whichever tier served it.
func (m *Manager) Get(key string, out any) bool {
	entry, ok := m.mem.Get(key)
	if ok && time.Since(entry.createdAt) >= m.ttl {
		m.mem.Remove(key)
		ok = false
	}
	if !ok {
		payload, created, found, err := m.store.Get(key, m.ttl)
		if err != nil {
			logrus.WithError(err).Debug("cache read failed")
			return false
		}
		if !found {
			return false
		}
		entry = memEntry{payload: payload, createdAt: created}
		m.mem.Add(key, entry)
	}
	if err := json.Unmarshal(entry.payload, out); err != nil {
		// corrupt entry is a miss
		return false
	}
	return true
}

// Set stores a value under key in both tiers. Write failures are logged and
// swallowed.
func (m *Manager) Set(kind, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Debug("cache encode failed")
		return
	}
	m.mem.Add(key, memEntry{payload: payload, createdAt: time.Now()})
	if err := m.store.Put(kind, key, payload); err != nil {
		logrus.WithError(err).Debug("cache write failed")
	}
}

// Invalidate drops one entry from both tiers.
func (m *Manager) Invalidate(key string) {
	m.mem.Remove(key)
	if err := m.store.Delete(key); err != nil {
		logrus.WithError(err).Debug("cache delete failed")
	}
}

// ClearExpired removes expired durable entries.
func (m *Manager) ClearExpired() (int, error) {
	return m.store.ClearExpired(m.ttl)
}

// ClearAll removes every durable entry and resets the memory tier.
func (m *Manager) ClearAll() (int, error) {
	m.mem.Purge()
	return m.store.ClearAll()
}

// Stats reports durable-tier statistics.
func (m *Manager) Stats() (CacheStats, error) {
	return m.store.Stats(m.ttl)
}
