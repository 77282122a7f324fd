package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the durable tier of the analysis cache.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analysis_cache (
		key TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	return err
}

// Put upserts one cache entry, resetting its age. Creation time is stored at
// nanosecond precision so sub-second TTLs behave.
func (s *SQLiteStore) Put(kind, key string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO analysis_cache (key, kind, payload, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET kind=excluded.kind, payload=excluded.payload, created_at=excluded.created_at`,
		key, kind, string(payload), time.Now().UnixNano(),
	)
	return err
}

// Get returns the payload and creation time for key when the entry exists and
// is younger than ttl. Expired entries are treated as misses.
func (s *SQLiteStore) Get(key string, ttl time.Duration) ([]byte, time.Time, bool, error) {
	var payload string
	var createdAt int64
	err := s.db.QueryRow(`SELECT payload, created_at FROM analysis_cache WHERE key = ?`, key).
		Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	created := time.Unix(0, createdAt)
	if time.Since(created) >= ttl {
		return nil, time.Time{}, false, nil
	}
	return []byte(payload), created, true, nil
}

// Delete removes one entry.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM analysis_cache WHERE key = ?`, key)
	return err
}

// ClearExpired removes every entry older than ttl and reports how many went.
func (s *SQLiteStore) ClearExpired(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl).UnixNano()
	res, err := s.db.Exec(`DELETE FROM analysis_cache WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ClearAll removes every entry.
func (s *SQLiteStore) ClearAll() (int, error) {
	res, err := s.db.Exec(`DELETE FROM analysis_cache`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CacheStats summarizes cache contents.
type CacheStats struct {
	TotalEntries   int   `json:"total_entries"`
	ValidEntries   int   `json:"valid_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// Stats reports entry counts and payload size, splitting valid from expired
// by ttl.
func (s *SQLiteStore) Stats(ttl time.Duration) (CacheStats, error) {
	cutoff := time.Now().Add(-ttl).UnixNano()
	var st CacheStats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(created_at > ?), 0),
		        COALESCE(SUM(LENGTH(payload)), 0)
		 FROM analysis_cache`, cutoff,
	).Scan(&st.TotalEntries, &st.ValidEntries, &st.TotalSizeBytes)
	if err != nil {
		return CacheStats{}, err
	}
	st.ExpiredEntries = st.TotalEntries - st.ValidEntries
	return st, nil
}
