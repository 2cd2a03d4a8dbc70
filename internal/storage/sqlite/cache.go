package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// CacheStorage is a content-keyed blob cache for pipeline products. Keys
// are derived from the input reports and configuration, so a stale entry
// can only mean an identical run. Purely a performance optimization.
type CacheStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewCacheStorage creates a new SQLite cache storage.
func NewCacheStorage(db *sql.DB, log *logger.Logger) (*CacheStorage, error) {
	storage := &CacheStorage{
		db:     db,
		logger: log.Named("sqlite-cache"),
	}
	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache storage: %w", err)
	}
	return storage, nil
}

func (s *CacheStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Get returns the cached value for a key, with found=false on a miss.
func (s *CacheStorage) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM pipeline_cache WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}

	s.logger.Debug("Cache hit", logger.String("key", key))
	return value, true, nil
}

// Put stores a value under a key, replacing any previous entry.
func (s *CacheStorage) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO pipeline_cache (key, value, created_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	s.logger.Debug("Cache entry stored",
		logger.String("key", key),
		logger.Int("bytes", len(value)),
	)
	return nil
}
