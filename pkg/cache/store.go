package cache

import (
	"errors"
	"fmt"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zerowidth/tlmgr-complete/pkg/freshness"
	"go.uber.org/zap"
)

// how often the in-process memo sweeps expired entries
const sweepInterval = 10 * time.Minute

var errNoBackend = errors.New("no durable cache backend")

// Store serves fresh entries from an in-process memo or a durable backend.
//
// A Store never fails a lookup: a missing, stale, or unreadable entry is a
// miss. Without a backend it only remembers entries for the life of the
// process.
type Store struct {
	backend Backend
	policy  freshness.Policy
	memo    *gocache.Cache
	logger  *zap.Logger
}

// NewStore creates a Store. The backend may be nil.
func NewStore(backend Backend, policy freshness.Policy, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		policy:  policy,
		memo:    gocache.New(gocache.NoExpiration, sweepInterval),
		logger:  logger,
	}
}

// Get returns the entry for key if there is one and it's still fresh
func (s *Store) Get(key string) (Entry, bool) {
	log := s.logger.With(zap.String("key", key))

	if v, ok := s.memo.Get(key); ok {
		entry := v.(Entry)
		if s.policy.Fresh(entry.StoredAt) {
			return copyEntry(entry), true
		}
		s.memo.Delete(key)
	}

	if s.backend == nil {
		return Entry{}, false
	}

	entry, err := s.backend.Load(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug("cache miss")
		} else {
			log.Warn("cache unreadable, treating as a miss", zap.Error(err))
		}
		return Entry{}, false
	}
	if entry.Key != key {
		log.Warn("cache entry stored under the wrong key", zap.String("stored_key", entry.Key))
		return Entry{}, false
	}
	if !s.policy.Fresh(entry.StoredAt) {
		log.Debug("cache entry is stale", zap.Time("stored_at", entry.StoredAt))
		return Entry{}, false
	}

	s.remember(entry)
	return copyEntry(entry), true
}

// Put replaces the entry for key with values, stored as of now.
//
// The entry is always remembered in-process. The returned error only reports
// a failure to persist it, which callers may log and otherwise ignore.
func (s *Store) Put(key string, values []string) error {
	entry := Entry{
		Key:      key,
		Values:   append([]string{}, values...),
		StoredAt: s.policy.Now(),
	}
	s.remember(entry)

	if s.backend == nil {
		return errNoBackend
	}
	if err := s.backend.Save(entry); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// List returns every entry in the backend, fresh or not
func (s *Store) List() ([]Entry, error) {
	if s.backend == nil {
		return nil, errNoBackend
	}
	return s.backend.List()
}

// Fresh reports whether an entry would still be served
func (s *Store) Fresh(entry Entry) bool {
	return s.policy.Fresh(entry.StoredAt)
}

// Close releases the backend, if it holds any resources
func (s *Store) Close() error {
	if closer, ok := s.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Store) remember(entry Entry) {
	if ttl := s.policy.Expiry(entry.StoredAt); ttl > 0 {
		s.memo.Set(entry.Key, entry, ttl)
	}
}

func copyEntry(e Entry) Entry {
	e.Values = append([]string{}, e.Values...)
	return e
}
