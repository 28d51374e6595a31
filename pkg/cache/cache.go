// Package cache stores completion lists between invocations, so tlmgr only
// has to be asked once in a while.
package cache

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by a Backend when there's no entry for a key
var ErrNotFound = errors.New("cache entry not found")

// Entry is a cached list of values. Entries are replaced wholesale, never
// modified in place.
type Entry struct {
	Key      string    `yaml:"key"`
	Values   []string  `yaml:"values"`
	StoredAt time.Time `yaml:"stored_at"`
}

// Backend is durable storage for entries
type Backend interface {
	Load(key string) (Entry, error)
	Save(entry Entry) error
	List() ([]Entry, error)
}

// Key composes a cache key from its parts, skipping empty ones:
//
//	Key("tlmgr", "paper", "pdftex") == "tlmgr-paper-pdftex-cache"
//	Key("tlmgr", "platform", "")    == "tlmgr-platform-cache"
func Key(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if len(p) > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(append(nonEmpty, "cache"), "-")
}
