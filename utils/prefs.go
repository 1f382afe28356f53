package utils

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PrefStore is the persistence adapter for per-user client state (role,
// voice, engine). The cache mirrors the users table; it is never the source
// of truth and is rewritten wholesale on every auth event.
type PrefStore interface {
	Get(userID, key string) (string, bool)
	Set(userID, key, value string)
	Clear(userID string)
}

type cachePrefStore struct {
	c *gocache.Cache
}

// NewPrefStore returns a PrefStore backed by an in-process TTL cache.
func NewPrefStore() PrefStore {
	return &cachePrefStore{c: gocache.New(24*time.Hour, 30*time.Minute)}
}

func (s *cachePrefStore) Get(userID, key string) (string, bool) {
	v, ok := s.c.Get(userID + ":" + key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *cachePrefStore) Set(userID, key, value string) {
	s.c.Set(userID+":"+key, value, gocache.DefaultExpiration)
}

func (s *cachePrefStore) Clear(userID string) {
	for k := range s.c.Items() {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+":" {
			s.c.Delete(k)
		}
	}
}

// Prefs is the process-wide store used by handlers.
var Prefs = NewPrefStore()
