// Package session holds the operator's bearer token and derived user profile
// in a small embedded BoltDB file, so a login survives console restarts.
// Exactly two keys are persisted: the raw token and the JSON-serialized user.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/salabelleza/agenda-console/internal/model"
)

const (
	bucketName = "session"
	keyToken   = "auth_token"
	keyUser    = "auth_usuario"
)

// Store is the console's session holder. Reads are served from an in-memory
// mirror loaded at open; every mutation writes through to the database.
type Store struct {
	db *bolt.DB

	mu    sync.RWMutex
	token string
	user  model.User
	valid bool
}

// Open opens (or creates) the session database at path and loads any
// previously persisted session.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		raw := b.Get([]byte(keyToken))
		if raw == nil {
			return nil
		}
		s.token = string(raw)
		if rawUser := b.Get([]byte(keyUser)); rawUser != nil {
			// A corrupt profile entry does not invalidate the token.
			_ = json.Unmarshal(rawUser, &s.user)
		}
		s.valid = true
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set persists a fresh login.
func (s *Store) Set(token string, user model.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyUser), rawUser)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.valid = true
	s.mu.Unlock()
	return nil
}

// Clear wipes the session. Called on logout and on any upstream 401.
// Clearing an already-empty session is a no-op.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if err := b.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUser))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.user = model.User{}
	s.valid = false
	s.mu.Unlock()
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.valid
}

func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

func (s *Store) HasRole(role string) bool {
	u, ok := s.User()
	if !ok {
		return false
	}
	return strings.EqualFold(u.Role, role)
}

// Ping is the readiness check: a no-op read transaction.
func (s *Store) Ping(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.db.View(func(*bolt.Tx) error { return nil })
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
