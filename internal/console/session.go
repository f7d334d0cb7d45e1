// internal/console/session.go
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sessionBucket    = []byte("session")
	authenticatedKey = []byte("authenticated")
)

// Session persists the console's "authenticated" marker across restarts.
// Nothing in the console clears it; logout is out of scope.
type Session struct {
	db *bolt.DB
}

func OpenSession(path string) (*Session, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session state: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare session state: %w", err)
	}

	return &Session{db: db}, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) Authenticated() bool {
	var ok bool
	s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionBucket).Get(authenticatedKey)
		ok = len(v) == 1 && v[0] == 1
		return nil
	})
	return ok
}

func (s *Session) MarkAuthenticated() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(authenticatedKey, []byte{1})
	})
}
