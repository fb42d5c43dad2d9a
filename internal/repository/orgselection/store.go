// Package orgselection persists each user's current organization.
// Writes are last-write-wins; concurrent tabs are not coordinated.
package orgselection

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/opsconsole/internal/db"
)

// store is the consumer interface for selection operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Store keeps the current organization id per session subject.
type Store struct {
	store  store
	prefix string
}

// New creates a selection store. prefix namespaces all keys, e.g. "opsconsole:".
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix}
}

// Get returns the persisted org id, or nil when unset.
// A value that is not a positive integer is treated as unset.
func (s *Store) Get(ctx context.Context, subject string) (*int64, error) {
	key := s.key(subject)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("selection GET %s: %w", key, err)
	}

	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil || id <= 0 {
		return nil, nil
	}
	return &id, nil
}

// Set overwrites the persisted org id.
func (s *Store) Set(ctx context.Context, subject string, orgID int64) error {
	key := s.key(subject)
	if err := s.store.Set(ctx, key, []byte(strconv.FormatInt(orgID, 10))); err != nil {
		return fmt.Errorf("selection SET %s: %w", key, err)
	}
	return nil
}

// Clear removes the persisted org id.
func (s *Store) Clear(ctx context.Context, subject string) error {
	key := s.key(subject)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("selection DEL %s: %w", key, err)
	}
	return nil
}

func (s *Store) key(subject string) string {
	return s.prefix + "session:" + subject + ":current_org"
}
