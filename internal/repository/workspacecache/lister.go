// Package workspacecache caches each user's workspace list in the KV store
// and collapses concurrent fetches for the same user into one platform call.
package workspacecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/opsconsole/internal/db"
	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/domain/workspace"
)

// Lister fetches a user's workspaces from the source of truth.
type Lister interface {
	ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error)
}

// store is the consumer interface for the workspace cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedLister caches workspace lists per session subject.
type CachedLister struct {
	inner      Lister
	store      store
	prefix     string
	ttl        time.Duration
	group      singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64 // bumped by Invalidate
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Lister,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedLister {
	return &CachedLister{
		inner:       inner,
		store:       s,
		prefix:      prefix,
		ttl:         ttl,
		generations: make(map[string]uint64),
		cacheTotal:  cacheTotal,
		logger:      logger,
	}
}

// ListWorkspaces returns the cached list or fetches it.
// The fetch is detached from ctx: a caller that gives up early still
// leaves the list in the cache for the next evaluation. A fetch that
// started before an Invalidate does not write the cache.
func (c *CachedLister) ListWorkspaces(ctx context.Context, sess domain.Session) (workspace.List, error) {
	key := c.cacheKey(sess.Subject)

	if list, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return list, nil
	}

	c.incCache("miss")

	fetchCtx := context.WithoutCancel(ctx)
	gen := c.generation(key)
	ch := c.group.DoChan(key, func() (any, error) {
		list, err := c.inner.ListWorkspaces(fetchCtx, sess)
		if err != nil {
			return nil, err
		}
		if c.generation(key) == gen {
			c.putToCache(fetchCtx, key, list)
		}
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("list workspaces: %w", res.Err)
		}
		return res.Val.(workspace.List), nil
	}
}

// Invalidate drops the cached list for subject. Callers arriving after it
// start a new fetch instead of joining one already in flight.
func (c *CachedLister) Invalidate(ctx context.Context, subject string) error {
	key := c.cacheKey(subject)

	c.mu.Lock()
	c.generations[key]++
	c.mu.Unlock()
	c.group.Forget(key)

	if err := c.store.Del(ctx, key); err != nil {
		return fmt.Errorf("workspace cache DEL %s: %w", key, err)
	}
	return nil
}

func (c *CachedLister) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

func (c *CachedLister) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedLister) cacheKey(subject string) string {
	return c.prefix + "workspaces:" + subject
}

func (c *CachedLister) getFromCache(ctx context.Context, key string) (workspace.List, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached workspaces", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	list, err := decodeList(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached workspaces", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return list, true
}

func (c *CachedLister) putToCache(ctx context.Context, key string, list workspace.List) {
	data, err := encodeList(list)
	if err != nil {
		c.logger.Warn("Failed to encode workspaces", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache workspaces", zap.String("key", key), zap.Error(err))
	}
}

type cachedWorkspace struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organizationId"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName,omitempty"`
	MyRole         string `json:"myRole"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

func encodeList(list workspace.List) ([]byte, error) {
	out := make([]cachedWorkspace, len(list))
	for i, w := range list {
		out[i] = cachedWorkspace{
			ID:             w.ID,
			OrganizationID: w.OrganizationID,
			Name:           w.Name,
			DisplayName:    w.DisplayName,
			MyRole:         string(w.MyRole),
			Status:         string(w.Status),
			CreatedAt:      w.CreatedAt,
		}
	}
	return json.Marshal(out)
}

func decodeList(data []byte) (workspace.List, error) {
	var in []cachedWorkspace
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	list := make(workspace.List, len(in))
	for i, w := range in {
		list[i] = workspace.Workspace{
			ID:             w.ID,
			OrganizationID: w.OrganizationID,
			Name:           w.Name,
			DisplayName:    w.DisplayName,
			MyRole:         workspace.Role(w.MyRole),
			Status:         workspace.Status(w.Status),
			CreatedAt:      w.CreatedAt,
		}
	}
	return list, nil
}
