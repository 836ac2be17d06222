package oracle

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultLookupTimeout bounds a shared lookup once it is detached from the
// caller that started it.
const DefaultLookupTimeout = 10 * time.Second

// Cached remembers answers from another oracle for the lifetime of the process.
// Concurrent lookups of the same word share one call. Only definite answers
// are cached; a failed lookup is retried next time. Build it with NewCached.
type Cached struct {
	next    Oracle
	timeout time.Duration

	mu    sync.RWMutex
	known map[string]bool
	group singleflight.Group
}

// NewCached wraps next with a cache.
func NewCached(next Oracle) *Cached {
	return &Cached{next: next, timeout: DefaultLookupTimeout, known: make(map[string]bool)}
}

// IsValidWord answers from the cache or joins the in-flight lookup for word.
// The shared lookup does not inherit the caller's cancellation, so one caller
// giving up never fails the others; each caller still returns as soon as its
// own ctx is done.
func (c *Cached) IsValidWord(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(word)

	c.mu.RLock()
	ok, hit := c.known[key]
	c.mu.RUnlock()
	if hit {
		return ok, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		ok, err := c.next.IsValidWord(lctx, key)
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.known[key] = ok
		c.mu.Unlock()
		return ok, nil
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

// Len returns the number of cached answers.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.known)
}
