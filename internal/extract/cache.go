package extract

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Cached memoizes another extractor by the hash of the text. A résumé compared
// against many job descriptions is extracted once per run.
type Cached struct {
	next   Extractor
	logger *zap.Logger

	mu    sync.RWMutex
	terms map[string][]string
}

func NewCached(next Extractor, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cached{
		next:   next,
		logger: logger,
		terms:  make(map[string][]string),
	}
}

// Extract returns a copy of the cached terms so callers may not corrupt the cache.
// Failures are not cached.
func (c *Cached) Extract(ctx context.Context, text string) ([]string, error) {
	sum := sha256.Sum256([]byte(text))
	key := fmt.Sprintf("%x", sum[:])

	c.mu.RLock()
	cached, ok := c.terms[key]
	c.mu.RUnlock()

	if ok {
		c.logger.Debug("extraction cache hit", zap.String("hash", key[:12]), zap.Int("terms", len(cached)))
		return append([]string(nil), cached...), nil
	}

	terms, err := c.next.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.terms[key] = append([]string(nil), terms...)
	c.mu.Unlock()

	return terms, nil
}

// Len returns the number of cached texts.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.terms)
}
