package pagecache

import (
	"context"

	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/logger"
	"github.com/matsen/xcite/internal/work"
)

// Source serves pages from the cache and falls back to inner on a miss.
// Cache errors are logged and otherwise ignored.
type Source struct {
	inner collect.Source
	cache *Cache
	log   *logger.Logger
}

// NewSource wraps inner with cache.
func NewSource(inner collect.Source, cache *Cache, log *logger.Logger) *Source {
	return &Source{inner: inner, cache: cache, log: logger.OrNop(log)}
}

// WorksPage implements collect.Source.
func (s *Source) WorksPage(ctx context.Context, id work.AuthorID, cursor string) (*work.Page, error) {
	page, ok, err := s.cache.Get(id, cursor)
	if err != nil {
		s.log.Warn("page cache read failed", "author", id.ShortID(), "error", err)
	}
	if ok {
		return page, nil
	}

	page, err = s.inner.WorksPage(ctx, id, cursor)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return page, nil
	}
	if err := s.cache.Put(id, cursor, page); err != nil {
		s.log.Warn("page cache write failed", "author", id.ShortID(), "error", err)
	}
	return page, nil
}
