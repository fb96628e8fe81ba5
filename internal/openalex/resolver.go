package openalex

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matsen/xcite/internal/author"
	"github.com/matsen/xcite/internal/logger"
	"github.com/matsen/xcite/internal/work"
)

// DefaultResolverCacheSize is how many resolved queries are remembered.
const DefaultResolverCacheSize = 256

// AuthorLookup is the part of Client the resolver needs.
type AuthorLookup interface {
	GetAuthor(ctx context.Context, id string) (*Author, error)
	AutocompleteAuthors(ctx context.Context, q string) ([]AuthorHit, error)
}

// Resolver turns a free-text query into a subject.
type Resolver struct {
	lookup AuthorLookup
	cache  *lru.Cache[string, work.Subject]
	log    *logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	cacheSize int
	log       *logger.Logger
}

// WithCacheSize sets the number of memoised resolutions.
func WithCacheSize(n int) ResolverOption {
	return func(c *resolverConfig) {
		c.cacheSize = n
	}
}

// WithResolverLogger sets the resolver's logger.
func WithResolverLogger(l *logger.Logger) ResolverOption {
	return func(c *resolverConfig) {
		c.log = l
	}
}

// NewResolver creates a resolver backed by lookup.
func NewResolver(lookup AuthorLookup, opts ...ResolverOption) (*Resolver, error) {
	cfg := resolverConfig{cacheSize: DefaultResolverCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New[string, work.Subject](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating resolver cache: %w", err)
	}
	return &Resolver{lookup: lookup, cache: cache, log: logger.OrNop(cfg.log)}, nil
}

// Resolve maps a query to a subject. Id queries are looked up directly and
// fall back to autocomplete when the lookup fails; name queries take the
// first autocomplete hit. No hit yields an error wrapping ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, input string) (*work.Subject, error) {
	q := author.ParseQuery(input)
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q", err, input)
	}

	key := q.String()
	if s, ok := r.cache.Get(key); ok {
		r.log.Debug("resolver cache hit", "query", key)
		return &s, nil
	}

	s, err := r.resolve(ctx, q)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, *s)
	r.log.Info("subject resolved",
		"query", input,
		"id", s.ID.ShortID(),
		"name", s.DisplayName,
	)
	return s, nil
}

func (r *Resolver) resolve(ctx context.Context, q author.Query) (*work.Subject, error) {
	if q.Kind == author.KindID {
		a, err := r.lookup.GetAuthor(ctx, q.Value)
		if err == nil {
			return a.Subject(), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Debug("author lookup failed, trying autocomplete", "id", q.Value, "error", err)
	}

	hits, err := r.lookup.AutocompleteAuthors(ctx, q.Value)
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", q.Value, err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: no author matches %q", ErrNotFound, q.Value)
	}
	if q.Kind == author.KindName && !q.MatchesName(hits[0].DisplayName) {
		r.log.Debug("autocomplete picked a different name", "query", q.Value, "picked", hits[0].DisplayName)
	}
	return hits[0].Subject(), nil
}

// Suggest returns autocomplete suggestions for a partial name. Queries below
// author.MinAutocompleteLength return nothing without a request.
func (r *Resolver) Suggest(ctx context.Context, partial string) ([]AuthorHit, error) {
	q := author.ParseQuery(partial)
	if q.Validate() != nil {
		return []AuthorHit{}, nil
	}
	return r.lookup.AutocompleteAuthors(ctx, q.Value)
}

// Purge forgets all memoised resolutions.
func (r *Resolver) Purge() {
	r.cache.Purge()
}
