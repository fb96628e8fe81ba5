package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/xcite/internal/logger"
	"github.com/matsen/xcite/internal/work"
)

// DefaultPageInterval is the pause between page requests. OpenAlex rejects
// clients that page faster than this.
const DefaultPageInterval = time.Second

// Source yields pages of raw works for an author. The first call uses
// work.FirstCursor; a page with an empty NextCursor is the last one.
type Source interface {
	WorksPage(ctx context.Context, author work.AuthorID, cursor string) (*work.Page, error)
}

// BuildStats counts what happened to the raw works of one build.
type BuildStats struct {
	Pages      int `json:"pages"`
	Raw        int `json:"raw"`
	Accepted   int `json:"accepted"`
	Malformed  int `json:"malformed"`
	Duplicates int `json:"duplicates"`
}

// Result is the output of one build. Works is sorted year-descending.
type Result struct {
	Subject       work.AuthorID
	Works         *work.Collection
	Collaborators *work.CollaboratorIndex
	Stats         BuildStats
}

// Builder drives sequential, paced pagination against a Source.
type Builder struct {
	source   Source
	interval time.Duration
	log      *logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPageInterval sets the minimum spacing between page requests, measured
// from the start of one request to the start of the next. Zero disables
// pacing (tests only; real sources need it).
func WithPageInterval(d time.Duration) Option {
	return func(b *Builder) {
		b.interval = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		b.log = logger.OrNop(l)
	}
}

// NewBuilder creates a Builder reading from source.
func NewBuilder(source Source, opts ...Option) *Builder {
	b := &Builder{
		source:   source,
		interval: DefaultPageInterval,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches every page for subject and returns a fresh collection and
// collaborator index. On a source error the partial result is returned
// together with a *FetchError; an author with no works yields an empty
// result and a nil error.
func (b *Builder) Build(ctx context.Context, subject work.AuthorID) (*Result, error) {
	res := &Result{
		Subject:       subject,
		Works:         work.NewCollection(),
		Collaborators: work.NewCollaboratorIndex(subject),
	}
	norm := NewNormalizer()
	// A limiter per build: the two subjects' pipelines are paced independently.
	limiter := rate.NewLimiter(rate.Every(b.interval), 1)
	log := b.log.With("subject", subject.ShortID())

	cursor := work.FirstCursor
	prevCached := false
	for {
		if !prevCached {
			if err := limiter.Wait(ctx); err != nil {
				return b.finish(res), &FetchError{Subject: subject, Pages: res.Stats.Pages, Err: err}
			}
		}

		page, err := b.source.WorksPage(ctx, subject, cursor)
		if err != nil {
			log.Warn("page fetch failed", "page", res.Stats.Pages+1, "error", err)
			return b.finish(res), &FetchError{Subject: subject, Pages: res.Stats.Pages, Err: err}
		}
		if page == nil {
			page = &work.Page{}
		}

		res.Stats.Pages++
		b.addPage(res, norm, page.Works)
		log.Debug("page fetched",
			"page", res.Stats.Pages,
			"works", len(page.Works),
			"cached", page.Cached,
		)

		if page.NextCursor == "" {
			break
		}
		if page.NextCursor == cursor {
			// A source repeating its cursor would otherwise loop forever.
			err := fmt.Errorf("source returned the same cursor twice: %q", cursor)
			return b.finish(res), &FetchError{Subject: subject, Pages: res.Stats.Pages, Err: err}
		}
		cursor = page.NextCursor
		prevCached = page.Cached
	}

	log.Info("collection built",
		"works", res.Works.Len(),
		"collaborators", res.Collaborators.Len(),
		"malformed", res.Stats.Malformed,
		"duplicates", res.Stats.Duplicates,
	)
	return b.finish(res), nil
}

// addPage normalizes one page into res and walks authorships.
func (b *Builder) addPage(res *Result, norm *Normalizer, raws []work.RawWork) {
	for _, raw := range raws {
		res.Stats.Raw++
		w, verdict := norm.Normalize(raw)
		switch verdict {
		case Accepted:
			res.Works.Put(w)
			res.Stats.Accepted++
		case Malformed:
			res.Stats.Malformed++
		case Duplicate:
			res.Stats.Duplicates++
			// Co-authors of a repeated work were already counted.
			continue
		}
		addCollaborators(res.Collaborators, raw.Authorships)
	}
}

// addCollaborators upserts every co-author listed on one work.
func addCollaborators(idx *work.CollaboratorIndex, authorships []work.RawAuthorship) {
	for _, a := range authorships {
		id := work.AuthorID(strings.TrimSpace(a.Author.ID))
		var institution string
		if len(a.Institutions) > 0 {
			institution = strings.TrimSpace(a.Institutions[0].DisplayName)
		}
		idx.Upsert(id, strings.TrimSpace(a.Author.DisplayName), institution)
	}
}

func (b *Builder) finish(res *Result) *Result {
	res.Works.SortByYear()
	return res
}
