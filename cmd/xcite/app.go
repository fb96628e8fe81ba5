package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/author"
	"github.com/matsen/xcite/internal/collect"
	"github.com/matsen/xcite/internal/config"
	"github.com/matsen/xcite/internal/openalex"
	"github.com/matsen/xcite/internal/pagecache"
	"github.com/matsen/xcite/internal/session"
)

// Default subjects, used when compare, graph or export get no queries.
const (
	DefaultQueryA = "Filippo Menczer"
	DefaultQueryB = "Santo Fortunato"
)

// app bundles everything a command needs to talk to OpenAlex.
type app struct {
	settings *config.Settings
	client   *openalex.Client
	resolver *openalex.Resolver
	builder  *collect.Builder
	cache    *pagecache.Cache // nil with --no-cache or if the cache can't be opened
}

func loadSettings() (*config.Settings, error) {
	return config.Load()
}

// mustLoadSettings loads configuration, exits on error.
func mustLoadSettings() *config.Settings {
	s, err := loadSettings()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return s
}

// mustNewApp wires the OpenAlex client, resolver, page cache and builder.
// The caller is responsible for calling close.
func mustNewApp() *app {
	s := mustLoadSettings()
	if s.Mailto == "" {
		log.Warn("no mailto configured; OpenAlex may throttle anonymous requests",
			"hint", "xcite config set mailto you@example.org")
	}

	opts := []openalex.ClientOption{
		openalex.WithMailto(s.Mailto),
		openalex.WithAPIKey(s.APIKey),
		openalex.WithLogger(log),
	}
	if s.BaseURL != "" {
		opts = append(opts, openalex.WithBaseURL(s.BaseURL))
	}
	client := openalex.NewClient(opts...)

	resolver, err := openalex.NewResolver(client, openalex.WithResolverLogger(log))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	a := &app{settings: s, client: client, resolver: resolver}

	var source collect.Source = client
	if !noCache {
		cache, err := pagecache.Open(s.CachePath, s.CacheTTL)
		if err != nil {
			log.Warn("page cache unavailable, fetching everything", "path", s.CachePath, "error", err)
		} else {
			a.cache = cache
			source = pagecache.NewSource(client, cache, log)
		}
	}

	a.builder = collect.NewBuilder(source,
		collect.WithPageInterval(s.PageInterval),
		collect.WithLogger(log),
	)
	return a
}

func (a *app) newSession(topK int) *session.Session {
	if topK <= 0 {
		topK = a.settings.TopK
	}
	return session.New(a.resolver, a.builder,
		session.WithLogger(log),
		session.WithTopK(topK),
	)
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// signalContext returns a context cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// queryPair returns the two subject queries from args, or the defaults.
func queryPair(args []string) (string, string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return DefaultQueryA, DefaultQueryB
}

// noneOrTwoQueries accepts either no subject queries or exactly two.
func noneOrTwoQueries(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expected 0 or 2 queries, got %d", len(args))
	}
	return nil
}

// exitCodeFor maps an engine error to a process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, author.ErrQueryTooShort):
		return ExitError
	case openalex.IsNotFound(err):
		return ExitNotFound
	case collect.IsFetchFailure(err),
		openalex.IsRateLimited(err),
		errors.Is(err, openalex.ErrNetworkError),
		errors.Is(err, openalex.ErrInvalidResponse),
		errors.Is(err, openalex.ErrAuthError):
		return ExitFetchError
	default:
		return ExitError
	}
}
