package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/resolve-cli/internal/company"
	"github.com/sells-group/resolve-cli/internal/db"
	"github.com/sells-group/resolve-cli/internal/docai"
	"github.com/sells-group/resolve-cli/internal/resolve"
)

// resolverEnv holds the initialized store and resolution components shared
// by the commands.
type resolverEnv struct {
	Store   company.Store
	Cache   *resolve.Cache
	Matcher *resolve.Matcher
	Creator *resolve.AutoCreator
	Merger  *resolve.MergeCoordinator
	Parties *docai.Resolver
}

// Close releases resources held by the environment.
func (e *resolverEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (company.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return company.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, err
		}
		return company.NewPostgresStore(pool), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResolver validates config for the given mode, opens the store, runs
// migrations, and builds the resolution components. Callers should defer
// env.Close().
func initResolver(ctx context.Context, mode string) (*resolverEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	cache := resolve.NewCache(cfg.Match.CacheTTL())
	matcher := resolve.NewMatcher(st, cache, resolve.MatcherConfig{
		FuzzyThreshold:     cfg.Match.FuzzyThreshold,
		DuplicateThreshold: cfg.Match.DuplicateThreshold,
		MaxSuggestions:     cfg.Match.MaxSuggestions,
	})
	creator := resolve.NewAutoCreator(st, matcher)

	return &resolverEnv{
		Store:   st,
		Cache:   cache,
		Matcher: matcher,
		Creator: creator,
		Merger:  resolve.NewMergeCoordinator(st, cache),
		Parties: docai.NewResolver(creator),
	}, nil
}
