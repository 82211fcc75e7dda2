package resolve

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/company"
	"github.com/sells-group/resolve-cli/internal/normalize"
	"github.com/sells-group/resolve-cli/internal/similarity"
)

// Default matching parameters.
const (
	// DefaultFuzzyThreshold is the similarity a fuzzy candidate must
	// strictly exceed to be accepted as a match.
	DefaultFuzzyThreshold = 0.9
	// DefaultDuplicateThreshold is the minimum similarity for an advisory
	// duplicate suggestion.
	DefaultDuplicateThreshold = 0.7
	// DefaultMaxSuggestions bounds FindPossibleDuplicates output.
	DefaultMaxSuggestions = 5
)

// MatcherConfig tunes the resolution pipeline. Zero values fall back to the
// package defaults.
type MatcherConfig struct {
	FuzzyThreshold     float64
	DuplicateThreshold float64
	MaxSuggestions     int
}

func (cfg MatcherConfig) withDefaults() MatcherConfig {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.DuplicateThreshold <= 0 {
		cfg.DuplicateThreshold = DefaultDuplicateThreshold
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultMaxSuggestions
	}
	return cfg
}

// Matcher resolves free-text company names against the store through a
// three-stage pipeline: exact name, alias/variant, then fuzzy similarity.
// Exact and variant stages compare normalized strings; the fuzzy stage
// scores the raw strings so formatting noise still counts against the
// score and near-duplicates surface as suggestions instead of silently
// matching.
type Matcher struct {
	store company.Store
	cache *Cache
	cfg   MatcherConfig
}

// NewMatcher creates a matcher over the given store and cache.
func NewMatcher(store company.Store, cache *Cache, cfg MatcherConfig) *Matcher {
	return &Matcher{store: store, cache: cache, cfg: cfg.withDefaults()}
}

// Cache exposes the matcher's result cache for invalidation by writers.
func (m *Matcher) Cache() *Cache {
	return m.cache
}

type callOptions struct {
	fuzzyThreshold     float64
	duplicateThreshold float64
	maxResults         int
	refresh            bool
}

// Option overrides one matching parameter for a single call.
type Option func(*callOptions)

// WithFuzzyThreshold overrides the fuzzy acceptance threshold.
func WithFuzzyThreshold(t float64) Option {
	return func(o *callOptions) { o.fuzzyThreshold = t }
}

// WithDuplicateThreshold overrides the duplicate-suggestion threshold.
func WithDuplicateThreshold(t float64) Option {
	return func(o *callOptions) { o.duplicateThreshold = t }
}

// WithMaxResults overrides the duplicate-suggestion result cap.
func WithMaxResults(n int) Option {
	return func(o *callOptions) { o.maxResults = n }
}

// WithRefresh bypasses the cache read (the result is still cached).
func WithRefresh() Option {
	return func(o *callOptions) { o.refresh = true }
}

func (m *Matcher) options(opts []Option) callOptions {
	o := callOptions{
		fuzzyThreshold:     m.cfg.FuzzyThreshold,
		duplicateThreshold: m.cfg.DuplicateThreshold,
		maxResults:         m.cfg.MaxSuggestions,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Resolve matches one name. First stage hit wins; a miss at every stage is
// a normal MatchNone result, not an error. Results, including misses, are
// cached under the normalized name so repeated lookups inside the TTL
// window skip the candidate scan entirely.
func (m *Matcher) Resolve(ctx context.Context, name string, opts ...Option) (MatchResult, error) {
	o := m.options(opts)

	key := normalize.Name(name)
	if key == "" {
		// Nothing to match and nothing worth caching.
		return MatchResult{MatchType: MatchNone}, nil
	}

	if !o.refresh {
		if cached, ok := m.cache.Get(key); ok {
			return cached, nil
		}
	}

	companies, err := m.store.ListActiveCompanies(ctx)
	if err != nil {
		return MatchResult{}, eris.Wrap(err, "resolve: list companies")
	}

	result := matchAgainst(name, key, companies, o.fuzzyThreshold)
	m.cache.Set(key, result)

	zap.L().Debug("resolve: scanned candidates",
		zap.String("name", name),
		zap.String("match_type", string(result.MatchType)),
		zap.Float64("score", result.MatchScore),
		zap.Int("candidates", len(companies)),
	)

	return result, nil
}

// BatchResolve resolves many names with a single candidate fetch. Per-name
// results are identical to calling Resolve for each, cache interactions
// included; the single fetch is a performance contract, not a behavioral
// one.
func (m *Matcher) BatchResolve(ctx context.Context, names []string, opts ...Option) (map[string]MatchResult, error) {
	o := m.options(opts)
	results := make(map[string]MatchResult, len(names))

	var companies []company.Company
	fetched := false

	for _, name := range names {
		key := normalize.Name(name)
		if key == "" {
			results[name] = MatchResult{MatchType: MatchNone}
			continue
		}

		if !o.refresh {
			if cached, ok := m.cache.Get(key); ok {
				results[name] = cached
				continue
			}
		}

		if !fetched {
			var err error
			companies, err = m.store.ListActiveCompanies(ctx)
			if err != nil {
				return nil, eris.Wrap(err, "resolve: list companies")
			}
			fetched = true
		}

		result := matchAgainst(name, key, companies, o.fuzzyThreshold)
		m.cache.Set(key, result)
		results[name] = result
	}

	return results, nil
}

// FindPossibleDuplicates returns advisory near-matches for operator review:
// at most one entry per company (its best-scoring name or variant), sorted
// by descending score. It always reflects live data — the cache is neither
// consulted nor written.
func (m *Matcher) FindPossibleDuplicates(ctx context.Context, name string, opts ...Option) ([]PossibleDuplicate, error) {
	o := m.options(opts)

	key := normalize.Name(name)
	if key == "" {
		return nil, nil
	}

	companies, err := m.store.ListActiveCompanies(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "resolve: list companies")
	}

	// Suggestions score normalized forms: legal-suffix and punctuation
	// noise should not hide a near-duplicate from review. The resolution
	// fuzzy stage keeps the stricter raw comparison.
	var suggestions []PossibleDuplicate
	for i := range companies {
		c := &companies[i]

		bestScore := similarity.Score(key, normalize.Name(c.Name))
		bestName := c.Name
		for _, v := range c.NameVariants {
			if score := similarity.Score(key, normalize.Name(v)); score > bestScore {
				bestScore = score
				bestName = v
			}
		}

		if bestScore >= o.duplicateThreshold {
			suggestions = append(suggestions, PossibleDuplicate{
				CompanyID:   c.ID,
				CompanyName: c.Name,
				MatchScore:  bestScore,
				MatchedName: bestName,
			})
		}
	}

	// Stable keeps repository iteration order among equal scores.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})

	if len(suggestions) > o.maxResults {
		suggestions = suggestions[:o.maxResults]
	}
	return suggestions, nil
}

// matchAgainst runs the three matching stages over the candidate pool.
// raw is the caller's original string (scored by the fuzzy stage), key its
// normalized form (compared by the exact and variant stages).
func matchAgainst(raw, key string, companies []company.Company, fuzzyThreshold float64) MatchResult {
	// Stage 1: exact on normalized names.
	for i := range companies {
		c := &companies[i]
		if normalize.Name(c.Name) == key {
			return MatchResult{
				Matched:     true,
				CompanyID:   c.ID,
				CompanyName: c.Name,
				MatchScore:  1.0,
				MatchType:   MatchExact,
			}
		}
	}

	// Stage 2: variants on normalized aliases.
	for i := range companies {
		c := &companies[i]
		for _, v := range c.NameVariants {
			if normalize.Name(v) == key {
				return MatchResult{
					Matched:        true,
					CompanyID:      c.ID,
					CompanyName:    c.Name,
					MatchScore:     1.0,
					MatchType:      MatchVariant,
					MatchedVariant: v,
				}
			}
		}
	}

	// Stage 3: fuzzy over raw names and variants. Strict inequality on both
	// comparisons means the first candidate encountered wins ties.
	var best *company.Company
	bestScore := 0.0
	bestVariant := ""

	for i := range companies {
		c := &companies[i]

		if score := similarity.Score(raw, c.Name); score > fuzzyThreshold && score > bestScore {
			best = c
			bestScore = score
			bestVariant = ""
		}
		for _, v := range c.NameVariants {
			if score := similarity.Score(raw, v); score > fuzzyThreshold && score > bestScore {
				best = c
				bestScore = score
				bestVariant = v
			}
		}
	}

	if best != nil {
		return MatchResult{
			Matched:        true,
			CompanyID:      best.ID,
			CompanyName:    best.Name,
			MatchScore:     bestScore,
			MatchType:      MatchFuzzy,
			MatchedVariant: bestVariant,
		}
	}

	return MatchResult{MatchType: MatchNone, MatchScore: 0}
}
