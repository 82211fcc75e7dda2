package resolve

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/company"
)

// CreateInfo carries the fields an upstream extractor knows about an
// unmatched counterparty.
type CreateInfo struct {
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// CreateContext carries provenance for a just-in-time creation.
type CreateContext struct {
	CreatedByID         string `json:"created_by_id"`
	FirstSeenDocumentID string `json:"first_seen_document_id,omitempty"`

	// SuggestDuplicates attaches post-creation duplicate suggestions, so a
	// freshly created company that looks like an existing one is flagged
	// immediately.
	SuggestDuplicates bool `json:"suggest_duplicates,omitempty"`
}

// IdentifyResult is the outcome of IdentifyOrCreate or CreateFromUnmatched.
type IdentifyResult struct {
	IsNewCompany bool   `json:"is_new_company"`
	CompanyID    string `json:"company_id"`
	CompanyName  string `json:"company_name"`

	// MatchResult is set when an existing company was found.
	MatchResult *MatchResult `json:"match_result,omitempty"`

	// PossibleDuplicates is set when duplicate suggestions were requested.
	PossibleDuplicates []PossibleDuplicate `json:"possible_duplicates,omitempty"`

	// CreatedCompany is the persisted record when IsNewCompany is true.
	CreatedCompany *company.Company `json:"created_company,omitempty"`
}

// AutoCreator creates pending company records for names the matcher could
// not resolve.
type AutoCreator struct {
	store   company.Store
	matcher *Matcher
}

// NewAutoCreator creates an AutoCreator sharing the matcher's store and cache.
func NewAutoCreator(store company.Store, matcher *Matcher) *AutoCreator {
	return &AutoCreator{store: store, matcher: matcher}
}

// CreateFromUnmatched persists a new pending company for an unmatched name
// and clears the match cache so later resolutions can see the record.
// Clearing globally is the simplest correct policy; per-key invalidation
// would be an optimization only.
func (a *AutoCreator) CreateFromUnmatched(ctx context.Context, info CreateInfo, cc CreateContext) (*IdentifyResult, error) {
	name := strings.TrimSpace(info.Name)
	if name == "" {
		return nil, eris.New("autocreate: name is required")
	}

	c := &company.Company{
		Name:                name,
		NameVariants:        []string{},
		Status:              company.StatusPending,
		Source:              company.SourceAutoCreated,
		Code:                info.Code,
		ContactEmail:        info.ContactEmail,
		FirstSeenDocumentID: cc.FirstSeenDocumentID,
		CreatedByID:         cc.CreatedByID,
	}

	if err := a.store.CreateCompany(ctx, c); err != nil {
		return nil, eris.Wrap(err, "autocreate: create company")
	}

	a.matcher.Cache().Clear()

	zap.L().Info("autocreate: created pending company",
		zap.String("company_id", c.ID),
		zap.String("name", c.Name),
		zap.String("document_id", cc.FirstSeenDocumentID),
	)

	result := &IdentifyResult{
		IsNewCompany:   true,
		CompanyID:      c.ID,
		CompanyName:    c.Name,
		CreatedCompany: c,
	}

	if cc.SuggestDuplicates {
		// Post-creation state on purpose: the new record itself scoring
		// high against an older one is exactly the signal reviewers need.
		duplicates, err := a.matcher.FindPossibleDuplicates(ctx, name)
		if err != nil {
			return nil, eris.Wrap(err, "autocreate: find duplicates")
		}
		filtered := duplicates[:0]
		for _, d := range duplicates {
			if d.CompanyID != c.ID {
				filtered = append(filtered, d)
			}
		}
		result.PossibleDuplicates = filtered
	}

	return result, nil
}

// IdentifyOrCreate is the primary entry point for upstream pipelines: it
// resolves the name and, on a miss, creates a pending company. The miss
// verdict from the single Resolve call is trusted; no second resolution
// runs after creation.
//
// Two logically concurrent calls for the same unseen name can both miss
// and both create, leaving two pending duplicates for a later merge. That
// race is accepted; closing it would need a uniqueness constraint on the
// normalized name, which the store does not impose.
func (a *AutoCreator) IdentifyOrCreate(ctx context.Context, info CreateInfo, cc CreateContext) (*IdentifyResult, error) {
	match, err := a.matcher.Resolve(ctx, info.Name)
	if err != nil {
		return nil, eris.Wrap(err, "identify: resolve")
	}

	if match.Matched {
		result := &IdentifyResult{
			IsNewCompany: false,
			CompanyID:    match.CompanyID,
			CompanyName:  match.CompanyName,
			MatchResult:  &match,
		}
		if cc.SuggestDuplicates {
			duplicates, err := a.matcher.FindPossibleDuplicates(ctx, info.Name)
			if err != nil {
				return nil, eris.Wrap(err, "identify: find duplicates")
			}
			result.PossibleDuplicates = duplicates
		}
		return result, nil
	}

	return a.CreateFromUnmatched(ctx, info, cc)
}
