package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/resolve-cli/internal/company"
)

// MergeCoordinator consolidates duplicate companies: the primary absorbs
// every secondary's name and variants, and the secondaries become terminal
// merged records pointing at the primary.
type MergeCoordinator struct {
	store company.Store
	cache *Cache
}

// NewMergeCoordinator creates a coordinator over the given store and cache.
func NewMergeCoordinator(store company.Store, cache *Cache) *MergeCoordinator {
	return &MergeCoordinator{store: store, cache: cache}
}

// Merge folds the secondaries into the primary and returns the updated
// primary. Preconditions are checked up front and violations surface as
// MergeConflictError with no state change: the primary and every secondary
// must exist and not be merged, a secondary cannot be the primary, and
// secondaries cannot repeat. Merged records always point at a live root,
// never at another merged record, so no merge chains can form.
//
// The store write is a single transaction: variant union and all status
// flips land together or not at all. The match cache is cleared afterwards
// because secondary names now resolve to the primary.
func (m *MergeCoordinator) Merge(ctx context.Context, primaryID string, secondaryIDs []string) (*company.Company, error) {
	if primaryID == "" {
		return nil, &MergeConflictError{CompanyID: primaryID, Reason: "primary id is required"}
	}
	if len(secondaryIDs) == 0 {
		return nil, eris.New("merge: at least one secondary is required")
	}

	primary, err := m.store.GetCompany(ctx, primaryID)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: load primary %s", primaryID)
	}
	if primary == nil {
		return nil, &MergeConflictError{CompanyID: primaryID, Reason: "primary not found"}
	}
	if primary.Merged() {
		return nil, &MergeConflictError{CompanyID: primaryID, Reason: "primary is already merged"}
	}

	seen := make(map[string]bool, len(secondaryIDs))
	secondaries := make([]*company.Company, 0, len(secondaryIDs))
	for _, id := range secondaryIDs {
		if id == primaryID {
			return nil, &MergeConflictError{CompanyID: id, Reason: "cannot merge a company into itself"}
		}
		if seen[id] {
			return nil, &MergeConflictError{CompanyID: id, Reason: "duplicate secondary"}
		}
		seen[id] = true

		sec, err := m.store.GetCompany(ctx, id)
		if err != nil {
			return nil, eris.Wrapf(err, "merge: load secondary %s", id)
		}
		if sec == nil {
			return nil, &MergeConflictError{CompanyID: id, Reason: "secondary not found"}
		}
		if sec.Merged() {
			return nil, &MergeConflictError{CompanyID: id, Reason: "secondary is already merged"}
		}
		secondaries = append(secondaries, sec)
	}

	variants := unionVariants(primary, secondaries)

	if err := m.store.MergeCompanies(ctx, primaryID, variants, secondaryIDs); err != nil {
		return nil, eris.Wrapf(err, "merge: consolidate into %s", primaryID)
	}

	m.cache.Clear()

	zap.L().Info("merge: consolidated companies",
		zap.String("primary_id", primaryID),
		zap.Int("secondaries", len(secondaryIDs)),
		zap.Int("variants", len(variants)),
	)

	merged, err := m.store.GetCompany(ctx, primaryID)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: reload primary %s", primaryID)
	}
	return merged, nil
}

// unionVariants builds the primary's new variant set: its own variants plus
// each secondary's name and variants, de-duplicated as literal strings.
// The primary's own display name is not duplicated into its variants.
func unionVariants(primary *company.Company, secondaries []*company.Company) []string {
	seen := map[string]bool{primary.Name: true}
	union := make([]string, 0, len(primary.NameVariants))

	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		union = append(union, v)
	}

	for _, v := range primary.NameVariants {
		add(v)
	}
	for _, sec := range secondaries {
		add(sec.Name)
		for _, v := range sec.NameVariants {
			add(v)
		}
	}
	return union
}
