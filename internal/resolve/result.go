// Package resolve implements the company-name resolution pipeline: cached
// exact/variant/fuzzy matching, duplicate discovery, just-in-time creation
// of unmatched counterparties, and merge consolidation.
package resolve

// MatchType tells which pipeline stage produced a match.
type MatchType string

// Match types, in pipeline order.
const (
	// MatchExact means the normalized input equals a company's normalized name.
	MatchExact MatchType = "exact"
	// MatchVariant means the normalized input equals a normalized alias.
	MatchVariant MatchType = "variant"
	// MatchFuzzy means the best similarity score cleared the fuzzy threshold.
	MatchFuzzy MatchType = "fuzzy"
	// MatchNone means no stage produced a hit.
	MatchNone MatchType = "none"
)

// MatchResult is the outcome of a single resolution call. It is transient:
// constructed per call, optionally cached, and never persisted.
type MatchResult struct {
	Matched     bool      `json:"matched"`
	CompanyID   string    `json:"company_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	MatchScore  float64   `json:"match_score"`
	MatchType   MatchType `json:"match_type"`

	// MatchedVariant is the specific alias that matched, set for variant
	// matches and for fuzzy matches won by a variant rather than the name.
	MatchedVariant string `json:"matched_variant,omitempty"`
}

// PossibleDuplicate is an advisory, lower-confidence match surfaced for
// operator review. Never cached.
type PossibleDuplicate struct {
	CompanyID   string  `json:"company_id"`
	CompanyName string  `json:"company_name"`
	MatchScore  float64 `json:"match_score"`

	// MatchedName is the name or variant that scored closest to the input.
	MatchedName string `json:"matched_name"`
}
