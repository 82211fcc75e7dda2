package company

import "context"

// Store defines persistence operations for company records.
//
// ListActiveCompanies excludes merged records; it is the candidate pool the
// matcher scans. MergeCompanies is the only multi-write operation and must
// be atomic: either the primary's variants update and every secondary flips
// to merged, or nothing changes.
type Store interface {
	CreateCompany(ctx context.Context, c *Company) error
	UpdateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id string) (*Company, error)
	ListActiveCompanies(ctx context.Context) ([]Company, error)
	MergeCompanies(ctx context.Context, primaryID string, variants []string, secondaryIDs []string) error

	Migrate(ctx context.Context) error
	Close() error
}
