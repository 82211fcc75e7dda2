package resolve

import (
	"context"
	"fmt"

	"github.com/sells-group/resolve-cli/internal/company"
)

// fakeStore is an in-memory company.Store that preserves insertion order
// and counts candidate fetches so tests can assert the caching contracts.
type fakeStore struct {
	companies []company.Company
	listCalls int
	nextID    int

	listErr   error
	createErr error
	mergeErr  error
}

var _ company.Store = (*fakeStore)(nil)

func newFakeStore(companies ...company.Company) *fakeStore {
	return &fakeStore{companies: companies}
}

func (s *fakeStore) CreateCompany(_ context.Context, c *company.Company) error {
	if s.createErr != nil {
		return s.createErr
	}
	if c.ID == "" {
		s.nextID++
		c.ID = fmt.Sprintf("generated-%d", s.nextID)
	}
	s.companies = append(s.companies, *c)
	return nil
}

func (s *fakeStore) UpdateCompany(_ context.Context, c *company.Company) error {
	for i := range s.companies {
		if s.companies[i].ID == c.ID {
			s.companies[i] = *c
			return nil
		}
	}
	return fmt.Errorf("company %s not found", c.ID)
}

func (s *fakeStore) GetCompany(_ context.Context, id string) (*company.Company, error) {
	for i := range s.companies {
		if s.companies[i].ID == id {
			c := s.companies[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListActiveCompanies(_ context.Context) ([]company.Company, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.listCalls++

	var active []company.Company
	for _, c := range s.companies {
		if !c.Merged() {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *fakeStore) MergeCompanies(_ context.Context, primaryID string, variants []string, secondaryIDs []string) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	for i := range s.companies {
		if s.companies[i].ID == primaryID {
			s.companies[i].NameVariants = variants
		}
	}
	for _, id := range secondaryIDs {
		for i := range s.companies {
			if s.companies[i].ID == id {
				s.companies[i].Status = company.StatusMerged
				s.companies[i].MergedIntoID = primaryID
			}
		}
	}
	return nil
}

func (s *fakeStore) Migrate(context.Context) error { return nil }
func (s *fakeStore) Close() error                  { return nil }
