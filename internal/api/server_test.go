package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/resolve-cli/internal/company"
	"github.com/sells-group/resolve-cli/internal/resolve"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type memStore struct {
	companies []company.Company
	nextID    int
	listErr   error
}

var _ company.Store = (*memStore)(nil)

func (s *memStore) CreateCompany(_ context.Context, c *company.Company) error {
	s.nextID++
	c.ID = fmt.Sprintf("c%d", s.nextID)
	s.companies = append(s.companies, *c)
	return nil
}

func (s *memStore) UpdateCompany(_ context.Context, c *company.Company) error {
	for i := range s.companies {
		if s.companies[i].ID == c.ID {
			s.companies[i] = *c
			return nil
		}
	}
	return fmt.Errorf("company %s not found", c.ID)
}

func (s *memStore) GetCompany(_ context.Context, id string) (*company.Company, error) {
	for i := range s.companies {
		if s.companies[i].ID == id {
			c := s.companies[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memStore) ListActiveCompanies(_ context.Context) ([]company.Company, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var active []company.Company
	for _, c := range s.companies {
		if !c.Merged() {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *memStore) MergeCompanies(_ context.Context, primaryID string, variants []string, secondaryIDs []string) error {
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

func (s *memStore) Migrate(context.Context) error { return nil }
func (s *memStore) Close() error                  { return nil }

func newTestServer(store company.Store, limiter *rate.Limiter) *httptest.Server {
	cache := resolve.NewCache(0)
	matcher := resolve.NewMatcher(store, cache, resolve.MatcherConfig{})
	creator := resolve.NewAutoCreator(store, matcher)
	merger := resolve.NewMergeCoordinator(store, cache)
	srv := New(matcher, creator, merger, cache, limiter)
	return httptest.NewServer(srv.Routes())
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_Health(t *testing.T) {
	ts := newTestServer(&memStore{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_Resolve(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "ABC Logistics Ltd.", Status: company.StatusActive},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/resolve", `{"name":"abc logistics"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result resolve.MatchResult
	decodeBody(t, resp, &result)
	assert.True(t, result.Matched)
	assert.Equal(t, "1", result.CompanyID)
	assert.Equal(t, resolve.MatchExact, result.MatchType)
}

func TestAPI_Resolve_NoMatch(t *testing.T) {
	ts := newTestServer(&memStore{}, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/resolve", `{"name":"Unknown Co"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result resolve.MatchResult
	decodeBody(t, resp, &result)
	assert.False(t, result.Matched)
	assert.Equal(t, resolve.MatchNone, result.MatchType)
}

func TestAPI_Resolve_BadRequest(t *testing.T) {
	ts := newTestServer(&memStore{}, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/resolve", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/resolve", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Resolve_StoreError(t *testing.T) {
	ts := newTestServer(&memStore{listErr: fmt.Errorf("db down")}, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/resolve", `{"name":"Any Co"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_BatchResolve(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "Maersk Line", Status: company.StatusActive},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/resolve/batch", `{"names":["Maersk Line","Unknown Co"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results map[string]resolve.MatchResult `json:"results"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results["Maersk Line"].Matched)
	assert.False(t, body.Results["Unknown Co"].Matched)
}

func TestAPI_Identify_CreatesCompany(t *testing.T) {
	store := &memStore{}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/identify",
		`{"name":"New Co","created_by_id":"u1","document_id":"doc-1"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result resolve.IdentifyResult
	decodeBody(t, resp, &result)
	assert.True(t, result.IsNewCompany)
	assert.NotEmpty(t, result.CompanyID)
	assert.Len(t, store.companies, 1)
}

func TestAPI_Identify_MatchesExisting(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "Maersk Line", Status: company.StatusActive},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/identify", `{"name":"maersk line"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result resolve.IdentifyResult
	decodeBody(t, resp, &result)
	assert.False(t, result.IsNewCompany)
	assert.Equal(t, "1", result.CompanyID)
}

func TestAPI_Duplicates(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "ABC Logistics Ltd.", Status: company.StatusActive},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/duplicates?name=" + strings.ReplaceAll("ABC Logistic", " ", "%20"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Duplicates []resolve.PossibleDuplicate `json:"duplicates"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Duplicates, 1)
	assert.Equal(t, "1", body.Duplicates[0].CompanyID)
}

func TestAPI_Duplicates_BadParams(t *testing.T) {
	ts := newTestServer(&memStore{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/duplicates")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/duplicates?name=x&threshold=bogus")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Merge(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "Maersk Line", Status: company.StatusActive},
		{ID: "2", Name: "Maersk Lines", Status: company.StatusPending},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/merge", `{"primary_id":"1","secondary_ids":["2"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var primary company.Company
	decodeBody(t, resp, &primary)
	assert.Equal(t, "1", primary.ID)
	assert.Contains(t, primary.NameVariants, "Maersk Lines")
}

func TestAPI_Merge_Conflict(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "Maersk Line", Status: company.StatusActive},
		{ID: "2", Name: "Old", Status: company.StatusMerged, MergedIntoID: "1"},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/merge", `{"primary_id":"1","secondary_ids":["2"]}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CacheStatsAndClear(t *testing.T) {
	store := &memStore{companies: []company.Company{
		{ID: "1", Name: "Maersk Line", Status: company.StatusActive},
	}}
	ts := newTestServer(store, nil)
	defer ts.Close()

	postJSON(t, ts.URL+"/resolve", `{"name":"Maersk Line"}`).Body.Close()
	postJSON(t, ts.URL+"/resolve", `{"name":"Maersk Line"}`).Body.Close()

	resp, err := http.Get(ts.URL + "/cache/stats")
	require.NoError(t, err)
	var stats resolve.CacheStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/cache", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/cache/stats")
	require.NoError(t, err)
	decodeBody(t, resp, &stats)
	assert.Equal(t, 0, stats.Entries)
}

func TestAPI_RateLimit(t *testing.T) {
	ts := newTestServer(&memStore{}, rate.NewLimiter(rate.Limit(0.001), 2))
	defer ts.Close()

	// Burst of 2 passes, the third is rejected.
	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}
