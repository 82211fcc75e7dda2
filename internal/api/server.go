// Package api exposes the resolution pipeline as a JSON HTTP API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/resolve-cli/internal/resolve"
)

// Server wires the resolution components to HTTP handlers.
type Server struct {
	matcher *resolve.Matcher
	creator *resolve.AutoCreator
	merger  *resolve.MergeCoordinator
	cache   *resolve.Cache
	limiter *rate.Limiter
}

// New creates a Server. A nil limiter disables rate limiting.
func New(matcher *resolve.Matcher, creator *resolve.AutoCreator, merger *resolve.MergeCoordinator, cache *resolve.Cache, limiter *rate.Limiter) *Server {
	return &Server{
		matcher: matcher,
		creator: creator,
		merger:  merger,
		cache:   cache,
		limiter: limiter,
	}
}

// Routes returns the chi router for the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Get("/health", s.handleHealth)
	r.Post("/resolve", s.handleResolve)
	r.Post("/resolve/batch", s.handleBatchResolve)
	r.Post("/identify", s.handleIdentify)
	r.Get("/duplicates", s.handleDuplicates)
	r.Post("/merge", s.handleMerge)
	r.Get("/cache/stats", s.handleCacheStats)
	r.Delete("/cache", s.handleCacheClear)

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Refresh bool   `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var opts []resolve.Option
	if req.Refresh {
		opts = append(opts, resolve.WithRefresh())
	}

	result, err := s.matcher.Resolve(r.Context(), req.Name, opts...)
	if err != nil {
		zap.L().Error("api: resolve failed", zap.String("name", req.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBatchResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "names is required")
		return
	}

	results, err := s.matcher.BatchResolve(r.Context(), req.Names)
	if err != nil {
		zap.L().Error("api: batch resolve failed", zap.Int("names", len(req.Names)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		Code              string `json:"code"`
		ContactEmail      string `json:"contact_email"`
		CreatedByID       string `json:"created_by_id"`
		DocumentID        string `json:"document_id"`
		SuggestDuplicates bool   `json:"suggest_duplicates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	result, err := s.creator.IdentifyOrCreate(r.Context(),
		resolve.CreateInfo{Name: req.Name, Code: req.Code, ContactEmail: req.ContactEmail},
		resolve.CreateContext{
			CreatedByID:         req.CreatedByID,
			FirstSeenDocumentID: req.DocumentID,
			SuggestDuplicates:   req.SuggestDuplicates,
		},
	)
	if err != nil {
		zap.L().Error("api: identify failed", zap.String("name", req.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "identification failed")
		return
	}

	status := http.StatusOK
	if result.IsNewCompany {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var opts []resolve.Option
	if v := r.URL.Query().Get("threshold"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		opts = append(opts, resolve.WithDuplicateThreshold(threshold))
	}
	if v := r.URL.Query().Get("max"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max")
			return
		}
		opts = append(opts, resolve.WithMaxResults(max))
	}

	duplicates, err := s.matcher.FindPossibleDuplicates(r.Context(), name, opts...)
	if err != nil {
		zap.L().Error("api: duplicate scan failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "duplicate scan failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"duplicates": duplicates})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrimaryID    string   `json:"primary_id"`
		SecondaryIDs []string `json:"secondary_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PrimaryID == "" || len(req.SecondaryIDs) == 0 {
		writeError(w, http.StatusBadRequest, "primary_id and secondary_ids are required")
		return
	}

	primary, err := s.merger.Merge(r.Context(), req.PrimaryID, req.SecondaryIDs)
	if err != nil {
		if resolve.IsMergeConflict(err) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		zap.L().Error("api: merge failed", zap.String("primary_id", req.PrimaryID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "merge failed")
		return
	}
	writeJSON(w, http.StatusOK, primary)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	s.cache.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
