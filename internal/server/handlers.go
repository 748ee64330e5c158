package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/page"
	"github.com/cypherswwayinc/phishguardlite/internal/pipeline"
	"github.com/cypherswwayinc/phishguardlite/internal/scoring"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

// ChecksumHeader carries the SHA3-256 of a served digest artifact.
const ChecksumHeader = "X-Checksum-Sha3-256"

type scoreRequest struct {
	URL      string `json:"url"`
	LinkText string `json:"linkText"`
}

type reportRequest struct {
	URL       string         `json:"url"`
	Context   map[string]any `json:"context"`
	TenantKey string         `json:"tenantKey"`
}

type scanRequest struct {
	HTML     string `json:"html"`
	BaseURL  string `json:"baseUrl"`
	MinScore int    `json:"minScore"`
}

type scanResponse struct {
	Total int                   `json:"total"`
	Links []pipeline.LinkResult `json:"links"`
}

// listResponse wraps admin listings. Warning is set when storage returned a partial result.
type listResponse[T any] struct {
	Items   []T    `json:"items"`
	Warning string `json:"warning,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": s.cfg.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var body scoreRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := s.scorer.Score(body.URL, body.LinkText)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("scoring failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	s.metrics.observeScore(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var body reportRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec, err := store.NewRecord(body.URL, body.Context, body.TenantKey, s.cfg.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.cfg.Store.Append(r.Context(), rec); err != nil {
		s.logger.Error("failed to store report", "id", rec.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	s.metrics.reportsReceived.Inc()
	s.logger.Info("report received", "id", rec.ID, "host", scoring.ExtractHost(rec.URL))
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": rec.ID})
}

func (s *Server) handleScanPage(w http.ResponseWriter, r *http.Request) {
	var body scanRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	links, err := page.ExtractLinks(strings.NewReader(body.HTML), body.BaseURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := s.batch.ProcessBatch(r.Context(), links)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	for _, res := range results {
		if res.Error == "" {
			s.metrics.observeScore(res.Result)
		}
	}
	s.metrics.linksScanned.Add(float64(len(results)))

	writeJSON(w, http.StatusOK, scanResponse{
		Total: len(results),
		Links: pipeline.Flagged(results, body.MinScore),
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	records, err := s.cfg.Store.Recent(r.Context(), limit)
	resp := listResponse[model.ReportRecord]{Items: records}
	if err != nil {
		if !errors.Is(err, store.ErrDegraded) {
			s.logger.Error("listing reports", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list reports")
			return
		}
		resp.Warning = err.Error()
	}
	if resp.Items == nil {
		resp.Items = make([]model.ReportRecord, 0)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		s.logger.Error("getting report", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListDigests(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	infos, err := s.cfg.Store.ListArtifacts(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing digests", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list digests")
		return
	}
	if infos == nil {
		infos = make([]store.ArtifactInfo, 0)
	}
	writeJSON(w, http.StatusOK, listResponse[store.ArtifactInfo]{Items: infos})
}

func (s *Server) handleGetDigest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := store.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	a, err := s.cfg.Store.GetArtifact(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "digest not found")
			return
		}
		s.logger.Error("getting digest", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get digest")
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set(ChecksumHeader, a.Checksum)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Body)
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// parseLimit reads ?limit=, writing a 400 response when it is not a positive integer.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
