package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/stats"
	"github.com/spigell/resume-screener/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

type screenResponse struct {
	Job     resume.JobRequirements `json:"job"`
	Resumes []*screening.Outcome   `json:"resumes"`
}

type rescoreResponse struct {
	ID    string                 `json:"id"`
	Job   resume.JobRequirements `json:"job"`
	Score scoring.Breakdown      `json:"score"`
}

type summaryResponse struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type statsResponse struct {
	stats.Counts
	TopSkills    []string `json:"top_skills"`
	TopLanguages []string `json:"top_programming_languages"`
}

const topN = 5

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("no files uploaded"))
		return
	}

	files := make([]extract.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("open %s: %w", header.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("read %s: %w", header.Filename, err))
			return
		}
		files = append(files, extract.File{Name: header.Filename, Data: data})
	}

	job := jobFromForm(r, s.defaultJob)
	outcomes, err := s.screener.Screen(r.Context(), job, files)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	for _, o := range outcomes.Items {
		s.resumes.Set(o.ID, o)
	}

	s.logger.Info("resumes screened",
		zap.Int("files", len(files)),
		zap.Int("documents", outcomes.Len()),
		zap.Int("stored", s.resumes.Len()),
	)

	s.writeJSON(w, http.StatusCreated, screenResponse{Job: job.Normalize(), Resumes: outcomes.Items})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	outcomes := &screening.Outcomes{Items: s.resumes.Snapshot()}
	outcomes.SortByScore()
	s.writeJSON(w, http.StatusOK, outcomes.Items)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.resumes.Evict(id) {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("resume %s not found", id))
		return
	}
	s.summaries.Evict(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRescore(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if err := parseForm(r, s.maxUpload); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	job := jobFromForm(r, s.defaultJob)
	b, err := screening.Rescore(o, job, s.logger)
	switch {
	case errors.Is(err, screening.ErrNotScorable):
		s.writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rescoreResponse{ID: o.ID, Job: job.Normalize(), Score: b})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if s.summarizer == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("summaries are not configured"))
		return
	}
	if o.Failed() {
		s.writeError(w, http.StatusConflict, screening.ErrNotScorable)
		return
	}

	if cached, ok := s.summaries.Get(o.ID); ok {
		s.writeJSON(w, http.StatusOK, summaryResponse{ID: o.ID, Summary: cached})
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), o.Text)
	if err != nil {
		s.logger.Warn("summarizing resume failed", zap.String("document_id", o.ID), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, fmt.Errorf("summarize: %w", err))
		return
	}

	s.summaries.Set(o.ID, summary)
	s.writeJSON(w, http.StatusOK, summaryResponse{ID: o.ID, Summary: summary})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	outcomes := &screening.Outcomes{Items: s.resumes.Snapshot()}
	counts := stats.Aggregate(outcomes.Texts())

	s.writeJSON(w, http.StatusOK, statsResponse{
		Counts:       counts,
		TopSkills:    stats.Top(counts.Skills, topN),
		TopLanguages: stats.Top(counts.ProgrammingLanguages, topN),
	})
}

func (s *Server) handleEmails(w http.ResponseWriter, _ *http.Request) {
	outcomes := &screening.Outcomes{Items: s.resumes.Snapshot()}
	emails := validation.UniqueEmails(outcomes.Validations()...)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="emails.txt"`)
	w.WriteHeader(http.StatusOK)
	if len(emails) > 0 {
		_, _ = io.WriteString(w, strings.Join(emails, "\n")+"\n")
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*screening.Outcome, bool) {
	id := chi.URLParam(r, "id")
	o, ok := s.resumes.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("resume %s not found", id))
		return nil, false
	}
	return o, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
