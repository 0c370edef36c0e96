package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hr-screening/internal/db"
	"github.com/jonathan/hr-screening/internal/profile"
	"github.com/jonathan/hr-screening/internal/scoring"
	"github.com/jonathan/hr-screening/internal/types"
)

type ingestRequest struct {
	RoleName   string              `json:"role_name" validate:"required"`
	Extraction types.RawExtraction `json:"extraction"`
}

// handleIngestCandidate accepts an extracted application, canonicalizes it
// against the current dictionary snapshot, scores it against the role
// template and stores all three artifacts.
func (s *Server) handleIngestCandidate(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	template, err := s.db.GetTemplateByRole(r.Context(), req.RoleName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if template == nil {
		s.errorResponse(w, http.StatusNotFound, "template not found for role")
		return
	}

	snap := s.currentSnapshot()
	p := profile.Canonicalize(req.Extraction, snap)
	p.RoleName = req.RoleName

	score, err := scoring.Score(&p, template, snap)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stored, err := s.db.CreateCandidate(r.Context(), req.Extraction, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.db.SaveScore(r.Context(), stored.ID, *score); err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"profile": stored,
		"score":   score,
	})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListCandidates(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"candidates": records})
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	record, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "candidate not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// rescoreCandidate re-runs canonicalization and scoring for one stored
// application under the current snapshot.
func (s *Server) rescoreCandidate(r *http.Request, id uuid.UUID) (*db.CandidateRecord, error) {
	record, err := s.db.GetCandidate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	template, err := s.db.GetTemplateByRole(r.Context(), record.Profile.RoleName)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, fmt.Errorf("template missing for role %q", record.Profile.RoleName)
	}

	snap := s.currentSnapshot()
	p := profile.Canonicalize(record.RawExtraction, snap)
	p.RoleName = record.Profile.RoleName
	p.Status = record.Profile.Status
	p.AppliedAt = record.Profile.AppliedAt

	score, err := scoring.Score(&p, template, snap)
	if err != nil {
		return nil, err
	}

	if err := s.db.ReplaceProfile(r.Context(), id, p); err != nil {
		return nil, err
	}
	if err := s.db.SaveScore(r.Context(), id, *score); err != nil {
		return nil, err
	}

	p.ID = id
	return &db.CandidateRecord{Profile: p, RawExtraction: record.RawExtraction, Score: score}, nil
}

func (s *Server) handleRescoreCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	record, err := s.rescoreCandidate(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "candidate not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

type rescoreAllRequest struct {
	RoleName string `json:"role_name" validate:"required"`
}

// handleRescoreAll rescores every candidate for a role, bounded to four
// concurrent workers. Used after dictionary or template edits.
func (s *Server) handleRescoreAll(w http.ResponseWriter, r *http.Request) {
	var req rescoreAllRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	records, err := s.db.ListCandidates(r.Context(), req.RoleName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, _ := errgroup.WithContext(r.Context())
	g.SetLimit(4)
	for _, record := range records {
		id := record.Profile.ID
		g.Go(func() error {
			_, err := s.rescoreCandidate(r, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"role_name": req.RoleName,
		"rescored":  len(records),
	})
}

func (s *Server) handleRankedCandidates(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		s.errorResponse(w, http.StatusBadRequest, "role query parameter is required")
		return
	}

	ranked, err := s.db.RankedCandidates(r.Context(), role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"role_name": role, "candidates": ranked})
}

// handleExportCandidates streams the ranked list for a role as CSV.
func (s *Server) handleExportCandidates(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		s.errorResponse(w, http.StatusBadRequest, "role query parameter is required")
		return
	}

	ranked, err := s.db.RankedCandidates(r.Context(), role)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", role+"-candidates.csv"))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"rank", "candidate_id", "name", "email", "status", "jd_match_score", "matched_keywords", "missing_keywords", "applied_at"})
	for i, c := range ranked {
		_ = cw.Write([]string{
			fmt.Sprintf("%d", i+1),
			c.Profile.ID.String(),
			c.Profile.Contact.Name,
			c.Profile.Contact.Email,
			c.Profile.Status,
			fmt.Sprintf("%.2f", c.Score.JDMatchScore),
			strings.Join(c.Score.MatchedKeywords, ";"),
			strings.Join(c.Score.MissingKeywords, ";"),
			c.Profile.AppliedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	cw.Flush()
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=new shortlisted interviewing rejected hired"`
}

func (s *Server) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	var req statusRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.db.UpdateCandidateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !updated {
		s.errorResponse(w, http.StatusNotFound, "candidate not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

type noteRequest struct {
	Note string `json:"note" validate:"required"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	var req noteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	note, err := s.db.AddNote(r.Context(), id, req.Note)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	notes, err := s.db.ListNotes(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"notes": notes})
}
