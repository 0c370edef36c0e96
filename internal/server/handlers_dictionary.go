package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hr-screening/internal/dictionary"
)

type addTermRequest struct {
	Kind string `json:"kind" validate:"required,oneof=hard soft"`
	Term string `json:"term" validate:"required"`
}

func (s *Server) handleAddTerm(w http.ResponseWriter, r *http.Request) {
	var req addTermRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	term, err := s.db.AddDictionaryTerm(r.Context(), req.Kind, req.Term)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.reloadSnapshot(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, term)
}

func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" && !dictionary.SkillKind(kind).Valid() {
		s.errorResponse(w, http.StatusBadRequest, "kind must be hard or soft")
		return
	}

	terms, err := s.db.ListDictionaryTerms(r.Context(), kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"terms": terms})
}

func (s *Server) handleDeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid term id")
		return
	}

	deleted, err := s.db.DeleteDictionaryTerm(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "term not found")
		return
	}
	if err := s.reloadSnapshot(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addSynonymRequest struct {
	Token         string `json:"token" validate:"required"`
	CanonicalForm string `json:"canonical_form" validate:"required"`
	Category      string `json:"category"`
}

func (s *Server) handleAddSynonym(w http.ResponseWriter, r *http.Request) {
	var req addSynonymRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	rule, err := s.db.AddSynonymRule(r.Context(), req.Token, req.CanonicalForm, req.Category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.reloadSnapshot(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rule)
}

func (s *Server) handleListSynonyms(w http.ResponseWriter, r *http.Request) {
	rules, err := s.db.ListSynonymRules(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"synonyms": rules})
}

func (s *Server) handleDeleteSynonym(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid synonym id")
		return
	}

	deleted, err := s.db.DeleteSynonymRule(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "synonym rule not found")
		return
	}
	if err := s.reloadSnapshot(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resolveRequest struct {
	Term string `json:"term" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=hard soft"`
}

// handleResolveTerm previews how a free-text term canonicalizes under the
// current snapshot, so HR can verify curation before candidates are affected.
func (s *Server) handleResolveTerm(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	snap := s.currentSnapshot()
	canonical, ok := snap.Canonicalize(req.Term, dictionary.SkillKind(req.Kind))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"term":               req.Term,
		"canonical":          canonical,
		"resolved":           ok,
		"dictionary_version": snap.Version(),
	})
}
