package server

import (
	"net/http"

	"github.com/jonathan/hr-screening/internal/scoring"
	"github.com/jonathan/hr-screening/internal/types"
)

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var template types.JobTemplate
	if err := s.decodeJSON(r, &template); err != nil {
		s.writeError(w, err)
		return
	}
	if err := scoring.ValidateTemplate(&template); err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.db.SaveTemplate(r.Context(), &template)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, saved)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.db.GetTemplateByRole(r.Context(), r.PathValue("role"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if template == nil {
		s.errorResponse(w, http.StatusNotFound, "template not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, template)
}

type setOpenRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

func (s *Server) handleSetTemplateOpen(w http.ResponseWriter, r *http.Request) {
	var req setOpenRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.db.SetTemplateOpen(r.Context(), r.PathValue("role"), *req.IsOpen)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !updated {
		s.errorResponse(w, http.StatusNotFound, "template not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"role_name": r.PathValue("role"), "is_open": *req.IsOpen})
}
