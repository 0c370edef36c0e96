package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hr-screening/internal/interview"
)

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req interview.InviteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.manager.Invite(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleBulkInvite(w http.ResponseWriter, r *http.Request) {
	var req interview.BulkInviteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.manager.BulkInvite(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.ListSessions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := s.db.SessionByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return
	}

	turns, err := s.db.SessionTurns(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	session.Turns = turns
	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handleCancelInterview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := s.manager.Cancel(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "canceled"})
}
