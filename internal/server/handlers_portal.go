package server

import (
	"net/http"
)

// The portal endpoints are the only candidate-facing surface. They are
// authenticated solely by the invite token; no candidate or session IDs
// appear in the request.

type portalStartRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *Server) handlePortalStart(w http.ResponseWriter, r *http.Request) {
	var req portalStartRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.manager.Start(r.Context(), req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

type portalMessageRequest struct {
	Token  string `json:"token" validate:"required"`
	Answer string `json:"answer" validate:"required"`
}

func (s *Server) handlePortalMessage(w http.ResponseWriter, r *http.Request) {
	var req portalMessageRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.manager.Message(r.Context(), req.Token, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
