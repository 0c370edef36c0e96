package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/hr-screening/internal/interview"
	"github.com/jonathan/hr-screening/internal/scoring"
)

// ErrBadRequest indicates a malformed or invalid request body.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus maps domain errors to HTTP status codes. Invalid tokens map to
// 404 like unknown sessions, so the API does not reveal whether a token ever
// existed.
func HTTPStatus(err error) int {
	var (
		badRequest      *ErrBadRequest
		invalidTemplate *scoring.ErrInvalidTemplate
		invalidToken    *interview.ErrInvalidToken
		notFound        *interview.ErrNotFound
		expired         *interview.ErrExpired
		conflict        *interview.ErrConflict
		collaborator    *interview.ErrCollaborator
	)

	switch {
	case errors.As(err, &badRequest), errors.As(err, &invalidTemplate):
		return http.StatusBadRequest
	case errors.As(err, &invalidToken), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &expired):
		return http.StatusGone
	case errors.Is(err, interview.ErrDuplicateActive), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &collaborator):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an error to its status and writes the JSON body. Internal
// errors are logged and masked.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("internal error", zap.Error(err))
		message = "internal server error"
	}
	s.errorResponse(w, status, message)
}
