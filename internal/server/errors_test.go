package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hr-screening/internal/interview"
	"github.com/jonathan/hr-screening/internal/scoring"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &ErrBadRequest{Message: "nope"}, http.StatusBadRequest},
		{"invalid template", &scoring.ErrInvalidTemplate{Field: "skills", Message: "empty"}, http.StatusBadRequest},
		{"invalid token", &interview.ErrInvalidToken{}, http.StatusNotFound},
		{"not found", &interview.ErrNotFound{Entity: "candidate", Key: "x"}, http.StatusNotFound},
		{"expired", &interview.ErrExpired{SessionID: uuid.New()}, http.StatusGone},
		{"conflict", &interview.ErrConflict{Reason: "already started"}, http.StatusConflict},
		{"duplicate active", interview.ErrDuplicateActive, http.StatusConflict},
		{"collaborator", &interview.ErrCollaborator{Op: "email", Err: errors.New("down")}, http.StatusServiceUnavailable},
		{"wrapped collaborator", fmt.Errorf("invite: %w", &interview.ErrCollaborator{Op: "email", Err: errors.New("down")}), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
