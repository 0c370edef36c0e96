package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer() *Server {
	return &Server{
		validate: validator.New(),
		log:      zap.NewNop(),
	}
}

func TestDecodeJSON_Valid(t *testing.T) {
	s := testServer()
	r := httptest.NewRequest(http.MethodPost, "/portal/start",
		strings.NewReader(`{"token": "abc"}`))

	var req portalStartRequest
	require.NoError(t, s.decodeJSON(r, &req))
	assert.Equal(t, "abc", req.Token)
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	s := testServer()
	r := httptest.NewRequest(http.MethodPost, "/portal/start", strings.NewReader(`{`))

	var req portalStartRequest
	err := s.decodeJSON(r, &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestDecodeJSON_FailsValidation(t *testing.T) {
	s := testServer()
	r := httptest.NewRequest(http.MethodPost, "/portal/message",
		strings.NewReader(`{"token": "abc"}`)) // answer missing

	var req portalMessageRequest
	err := s.decodeJSON(r, &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestExtractClientID(t *testing.T) {
	s := testServer()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", s.extractClientID(r))

	r.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", s.extractClientID(r))
}

func TestHandleHealth(t *testing.T) {
	s := testServer()
	w := httptest.NewRecorder()

	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
