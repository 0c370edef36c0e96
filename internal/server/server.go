// Package server provides the HTTP REST API for the screening engine: HR
// curation and review endpoints plus the token-gated candidate portal.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/hr-screening/internal/config"
	"github.com/jonathan/hr-screening/internal/db"
	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/email"
	"github.com/jonathan/hr-screening/internal/interview"
	"github.com/jonathan/hr-screening/internal/llm"
	"github.com/jonathan/hr-screening/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	manager     *interview.Manager
	llmClient   llm.Client
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	log         *zap.Logger

	// snapshot is the dictionary view used by canonicalization and scoring.
	// Curation writes reload it; readers always see a consistent version.
	snapshot atomic.Pointer[dictionary.Snapshot]
}

// New creates a new server instance and wires its dependencies.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}

	s := &Server{
		db:       database,
		validate: validator.New(),
		log:      log,
	}

	snap, err := database.LoadSnapshot(ctx)
	if err != nil {
		database.Close()
		return nil, err
	}
	s.snapshot.Store(snap)

	var questions interview.QuestionGenerator
	var evaluator interview.AnswerEvaluator
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, nil, cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, err
		}
		s.llmClient = client
		interviewer := llm.NewInterviewer(client)
		questions, evaluator = interviewer, interviewer
	} else {
		return nil, fmt.Errorf("GEMINI_API_KEY is required to run interviews")
	}

	var mailer interview.EmailSender
	if cfg.SMTPConfigured() {
		sender, err := email.NewSender(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			UseTLS:   cfg.SMTPUseTLS == nil || *cfg.SMTPUseTLS,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			database.Close()
			return nil, err
		}
		mailer = sender
	} else {
		log.Warn("smtp not configured, invites will rely on fallback links")
	}

	s.manager = interview.NewManager(database, questions, evaluator, mailer, interview.Config{
		ExpiryHours:   cfg.InviteExpiryHours,
		MaxQuestions:  cfg.MaxQuestions,
		ResendWindow:  time.Duration(cfg.ResendWindowMinutes) * time.Minute,
		PortalBaseURL: cfg.PortalBaseURL,
	}, log)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Dictionary curation
	mux.HandleFunc("GET /dictionary/terms", s.handleListTerms)
	mux.HandleFunc("POST /dictionary/terms", s.handleAddTerm)
	mux.HandleFunc("DELETE /dictionary/terms/{id}", s.handleDeleteTerm)
	mux.HandleFunc("GET /dictionary/synonyms", s.handleListSynonyms)
	mux.HandleFunc("POST /dictionary/synonyms", s.handleAddSynonym)
	mux.HandleFunc("DELETE /dictionary/synonyms/{id}", s.handleDeleteSynonym)
	mux.HandleFunc("POST /dictionary/resolve", s.handleResolveTerm)

	// Job templates
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleSaveTemplate)
	mux.HandleFunc("GET /templates/{role}", s.handleGetTemplate)
	mux.HandleFunc("POST /templates/{role}/open", s.handleSetTemplateOpen)

	// Candidates
	mux.HandleFunc("POST /candidates", s.handleIngestCandidate)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/ranked", s.handleRankedCandidates)
	mux.HandleFunc("GET /candidates/export", s.handleExportCandidates)
	mux.HandleFunc("POST /candidates/rescore-all", s.handleRescoreAll)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("POST /candidates/{id}/rescore", s.handleRescoreCandidate)
	mux.HandleFunc("POST /candidates/{id}/status", s.handleUpdateCandidateStatus)
	mux.HandleFunc("GET /candidates/{id}/notes", s.handleListNotes)
	mux.HandleFunc("POST /candidates/{id}/notes", s.handleAddNote)

	// Interview management (HR side)
	mux.HandleFunc("POST /interviews/invite", s.handleInvite)
	mux.HandleFunc("POST /interviews/bulk-invite", s.handleBulkInvite)
	mux.HandleFunc("GET /interviews", s.handleListInterviews)
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("POST /interviews/{id}/cancel", s.handleCancelInterview)

	// Candidate portal (token gated)
	mux.HandleFunc("POST /portal/start", s.handlePortalStart)
	mux.HandleFunc("POST /portal/message", s.handlePortalMessage)

	// Analytics
	mux.HandleFunc("GET /analytics/overview", s.handleAnalyticsOverview)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM-backed portal turns can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// currentSnapshot returns the dictionary snapshot for this request.
func (s *Server) currentSnapshot() *dictionary.Snapshot {
	return s.snapshot.Load()
}

// reloadSnapshot rebuilds the dictionary snapshot after a curation write.
func (s *Server) reloadSnapshot(ctx context.Context) error {
	snap, err := s.db.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	s.snapshot.Store(snap)
	s.log.Info("dictionary snapshot reloaded", zap.Int64("version", snap.Version()))
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())+1))
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"retry_after": int(info.RetryAfter.Seconds()) + 1,
	})
}

// decodeJSON parses and validates a request body.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrBadRequest{Message: "invalid JSON body"}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &ErrBadRequest{Message: err.Error()}
	}
	return nil
}
