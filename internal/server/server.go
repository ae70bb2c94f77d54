// Package server provides the HTTP API a web front-end drives the resume
// wizard through.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	session    *wizard.Session
	logger     *slog.Logger
	validator  *validator.Validate
	handler    http.Handler

	exportFormat export.Format
}

// Config holds server configuration
type Config struct {
	Port        int
	CORSOrigins []string
	// ExportFormat is used when a download names no format.
	ExportFormat string
	// MaxUploadBytes caps multipart attachment uploads.
	MaxUploadBytes int64
}

// New creates a new server instance around a wizard session.
func New(session *wizard.Session, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 12 << 20
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = string(export.FormatPDF)
	}
	s := &Server{
		session:   session,
		logger:    logger,
		validator: validator.New(),

		exportFormat: export.Format(cfg.ExportFormat),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Form document
	mux.HandleFunc("GET /form", s.handleGetForm)
	mux.HandleFunc("PUT /form/personal-info", s.handleSetPersonalInfo)
	mux.HandleFunc("PATCH /form/career-info", s.handleSetCareerInfo)
	mux.HandleFunc("PATCH /form/contact-info", s.handleSetContactInfo)
	mux.HandleFunc("PUT /form/contact-info/{field}", s.handleUpdateContactField)
	mux.HandleFunc("PUT /form/social-media/{field}", s.handleUpdateSocialMediaField)
	mux.HandleFunc("POST /form/cleanup", s.handleCleanup)

	mux.HandleFunc("POST /form/experiences", s.handleAddExperience)
	mux.HandleFunc("PUT /form/experiences/{id}/skills", s.handleSetExperienceSkills)
	mux.HandleFunc("PUT /form/experiences/{id}/{field}", s.handleUpdateExperienceField)
	mux.HandleFunc("DELETE /form/experiences/{id}", s.handleDeleteExperience)
	mux.HandleFunc("POST /form/experiences/{id}/achievements", s.handleUploadAchievement)
	mux.HandleFunc("DELETE /form/experiences/{id}/achievements/{ref}", s.handleDeleteAchievement)

	mux.HandleFunc("POST /form/educations", s.handleAddEducation)
	mux.HandleFunc("PUT /form/educations/{id}/{field}", s.handleUpdateEducationField)
	mux.HandleFunc("DELETE /form/educations/{id}", s.handleDeleteEducation)

	mux.HandleFunc("POST /form/certifications", s.handleAddCertification)
	mux.HandleFunc("PUT /form/certifications/{id}/{field}", s.handleUpdateCertificationField)
	mux.HandleFunc("DELETE /form/certifications/{id}", s.handleDeleteCertification)

	mux.HandleFunc("POST /form/projects", s.handleAddProject)
	mux.HandleFunc("PUT /form/projects/{id}/technologies", s.handleSetProjectTechnologies)
	mux.HandleFunc("PUT /form/projects/{id}/{field}", s.handleUpdateProjectField)
	mux.HandleFunc("DELETE /form/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("PUT /form/skills/{category}", s.handleUpdateSkillCategory)
	mux.HandleFunc("POST /form/skills/{category}/items", s.handleAddSkill)
	mux.HandleFunc("DELETE /form/skills/{category}/items/{skill}", s.handleRemoveSkill)

	// Steps and navigation
	mux.HandleFunc("GET /steps", s.handleListSteps)
	mux.HandleFunc("GET /steps/{step}", s.handleGetStep)
	mux.HandleFunc("GET /navigation", s.handleGetNavigation)
	mux.HandleFunc("POST /navigation/back", s.handleBack)
	mux.HandleFunc("POST /navigation/next", s.handleNext)
	mux.HandleFunc("POST /navigation/jump/{step}", s.handleJump)
	mux.HandleFunc("GET /progress", s.handleGetProgress)
	mux.HandleFunc("GET /progress/stream", s.handleProgressStream)

	// Review and export
	mux.HandleFunc("GET /review", s.handleReview)
	mux.HandleFunc("GET /review/plain", s.handleReviewPlain)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /jobs", s.handleJobSearch)
	mux.HandleFunc("GET /attachments/{ref}", s.handleGetAttachment)

	s.handler = s.withLogging(s.withCORS(cfg.CORSOrigins, s.withUploadLimit(cfg.MaxUploadBytes, mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for browser exports
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.session.Close(); closeErr != nil {
		s.logger.Warn("failed to flush form snapshot on shutdown", "error", closeErr)
	}
	s.logger.Info("server stopped")
	return err
}

// withCORS applies the CORS policy. No configured origins allows any origin.
func (s *Server) withCORS(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-Notice", "X-Request-ID"},
	})
	return c.Handler(next)
}

// withLogging adds a request id and logs each request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID)
	})
}

func (s *Server) withUploadLimit(limit int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"exporting": s.session.Exporter.Busy(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := map[string]string{"error": err.Error()}
	if state := errorState(err); state != "" {
		body["state"] = state
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.jsonResponse(w, status, body)
}

// decodeJSON decodes and validates a request body.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}
