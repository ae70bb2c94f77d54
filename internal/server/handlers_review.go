package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/review"
	"github.com/mdabutalebdev/cv-maker/internal/types"
)

type reviewResponse struct {
	Resume   review.Projection `json:"resume"`
	Headings []string          `json:"headings"`
	Issues   []types.LintIssue `json:"issues"`
}

// handleReview returns the review projection and non-blocking lint issues.
func (s *Server) handleReview(w http.ResponseWriter, _ *http.Request) {
	p := s.session.Review()
	issues := s.session.Lint()
	if issues == nil {
		issues = []types.LintIssue{}
	}
	s.jsonResponse(w, http.StatusOK, reviewResponse{Resume: p, Headings: p.Headings(), Issues: issues})
}

func (s *Server) handleReviewPlain(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.session.Review().PlainText()))
}

// handleExport downloads the resume. A failed render still succeeds with a
// plain text file; the notice is returned in X-Export-Notice.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = s.exportFormat
	}

	res, err := s.session.Export(r.Context(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res.Fallback {
		s.logger.Warn("export fell back to plain text", "requested", format, "notice", res.Notice)
		w.Header().Set("X-Export-Notice", res.Notice)
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		s.logger.Warn("failed to write export", "error", err)
	}
}

// handleJobSearch sends the browser to the external job board.
func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.session.JobSearchURL(), http.StatusFound)
}
