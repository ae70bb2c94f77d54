// Package wizard assembles one resume-builder session: the form store, the
// step registry, the navigation controller with its progress animator and
// the exporter.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mdabutalebdev/cv-maker/internal/attachments"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/form"
	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/navigation"
	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/review"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// DefaultJobSearchURL is the external job board linked from the review step.
const DefaultJobSearchURL = "https://www.linkedin.com/jobs/"

// ErrAttachmentsDisabled is returned when no attachment store is configured.
var ErrAttachmentsDisabled = errors.New("attachments are not configured")

// ErrUnknownExperience is returned when attaching to a missing experience.
var ErrUnknownExperience = errors.New("unknown experience id")

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Snapshots    form.SnapshotStore
	Scheduler    progress.Scheduler
	Registry     *steps.Registry
	Renderer     export.Renderer
	Attachments  *attachments.Store
	Catalog      *labels.Catalog
	Logger       *slog.Logger
	Start        steps.Step
	StrictJumps  bool
	JobSearchURL string
	// LaTeXTemplate overrides the built-in tex export template.
	LaTeXTemplate string
}

// Session is one user's pass through the wizard.
type Session struct {
	Store       *form.Store
	Registry    *steps.Registry
	Animator    *progress.Animator
	Controller  *navigation.Controller
	Exporter    *export.Exporter
	Attachments *attachments.Store

	catalog      *labels.Catalog
	logger       *slog.Logger
	jobSearchURL string
}

// New rehydrates the form document and wires the session components.
func New(ctx context.Context, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = labels.English()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = progress.NewClockScheduler(0)
	}
	if opts.Registry == nil {
		opts.Registry = steps.Default()
	}
	if opts.JobSearchURL == "" {
		opts.JobSearchURL = DefaultJobSearchURL
	}

	store := form.Open(ctx, opts.Snapshots, form.WithLogger(opts.Logger.With("component", "form")))
	animator := progress.New(opts.Scheduler, progress.WithLogger(opts.Logger.With("component", "progress")))
	controller := navigation.New(animator,
		navigation.WithStart(opts.Start),
		navigation.WithStrictJumps(opts.StrictJumps),
		navigation.WithCatalog(opts.Catalog),
		navigation.WithLogger(opts.Logger.With("component", "navigation")),
	)
	exporter := export.New(opts.Renderer,
		export.WithCatalog(opts.Catalog),
		export.WithLogger(opts.Logger.With("component", "export")),
		export.WithLaTeXTemplate(opts.LaTeXTemplate),
	)

	return &Session{
		Store:        store,
		Registry:     opts.Registry,
		Animator:     animator,
		Controller:   controller,
		Exporter:     exporter,
		Attachments:  opts.Attachments,
		catalog:      opts.Catalog,
		logger:       opts.Logger,
		jobSearchURL: opts.JobSearchURL,
	}
}

// Catalog returns the session's label catalog.
func (s *Session) Catalog() *labels.Catalog { return s.catalog }

// JobSearchURL returns the external job search destination.
func (s *Session) JobSearchURL() string { return s.jobSearchURL }

// Jump resolves a raw step identifier and navigates to it.
func (s *Session) Jump(raw string) error {
	def, err := s.Registry.Resolve(raw)
	if err != nil {
		return err
	}
	return s.Controller.Navigate(def.Step)
}

// Review projects the current document.
func (s *Session) Review() review.Projection {
	return review.Project(s.Store.State())
}

// Lint returns review-time warnings for the current document.
func (s *Session) Lint() []types.LintIssue {
	state := s.Store.State()
	return state.Lint()
}

// Export renders the current document.
func (s *Session) Export(ctx context.Context, format export.Format) (*export.Result, error) {
	return s.Exporter.Export(ctx, s.Store.State(), format)
}

// AttachAchievement stores an uploaded file and appends its reference to the
// experience's achievements.
func (s *Session) AttachAchievement(experienceID int, name string, r io.Reader) (attachments.Attachment, error) {
	if s.Attachments == nil {
		return attachments.Attachment{}, ErrAttachmentsDisabled
	}
	if _, ok := s.experience(experienceID); !ok {
		return attachments.Attachment{}, fmt.Errorf("%w: %d", ErrUnknownExperience, experienceID)
	}

	att, err := s.Attachments.Save(name, r)
	if err != nil {
		return attachments.Attachment{}, err
	}
	if !s.Store.AddExperienceAchievement(experienceID, att.Ref) {
		// the experience was deleted while the file was being written
		if err := s.Attachments.Delete(att.Ref); err != nil {
			s.logger.Warn("failed to delete orphaned attachment", "ref", att.Ref, "error", err)
		}
		return attachments.Attachment{}, fmt.Errorf("%w: %d", ErrUnknownExperience, experienceID)
	}
	s.logger.Info("achievement attached", "experience", experienceID, "ref", att.Ref, "size", att.Size)
	return att, nil
}

// DetachAchievement removes ref from the experience and deletes the file.
func (s *Session) DetachAchievement(experienceID int, ref string) error {
	if s.Attachments == nil {
		return ErrAttachmentsDisabled
	}
	if _, ok := s.experience(experienceID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownExperience, experienceID)
	}
	if !s.Store.RemoveExperienceAchievement(experienceID, ref) {
		return attachments.ErrNotFound
	}
	if err := s.Attachments.Delete(ref); err != nil && !errors.Is(err, attachments.ErrNotFound) {
		return err
	}
	return nil
}

// CleanupAttachments drops empty references from the document and deletes
// stored files nothing refers to.
func (s *Session) CleanupAttachments() ([]string, error) {
	s.Store.Dispatch(form.CleanupAttachments{})
	if s.Attachments == nil {
		return nil, nil
	}
	var keep []string
	for _, exp := range s.Store.State().Experiences {
		keep = append(keep, exp.Achievements...)
	}
	return s.Attachments.Prune(keep)
}

func (s *Session) experience(id int) (types.Experience, bool) {
	for _, exp := range s.Store.State().Experiences {
		if exp.ID == id {
			return exp, true
		}
	}
	return types.Experience{}, false
}

// Close stops the animation and flushes pending snapshots.
func (s *Session) Close() error {
	s.Animator.Cancel()
	return s.Store.Close()
}
