package form

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// DefaultPersistTimeout bounds a single snapshot write.
const DefaultPersistTimeout = 5 * time.Second

// SnapshotStore is the durable home of the form document.
// Load returns (nil, nil) when nothing has been saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*types.FormState, error)
	Save(ctx context.Context, state types.FormState) error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithPersistTimeout bounds each snapshot write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// WithPersistErrorHandler registers a callback for failed snapshot writes.
// It runs on the writer goroutine.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onPersistError = fn }
}

// Store owns the form document. All writes go through Dispatch; every
// change is snapshotted to the SnapshotStore in the background.
type Store struct {
	mu    sync.RWMutex
	state types.FormState

	logger         *slog.Logger
	persistTimeout time.Duration
	onPersistError func(error)
	writer         *snapshotWriter
}

// New creates a store seeded with the default document. A nil snapshots
// store keeps the document in memory only.
func New(snapshots SnapshotStore, opts ...Option) *Store {
	return newStore(types.DefaultFormState(), snapshots, opts...)
}

// Open rehydrates the document from snapshots, falling back to the seed
// document when nothing was saved or the snapshot cannot be read.
func Open(ctx context.Context, snapshots SnapshotStore, opts ...Option) *Store {
	s := newStore(types.DefaultFormState(), snapshots, opts...)
	if snapshots == nil {
		return s
	}

	saved, err := snapshots.Load(ctx)
	switch {
	case err != nil:
		s.logger.Warn("failed to rehydrate form snapshot; starting from defaults", "error", err)
	case saved == nil:
		s.logger.Debug("no form snapshot found; starting from defaults")
	default:
		saved.Normalize()
		s.state = *saved
		s.logger.Info("form snapshot rehydrated",
			"experiences", len(saved.Experiences),
			"educations", len(saved.Educations),
			"projects", len(saved.Projects))
	}
	return s
}

func newStore(initial types.FormState, snapshots SnapshotStore, opts ...Option) *Store {
	s := &Store{
		state:          initial,
		logger:         slog.Default(),
		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if snapshots != nil {
		s.writer = newSnapshotWriter(snapshots, s.logger, s.persistTimeout, s.onPersistError)
	}
	return s
}

// Dispatch applies an action and reports whether the document changed.
// A changed document is queued for persistence; persistence failures are
// logged and never returned here.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := Reduce(s.state, a)
	if !changed {
		return false
	}
	s.state = next
	s.submitLocked()
	return true
}

// State returns a deep copy of the current document.
func (s *Store) State() types.FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Flush waits until every queued snapshot has been written and returns the
// error of the most recent write, if any.
func (s *Store) Flush() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.flush()
}

// LastPersistError returns the error of the most recent snapshot write.
func (s *Store) LastPersistError() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.lastError()
}

// Close flushes pending snapshots and stops the background writer.
func (s *Store) Close() error {
	if s.writer == nil {
		return nil
	}
	return s.writer.close()
}

// SetPersonalInfo replaces the personal info record.
func (s *Store) SetPersonalInfo(info types.PersonalInfo) bool {
	return s.Dispatch(SetPersonalInfo{Info: info})
}

// SetContactInfo merges a partial contact record.
func (s *Store) SetContactInfo(patch ContactInfoPatch) bool {
	return s.Dispatch(SetContactInfo{Patch: patch})
}

// UpdateContactField writes one contact field.
func (s *Store) UpdateContactField(field ContactField, value string) bool {
	return s.Dispatch(UpdateContactField{Field: field, Value: value})
}

// UpdateSocialMediaField writes one social media field.
func (s *Store) UpdateSocialMediaField(field SocialMediaField, value string) bool {
	return s.Dispatch(UpdateSocialMediaField{Field: field, Value: value})
}

// SetCareerInfo merges a partial career record.
func (s *Store) SetCareerInfo(patch CareerInfoPatch) bool {
	return s.Dispatch(SetCareerInfo{Patch: patch})
}

// AddExperience appends a blank experience and returns its id.
func (s *Store) AddExperience() int {
	return s.addAndReturnID(AddExperience{}, func(st types.FormState) int {
		return st.Experiences[len(st.Experiences)-1].ID
	})
}

// UpdateExperienceField writes a scalar experience field.
func (s *Store) UpdateExperienceField(id int, field ExperienceField, value string) bool {
	return s.Dispatch(UpdateExperienceField{ID: id, Field: field, Value: value})
}

// SetExperienceSkills replaces an experience's skills.
func (s *Store) SetExperienceSkills(id int, skills []string) bool {
	return s.Dispatch(SetExperienceSkills{ID: id, Skills: skills})
}

// SetExperienceAchievements replaces an experience's attachment references.
func (s *Store) SetExperienceAchievements(id int, refs []string) bool {
	return s.Dispatch(SetExperienceAchievements{ID: id, Achievements: refs})
}

// AddExperienceAchievement appends an attachment reference to an experience.
func (s *Store) AddExperienceAchievement(id int, ref string) bool {
	return s.Dispatch(AddExperienceAchievement{ID: id, Ref: ref})
}

// RemoveExperienceAchievement drops an attachment reference from an experience.
func (s *Store) RemoveExperienceAchievement(id int, ref string) bool {
	return s.Dispatch(RemoveExperienceAchievement{ID: id, Ref: ref})
}

// DeleteExperience removes an experience unless it is the last one.
func (s *Store) DeleteExperience(id int) bool {
	return s.Dispatch(DeleteExperience{ID: id})
}

// AddEducation appends a blank education entry and returns its id.
func (s *Store) AddEducation() int {
	return s.addAndReturnID(AddEducation{}, func(st types.FormState) int {
		return st.Educations[len(st.Educations)-1].ID
	})
}

// UpdateEducationField writes an education field.
func (s *Store) UpdateEducationField(id int, field EducationField, value string) bool {
	return s.Dispatch(UpdateEducationField{ID: id, Field: field, Value: value})
}

// DeleteEducation removes an education entry unless it is the last one.
func (s *Store) DeleteEducation(id int) bool {
	return s.Dispatch(DeleteEducation{ID: id})
}

// AddCertification appends a blank certification and returns its id.
func (s *Store) AddCertification() int {
	return s.addAndReturnID(AddCertification{}, func(st types.FormState) int {
		return st.Certifications[len(st.Certifications)-1].ID
	})
}

// UpdateCertificationField writes a certification field.
func (s *Store) UpdateCertificationField(id int, field CertificationField, value string) bool {
	return s.Dispatch(UpdateCertificationField{ID: id, Field: field, Value: value})
}

// DeleteCertification removes a certification unless it is the last one.
func (s *Store) DeleteCertification(id int) bool {
	return s.Dispatch(DeleteCertification{ID: id})
}

// AddProject appends a blank project and returns its id.
func (s *Store) AddProject() int {
	return s.addAndReturnID(AddProject{}, func(st types.FormState) int {
		return st.Projects[len(st.Projects)-1].ID
	})
}

// UpdateProjectField writes a scalar project field.
func (s *Store) UpdateProjectField(id int, field ProjectField, value string) bool {
	return s.Dispatch(UpdateProjectField{ID: id, Field: field, Value: value})
}

// SetProjectTechnologies replaces a project's technologies.
func (s *Store) SetProjectTechnologies(id int, technologies []string) bool {
	return s.Dispatch(SetProjectTechnologies{ID: id, Technologies: technologies})
}

// DeleteProject removes a project unless it is the last one.
func (s *Store) DeleteProject(id int) bool {
	return s.Dispatch(DeleteProject{ID: id})
}

// UpdateSkillCategory replaces the items of a category.
func (s *Store) UpdateSkillCategory(category string, items []string) bool {
	return s.Dispatch(UpdateSkillCategory{Category: category, Items: items})
}

// AddSkillToCategory inserts a skill into a category.
func (s *Store) AddSkillToCategory(category, skill string) bool {
	return s.Dispatch(AddSkillToCategory{Category: category, Skill: skill})
}

// RemoveSkillFromCategory removes a skill from a category.
func (s *Store) RemoveSkillFromCategory(category, skill string) bool {
	return s.Dispatch(RemoveSkillFromCategory{Category: category, Skill: skill})
}

// addAndReturnID dispatches an add action and reads the new id under the
// same lock, so concurrent adds cannot interleave.
func (s *Store) addAndReturnID(a Action, lastID func(types.FormState) int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = Reduce(s.state, a)
	s.submitLocked()
	return lastID(s.state)
}

// submitLocked queues the current document for persistence. Callers hold
// s.mu, so snapshots reach the writer in the order the changes were made.
func (s *Store) submitLocked() {
	if s.writer != nil {
		s.writer.submit(s.state.Clone())
	}
}
