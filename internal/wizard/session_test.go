package wizard

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/attachments"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/form"
	"github.com/mdabutalebdev/cv-maker/internal/navigation"
	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/storage"
	"github.com/mdabutalebdev/cv-maker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSession(t *testing.T, opts Options) (*Session, *progress.VirtualScheduler) {
	t.Helper()
	clock := progress.NewVirtualScheduler(time.Unix(0, 0))
	opts.Scheduler = clock
	opts.Logger = quiet
	s := New(context.Background(), opts)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func TestSession_EndToEnd(t *testing.T) {
	backend := storage.NewMemoryBackend()
	snaps := storage.NewSnapshots(backend, "")
	s, clock := newTestSession(t, Options{Snapshots: snaps})

	assert.Equal(t, StateLanding, s.View().State)

	_, err := s.Controller.Next()
	require.NoError(t, err)
	require.Equal(t, steps.PersonalInfo, s.Controller.Current())
	s.Store.SetPersonalInfo(types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"})

	_, err = s.Controller.Next()
	require.NoError(t, err)
	engineer := "Engineer"
	s.Store.SetCareerInfo(form.CareerInfoPatch{JobTitle: &engineer})

	for s.Controller.Current() < steps.Generation {
		_, err = s.Controller.Next()
		require.NoError(t, err)
	}
	view := s.View()
	require.Equal(t, int(steps.Generation), view.Step)
	assert.Equal(t, "Generate Resume", view.Actions[1].Label)

	_, err = s.Controller.Next()
	require.NoError(t, err)
	assert.True(t, s.View().Generating)
	assert.Equal(t, steps.Generation, s.Controller.Current())

	clock.Advance(5500 * time.Millisecond)

	assert.Equal(t, steps.Review, s.Controller.Current())
	view = s.View()
	assert.False(t, view.Generating)
	assert.Equal(t, "Review & Download", view.Title)

	p := s.Review()
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, "Engineer", p.JobTitle)

	_, err = s.Controller.Next()
	assert.ErrorIs(t, err, navigation.ErrForwardDisabled)

	require.NoError(t, s.Store.Flush())
	saved, err := snaps.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.Store.State(), *saved, "snapshot round trips the document")
}

func TestSession_RehydratesFromSnapshot(t *testing.T) {
	backend := storage.NewMemoryBackend()
	snaps := storage.NewSnapshots(backend, "")
	state := types.DefaultFormState()
	state.PersonalInfo.FirstName = "Grace"
	require.NoError(t, snaps.Save(context.Background(), state))

	s, _ := newTestSession(t, Options{Snapshots: snaps, Start: steps.ContactInformation})

	assert.Equal(t, "Grace", s.Store.State().PersonalInfo.FirstName)
	assert.Equal(t, steps.ContactInformation, s.Controller.Current())
}

func TestSession_Views(t *testing.T) {
	s, _ := newTestSession(t, Options{})

	require.NoError(t, s.Jump("4"))
	v := s.View()
	assert.Equal(t, StateStep, v.State)
	assert.Equal(t, "Education & Certifications", v.Title)
	assert.Equal(t, []TabView{{ID: "education", Label: "Education"}, {ID: "certification", Label: "Certification"}}, v.Tabs)
	require.NotNil(t, v.Definition)
	assert.Equal(t, "education-certifications", v.Definition.Component)

	v = s.ViewFor("abc")
	assert.Equal(t, StateInvalidStep, v.State)
	assert.Equal(t, "Invalid Step Number", v.Message)

	v = s.ViewFor("9")
	assert.Equal(t, StateInvalidStep, v.State)

	v = s.ViewFor("2")
	assert.Equal(t, StateStep, v.State)
	assert.Empty(t, v.Actions, "actions belong to the current step only")
}

func TestSession_ComponentMissing(t *testing.T) {
	defs := steps.DefaultDefinitions()
	s, _ := newTestSession(t, Options{Registry: steps.NewRegistry(defs[:4]...), Start: steps.ContactInformation})

	v := s.View()
	assert.Equal(t, StateComponentMissing, v.State)
	assert.Equal(t, 5, v.Step)
	assert.Equal(t, "Step 5 Component Missing", v.Message)

	var missing *steps.MissingComponentError
	assert.ErrorAs(t, s.Jump("6"), &missing)
}

func TestSession_JumpAwayCancelsGeneration(t *testing.T) {
	s, clock := newTestSession(t, Options{Start: steps.Generation})

	_, err := s.Controller.Next()
	require.NoError(t, err)
	require.True(t, s.Controller.Generating())

	require.NoError(t, s.Jump("3"))
	clock.Advance(10 * time.Second)

	assert.Equal(t, steps.SkillsExperience, s.Controller.Current())
	assert.False(t, s.Controller.Generating())
}

func TestSession_ExportFallsBackWithoutRenderer(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Store.SetPersonalInfo(types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"})

	res, err := s.Export(context.Background(), export.FormatPDF)
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, "Ada_Lovelace_Resume.txt", res.Filename)
	assert.Equal(t, "Could not generate PDF. A plain text resume was downloaded instead.", res.Notice)
}

func TestSession_JobSearchURL(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	assert.Equal(t, "https://www.linkedin.com/jobs/", s.JobSearchURL())

	s, _ = newTestSession(t, Options{JobSearchURL: "https://jobs.example.com/"})
	assert.Equal(t, "https://jobs.example.com/", s.JobSearchURL())
}

func TestSession_Lint(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Store.SetPersonalInfo(types.PersonalInfo{EmailAddress: "not-an-email"})

	issues := s.Lint()
	require.Len(t, issues, 1)
	assert.Equal(t, "PersonalInfo.EmailAddress", issues[0].Field)
}

func TestSession_Attachments(t *testing.T) {
	store, err := attachments.NewStore(filepath.Join(t.TempDir(), "att"), 0)
	require.NoError(t, err)
	s, _ := newTestSession(t, Options{Attachments: store})

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	att, err := s.AttachAchievement(1, "award.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, []string{att.Ref}, s.Store.State().Experiences[0].Achievements)

	_, err = s.AttachAchievement(42, "award.png", bytes.NewReader(png))
	assert.ErrorIs(t, err, ErrUnknownExperience)

	orphan, err := store.Save("orphan.png", bytes.NewReader(png))
	require.NoError(t, err)
	removed, err := s.CleanupAttachments()
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.Ref}, removed)

	require.NoError(t, s.DetachAchievement(1, att.Ref))
	assert.Empty(t, s.Store.State().Experiences[0].Achievements)
	_, statErr := os.Stat(filepath.Join(store.Dir(), att.Ref))
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, s.DetachAchievement(1, att.Ref), attachments.ErrNotFound)
}

func TestSession_ConcurrentAttachmentsKeepEveryRef(t *testing.T) {
	store, err := attachments.NewStore(filepath.Join(t.TempDir(), "att"), 0)
	require.NoError(t, err)
	s, _ := newTestSession(t, Options{Attachments: store})

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	const uploads = 16
	refs := make([]string, uploads)
	var wg sync.WaitGroup
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			att, err := s.AttachAchievement(1, "award.png", bytes.NewReader(png))
			assert.NoError(t, err)
			refs[i] = att.Ref
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, refs, s.Store.State().Experiences[0].Achievements)

	removed, err := s.CleanupAttachments()
	require.NoError(t, err)
	assert.Empty(t, removed, "every stored file is referenced")
}

func TestSession_AttachmentsDisabled(t *testing.T) {
	s, _ := newTestSession(t, Options{})

	_, err := s.AttachAchievement(1, "a.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrAttachmentsDisabled)
	assert.ErrorIs(t, s.DetachAchievement(1, "x"), ErrAttachmentsDisabled)
}
