package form

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/mdabutalebdev/cv-maker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSnapshots records saved documents in memory.
type fakeSnapshots struct {
	mu      sync.Mutex
	saved   *types.FormState
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeSnapshots) Load(context.Context) (*types.FormState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.saved == nil {
		return nil, nil
	}
	st := f.saved.Clone()
	return &st, nil
}

func (f *fakeSnapshots) Save(_ context.Context, state types.FormState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &state
	return nil
}

func (f *fakeSnapshots) last() *types.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}

func TestStore_PersistsAfterMutation(t *testing.T) {
	snaps := &fakeSnapshots{}
	store := New(snaps)
	defer store.Close()

	changed := store.SetPersonalInfo(types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"})
	require.True(t, changed)
	require.NoError(t, store.Flush())

	saved := snaps.last()
	require.NotNil(t, saved)
	assert.Equal(t, "Ada", saved.PersonalInfo.FirstName)
}

func TestStore_NoopDoesNotPersist(t *testing.T) {
	snaps := &fakeSnapshots{}
	store := New(snaps)
	defer store.Close()

	assert.False(t, store.DeleteExperience(1))
	assert.False(t, store.UpdateEducationField(7, EducationDegree, "BSc"))
	require.NoError(t, store.Flush())

	assert.Nil(t, snaps.last())
}

func TestStore_PersistFailureDoesNotBlock(t *testing.T) {
	var reported []error
	var mu sync.Mutex
	snaps := &fakeSnapshots{saveErr: errors.New("disk full")}
	store := New(snaps, WithPersistErrorHandler(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}))
	defer store.Close()

	assert.True(t, store.AddSkillToCategory(types.SkillCategoryLanguages, "English"))
	err := store.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Error(t, store.LastPersistError())

	state := store.State()
	assert.Equal(t, []string{"English"}, state.SkillCategory(types.SkillCategoryLanguages).Items,
		"in-memory state stays authoritative")

	mu.Lock()
	assert.Len(t, reported, 1)
	mu.Unlock()
}

func TestStore_AddReturnsNewID(t *testing.T) {
	store := New(nil)

	assert.Equal(t, 2, store.AddExperience())
	assert.Equal(t, 3, store.AddExperience())
	assert.Equal(t, 2, store.AddEducation())
	assert.Equal(t, 2, store.AddCertification())
	assert.Equal(t, 2, store.AddProject())

	assert.True(t, store.DeleteExperience(3))
	assert.Equal(t, 3, store.AddExperience())
}

func TestStore_StateIsACopy(t *testing.T) {
	store := New(nil)
	store.AddSkillToCategory(types.SkillCategoryTechnical, "Go")

	state := store.State()
	state.Skills[0].Items[0] = "Rust"

	assert.Equal(t, "Go", store.State().Skills[0].Items[0])
}

func TestOpen_Rehydrates(t *testing.T) {
	saved := types.DefaultFormState()
	saved.PersonalInfo.FirstName = "Grace"
	saved.Educations = nil
	snaps := &fakeSnapshots{saved: &saved}

	store := Open(context.Background(), snaps)
	defer store.Close()

	state := store.State()
	assert.Equal(t, "Grace", state.PersonalInfo.FirstName)
	assert.Len(t, state.Educations, 1, "rehydrated document is normalized")
}

func TestOpen_FallsBackToSeedOnLoadError(t *testing.T) {
	snaps := &fakeSnapshots{loadErr: errors.New("corrupt snapshot")}

	store := Open(context.Background(), snaps)
	defer store.Close()

	assert.Equal(t, types.DefaultFormState(), store.State())
}

func TestOpen_WithoutSnapshotStore(t *testing.T) {
	store := Open(context.Background(), nil)

	assert.Equal(t, types.DefaultFormState(), store.State())
	assert.NoError(t, store.Flush())
	assert.NoError(t, store.Close())
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	snaps := &fakeSnapshots{}
	store := New(snaps)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddProject()
		}()
	}
	wg.Wait()
	require.NoError(t, store.Flush())

	state := store.State()
	assert.Len(t, state.Projects, 21)
	seen := make(map[int]bool)
	for _, p := range state.Projects {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, snaps.last().Projects, 21, "latest document is the one persisted")
}

func TestStore_PersistedDocumentMatchesStateAfterConcurrentWrites(t *testing.T) {
	for round := 0; round < 50; round++ {
		snaps := &fakeSnapshots{}
		store := New(snaps)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				title := strconv.Itoa(i)
				store.SetCareerInfo(CareerInfoPatch{JobTitle: &title})
				store.AddExperience()
			}(i)
		}
		wg.Wait()
		require.NoError(t, store.Close())

		require.NotNil(t, snaps.last())
		require.Equal(t, store.State(), *snaps.last(), "round %d", round)
	}
}
