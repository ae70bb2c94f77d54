package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/schemas"
	"github.com/mdabutalebdev/cv-maker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() types.FormState {
	state := types.DefaultFormState()
	state.PersonalInfo = types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com"}
	state.CareerInfo = types.CareerInfo{JobTitle: "Engineer", Summary: "Analytical engines"}
	state.Experiences[0].JobTitle = "Programmer"
	state.Experiences[0].Skills = []string{"Math", "Notes"}
	state.Experiences[0].Achievements = []string{"att-1.pdf"}
	state.Experiences = append(state.Experiences, types.NewExperience(4))
	state.Skills[0].Items = []string{"Figma"}
	state.Projects[0].Technologies = []string{"Brass"}
	state.ContactInfo.SocialMedia = types.SocialMedia{Platform: types.PlatformGitHub, URL: "https://github.com/ada"}
	return state
}

func TestSnapshots_RoundTrip(t *testing.T) {
	ctx := context.Background()
	snaps := NewSnapshots(NewMemoryBackend(), "")
	original := sampleState()

	require.NoError(t, snaps.Save(ctx, original))
	loaded, err := snaps.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, original, *loaded)
}

func TestSnapshots_RoundTripSQLite(t *testing.T) {
	ctx := context.Background()
	b, err := NewSQLiteBackend(t.TempDir() + "/cvmaker.db")
	require.NoError(t, err)
	defer b.Close()
	snaps := NewSnapshots(b, StorageKey)
	original := sampleState()

	require.NoError(t, snaps.Save(ctx, original))
	loaded, err := snaps.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, original, *loaded)
}

func TestSnapshots_LoadMissing(t *testing.T) {
	snaps := NewSnapshots(NewMemoryBackend(), "")

	loaded, err := snaps.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.Equal(t, StorageKey, snaps.Key())
}

func TestSnapshots_SaveWritesEnvelope(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	snaps := NewSnapshots(backend, "")
	snaps.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	state := types.DefaultFormState()
	state.Experiences[0].Achievements = []string{"", "att-2.png"}
	require.NoError(t, snaps.Save(ctx, state))

	raw, err := backend.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.NoError(t, schemas.ValidateEnvelope(raw))

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, SnapshotVersion, env.Version)
	assert.Equal(t, "2024-05-01T10:00:00Z", env.SavedAt.Format(time.RFC3339))

	var form types.FormState
	require.NoError(t, json.Unmarshal(env.Form, &form))
	assert.Equal(t, []string{"att-2.png"}, form.Experiences[0].Achievements)
	assert.Equal(t, []string{"", "att-2.png"}, state.Experiences[0].Achievements, "caller document untouched")
}

func TestDecodeSnapshot_LegacyDocument(t *testing.T) {
	raw := []byte(`{"personalInfo": {"firstName": "Grace"}, "experiences": [{"id": 2, "jobTitle": "Admiral"}]}`)

	state, version, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, 0, version)
	assert.Equal(t, "Grace", state.PersonalInfo.FirstName)
	assert.Equal(t, 2, state.Experiences[0].ID)
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `persist me`},
		{"envelope without form", `{"version": 1}`},
		{"bad form document", `{"version": 1, "form": {"projects": [{"id": "x"}]}}`},
		{"bad legacy document", `{"experiences": [{"jobTitle": "no id"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSnapshot([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSnapshot_NewerVersion(t *testing.T) {
	_, version, err := DecodeSnapshot([]byte(`{"version": 9, "form": {}}`))

	var versionErr *UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, 9, version)
}
