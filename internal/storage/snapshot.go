package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/schemas"
	"github.com/mdabutalebdev/cv-maker/internal/types"
)

const (
	// StorageKey is the key the form document is stored under.
	StorageKey = "persist:root"

	// SnapshotVersion is written into every envelope. Documents saved without
	// an envelope are read as version 0.
	SnapshotVersion = 1
)

// Envelope wraps a persisted form document.
type Envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Form    json.RawMessage `json:"form"`
}

// UnsupportedVersionError is returned for snapshots written by a newer build.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("snapshot version %d is newer than supported version %d", e.Version, SnapshotVersion)
}

// Snapshots reads and writes the form document through a Backend.
type Snapshots struct {
	backend Backend
	key     string
	now     func() time.Time
}

// NewSnapshots returns a snapshot store for key. An empty key uses StorageKey.
func NewSnapshots(backend Backend, key string) *Snapshots {
	if key == "" {
		key = StorageKey
	}
	return &Snapshots{backend: backend, key: key, now: time.Now}
}

// Key returns the storage key in use.
func (s *Snapshots) Key() string { return s.key }

// Load returns the stored document, or (nil, nil) when nothing was saved.
func (s *Snapshots) Load(ctx context.Context) (*types.FormState, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	state, _, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save writes state wrapped in a versioned envelope.
func (s *Snapshots) Save(ctx context.Context, state types.FormState) error {
	data, err := EncodeSnapshot(state, s.now())
	if err != nil {
		return err
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// EncodeSnapshot serializes state into an envelope. Empty attachment
// references are dropped; only reference strings are ever persisted.
func EncodeSnapshot(state types.FormState, savedAt time.Time) ([]byte, error) {
	doc := state.Clone()
	for i := range doc.Experiences {
		doc.Experiences[i].Achievements = types.CompactRefs(doc.Experiences[i].Achievements)
	}

	form, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form state: %w", err)
	}

	data, err := json.Marshal(Envelope{
		Version: SnapshotVersion,
		SavedAt: savedAt.UTC(),
		Form:    form,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot envelope: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored document and returns it with its version.
// A bare form document without an envelope is accepted as version 0.
func DecodeSnapshot(raw []byte) (*types.FormState, int, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, 0, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	version := 0
	form := raw
	if _, ok := probe["version"]; ok {
		if err := schemas.ValidateEnvelope(raw); err != nil {
			return nil, 0, fmt.Errorf("invalid snapshot envelope: %w", err)
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, 0, fmt.Errorf("failed to parse snapshot envelope: %w", err)
		}
		if env.Version > SnapshotVersion {
			return nil, env.Version, &UnsupportedVersionError{Version: env.Version}
		}
		version = env.Version
		form = env.Form
	}

	if err := schemas.ValidateFormState(form); err != nil {
		return nil, version, fmt.Errorf("invalid form document: %w", err)
	}

	var state types.FormState
	if err := json.Unmarshal(form, &state); err != nil {
		return nil, version, fmt.Errorf("failed to decode form document: %w", err)
	}
	return &state, version, nil
}
