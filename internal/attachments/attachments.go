// Package attachments stores the achievement files uploaded for an
// experience. Only the returned reference enters the form document.
package attachments

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxSize caps a single upload.
const DefaultMaxSize = 10 << 20

// AllowedExtensions are the accepted upload extensions.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

var allowedMIME = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".pdf":  {"application/pdf"},
}

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("attachment exceeds size limit")
	// ErrNotFound is returned for a reference with no stored file.
	ErrNotFound = errors.New("attachment not found")
)

// UnsupportedTypeError is returned when an upload's extension or content
// is not an accepted type.
type UnsupportedTypeError struct {
	Name     string
	Detected string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Detected != "" {
		return fmt.Sprintf("unsupported attachment %q: content is %s", e.Name, e.Detected)
	}
	return fmt.Sprintf("unsupported attachment %q: allowed extensions are %s", e.Name, strings.Join(AllowedExtensions, ", "))
}

// InvalidRefError is returned for a malformed reference.
type InvalidRefError struct {
	Ref string
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid attachment reference: %q", e.Ref)
}

// Attachment describes a stored file.
type Attachment struct {
	Ref         string `json:"ref"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Store keeps attachments as files in a directory.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the directory if needed. maxSize <= 0 uses DefaultMaxSize.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Save validates and stores an upload. The extension must be allowed and
// the sniffed content must match it.
func (s *Store) Save(name string, r io.Reader) (Attachment, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedMIME[ext]; !ok {
		return Attachment{}, &UnsupportedTypeError{Name: name}
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return Attachment{}, ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !slices.ContainsFunc(allowedMIME[ext], detected.Is) {
		return Attachment{}, &UnsupportedTypeError{Name: name, Detected: detected.String()}
	}

	ref := uuid.NewString() + ext
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return Attachment{}, fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Attachment{}, fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, ref)); err != nil {
		return Attachment{}, fmt.Errorf("failed to store attachment: %w", err)
	}

	return Attachment{
		Ref:         ref,
		Name:        filepath.Base(name),
		ContentType: allowedMIME[ext][0],
		Size:        int64(len(data)),
	}, nil
}

// Open returns the stored file for ref. The caller closes it.
func (s *Store) Open(ref string) (*os.File, Attachment, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, Attachment{}, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Attachment{}, ErrNotFound
	}
	if err != nil {
		return nil, Attachment{}, fmt.Errorf("failed to open attachment: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Attachment{}, fmt.Errorf("failed to stat attachment: %w", err)
	}
	return f, Attachment{
		Ref:         ref,
		Name:        ref,
		ContentType: allowedMIME[filepath.Ext(ref)][0],
		Size:        info.Size(),
	}, nil
}

// Delete removes ref. Deleting a missing attachment returns ErrNotFound.
func (s *Store) Delete(ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

// Prune deletes every stored attachment not listed in keep and returns the
// removed references.
func (s *Store) Prune(keep []string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	var removed []string
	for _, entry := range entries {
		ref := entry.Name()
		if entry.IsDir() || ValidateRef(ref) != nil || slices.Contains(keep, ref) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to prune attachment %s: %w", ref, err)
		}
		removed = append(removed, ref)
	}
	return removed, nil
}

// ValidateRef checks that ref is "<uuid><allowed extension>".
func ValidateRef(ref string) error {
	ext := filepath.Ext(ref)
	if _, ok := allowedMIME[ext]; !ok {
		return &InvalidRefError{Ref: ref}
	}
	if _, err := uuid.Parse(strings.TrimSuffix(ref, ext)); err != nil {
		return &InvalidRefError{Ref: ref}
	}
	return nil
}

func (s *Store) path(ref string) (string, error) {
	if err := ValidateRef(ref); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, ref), nil
}
