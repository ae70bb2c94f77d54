package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mdabutalebdev/cv-maker/internal/wizard"
)

// uploadMemory is how much of a multipart body is held in memory.
const uploadMemory = 1 << 20

// handleUploadAchievement stores a multipart "file" as an achievement of
// the experience in the path.
func (s *Server) handleUploadAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.session.Attachments == nil {
		s.writeError(w, wizard.ErrAttachmentsDisabled)
		return
	}

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.writeError(w, err)
			return
		}
		s.writeError(w, &ErrValidation{Field: "file", Message: "invalid multipart body: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer file.Close()

	att, err := s.session.AttachAchievement(id, header.Filename, file)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"attachment": att,
		"form":       s.session.Store.State(),
	})
}

func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.DetachAchievement(id, r.PathValue("ref")); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, true)
}

// handleGetAttachment serves a stored attachment inline.
func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	if s.session.Attachments == nil {
		s.writeError(w, wizard.ErrAttachmentsDisabled)
		return
	}
	f, att, err := s.session.Attachments.Open(r.PathValue("ref"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.Name))
	http.ServeContent(w, r, att.Name, info.ModTime(), f)
}

func experienceID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid experience id %q", raw)}
	}
	return id, nil
}
