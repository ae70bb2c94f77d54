package server

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/mdabutalebdev/cv-maker/internal/form"
	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// Request types. Every resume field is optional; malformed emails and URLs
// are reported by the review lint, not rejected here.

type personalInfoRequest struct {
	FirstName     string `json:"firstName" validate:"max=100"`
	LastName      string `json:"lastName" validate:"max=100"`
	PhoneNumber   string `json:"phoneNumber" validate:"max=50"`
	EmailAddress  string `json:"emailAddress" validate:"max=254"`
	CountryRegion string `json:"countryRegion" validate:"max=100"`
	Address       string `json:"address" validate:"max=300"`
	City          string `json:"city" validate:"max=100"`
	State         string `json:"state" validate:"max=100"`
	ZipCode       string `json:"zipCode" validate:"max=20"`
}

type careerInfoRequest struct {
	JobTitle *string `json:"jobTitle" validate:"omitempty,max=200"`
	Summary  *string `json:"summary" validate:"omitempty,max=10000"`
}

type socialMediaRequest struct {
	Platform string `json:"platform" validate:"max=50"`
	URL      string `json:"url" validate:"max=2048"`
}

type contactInfoRequest struct {
	LinkedinProfile *string             `json:"linkedinProfile" validate:"omitempty,max=2048"`
	Portfolio       *string             `json:"portfolio" validate:"omitempty,max=2048"`
	SocialMedia     *socialMediaRequest `json:"socialMedia"`
}

type fieldValueRequest struct {
	Value string `json:"value" validate:"max=10000"`
}

type listRequest struct {
	Items []string `json:"items" validate:"max=200,dive,max=200"`
}

type skillRequest struct {
	Skill string `json:"skill" validate:"required,max=200"`
}

// mutationResponse reports whether a write changed the document.
type mutationResponse struct {
	Changed bool            `json:"changed"`
	Form    types.FormState `json:"form"`
}

type addResponse struct {
	ID   int             `json:"id"`
	Form types.FormState `json:"form"`
}

func (s *Server) changed(w http.ResponseWriter, changed bool) {
	s.jsonResponse(w, http.StatusOK, mutationResponse{Changed: changed, Form: s.session.Store.State()})
}

func (s *Server) added(w http.ResponseWriter, id int) {
	s.jsonResponse(w, http.StatusCreated, addResponse{ID: id, Form: s.session.Store.State()})
}

// pathID parses the {id} path value and checks the entry exists in the
// collection picked by ids.
func (s *Server) pathID(r *http.Request, entity string, ids func(types.FormState) []int) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: "id", Message: fmt.Sprintf("invalid %s id %q", entity, raw)}
	}
	if !slices.Contains(ids(s.session.Store.State()), id) {
		return 0, fmt.Errorf("%s %d: %w", entity, id, errNotFound)
	}
	return id, nil
}

func experienceIDs(st types.FormState) []int {
	ids := make([]int, len(st.Experiences))
	for i, e := range st.Experiences {
		ids[i] = e.ID
	}
	return ids
}

func educationIDs(st types.FormState) []int {
	ids := make([]int, len(st.Educations))
	for i, e := range st.Educations {
		ids[i] = e.ID
	}
	return ids
}

func certificationIDs(st types.FormState) []int {
	ids := make([]int, len(st.Certifications))
	for i, c := range st.Certifications {
		ids[i] = c.ID
	}
	return ids
}

func projectIDs(st types.FormState) []int {
	ids := make([]int, len(st.Projects))
	for i, p := range st.Projects {
		ids[i] = p.ID
	}
	return ids
}

func (s *Server) handleGetForm(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Store.State())
}

func (s *Server) handleSetPersonalInfo(w http.ResponseWriter, r *http.Request) {
	var req personalInfoRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.SetPersonalInfo(types.PersonalInfo(req)))
}

func (s *Server) handleSetCareerInfo(w http.ResponseWriter, r *http.Request) {
	var req careerInfoRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.SetCareerInfo(form.CareerInfoPatch{JobTitle: req.JobTitle, Summary: req.Summary}))
}

func (s *Server) handleSetContactInfo(w http.ResponseWriter, r *http.Request) {
	var req contactInfoRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	patch := form.ContactInfoPatch{LinkedinProfile: req.LinkedinProfile, Portfolio: req.Portfolio}
	if req.SocialMedia != nil {
		patch.SocialMedia = &types.SocialMedia{Platform: req.SocialMedia.Platform, URL: req.SocialMedia.URL}
	}
	s.changed(w, s.session.Store.SetContactInfo(patch))
}

func (s *Server) handleUpdateContactField(w http.ResponseWriter, r *http.Request) {
	field, err := form.ParseContactField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateContactField(field, req.Value))
}

func (s *Server) handleUpdateSocialMediaField(w http.ResponseWriter, r *http.Request) {
	field, err := form.ParseSocialMediaField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateSocialMediaField(field, req.Value))
}

// handleCleanup drops empty attachment references and unreferenced files.
func (s *Server) handleCleanup(w http.ResponseWriter, _ *http.Request) {
	removed, err := s.session.CleanupAttachments()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if removed == nil {
		removed = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"removed": removed,
		"form":    s.session.Store.State(),
	})
}

// Experiences

func (s *Server) handleAddExperience(w http.ResponseWriter, _ *http.Request) {
	s.added(w, s.session.Store.AddExperience())
}

func (s *Server) handleUpdateExperienceField(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "experience", experienceIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := form.ParseExperienceField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateExperienceField(id, field, req.Value))
}

func (s *Server) handleSetExperienceSkills(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "experience", experienceIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req listRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.SetExperienceSkills(id, req.Items))
}

// handleDeleteExperience refuses silently (changed=false) for the last entry.
func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "experience", experienceIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.DeleteExperience(id))
}

// Educations

func (s *Server) handleAddEducation(w http.ResponseWriter, _ *http.Request) {
	s.added(w, s.session.Store.AddEducation())
}

func (s *Server) handleUpdateEducationField(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "education", educationIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := form.ParseEducationField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateEducationField(id, field, req.Value))
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "education", educationIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.DeleteEducation(id))
}

// Certifications

func (s *Server) handleAddCertification(w http.ResponseWriter, _ *http.Request) {
	s.added(w, s.session.Store.AddCertification())
}

func (s *Server) handleUpdateCertificationField(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "certification", certificationIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := form.ParseCertificationField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateCertificationField(id, field, req.Value))
}

func (s *Server) handleDeleteCertification(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "certification", certificationIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.DeleteCertification(id))
}

// Projects

func (s *Server) handleAddProject(w http.ResponseWriter, _ *http.Request) {
	s.added(w, s.session.Store.AddProject())
}

func (s *Server) handleUpdateProjectField(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "project", projectIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	field, err := form.ParseProjectField(r.PathValue("field"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req fieldValueRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateProjectField(id, field, req.Value))
}

func (s *Server) handleSetProjectTechnologies(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "project", projectIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req listRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.SetProjectTechnologies(id, req.Items))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r, "project", projectIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.DeleteProject(id))
}

// Skill categories

func (s *Server) skillCategory(r *http.Request) (string, error) {
	category := r.PathValue("category")
	st := s.session.Store.State()
	if st.SkillCategory(category) == nil {
		return "", fmt.Errorf("skill category %q: %w", category, errNotFound)
	}
	return category, nil
}

func (s *Server) handleUpdateSkillCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.skillCategory(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req listRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.UpdateSkillCategory(category, req.Items))
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	category, err := s.skillCategory(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req skillRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.AddSkillToCategory(category, req.Skill))
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	category, err := s.skillCategory(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.changed(w, s.session.Store.RemoveSkillFromCategory(category, r.PathValue("skill")))
}
