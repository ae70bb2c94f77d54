// Package form implements the resume form store: a closed set of update
// actions, a single reducer that applies them, and a store that owns the
// document and snapshots it after every change.
package form

import "github.com/mdabutalebdev/cv-maker/internal/types"

// Action is an update message for the form document.
// The set of implementations is closed to this package.
type Action interface {
	action()
}

// SetPersonalInfo replaces the personal info record wholesale.
type SetPersonalInfo struct {
	Info types.PersonalInfo
}

// ContactInfoPatch is a partial ContactInfo; nil fields are left untouched.
type ContactInfoPatch struct {
	LinkedinProfile *string
	Portfolio       *string
	SocialMedia     *types.SocialMedia
}

// SetContactInfo shallow-merges a patch into ContactInfo.
type SetContactInfo struct {
	Patch ContactInfoPatch
}

// UpdateContactField writes one scalar ContactInfo field.
type UpdateContactField struct {
	Field ContactField
	Value string
}

// UpdateSocialMediaField writes one SocialMedia field.
type UpdateSocialMediaField struct {
	Field SocialMediaField
	Value string
}

// CareerInfoPatch is a partial CareerInfo; nil fields are left untouched.
type CareerInfoPatch struct {
	JobTitle *string `json:"jobTitle,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// SetCareerInfo shallow-merges a patch into CareerInfo.
type SetCareerInfo struct {
	Patch CareerInfoPatch
}

// AddExperience appends a blank experience entry.
type AddExperience struct{}

// UpdateExperienceField writes a scalar field of the experience with ID.
type UpdateExperienceField struct {
	ID    int
	Field ExperienceField
	Value string
}

// SetExperienceSkills replaces the skills of the experience with ID.
type SetExperienceSkills struct {
	ID     int
	Skills []string
}

// SetExperienceAchievements replaces the attachment references of the experience with ID.
type SetExperienceAchievements struct {
	ID           int
	Achievements []string
}

// AddExperienceAchievement appends one attachment reference to the experience with ID.
type AddExperienceAchievement struct {
	ID  int
	Ref string
}

// RemoveExperienceAchievement drops one attachment reference from the experience with ID.
type RemoveExperienceAchievement struct {
	ID  int
	Ref string
}

// DeleteExperience removes the experience with ID unless it is the last one.
type DeleteExperience struct {
	ID int
}

// AddEducation appends a blank education entry.
type AddEducation struct{}

// UpdateEducationField writes a field of the education with ID.
type UpdateEducationField struct {
	ID    int
	Field EducationField
	Value string
}

// DeleteEducation removes the education with ID unless it is the last one.
type DeleteEducation struct {
	ID int
}

// AddCertification appends a blank certification entry.
type AddCertification struct{}

// UpdateCertificationField writes a field of the certification with ID.
type UpdateCertificationField struct {
	ID    int
	Field CertificationField
	Value string
}

// DeleteCertification removes the certification with ID unless it is the last one.
type DeleteCertification struct {
	ID int
}

// AddProject appends a blank project entry.
type AddProject struct{}

// UpdateProjectField writes a scalar field of the project with ID.
type UpdateProjectField struct {
	ID    int
	Field ProjectField
	Value string
}

// SetProjectTechnologies replaces the technologies of the project with ID.
type SetProjectTechnologies struct {
	ID           int
	Technologies []string
}

// DeleteProject removes the project with ID unless it is the last one.
type DeleteProject struct {
	ID int
}

// UpdateSkillCategory replaces the items of a category.
type UpdateSkillCategory struct {
	Category string
	Items    []string
}

// AddSkillToCategory inserts a skill into a category if not already present.
type AddSkillToCategory struct {
	Category string
	Skill    string
}

// RemoveSkillFromCategory removes a skill from a category.
type RemoveSkillFromCategory struct {
	Category string
	Skill    string
}

// CleanupAttachments drops empty attachment references from every experience.
type CleanupAttachments struct{}

func (SetPersonalInfo) action()             {}
func (SetContactInfo) action()              {}
func (UpdateContactField) action()          {}
func (UpdateSocialMediaField) action()      {}
func (SetCareerInfo) action()               {}
func (AddExperience) action()               {}
func (UpdateExperienceField) action()       {}
func (SetExperienceSkills) action()         {}
func (SetExperienceAchievements) action()   {}
func (AddExperienceAchievement) action()    {}
func (RemoveExperienceAchievement) action() {}
func (DeleteExperience) action()            {}
func (AddEducation) action()                {}
func (UpdateEducationField) action()        {}
func (DeleteEducation) action()             {}
func (AddCertification) action()            {}
func (UpdateCertificationField) action()    {}
func (DeleteCertification) action()         {}
func (AddProject) action()                  {}
func (UpdateProjectField) action()          {}
func (SetProjectTechnologies) action()      {}
func (DeleteProject) action()               {}
func (UpdateSkillCategory) action()         {}
func (AddSkillToCategory) action()          {}
func (RemoveSkillFromCategory) action()     {}
func (CleanupAttachments) action()          {}
