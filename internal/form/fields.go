package form

import "fmt"

// FieldError reports a field name that does not exist on an entity.
type FieldError struct {
	Entity string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("unknown %s field: %q", e.Entity, e.Field)
}

// ContactField names a scalar field of ContactInfo.
type ContactField int

const (
	ContactLinkedinProfile ContactField = iota + 1
	ContactPortfolio
)

var contactFieldNames = map[ContactField]string{
	ContactLinkedinProfile: "linkedinProfile",
	ContactPortfolio:       "portfolio",
}

func (f ContactField) String() string { return contactFieldNames[f] }

// SocialMediaField names a field of ContactInfo.SocialMedia.
type SocialMediaField int

const (
	SocialMediaPlatform SocialMediaField = iota + 1
	SocialMediaURL
)

var socialMediaFieldNames = map[SocialMediaField]string{
	SocialMediaPlatform: "platform",
	SocialMediaURL:      "url",
}

func (f SocialMediaField) String() string { return socialMediaFieldNames[f] }

// ExperienceField names a scalar field of Experience.
// List fields (skills, achievements) have their own actions.
type ExperienceField int

const (
	ExperienceJobTitle ExperienceField = iota + 1
	ExperienceCompanyName
	ExperienceStartDate
	ExperienceEndDate
	ExperienceDescription
)

var experienceFieldNames = map[ExperienceField]string{
	ExperienceJobTitle:    "jobTitle",
	ExperienceCompanyName: "companyName",
	ExperienceStartDate:   "startDate",
	ExperienceEndDate:     "endDate",
	ExperienceDescription: "description",
}

func (f ExperienceField) String() string { return experienceFieldNames[f] }

// EducationField names a scalar field of Education.
type EducationField int

const (
	EducationDegree EducationField = iota + 1
	EducationInstitution
	EducationStartDate
	EducationEndDate
	EducationDescription
)

var educationFieldNames = map[EducationField]string{
	EducationDegree:      "degree",
	EducationInstitution: "institution",
	EducationStartDate:   "startDate",
	EducationEndDate:     "endDate",
	EducationDescription: "description",
}

func (f EducationField) String() string { return educationFieldNames[f] }

// CertificationField names a scalar field of Certification.
type CertificationField int

const (
	CertificationTitle CertificationField = iota + 1
	CertificationOrganization
	CertificationIssueDate
	CertificationExpiryDate
)

var certificationFieldNames = map[CertificationField]string{
	CertificationTitle:        "title",
	CertificationOrganization: "organization",
	CertificationIssueDate:    "issueDate",
	CertificationExpiryDate:   "expiryDate",
}

func (f CertificationField) String() string { return certificationFieldNames[f] }

// ProjectField names a scalar field of Project.
type ProjectField int

const (
	ProjectTitle ProjectField = iota + 1
	ProjectDescription
	ProjectLink
)

var projectFieldNames = map[ProjectField]string{
	ProjectTitle:       "title",
	ProjectDescription: "description",
	ProjectLink:        "link",
}

func (f ProjectField) String() string { return projectFieldNames[f] }

// ParseContactField maps a JSON field name to a ContactField.
func ParseContactField(name string) (ContactField, error) {
	return parseField(contactFieldNames, "contact", name)
}

// ParseSocialMediaField maps a JSON field name to a SocialMediaField.
func ParseSocialMediaField(name string) (SocialMediaField, error) {
	return parseField(socialMediaFieldNames, "social media", name)
}

// ParseExperienceField maps a JSON field name to an ExperienceField.
func ParseExperienceField(name string) (ExperienceField, error) {
	return parseField(experienceFieldNames, "experience", name)
}

// ParseEducationField maps a JSON field name to an EducationField.
func ParseEducationField(name string) (EducationField, error) {
	return parseField(educationFieldNames, "education", name)
}

// ParseCertificationField maps a JSON field name to a CertificationField.
func ParseCertificationField(name string) (CertificationField, error) {
	return parseField(certificationFieldNames, "certification", name)
}

// ParseProjectField maps a JSON field name to a ProjectField.
func ParseProjectField(name string) (ProjectField, error) {
	return parseField(projectFieldNames, "project", name)
}

func parseField[F comparable](names map[F]string, entity, name string) (F, error) {
	for field, fieldName := range names {
		if fieldName == name {
			return field, nil
		}
	}
	var zero F
	return zero, &FieldError{Entity: entity, Field: name}
}
