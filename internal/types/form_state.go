// Package types provides the resume document types shared by every layer of the wizard.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Seed skill categories present in every new document.
const (
	SkillCategoryTechnical = "Technical Skills"
	SkillCategorySoft      = "Soft Skills"
	SkillCategoryLanguages = "Languages"
	SkillCategoryTools     = "Tools & Technologies"
)

// Social media platforms offered by the contact step.
const (
	PlatformFacebook  = "Facebook"
	PlatformTwitter   = "Twitter"
	PlatformInstagram = "Instagram"
	PlatformGitHub    = "GitHub"

	DefaultSocialPlatform = PlatformFacebook
)

// SeedSkillCategories returns the fixed category names in display order.
func SeedSkillCategories() []string {
	return []string{
		SkillCategoryTechnical,
		SkillCategorySoft,
		SkillCategoryLanguages,
		SkillCategoryTools,
	}
}

// SocialPlatforms returns the selectable social media platforms.
func SocialPlatforms() []string {
	return []string{PlatformFacebook, PlatformTwitter, PlatformInstagram, PlatformGitHub}
}

// PersonalInfo is the flat identity record edited on the first step.
type PersonalInfo struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PhoneNumber   string `json:"phoneNumber"`
	EmailAddress  string `json:"emailAddress" validate:"omitempty,email"`
	CountryRegion string `json:"countryRegion"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
}

// CareerInfo holds the headline job title and the career summary.
type CareerInfo struct {
	JobTitle string `json:"jobTitle"`
	Summary  string `json:"summary"`
}

// Experience is a single work history entry.
// Achievements hold attachment references, never file contents.
type Experience struct {
	ID           int      `json:"id"`
	JobTitle     string   `json:"jobTitle"`
	CompanyName  string   `json:"companyName"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Skills       []string `json:"skills"`
	Achievements []string `json:"achievements"`
}

// Education is a single education history entry.
type Education struct {
	ID          int    `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Certification is a single training or certification entry.
type Certification struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate"`
}

// SkillCategory groups skills under a category name, which acts as its key.
type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Project is a single portfolio project entry.
type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link" validate:"omitempty,url"`
}

// SocialMedia is the optional extra social profile.
type SocialMedia struct {
	Platform string `json:"platform" validate:"omitempty,oneof=Facebook Twitter Instagram GitHub"`
	URL      string `json:"url" validate:"omitempty,url"`
}

// ContactInfo holds professional profile links.
type ContactInfo struct {
	LinkedinProfile string      `json:"linkedinProfile" validate:"omitempty,url"`
	Portfolio       string      `json:"portfolio" validate:"omitempty,url"`
	SocialMedia     SocialMedia `json:"socialMedia"`
}

// FormState is the whole resume-in-progress document.
type FormState struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experiences    []Experience    `json:"experiences" validate:"dive"`
	CareerInfo     CareerInfo      `json:"careerInfo"`
	Educations     []Education     `json:"educations"`
	Certifications []Certification `json:"certifications"`
	Skills         []SkillCategory `json:"skills"`
	Projects       []Project       `json:"projects" validate:"dive"`
	ContactInfo    ContactInfo     `json:"contactInfo"`
}

// NewExperience returns a blank experience entry with the given id.
func NewExperience(id int) Experience {
	return Experience{ID: id, Skills: []string{}, Achievements: []string{}}
}

// NewEducation returns a blank education entry with the given id.
func NewEducation(id int) Education {
	return Education{ID: id}
}

// NewCertification returns a blank certification entry with the given id.
func NewCertification(id int) Certification {
	return Certification{ID: id}
}

// NewProject returns a blank project entry with the given id.
func NewProject(id int) Project {
	return Project{ID: id, Technologies: []string{}}
}

// SeedExperience is the example entry a fresh document starts with.
func SeedExperience() Experience {
	return Experience{
		ID:          1,
		JobTitle:    "Mid-Level UI/UX Designer",
		CompanyName: "SM Technology (betopia Group)",
		Description: "An experienced marketing professional with over 5 years of expertise in digital marketing, " +
			"specializing in SEO, social media strategies, and content creation.",
		Skills:       []string{"UI Designer", "UX Designer", "Figma"},
		Achievements: []string{},
	}
}

// DefaultFormState returns the seed document used when nothing has been persisted.
func DefaultFormState() FormState {
	skills := make([]SkillCategory, 0, 4)
	for _, category := range SeedSkillCategories() {
		skills = append(skills, SkillCategory{Category: category, Items: []string{}})
	}

	return FormState{
		Experiences:    []Experience{SeedExperience()},
		Educations:     []Education{NewEducation(1)},
		Certifications: []Certification{NewCertification(1)},
		Skills:         skills,
		Projects:       []Project{NewProject(1)},
		ContactInfo: ContactInfo{
			SocialMedia: SocialMedia{Platform: DefaultSocialPlatform},
		},
	}
}

// Clone returns a deep copy that shares no slices with f.
func (f FormState) Clone() FormState {
	out := f

	out.Experiences = make([]Experience, len(f.Experiences))
	for i, exp := range f.Experiences {
		exp.Skills = cloneStrings(exp.Skills)
		exp.Achievements = cloneStrings(exp.Achievements)
		out.Experiences[i] = exp
	}

	out.Educations = append([]Education(nil), f.Educations...)
	out.Certifications = append([]Certification(nil), f.Certifications...)

	out.Skills = make([]SkillCategory, len(f.Skills))
	for i, sc := range f.Skills {
		sc.Items = cloneStrings(sc.Items)
		out.Skills[i] = sc
	}

	out.Projects = make([]Project, len(f.Projects))
	for i, p := range f.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		out.Projects[i] = p
	}

	if out.Educations == nil {
		out.Educations = []Education{}
	}
	if out.Certifications == nil {
		out.Certifications = []Certification{}
	}

	return out
}

// Normalize repairs a document decoded from storage so that it satisfies
// the store invariants: non-empty collections, non-nil lists, the seed
// skill categories and a social platform.
func (f *FormState) Normalize() {
	if len(f.Experiences) == 0 {
		f.Experiences = []Experience{NewExperience(1)}
	}
	for i := range f.Experiences {
		if f.Experiences[i].Skills == nil {
			f.Experiences[i].Skills = []string{}
		}
		f.Experiences[i].Achievements = CompactRefs(f.Experiences[i].Achievements)
	}

	if len(f.Educations) == 0 {
		f.Educations = []Education{NewEducation(1)}
	}
	if len(f.Certifications) == 0 {
		f.Certifications = []Certification{NewCertification(1)}
	}

	if len(f.Projects) == 0 {
		f.Projects = []Project{NewProject(1)}
	}
	for i := range f.Projects {
		if f.Projects[i].Technologies == nil {
			f.Projects[i].Technologies = []string{}
		}
	}

	for _, category := range SeedSkillCategories() {
		if f.SkillCategory(category) == nil {
			f.Skills = append(f.Skills, SkillCategory{Category: category, Items: []string{}})
		}
	}
	for i := range f.Skills {
		if f.Skills[i].Items == nil {
			f.Skills[i].Items = []string{}
		}
	}

	if f.ContactInfo.SocialMedia.Platform == "" {
		f.ContactInfo.SocialMedia.Platform = DefaultSocialPlatform
	}
}

// SkillCategory returns the category with the given name, or nil.
func (f *FormState) SkillCategory(name string) *SkillCategory {
	for i := range f.Skills {
		if f.Skills[i].Category == name {
			return &f.Skills[i]
		}
	}
	return nil
}

// CompactRefs drops empty attachment references and always returns a non-nil slice.
func CompactRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
