package steps

import (
	"strconv"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
)

// Registry maps step numbers to their definitions.
type Registry struct {
	defs map[Step]Definition
}

// NewRegistry builds a registry from defs. Later definitions for the same
// step replace earlier ones.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[Step]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Step] = d
	}
	return r
}

// Default returns the registry of the seven wizard steps.
func Default() *Registry {
	return NewRegistry(DefaultDefinitions()...)
}

// DefaultDefinitions lists the seven wizard steps in order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Step:      PersonalInfo,
			LabelID:   labels.StepPersonalInfo,
			Component: "personal-information",
			Sections:  []string{SectionPersonalInfo},
			Fields: []string{
				"firstName", "lastName", "phoneNumber", "emailAddress",
				"countryRegion", "address", "city", "state", "zipCode",
			},
		},
		{
			Step:      CareerSummary,
			LabelID:   labels.StepCareerSummary,
			Component: "career-summary",
			Sections:  []string{SectionCareerInfo},
			Fields:    []string{"jobTitle", "summary"},
		},
		{
			Step:       SkillsExperience,
			LabelID:    labels.StepSkillsExperience,
			Component:  "skills-experience",
			Sections:   []string{SectionExperiences},
			Fields:     []string{"jobTitle", "companyName", "startDate", "endDate", "description", "skills", "achievements"},
			SingleItem: true,
		},
		{
			Step:      EducationCertifications,
			LabelID:   labels.StepEducationCertifications,
			Component: "education-certifications",
			Sections:  []string{SectionEducations, SectionCertifications},
			Tabs: []Tab{
				{ID: "education", LabelID: labels.TabEducation, Section: SectionEducations},
				{ID: "certification", LabelID: labels.TabCertification, Section: SectionCertifications},
			},
		},
		{
			Step:      ContactInformation,
			LabelID:   labels.StepContactInformation,
			Component: "contact-information",
			Sections:  []string{SectionContactInfo},
			Fields:    []string{"linkedinProfile", "portfolio", "socialMedia.platform", "socialMedia.url"},
		},
		{
			Step:      Generation,
			LabelID:   labels.StepGeneration,
			Component: "ai-resume-generation",
			Trigger:   true,
		},
		{
			Step:      Review,
			LabelID:   labels.StepReview,
			Component: "review-download",
			ReadOnly:  true,
		},
	}
}

// Lookup returns the definition bound to s.
func (r *Registry) Lookup(s Step) (Definition, error) {
	if !s.Valid() {
		return Definition{}, &InvalidStepError{Raw: strconv.Itoa(int(s))}
	}
	d, ok := r.defs[s]
	if !ok || d.Component == "" {
		return Definition{}, &MissingComponentError{Step: s}
	}
	return d, nil
}

// Resolve parses a raw step identifier and looks it up.
func (r *Registry) Resolve(raw string) (Definition, error) {
	s, err := Parse(raw)
	if err != nil {
		return Definition{}, err
	}
	return r.Lookup(s)
}

// All returns the bound definitions in step order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, Count)
	for s := First; s <= Last; s++ {
		if d, ok := r.defs[s]; ok {
			out = append(out, d)
		}
	}
	return out
}
