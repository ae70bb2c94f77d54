// Package steps defines the wizard steps and the registry that binds each
// step number to its form section and input component.
package steps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
)

// Step identifies a wizard screen. Landing is the pre-wizard page.
type Step int

const (
	Landing Step = iota
	PersonalInfo
	CareerSummary
	SkillsExperience
	EducationCertifications
	ContactInformation
	Generation
	Review
)

const (
	First = PersonalInfo
	Last  = Review
	Count = int(Last)
)

// Valid reports whether s is one of the numbered steps 1..7.
func (s Step) Valid() bool {
	return s >= First && s <= Last
}

func (s Step) String() string {
	if s == Landing {
		return "landing"
	}
	return strconv.Itoa(int(s))
}

// Form sections a step can edit.
const (
	SectionPersonalInfo   = "personalInfo"
	SectionCareerInfo     = "careerInfo"
	SectionExperiences    = "experiences"
	SectionSkills         = "skills"
	SectionEducations     = "educations"
	SectionCertifications = "certifications"
	SectionContactInfo    = "contactInfo"
)

// Tab is a sub-view of a step.
type Tab struct {
	ID      string `json:"id"`
	LabelID string `json:"-"`
	Section string `json:"section"`
}

// Definition describes one step.
type Definition struct {
	Step      Step     `json:"step"`
	LabelID   string   `json:"-"`
	Component string   `json:"component"`
	Sections  []string `json:"sections,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	Tabs      []Tab    `json:"tabs,omitempty"`

	// SingleItem steps edit only the first entry of their collection.
	SingleItem bool `json:"singleItem,omitempty"`
	// Trigger steps have no fields; advancing arms the progress animator.
	Trigger  bool `json:"trigger,omitempty"`
	ReadOnly bool `json:"readOnly,omitempty"`
}

// Name returns the localized step name.
func (d Definition) Name(c *labels.Catalog) string {
	return c.Text(d.LabelID, nil)
}

// InvalidStepError is returned for step identifiers that are non-numeric or
// outside 1..7.
type InvalidStepError struct {
	Raw string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("Invalid Step Number: %q", e.Raw)
}

// MissingComponentError is returned for a valid step with no bound component.
type MissingComponentError struct {
	Step Step
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("Step %d Component Missing", int(e.Step))
}

// Parse converts a step identifier such as "3" into a Step.
func Parse(raw string) (Step, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InvalidStepError{Raw: raw}
	}
	s := Step(n)
	if !s.Valid() {
		return 0, &InvalidStepError{Raw: raw}
	}
	return s, nil
}
