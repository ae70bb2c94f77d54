package review

import (
	"testing"

	"github.com/mdabutalebdev/cv-maker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blankState is the seed document with the example experience cleared.
func blankState() types.FormState {
	s := types.DefaultFormState()
	s.Experiences[0] = types.NewExperience(1)
	return s
}

func filledState() types.FormState {
	s := types.DefaultFormState()
	s.PersonalInfo = types.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "555-0100", EmailAddress: "ada@example.com"}
	s.CareerInfo = types.CareerInfo{JobTitle: "Engineer", Summary: "Writes programs for engines."}
	s.Experiences[0] = types.Experience{ID: 1, JobTitle: "Analyst", CompanyName: "Babbage & Co", StartDate: "1842", Skills: []string{"Math"}, Achievements: []string{"att-1.pdf"}}
	s.Educations[0] = types.Education{ID: 1, Degree: "Private tutoring", Institution: "Home", StartDate: "1830", EndDate: "1835"}
	s.Certifications[0] = types.Certification{ID: 1, Title: "Notes on the Engine", Organization: "Taylor's Scientific Memoirs", IssueDate: "1843"}
	s.Projects[0] = types.Project{ID: 1, Title: "Bernoulli numbers", Technologies: []string{"Analytical Engine"}}
	s.Skills[0].Items = []string{"Figma", ""}
	s.ContactInfo = types.ContactInfo{
		LinkedinProfile: "https://linkedin.com/in/ada",
		SocialMedia:     types.SocialMedia{Platform: types.PlatformGitHub, URL: "https://github.com/ada"},
	}
	return s
}

func TestProject_JobTitlePriority(t *testing.T) {
	s := blankState()
	assert.Equal(t, DefaultJobTitle, Project(s).JobTitle)

	s.Experiences[0].JobTitle = "Designer"
	assert.Equal(t, "Designer", Project(s).JobTitle)

	s.CareerInfo.JobTitle = "Engineer"
	assert.Equal(t, "Engineer", Project(s).JobTitle)
}

func TestProject_SeedDocumentShowsExampleExperience(t *testing.T) {
	p := Project(types.DefaultFormState())

	assert.Equal(t, "Mid-Level UI/UX Designer", p.JobTitle)
	assert.Equal(t, []string{HeadingExperience}, p.Headings())
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "SM Technology (betopia Group)", p.Experience[0].CompanyName)
}

func TestProject_BlankDocumentHasNoSections(t *testing.T) {
	p := Project(blankState())

	assert.Empty(t, p.Headings())
	assert.Empty(t, p.FullName)
	assert.Nil(t, p.Skills)
	assert.Nil(t, p.Links)
}

func TestProject_FullDocument(t *testing.T) {
	p := Project(filledState())

	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, []string{
		HeadingAboutMe, HeadingSkills, HeadingExperience, HeadingEducation,
		HeadingCertifications, HeadingProjects, HeadingActivities,
	}, p.Headings())
	assert.Equal(t, []SkillGroup{{Category: types.SkillCategoryTechnical, Items: []string{"Figma"}}}, p.Skills)
	assert.Equal(t, []Link{{Label: "LinkedIn", URL: "https://linkedin.com/in/ada"}}, p.Links)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "1842 - Present", p.Experience[0].Period)
	assert.Equal(t, []string{"att-1.pdf"}, p.Experience[0].Attachments)
	assert.Equal(t, "1830 - 1835", p.Education[0].Period)
	assert.Equal(t, []string{types.PlatformGitHub}, p.Activities)
}

func TestProject_OmitsExperienceWhenFirstJobTitleEmpty(t *testing.T) {
	s := filledState()
	s.Experiences = []types.Experience{
		{ID: 1, CompanyName: "Somewhere"},
		{ID: 2, JobTitle: "Engineer", CompanyName: "Elsewhere"},
	}

	p := Project(s)

	assert.Nil(t, p.Experience)
	assert.NotContains(t, p.Headings(), HeadingExperience)
	assert.NotContains(t, p.PlainText(), HeadingExperience)
	assert.NotContains(t, p.PlainText(), "Elsewhere")
}

func TestProject_PrimaryFieldGatesSections(t *testing.T) {
	s := filledState()
	s.Educations[0].Degree = ""
	s.Certifications[0].Title = "  "
	s.Projects[0].Title = ""
	s.Skills[0].Items = nil
	s.ContactInfo.SocialMedia.URL = ""
	s.CareerInfo.Summary = ""

	p := Project(s)

	assert.Equal(t, []string{HeadingExperience}, p.Headings())
}

func TestProject_DoesNotMutate(t *testing.T) {
	s := filledState()
	before := s.Clone()

	_ = Project(s)

	assert.Equal(t, before, s)
}
