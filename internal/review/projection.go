// Package review derives the read-only resume view shown on the review step
// and handed to the exporters.
package review

import (
	"strings"

	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// DefaultJobTitle is shown when neither the career info nor the first
// experience names a job title.
const DefaultJobTitle = "UX/UI Designer"

// Section headings, in display order.
const (
	HeadingAboutMe        = "ABOUT ME"
	HeadingSkills         = "SKILLS"
	HeadingExperience     = "WORK EXPERIENCE"
	HeadingEducation      = "EDUCATION"
	HeadingCertifications = "TRAINING & CERTIFICATION"
	HeadingProjects       = "PROJECTS"
	HeadingActivities     = "CO-CURRICULAR ACTIVITIES"
)

const present = "Present"

// Link is a labelled URL in the resume header.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SkillGroup is a non-empty skill category.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type ExperienceEntry struct {
	JobTitle    string   `json:"jobTitle"`
	CompanyName string   `json:"companyName"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Skills      []string `json:"skills,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

type CertificationEntry struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
}

type ProjectEntry struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// Projection is a denormalized, read-only view of the form document.
// Nil section slices mean the section is omitted.
type Projection struct {
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Links     []Link `json:"links,omitempty"`
	Summary   string `json:"summary,omitempty"`

	Skills         []SkillGroup         `json:"skills,omitempty"`
	Experience     []ExperienceEntry    `json:"experience,omitempty"`
	Education      []EducationEntry     `json:"education,omitempty"`
	Certifications []CertificationEntry `json:"certifications,omitempty"`
	Projects       []ProjectEntry       `json:"projects,omitempty"`
	Activities     []string             `json:"activities,omitempty"`
}

// Project builds the projection of state. It never mutates state.
func Project(state types.FormState) Projection {
	pi := state.PersonalInfo
	p := Projection{
		FullName:  strings.TrimSpace(pi.FirstName + " " + pi.LastName),
		FirstName: pi.FirstName,
		LastName:  pi.LastName,
		JobTitle:  jobTitle(state),
		Phone:     pi.PhoneNumber,
		Email:     pi.EmailAddress,
		Summary:   state.CareerInfo.Summary,
	}

	if url := state.ContactInfo.LinkedinProfile; url != "" {
		p.Links = append(p.Links, Link{Label: "LinkedIn", URL: url})
	}
	if url := state.ContactInfo.Portfolio; url != "" {
		p.Links = append(p.Links, Link{Label: "Portfolio", URL: url})
	}

	for _, sc := range state.Skills {
		items := nonEmpty(sc.Items)
		if len(items) > 0 {
			p.Skills = append(p.Skills, SkillGroup{Category: sc.Category, Items: items})
		}
	}

	// A section is shown only when its first entry has its primary field set.
	if len(state.Experiences) > 0 && hasText(state.Experiences[0].JobTitle) {
		for _, exp := range state.Experiences {
			p.Experience = append(p.Experience, ExperienceEntry{
				JobTitle:    exp.JobTitle,
				CompanyName: exp.CompanyName,
				Period:      period(exp.StartDate, exp.EndDate),
				Description: exp.Description,
				Skills:      nonEmpty(exp.Skills),
				Attachments: nonEmpty(exp.Achievements),
			})
		}
	}

	if len(state.Educations) > 0 && hasText(state.Educations[0].Degree) {
		for _, edu := range state.Educations {
			p.Education = append(p.Education, EducationEntry{
				Degree:      edu.Degree,
				Institution: edu.Institution,
				Period:      period(edu.StartDate, edu.EndDate),
				Description: edu.Description,
			})
		}
	}

	if len(state.Certifications) > 0 && hasText(state.Certifications[0].Title) {
		for _, cert := range state.Certifications {
			p.Certifications = append(p.Certifications, CertificationEntry{
				Title:        cert.Title,
				Organization: cert.Organization,
				IssueDate:    cert.IssueDate,
				ExpiryDate:   cert.ExpiryDate,
			})
		}
	}

	if len(state.Projects) > 0 && hasText(state.Projects[0].Title) {
		for _, proj := range state.Projects {
			p.Projects = append(p.Projects, ProjectEntry{
				Title:        proj.Title,
				Description:  proj.Description,
				Technologies: nonEmpty(proj.Technologies),
				Link:         proj.Link,
			})
		}
	}

	if state.ContactInfo.SocialMedia.URL != "" {
		p.Activities = []string{state.ContactInfo.SocialMedia.Platform}
	}

	return p
}

// Headings lists the headings of the sections present, in display order.
func (p Projection) Headings() []string {
	var out []string
	add := func(ok bool, heading string) {
		if ok {
			out = append(out, heading)
		}
	}
	add(p.Summary != "", HeadingAboutMe)
	add(len(p.Skills) > 0, HeadingSkills)
	add(len(p.Experience) > 0, HeadingExperience)
	add(len(p.Education) > 0, HeadingEducation)
	add(len(p.Certifications) > 0, HeadingCertifications)
	add(len(p.Projects) > 0, HeadingProjects)
	add(len(p.Activities) > 0, HeadingActivities)
	return out
}

func jobTitle(state types.FormState) string {
	if state.CareerInfo.JobTitle != "" {
		return state.CareerInfo.JobTitle
	}
	if len(state.Experiences) > 0 && state.Experiences[0].JobTitle != "" {
		return state.Experiences[0].JobTitle
	}
	return DefaultJobTitle
}

func period(start, end string) string {
	if end == "" {
		end = present
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
