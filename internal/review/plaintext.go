package review

import (
	"fmt"
	"strings"
)

// PlainText renders the projection as a line-oriented document. It is the
// export fallback when the visual renderer fails.
func (p Projection) PlainText() string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}
	heading := func(h string) {
		sb.WriteByte('\n')
		line("%s", h)
		line("%s", strings.Repeat("-", len(h)))
	}

	if p.FullName != "" {
		line("%s", p.FullName)
	}
	line("%s", p.JobTitle)
	if p.Phone != "" {
		line("Phone: %s", p.Phone)
	}
	if p.Email != "" {
		line("Email: %s", p.Email)
	}
	for _, l := range p.Links {
		line("%s: %s", l.Label, l.URL)
	}

	if p.Summary != "" {
		heading(HeadingAboutMe)
		line("%s", p.Summary)
	}

	if len(p.Skills) > 0 {
		heading(HeadingSkills)
		for _, g := range p.Skills {
			line("%s: %s", g.Category, strings.Join(g.Items, ", "))
		}
	}

	if len(p.Experience) > 0 {
		heading(HeadingExperience)
		for _, e := range p.Experience {
			line("%s (%s)", e.JobTitle, e.Period)
			if e.CompanyName != "" {
				line("%s", e.CompanyName)
			}
			if e.Description != "" {
				line("%s", e.Description)
			}
			if len(e.Skills) > 0 {
				line("Skills: %s", strings.Join(e.Skills, ", "))
			}
			if len(e.Attachments) > 0 {
				line("Attachments: %s", strings.Join(e.Attachments, ", "))
			}
		}
	}

	if len(p.Education) > 0 {
		heading(HeadingEducation)
		for _, e := range p.Education {
			line("%s (%s)", e.Degree, e.Period)
			if e.Institution != "" {
				line("%s", e.Institution)
			}
			if e.Description != "" {
				line("%s", e.Description)
			}
		}
	}

	if len(p.Certifications) > 0 {
		heading(HeadingCertifications)
		for _, c := range p.Certifications {
			if c.IssueDate != "" {
				line("%s (%s)", c.Title, c.IssueDate)
			} else {
				line("%s", c.Title)
			}
			if c.Organization != "" {
				line("%s", c.Organization)
			}
			if c.ExpiryDate != "" {
				line("Expires: %s", c.ExpiryDate)
			}
		}
	}

	if len(p.Projects) > 0 {
		heading(HeadingProjects)
		for _, pr := range p.Projects {
			line("%s", pr.Title)
			if pr.Description != "" {
				line("%s", pr.Description)
			}
			if len(pr.Technologies) > 0 {
				line("Technologies: %s", strings.Join(pr.Technologies, ", "))
			}
			if pr.Link != "" {
				line("%s", pr.Link)
			}
		}
	}

	if len(p.Activities) > 0 {
		heading(HeadingActivities)
		for _, a := range p.Activities {
			line("%s", a)
		}
	}

	return sb.String()
}
