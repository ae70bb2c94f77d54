package form

import (
	"fmt"
	"slices"

	"github.com/mdabutalebdev/cv-maker/internal/types"
)

// Reduce applies an action to state and returns the resulting document and
// whether anything changed. Slices touched by the action are copied before
// they are modified, so the input document is never mutated.
// Unknown ids, refused deletes and duplicate skills leave the state as is.
func Reduce(state types.FormState, a Action) (types.FormState, bool) {
	switch act := a.(type) {
	case SetPersonalInfo:
		if state.PersonalInfo == act.Info {
			return state, false
		}
		state.PersonalInfo = act.Info
		return state, true

	case SetContactInfo:
		next := state.ContactInfo
		if act.Patch.LinkedinProfile != nil {
			next.LinkedinProfile = *act.Patch.LinkedinProfile
		}
		if act.Patch.Portfolio != nil {
			next.Portfolio = *act.Patch.Portfolio
		}
		if act.Patch.SocialMedia != nil {
			next.SocialMedia = *act.Patch.SocialMedia
		}
		return setContact(state, next)

	case UpdateContactField:
		next := state.ContactInfo
		switch act.Field {
		case ContactLinkedinProfile:
			next.LinkedinProfile = act.Value
		case ContactPortfolio:
			next.Portfolio = act.Value
		default:
			return state, false
		}
		return setContact(state, next)

	case UpdateSocialMediaField:
		next := state.ContactInfo
		switch act.Field {
		case SocialMediaPlatform:
			next.SocialMedia.Platform = act.Value
		case SocialMediaURL:
			next.SocialMedia.URL = act.Value
		default:
			return state, false
		}
		return setContact(state, next)

	case SetCareerInfo:
		next := state.CareerInfo
		if act.Patch.JobTitle != nil {
			next.JobTitle = *act.Patch.JobTitle
		}
		if act.Patch.Summary != nil {
			next.Summary = *act.Patch.Summary
		}
		if next == state.CareerInfo {
			return state, false
		}
		state.CareerInfo = next
		return state, true

	case AddExperience:
		id := nextID(state.Experiences, func(e types.Experience) int { return e.ID })
		state.Experiences = append(slices.Clone(state.Experiences), types.NewExperience(id))
		return state, true

	case UpdateExperienceField:
		return updateExperience(state, act.ID, func(exp *types.Experience) bool {
			var target *string
			switch act.Field {
			case ExperienceJobTitle:
				target = &exp.JobTitle
			case ExperienceCompanyName:
				target = &exp.CompanyName
			case ExperienceStartDate:
				target = &exp.StartDate
			case ExperienceEndDate:
				target = &exp.EndDate
			case ExperienceDescription:
				target = &exp.Description
			default:
				return false
			}
			return assign(target, act.Value)
		})

	case SetExperienceSkills:
		return updateExperience(state, act.ID, func(exp *types.Experience) bool {
			skills := uniqueStrings(act.Skills)
			if slices.Equal(exp.Skills, skills) {
				return false
			}
			exp.Skills = skills
			return true
		})

	case SetExperienceAchievements:
		return updateExperience(state, act.ID, func(exp *types.Experience) bool {
			refs := types.CompactRefs(act.Achievements)
			if slices.Equal(exp.Achievements, refs) {
				return false
			}
			exp.Achievements = refs
			return true
		})

	case AddExperienceAchievement:
		return updateExperience(state, act.ID, func(exp *types.Experience) bool {
			if act.Ref == "" || slices.Contains(exp.Achievements, act.Ref) {
				return false
			}
			exp.Achievements = append(slices.Clone(exp.Achievements), act.Ref)
			return true
		})

	case RemoveExperienceAchievement:
		return updateExperience(state, act.ID, func(exp *types.Experience) bool {
			if !slices.Contains(exp.Achievements, act.Ref) {
				return false
			}
			exp.Achievements = slices.DeleteFunc(slices.Clone(exp.Achievements), func(r string) bool {
				return r == act.Ref
			})
			return true
		})

	case DeleteExperience:
		next, ok := deleteByID(state.Experiences, act.ID, func(e types.Experience) int { return e.ID })
		if !ok {
			return state, false
		}
		state.Experiences = next
		return state, true

	case AddEducation:
		id := nextID(state.Educations, func(e types.Education) int { return e.ID })
		state.Educations = append(slices.Clone(state.Educations), types.NewEducation(id))
		return state, true

	case UpdateEducationField:
		idx := indexByID(state.Educations, act.ID, func(e types.Education) int { return e.ID })
		if idx < 0 {
			return state, false
		}
		edu := state.Educations[idx]
		var target *string
		switch act.Field {
		case EducationDegree:
			target = &edu.Degree
		case EducationInstitution:
			target = &edu.Institution
		case EducationStartDate:
			target = &edu.StartDate
		case EducationEndDate:
			target = &edu.EndDate
		case EducationDescription:
			target = &edu.Description
		default:
			return state, false
		}
		if !assign(target, act.Value) {
			return state, false
		}
		state.Educations = slices.Clone(state.Educations)
		state.Educations[idx] = edu
		return state, true

	case DeleteEducation:
		next, ok := deleteByID(state.Educations, act.ID, func(e types.Education) int { return e.ID })
		if !ok {
			return state, false
		}
		state.Educations = next
		return state, true

	case AddCertification:
		id := nextID(state.Certifications, func(c types.Certification) int { return c.ID })
		state.Certifications = append(slices.Clone(state.Certifications), types.NewCertification(id))
		return state, true

	case UpdateCertificationField:
		idx := indexByID(state.Certifications, act.ID, func(c types.Certification) int { return c.ID })
		if idx < 0 {
			return state, false
		}
		cert := state.Certifications[idx]
		var target *string
		switch act.Field {
		case CertificationTitle:
			target = &cert.Title
		case CertificationOrganization:
			target = &cert.Organization
		case CertificationIssueDate:
			target = &cert.IssueDate
		case CertificationExpiryDate:
			target = &cert.ExpiryDate
		default:
			return state, false
		}
		if !assign(target, act.Value) {
			return state, false
		}
		state.Certifications = slices.Clone(state.Certifications)
		state.Certifications[idx] = cert
		return state, true

	case DeleteCertification:
		next, ok := deleteByID(state.Certifications, act.ID, func(c types.Certification) int { return c.ID })
		if !ok {
			return state, false
		}
		state.Certifications = next
		return state, true

	case AddProject:
		id := nextID(state.Projects, func(p types.Project) int { return p.ID })
		state.Projects = append(slices.Clone(state.Projects), types.NewProject(id))
		return state, true

	case UpdateProjectField:
		return updateProject(state, act.ID, func(p *types.Project) bool {
			var target *string
			switch act.Field {
			case ProjectTitle:
				target = &p.Title
			case ProjectDescription:
				target = &p.Description
			case ProjectLink:
				target = &p.Link
			default:
				return false
			}
			return assign(target, act.Value)
		})

	case SetProjectTechnologies:
		return updateProject(state, act.ID, func(p *types.Project) bool {
			techs := nonNil(act.Technologies)
			if slices.Equal(p.Technologies, techs) {
				return false
			}
			p.Technologies = techs
			return true
		})

	case DeleteProject:
		next, ok := deleteByID(state.Projects, act.ID, func(p types.Project) int { return p.ID })
		if !ok {
			return state, false
		}
		state.Projects = next
		return state, true

	case UpdateSkillCategory:
		return updateSkills(state, act.Category, func(sc *types.SkillCategory) bool {
			items := uniqueStrings(act.Items)
			if slices.Equal(sc.Items, items) {
				return false
			}
			sc.Items = items
			return true
		})

	case AddSkillToCategory:
		return updateSkills(state, act.Category, func(sc *types.SkillCategory) bool {
			if act.Skill == "" || slices.Contains(sc.Items, act.Skill) {
				return false
			}
			sc.Items = append(slices.Clone(sc.Items), act.Skill)
			return true
		})

	case RemoveSkillFromCategory:
		return updateSkills(state, act.Category, func(sc *types.SkillCategory) bool {
			if !slices.Contains(sc.Items, act.Skill) {
				return false
			}
			sc.Items = slices.DeleteFunc(slices.Clone(sc.Items), func(item string) bool {
				return item == act.Skill
			})
			return true
		})

	case CleanupAttachments:
		changed := false
		next := slices.Clone(state.Experiences)
		for i := range next {
			refs := types.CompactRefs(next[i].Achievements)
			if len(refs) != len(next[i].Achievements) {
				next[i].Achievements = refs
				changed = true
			}
		}
		if !changed {
			return state, false
		}
		state.Experiences = next
		return state, true

	default:
		panic(fmt.Sprintf("form: unhandled action %T", a))
	}
}

func setContact(state types.FormState, next types.ContactInfo) (types.FormState, bool) {
	if next == state.ContactInfo {
		return state, false
	}
	state.ContactInfo = next
	return state, true
}

func updateExperience(state types.FormState, id int, mutate func(*types.Experience) bool) (types.FormState, bool) {
	idx := indexByID(state.Experiences, id, func(e types.Experience) int { return e.ID })
	if idx < 0 {
		return state, false
	}
	exp := state.Experiences[idx]
	if !mutate(&exp) {
		return state, false
	}
	state.Experiences = slices.Clone(state.Experiences)
	state.Experiences[idx] = exp
	return state, true
}

func updateProject(state types.FormState, id int, mutate func(*types.Project) bool) (types.FormState, bool) {
	idx := indexByID(state.Projects, id, func(p types.Project) int { return p.ID })
	if idx < 0 {
		return state, false
	}
	p := state.Projects[idx]
	if !mutate(&p) {
		return state, false
	}
	state.Projects = slices.Clone(state.Projects)
	state.Projects[idx] = p
	return state, true
}

func updateSkills(state types.FormState, category string, mutate func(*types.SkillCategory) bool) (types.FormState, bool) {
	idx := slices.IndexFunc(state.Skills, func(sc types.SkillCategory) bool { return sc.Category == category })
	if idx < 0 {
		return state, false
	}
	sc := state.Skills[idx]
	if !mutate(&sc) {
		return state, false
	}
	state.Skills = slices.Clone(state.Skills)
	state.Skills[idx] = sc
	return state, true
}

// nextID returns max(existing ids)+1, or 1 for an empty collection.
func nextID[T any](items []T, id func(T) int) int {
	maxID := 0
	for _, item := range items {
		maxID = max(maxID, id(item))
	}
	return maxID + 1
}

func indexByID[T any](items []T, target int, id func(T) int) int {
	return slices.IndexFunc(items, func(item T) bool { return id(item) == target })
}

// deleteByID removes the entry with the target id. It refuses when the
// collection would become empty or the id is absent.
func deleteByID[T any](items []T, target int, id func(T) int) ([]T, bool) {
	if len(items) <= 1 {
		return items, false
	}
	idx := indexByID(items, target, id)
	if idx < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), idx, idx+1), true
}

func assign(target *string, value string) bool {
	if *target == value {
		return false
	}
	*target = value
	return true
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
