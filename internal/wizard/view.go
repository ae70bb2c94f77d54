package wizard

import (
	"errors"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/navigation"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
)

// View states
const (
	StateLanding          = "landing"
	StateStep             = "step"
	StateInvalidStep      = "invalid_step"
	StateComponentMissing = "component_missing"
)

// View is what the wizard shows for a step.
type View struct {
	State      string              `json:"state"`
	Step       int                 `json:"step"`
	Title      string              `json:"title,omitempty"`
	Message    string              `json:"message,omitempty"`
	Definition *steps.Definition   `json:"definition,omitempty"`
	Tabs       []TabView           `json:"tabs,omitempty"`
	Actions    []navigation.Action `json:"actions,omitempty"`
	Generating bool                `json:"generating"`
	Progress   float64             `json:"progress"`
	Furthest   int                 `json:"furthest"`
}

// TabView is a localized tab.
type TabView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// View describes the current step.
func (s *Session) View() View {
	current := s.Controller.Current()
	v := s.baseView(current)
	if current == steps.Landing {
		v.State = StateLanding
		return v
	}
	def, err := s.Registry.Lookup(current)
	return s.resolved(v, def, err)
}

// ViewFor describes the step named by raw without navigating to it. Unknown
// and unbound steps produce the invalid_step and component_missing states.
func (s *Session) ViewFor(raw string) View {
	def, err := s.Registry.Resolve(raw)
	v := s.baseView(def.Step)
	if err == nil && def.Step != s.Controller.Current() {
		v.Actions = nil
	}
	return s.resolved(v, def, err)
}

func (s *Session) baseView(step steps.Step) View {
	state := s.Animator.State()
	return View{
		Step:       int(step),
		Actions:    s.Controller.Actions(),
		Generating: state.Running,
		Progress:   state.Progress,
		Furthest:   int(s.Controller.Furthest()),
	}
}

func (s *Session) resolved(v View, def steps.Definition, err error) View {
	var invalid *steps.InvalidStepError
	var missing *steps.MissingComponentError
	switch {
	case errors.As(err, &invalid):
		v.State = StateInvalidStep
		v.Step = 0
		v.Actions = nil
		v.Message = s.catalog.Text(labels.StateInvalidStep, nil)
		return v
	case errors.As(err, &missing):
		v.State = StateComponentMissing
		v.Step = int(missing.Step)
		v.Message = s.catalog.Text(labels.StateComponentMissing, map[string]any{"Step": int(missing.Step)})
		return v
	}

	v.State = StateStep
	v.Title = def.Name(s.catalog)
	v.Definition = &def
	for _, tab := range def.Tabs {
		v.Tabs = append(v.Tabs, TabView{ID: tab.ID, Label: s.catalog.Text(tab.LabelID, nil)})
	}
	return v
}
