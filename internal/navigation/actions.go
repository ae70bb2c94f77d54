package navigation

import (
	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
)

// Action IDs
const (
	ActionStart    = "start"
	ActionBack     = "back"
	ActionNext     = "next"
	ActionDownload = "download"
	ActionFindJob  = "find-job"
)

// Action is a control offered on the current step.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Actions returns the controls available on the current step.
func (c *Controller) Actions() []Action {
	current := c.Current()
	generating := c.Generating()
	text := func(id string) string { return c.catalog.Text(id, nil) }

	switch {
	case current == steps.Landing:
		return []Action{{ID: ActionStart, Label: text(labels.ActionStart), Enabled: true}}
	case current == steps.Review:
		return []Action{
			{ID: ActionBack, Label: text(labels.ActionBack), Enabled: true},
			{ID: ActionDownload, Label: text(labels.ActionDownload), Enabled: true},
			{ID: ActionFindJob, Label: text(labels.ActionFindJob), Enabled: true},
		}
	}

	back := Action{ID: ActionBack, Label: text(labels.ActionBack), Enabled: true}
	if current == steps.First {
		back.Label = text(labels.ActionHome)
	}
	next := Action{ID: ActionNext, Label: text(labels.ActionNext), Enabled: true}
	if current == steps.Generation {
		next.Label = text(labels.ActionGenerate)
		next.Enabled = !generating
	}
	return []Action{back, next}
}
