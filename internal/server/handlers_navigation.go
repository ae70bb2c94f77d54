package server

import (
	"net/http"

	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
)

type stepSummary struct {
	Step      int              `json:"step"`
	Title     string           `json:"title"`
	Component string           `json:"component"`
	Tabs      []wizard.TabView `json:"tabs,omitempty"`
}

// handleListSteps returns the bound steps in order with localized names.
func (s *Server) handleListSteps(w http.ResponseWriter, _ *http.Request) {
	catalog := s.session.Catalog()
	defs := s.session.Registry.All()
	out := make([]stepSummary, 0, len(defs))
	for _, def := range defs {
		summary := stepSummary{Step: int(def.Step), Title: def.Name(catalog), Component: def.Component}
		for _, tab := range def.Tabs {
			summary.Tabs = append(summary.Tabs, wizard.TabView{ID: tab.ID, Label: catalog.Text(tab.LabelID, nil)})
		}
		out = append(out, summary)
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGetStep describes a step without navigating to it.
func (s *Server) handleGetStep(w http.ResponseWriter, r *http.Request) {
	view := s.session.ViewFor(r.PathValue("step"))
	s.jsonResponse(w, viewStatus(view), view)
}

func viewStatus(v wizard.View) int {
	switch v.State {
	case wizard.StateInvalidStep:
		return http.StatusNotFound
	case wizard.StateComponentMissing:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

func (s *Server) handleGetNavigation(w http.ResponseWriter, _ *http.Request) {
	view := s.session.View()
	s.jsonResponse(w, viewStatus(view), view)
}

func (s *Server) handleBack(w http.ResponseWriter, _ *http.Request) {
	s.session.Controller.Back()
	s.jsonResponse(w, http.StatusOK, s.session.View())
}

// handleNext advances one step. On the generation step it starts the
// progress animation and the view reports generating=true.
func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.session.Controller.Next(); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.View())
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Jump(r.PathValue("step")); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.View())
}

func (s *Server) handleGetProgress(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Animator.State())
}

// handleProgressStream streams progress events for the current run. The
// stream ends with a complete event carrying the wizard view once the run
// completes or is cancelled, or at once when nothing is running.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	sse := NewSSEWriter(w)
	if sse == nil {
		s.errorResponse(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, unsubscribe := s.session.Animator.Subscribe()
	defer unsubscribe()

	state := s.session.Animator.State()
	if err := sse.WriteEvent("state", state); err != nil {
		return
	}
	if !state.Running {
		_ = sse.WriteComplete(s.session.View())
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(string(ev.Kind), ev.State); err != nil {
				s.logger.Debug("progress stream closed", "error", err)
				return
			}
			if ev.Kind == progress.EventCompleted || ev.Kind == progress.EventCancelled {
				_ = sse.WriteComplete(s.session.View())
				return
			}
		}
	}
}
