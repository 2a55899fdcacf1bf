package editor

import (
	"github.com/aretw0/protostate/pkg/analysis"
	"github.com/aretw0/protostate/pkg/codec"
	"github.com/aretw0/protostate/pkg/domain"
)

// View is the render model of the editing surface.
type View struct {
	Document         string               `json:"document"`
	Initial          string               `json:"initial"`
	Current          string               `json:"currentState"`
	States           []StateView          `json:"states"`
	Unresolved       []string             `json:"unresolved"`
	InitialUndefined bool                 `json:"initialUndefined,omitempty"`
	Bindings         []domain.NodeBinding `json:"bindings"`
	Selected         *domain.Node         `json:"selectedNode,omitempty"`
	SectionExpanded  bool                 `json:"isUISectionExpanded"`
}

// StateView is one row of the state list.
type StateView struct {
	Name        string      `json:"name"`
	Text        string      `json:"text"`
	Initial     bool        `json:"initial,omitempty"`
	Current     bool        `json:"current,omitempty"`
	Unreachable bool        `json:"unreachable,omitempty"`
	Events      []EventView `json:"events"`
}

// EventView is one event button of the current state panel.
// Enabled is false when the target is not a defined state.
type EventView struct {
	Name    string   `json:"name"`
	Target  string   `json:"target"`
	Actions []string `json:"actions"`
	Guard   string   `json:"guard,omitempty"`
	Enabled bool     `json:"enabled"`
}

// View builds the render model from a consistent snapshot.
func (e *Editor) View() View {
	snap := e.Snapshot()
	return BuildView(e.document, snap, e.analyzer.Analyze(snap.Machine))
}

// BuildView renders snap with its analysis report.
func BuildView(document string, snap Snapshot, report analysis.Report) View {
	m := snap.Machine
	v := View{
		Document:         document,
		Initial:          m.Initial(),
		Current:          snap.Current,
		States:           make([]StateView, 0, m.Len()),
		Unresolved:       report.Unresolved,
		InitialUndefined: report.InitialUndefined,
		Bindings:         snap.Bindings,
		Selected:         snap.Selected,
		SectionExpanded:  snap.SectionExpanded,
	}
	if v.Unresolved == nil {
		v.Unresolved = []string{}
	}
	if v.Bindings == nil {
		v.Bindings = []domain.NodeBinding{}
	}

	for _, s := range m.States() {
		text, err := codec.EncodeStateValue(s.Value)
		if err != nil {
			text = ""
		}
		sv := StateView{
			Name:        s.Name,
			Text:        text,
			Initial:     s.Name == m.Initial(),
			Current:     s.Name == snap.Current,
			Unreachable: report.IsUnreachable(s.Name),
			Events:      make([]EventView, 0, s.Value.Len()),
		}
		for _, ev := range s.Value.Events() {
			tr := domain.ParseEventValue(ev.Value)
			sv.Events = append(sv.Events, EventView{
				Name:    ev.Name,
				Target:  tr.Target,
				Actions: tr.Actions,
				Guard:   tr.Guard,
				Enabled: tr.Target == "" || m.Has(tr.Target),
			})
		}
		v.States = append(v.States, sv)
	}
	return v
}
