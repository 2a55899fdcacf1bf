package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/protostate/pkg/analysis"
	"github.com/aretw0/protostate/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	CurrentState string
}

// GenerateMermaid produces a Mermaid flowchart of a state machine.
// It applies semantic styling:
// - Initial: ((Circle))
// - Unresolved target: {{Hexagon}}
// - Default: [Rectangle]
// Unreachable and unresolved states get their own classes, and the overlay
// highlights the current state if provided.
func GenerateMermaid(m *domain.StateMachine, overlay *GraphOverlay) string {
	report := analysis.Analyze(m)
	ids := make(map[string]string)
	idOf := func(name string) string {
		if id, ok := ids[name]; ok {
			return id
		}
		id := fmt.Sprintf("s%d_%s", len(ids), sanitizeMermaidID(name))
		ids[name] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range m.States() {
		opener, closer := "[", "]"
		if s.Name == m.Initial() {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", idOf(s.Name), opener, escapeLabel(s.Name), closer))
	}
	for _, name := range report.Unresolved {
		sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", idOf(name), escapeLabel(name)))
	}

	for _, s := range m.States() {
		for _, ev := range s.Value.Events() {
			tr := domain.ParseEventValue(ev.Value)
			if tr.Target == "" {
				continue
			}
			label := ev.Name
			if len(tr.Actions) > 0 {
				label += " / " + strings.Join(tr.Actions, ", ")
			}
			arrow := fmt.Sprintf("-- \"%s\" -->", escapeLabel(label))
			if tr.Guard != "" {
				// Guarded transitions are dotted
				arrow = fmt.Sprintf("-. \"%s [%s]\" .->", escapeLabel(label), escapeLabel(tr.Guard))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", idOf(s.Name), arrow, idOf(tr.Target)))
		}
	}

	if len(report.Unreachable) > 0 || len(report.Unresolved) > 0 {
		sb.WriteString("\n    %% Analysis Styles\n")
		sb.WriteString("    classDef unreachable fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 2,color:#000;\n")
		sb.WriteString("    classDef unresolved fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		for _, name := range report.Unreachable {
			sb.WriteString(fmt.Sprintf("    class %s unreachable;\n", idOf(name)))
		}
		for _, name := range report.Unresolved {
			sb.WriteString(fmt.Sprintf("    class %s unresolved;\n", idOf(name)))
		}
	}

	// Apply Overlay Styles
	if overlay != nil && overlay.CurrentState != "" && m.Has(overlay.CurrentState) {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", idOf(overlay.CurrentState)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
