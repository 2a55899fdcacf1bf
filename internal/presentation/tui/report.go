package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/protostate/pkg/analysis"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/muesli/termenv"
)

// ReportMarkdown describes a machine and its diagnostics as Markdown.
func ReportMarkdown(title string, m *domain.StateMachine, r analysis.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Initial state: `%s`\n\n", m.Initial())

	sb.WriteString("| State | Events | Status |\n|---|---|---|\n")
	for _, s := range m.States() {
		events := make([]string, 0, s.Value.Len())
		for _, ev := range s.Value.Events() {
			events = append(events, fmt.Sprintf("%s → %s", ev.Name, targetLabel(ev.Value)))
		}
		status := "ok"
		if r.IsUnreachable(s.Name) {
			status = "**unreachable**"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", s.Name, strings.Join(events, ", "), status)
	}
	sb.WriteString("\n")

	if r.InitialUndefined {
		fmt.Fprintf(&sb, "> Initial state `%s` is not defined.\n\n", m.Initial())
	}
	if len(r.Unresolved) > 0 {
		sb.WriteString("## Unresolved states\n\n")
		for _, name := range r.Unresolved {
			fmt.Fprintf(&sb, "- `%s`\n", name)
		}
		sb.WriteString("\n")
	}
	if r.Clean() {
		sb.WriteString("No problems found.\n")
	}
	return sb.String()
}

// WriteReport writes the diagnostics as coloured plain text for profile.
func WriteReport(w io.Writer, profile termenv.Profile, title string, m *domain.StateMachine, r analysis.Report) {
	warn := func(s string) termenv.Style { return termenv.String(s).Foreground(profile.Color("#f59e0b")) }
	bad := func(s string) termenv.Style { return termenv.String(s).Foreground(profile.Color("#ef4444")) }
	good := func(s string) termenv.Style { return termenv.String(s).Foreground(profile.Color("#22c55e")) }

	fmt.Fprintf(w, "%s (%d states, initial %q)\n", termenv.String(title).Bold(), m.Len(), m.Initial())
	if r.InitialUndefined {
		fmt.Fprintf(w, "  %s initial state %q is not defined\n", bad("✗"), m.Initial())
	}
	for _, name := range r.Unreachable {
		fmt.Fprintf(w, "  %s unreachable: %s\n", warn("!"), name)
	}
	for _, name := range r.Unresolved {
		fmt.Fprintf(w, "  %s unresolved: %s\n", bad("✗"), name)
	}
	if r.Clean() {
		fmt.Fprintf(w, "  %s no problems found\n", good("✓"))
	}
}

func targetLabel(v domain.EventValue) string {
	tr := domain.ParseEventValue(v)
	target := tr.Target
	if target == "" {
		target = "∅"
	}
	if len(tr.Actions) > 0 {
		target += " / " + strings.Join(tr.Actions, ", ")
	}
	return target
}
