package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/protostate/internal/presentation/graph"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/dsl"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		build    func(b *dsl.Builder)
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Initial Shape",
			build: func(b *dsl.Builder) {
				b.State("idle").On("GO", "busy").State("busy")
			},
			contains: []string{
				`s0_idle(("idle"))`,
				`s1_busy["busy"]`,
				`s0_idle -- "GO" --> s1_busy`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "ID Sanitization",
			build: func(b *dsl.Builder) {
				b.State("needs review").On("OK", "done-ish").State("done-ish")
			},
			contains: []string{
				`s0_needs_review(("needs review"))`,
				`s1_done_ish["done-ish"]`,
			},
		},
		{
			name: "Actions And Guards",
			build: func(b *dsl.Builder) {
				b.State("a").Do("SAVE", "b", "persist", "notify").
					Guard("CHECK", "b", `state === "a"`).
					State("b")
			},
			contains: []string{
				`-- "SAVE / persist, notify" -->`,
				`-. "CHECK [state === 'a']" .->`,
			},
		},
		{
			name: "Analysis Styles",
			build: func(b *dsl.Builder) {
				b.State("a").On("GO", "ghost").State("island")
			},
			contains: []string{
				`s2_ghost{{"ghost"}}`,
				`s0_a -- "GO" --> s2_ghost`,
				"class s1_island unreachable;",
				"class s2_ghost unresolved;",
			},
		},
		{
			name: "Empty Targets Skipped",
			build: func(b *dsl.Builder) {
				b.State("a").Do("LOG", "", "log")
			},
			excludes: []string{"LOG"},
		},
		{
			name: "Current Overlay",
			build: func(b *dsl.Builder) {
				b.State("a").On("GO", "b").State("b")
			},
			overlay:  &graph.GraphOverlay{CurrentState: "b"},
			contains: []string{"class s1_b current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dsl.New()
			tt.build(b)
			got := graph.GenerateMermaid(b.MustBuild(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateMermaid_Empty(t *testing.T) {
	m, err := domain.NewStateMachine("")
	if err != nil {
		t.Fatal(err)
	}
	if got := graph.GenerateMermaid(m, nil); got != "graph TD\n" {
		t.Errorf("GenerateMermaid(empty) = %q", got)
	}
}
