package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMachine_JSON(t *testing.T) {
	path := writeFile(t, "machine.json",
		`{"initial":"idle","states":[["idle",{"on":{"START":"running"}}],["running",{"on":{"STOP":{"target":"idle","actions":"log"}}}]]}`)

	m, err := LoadMachine(path)
	require.NoError(t, err)
	assert.Equal(t, "idle", m.Initial())
	assert.Equal(t, []string{"idle", "running"}, m.Names())
}

func TestLoadMachine_YAMLKeepsEventOrder(t *testing.T) {
	path := writeFile(t, "machine.yaml", `
initial: a
states:
  - - a
    - on:
        Z: b
        A: b
        M: { target: a, guard: "state === 'a'" }
  - - b
    - {}
`)

	m, err := LoadMachine(path)
	require.NoError(t, err)

	value, ok := m.Lookup("a")
	require.True(t, ok)
	var names []string
	for _, e := range value.Events() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Z", "A", "M"}, names)
}

func TestLoadMachine_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "not json", file: "m.json", content: `{`},
		{name: "schema", file: "m.json", content: `{"initial":1,"states":[]}`},
		{name: "duplicate states", file: "m.json", content: `{"initial":"a","states":[["a",{}],["a",{}]]}`},
		{name: "bad yaml", file: "m.yml", content: "initial: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMachine(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadMachine(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
