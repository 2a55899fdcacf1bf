package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/protostate/pkg/codec"
	"github.com/aretw0/protostate/pkg/domain"
	"gopkg.in/yaml.v3"
)

// LoadMachine reads a machine file in the persisted JSON shape or its YAML mirror.
// Files ending in .yaml or .yml are read as YAML; anything else as JSON.
// Both go through the same schema validation as stored documents.
func LoadMachine(path string) (*domain.StateMachine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	blob := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var m domain.StateMachine
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if blob, err = codec.EncodeMachine(&m); err != nil {
			return nil, err
		}
	}

	m, err := codec.DecodeMachine(blob)
	if err != nil {
		return nil, fmt.Errorf("invalid machine %s: %w", path, err)
	}
	return m, nil
}
