package editor

import (
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/dsl"
)

// DemoMachine returns the machine a new document starts with.
func DemoMachine() *domain.StateMachine {
	b := dsl.New()
	b.State("empty").On("CHANGE", "validating").
		State("validating").On("VALID", "valid").On("INVALID", "invalid").
		State("valid").On("CHANGE", "validating").
		State("invalid").On("CHANGE", "validating")
	return b.MustBuild()
}
