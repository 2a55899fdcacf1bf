package codec

import "github.com/aretw0/protostate/pkg/domain"

// MsgDuplicateStateName is shown when a submitted state name is already taken.
const MsgDuplicateStateName = "A state with this name already exists."

// CheckStateName rejects submitted when it differs from original and already
// names another state of m. It runs before any mutation is attempted.
func CheckStateName(m *domain.StateMachine, original, submitted string) error {
	if submitted != original && m.Has(submitted) {
		return &domain.ValidationError{Reason: MsgDuplicateStateName, Err: domain.ErrDuplicateState}
	}
	return nil
}
