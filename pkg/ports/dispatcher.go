package ports

import (
	"context"

	"github.com/aretw0/protostate/pkg/domain"
)

// ActionDispatcher defines how transition actions are executed.
// The editor emits requests in order, and the host implements this interface to handle them.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, req domain.ActionRequest) error
}
