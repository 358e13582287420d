package app

import "ft-go/internal/ft"

// Operation names recorded in the history.
const (
	OpLoad    = "Load"
	OpCreate  = "Create"
	OpDelete  = "Delete"
	OpRefresh = "Refresh"
)

// Operation tracks a CLI operation against the backend. Operations are
// created in memory with ID=0 and get their database ID when persisted.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string
}

// NewOperation creates a new in-memory running operation.
func NewOperation(name, parameters string) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		Status:     ft.OperationRunning,
	}
}

// Finish sets the final status from the operation's error.
func (op *Operation) Finish(err error) {
	if err != nil {
		op.Status = ft.OperationError
		return
	}
	op.Status = ft.OperationSuccess
}
