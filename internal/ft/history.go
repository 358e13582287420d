package ft

import (
	"context"

	"ft-go/internal/model"
)

// Operation statuses recorded in the history.
const (
	OperationRunning = "running"
	OperationSuccess = "success"
	OperationError   = "error"
)

// OperationLog records CLI operations against the backend.
type OperationLog interface {
	// CreateOperation records a running operation and returns it with its ID.
	CreateOperation(ctx context.Context, name, parameters string) (*model.Operation, error)

	// FinishOperation stamps the finish time and final status.
	FinishOperation(ctx context.Context, id int64, status string) error

	// ListOperations returns up to limit operations, newest first.
	// A limit <= 0 returns all of them.
	ListOperations(ctx context.Context, limit int) ([]*model.Operation, error)

	Close() error
}
