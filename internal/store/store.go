// Package store holds the two backing-store adapters (remote contract,
// local snapshot) behind one interface, plus the selector that picks
// between them at connect time.
package store

import (
	"context"
	"errors"

	"todo-dapp/client/internal/models"
)

var (
	// ErrRemoteOperation wraps any failed contract call. The engine converts
	// it to a user-visible notification; it never propagates further.
	ErrRemoteOperation = errors.New("remote operation failed")

	// ErrMalformedRecord marks a remote response missing or corrupting a
	// required task field. The load that hit it degrades to demo data.
	ErrMalformedRecord = errors.New("malformed task record")
)

// Store is the uniform operation surface over either backing store.
//
// AddTask returns the created record on the synchronous (local) path and nil
// on the remote path, where the record only becomes visible after the
// settle-delay reload. Mutations on the local path treat an unknown id as a
// silent no-op.
type Store interface {
	Initialize(ctx context.Context) error
	ListTasks(ctx context.Context) ([]models.Task, error)
	AddTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	CompleteTask(ctx context.Context, id uint64) error
	DeleteTask(ctx context.Context, id uint64) error
	Reprioritize(ctx context.Context, id uint64, priority models.Priority) error
}
