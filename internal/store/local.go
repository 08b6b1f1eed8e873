package store

import (
	"context"
	"time"

	"todo-dapp/client/internal/models"
)

// Local serves and persists tasks from the durable snapshot. All operations
// are synchronous; every write is a whole-array overwrite.
type Local struct {
	snapshot *SnapshotStore
	now      func() time.Time
}

func NewLocal(snapshot *SnapshotStore) *Local {
	return &Local{snapshot: snapshot, now: time.Now}
}

// Initialize is a no-op; the snapshot needs no session setup.
func (l *Local) Initialize(ctx context.Context) error {
	return nil
}

// ListTasks reads the snapshot, seeding it with the demo dataset when absent
// so a first-time session is never empty.
func (l *Local) ListTasks(ctx context.Context) ([]models.Task, error) {
	return l.loadOrSeed()
}

func (l *Local) AddTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	tasks, err := l.loadOrSeed()
	if err != nil {
		return nil, err
	}

	if err := l.snapshot.EnsureCounterAtLeast(maxTaskID(tasks)); err != nil {
		return nil, err
	}

	id, err := l.snapshot.NextID()
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Status:      models.StatusPending,
		CreatedAt:   l.now().Unix(),
		CompletedAt: 0,
		DueDate:     draft.DueDate,
		Category:    draft.Category,
	}

	tasks = append(tasks, task)
	if err := l.snapshot.SaveTasks(tasks); err != nil {
		return nil, err
	}

	return &task, nil
}

func (l *Local) CompleteTask(ctx context.Context, id uint64) error {
	return l.mutate(id, func(task *models.Task) {
		task.Status = models.StatusCompleted
		task.CompletedAt = l.now().Unix()
	})
}

func (l *Local) DeleteTask(ctx context.Context, id uint64) error {
	tasks, err := l.loadOrSeed()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, task := range tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}

	// Unknown id: nothing removed, nothing to persist.
	if len(kept) == len(tasks) {
		return nil
	}

	return l.snapshot.SaveTasks(kept)
}

func (l *Local) Reprioritize(ctx context.Context, id uint64, priority models.Priority) error {
	if !priority.Valid() {
		return models.ErrInvalidPriority
	}

	return l.mutate(id, func(task *models.Task) {
		task.Priority = priority
	})
}

// mutate applies fn to the matching record and persists. An unknown id is a
// silent no-op.
func (l *Local) mutate(id uint64, fn func(*models.Task)) error {
	tasks, err := l.loadOrSeed()
	if err != nil {
		return err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			fn(&tasks[i])
			return l.snapshot.SaveTasks(tasks)
		}
	}

	return nil
}

func (l *Local) loadOrSeed() ([]models.Task, error) {
	tasks, err := l.snapshot.LoadTasks()
	if err == nil {
		return tasks, nil
	}
	if err != ErrSnapshotMissing {
		return nil, err
	}

	seeded := DemoTasks(l.now())
	if err := l.snapshot.SaveTasks(seeded); err != nil {
		return nil, err
	}
	if err := l.snapshot.EnsureCounterAtLeast(maxTaskID(seeded)); err != nil {
		return nil, err
	}

	return seeded, nil
}

func maxTaskID(tasks []models.Task) uint64 {
	var max uint64
	for _, task := range tasks {
		if task.ID > max {
			max = task.ID
		}
	}
	return max
}
