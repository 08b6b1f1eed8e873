package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"todo-dapp/client/internal/models"
)

func setupTestLocal(t *testing.T) (*Local, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := DefaultSnapshotConfig()
	config.Addr = mr.Addr()

	local := NewLocal(NewSnapshotStore(config))
	return local, mr
}

func TestLocal_FirstListSeedsDemoData(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	tasks, err := local.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("Expected exactly 3 seed records, got %d", len(tasks))
	}

	wantPriorities := []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityMedium}
	wantStatuses := []models.Status{models.StatusPending, models.StatusCompleted, models.StatusPending}
	for i, task := range tasks {
		if task.Priority != wantPriorities[i] {
			t.Errorf("Seed %d: expected priority %d, got %d", i, wantPriorities[i], task.Priority)
		}
		if task.Status != wantStatuses[i] {
			t.Errorf("Seed %d: expected status %v, got %v", i, wantStatuses[i], task.Status)
		}
	}

	// The seed must be persisted, not just synthesized.
	again, err := local.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("Failed to list tasks twice: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("Expected persisted seed of 3 records, got %d", len(again))
	}
}

func TestLocal_AddTask(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()
	fixed := time.Now()
	local.now = func() time.Time { return fixed }

	task, err := local.AddTask(ctx, models.TaskDraft{
		Title:    "Test",
		Priority: models.PriorityLow,
		Category: "Work",
	})
	if err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	if task.Status != models.StatusPending {
		t.Errorf("Expected new task to be pending, got %v", task.Status)
	}
	if task.DueDate != 0 {
		t.Errorf("Expected no due date, got %d", task.DueDate)
	}
	if task.CreatedAt != fixed.Unix() {
		t.Errorf("Expected created_at %d, got %d", fixed.Unix(), task.CreatedAt)
	}
	// The empty store seeds 3 demo records before the add.
	if task.ID != 4 {
		t.Errorf("Expected id 4 after the demo seed, got %d", task.ID)
	}

	tasks, err := local.ListTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if tasks[len(tasks)-1].ID != task.ID {
		t.Errorf("Expected new task to be persisted last")
	}
}

func TestLocal_AddAssignsSequentialIDs(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()

	// Start from an explicit 2-record snapshot.
	seed := []models.Task{
		{ID: 1, Title: "First", Priority: models.PriorityLow, Status: models.StatusPending, CreatedAt: 100},
		{ID: 2, Title: "Second", Priority: models.PriorityHigh, Status: models.StatusPending, CreatedAt: 200},
	}
	if err := local.snapshot.SaveTasks(seed); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}

	task, err := local.AddTask(ctx, models.TaskDraft{Title: "Test", Priority: models.PriorityLow, Category: "Work"})
	if err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	if task.ID != 3 {
		t.Errorf("Expected id 3 for third task, got %d", task.ID)
	}

	tasks, err := local.ListTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("Expected 3 records, got %d", len(tasks))
	}
}

// Deleting must not free ids for reuse.
func TestLocal_NoIDReuseAfterDelete(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()

	first, err := local.AddTask(ctx, models.TaskDraft{Title: "A", Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	if err := local.DeleteTask(ctx, first.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	second, err := local.AddTask(ctx, models.TaskDraft{Title: "B", Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("Expected id above %d after delete, got %d", first.ID, second.ID)
	}
}

func TestLocal_CompleteTask(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()
	fixed := time.Now()
	local.now = func() time.Time { return fixed }

	if _, err := local.ListTasks(ctx); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	// Seed record 3 is pending.
	if err := local.CompleteTask(ctx, 3); err != nil {
		t.Fatalf("Failed to complete: %v", err)
	}

	tasks, err := local.ListTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}

	for _, task := range tasks {
		if task.ID != 3 {
			continue
		}
		if task.Status != models.StatusCompleted {
			t.Errorf("Expected completed status, got %v", task.Status)
		}
		if task.CompletedAt != fixed.Unix() {
			t.Errorf("Expected completed_at %d, got %d", fixed.Unix(), task.CompletedAt)
		}
	}
}

func TestLocal_DeleteUnknownIDIsNoOp(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()

	if _, err := local.ListTasks(ctx); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	if err := local.DeleteTask(ctx, 999); err != nil {
		t.Errorf("Expected silent no-op for unknown id, got %v", err)
	}

	tasks, err := local.ListTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("Expected collection size to stay 3, got %d", len(tasks))
	}
}

func TestLocal_MutateUnknownIDIsNoOp(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()

	if _, err := local.ListTasks(ctx); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	if err := local.CompleteTask(ctx, 42); err != nil {
		t.Errorf("Expected silent no-op completing unknown id, got %v", err)
	}
	if err := local.Reprioritize(ctx, 42, models.PriorityHigh); err != nil {
		t.Errorf("Expected silent no-op reprioritizing unknown id, got %v", err)
	}
}

func TestLocal_Reprioritize(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	ctx := context.Background()

	if _, err := local.ListTasks(ctx); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	if err := local.Reprioritize(ctx, 1, models.PriorityLow); err != nil {
		t.Fatalf("Failed to reprioritize: %v", err)
	}

	tasks, err := local.ListTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if tasks[0].Priority != models.PriorityLow {
		t.Errorf("Expected priority %d, got %d", models.PriorityLow, tasks[0].Priority)
	}

	if err := local.Reprioritize(ctx, 1, 9); err != models.ErrInvalidPriority {
		t.Errorf("Expected ErrInvalidPriority, got %v", err)
	}
}

func TestLocal_AddRejectsEmptyTitle(t *testing.T) {
	local, mr := setupTestLocal(t)
	defer mr.Close()

	if _, err := local.AddTask(context.Background(), models.TaskDraft{Priority: models.PriorityLow}); err != models.ErrEmptyTitle {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
}
