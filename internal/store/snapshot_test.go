package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"todo-dapp/client/internal/models"
)

func setupTestSnapshot(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := DefaultSnapshotConfig()
	config.Addr = mr.Addr()

	return NewSnapshotStore(config), mr
}

func TestSnapshotStore_MissingSnapshot(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)
	defer mr.Close()

	_, err := snapshot.LoadTasks()
	if err != ErrSnapshotMissing {
		t.Errorf("Expected ErrSnapshotMissing, got %v", err)
	}
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)
	defer mr.Close()

	tasks := []models.Task{
		{ID: 1, Title: "First", Priority: models.PriorityHigh, Status: models.StatusPending, CreatedAt: 100, Category: "Work"},
		{ID: 2, Title: "Second", Priority: models.PriorityLow, Status: models.StatusCompleted, CreatedAt: 200, CompletedAt: 300},
	}

	if err := snapshot.SaveTasks(tasks); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	loaded, err := snapshot.LoadTasks()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(loaded))
	}

	if loaded[0] != tasks[0] || loaded[1] != tasks[1] {
		t.Errorf("Round-tripped tasks differ: %+v vs %+v", loaded, tasks)
	}
}

// Writing back an unchanged load must leave the serialized form untouched.
func TestSnapshotStore_RoundTripStable(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)
	defer mr.Close()

	tasks := DemoTasks(time.Now())
	if err := snapshot.SaveTasks(tasks); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	before, err := mr.Get(snapshot.tasksKey)
	if err != nil {
		t.Fatalf("Failed to read raw snapshot: %v", err)
	}

	loaded, err := snapshot.LoadTasks()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if err := snapshot.SaveTasks(loaded); err != nil {
		t.Fatalf("Failed to rewrite snapshot: %v", err)
	}

	after, err := mr.Get(snapshot.tasksKey)
	if err != nil {
		t.Fatalf("Failed to read raw snapshot: %v", err)
	}

	if before != after {
		t.Error("Load-then-save changed the serialized snapshot")
	}
}

func TestSnapshotStore_NextID(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)
	defer mr.Close()

	for want := uint64(1); want <= 3; want++ {
		id, err := snapshot.NextID()
		if err != nil {
			t.Fatalf("Failed to advance counter: %v", err)
		}
		if id != want {
			t.Errorf("Expected id %d, got %d", want, id)
		}
	}
}

func TestSnapshotStore_EnsureCounterAtLeast(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)
	defer mr.Close()

	if err := snapshot.EnsureCounterAtLeast(5); err != nil {
		t.Fatalf("Failed to raise counter: %v", err)
	}

	id, err := snapshot.NextID()
	if err != nil {
		t.Fatalf("Failed to advance counter: %v", err)
	}
	if id != 6 {
		t.Errorf("Expected id 6 after floor of 5, got %d", id)
	}

	// A lower floor must not rewind the counter.
	if err := snapshot.EnsureCounterAtLeast(2); err != nil {
		t.Fatalf("Failed to apply lower floor: %v", err)
	}

	id, err = snapshot.NextID()
	if err != nil {
		t.Fatalf("Failed to advance counter: %v", err)
	}
	if id != 7 {
		t.Errorf("Expected id 7, got %d", id)
	}
}

func TestSnapshotStore_Health(t *testing.T) {
	snapshot, mr := setupTestSnapshot(t)

	if err := snapshot.Health(); err != nil {
		t.Errorf("Expected healthy snapshot store, got %v", err)
	}

	mr.Close()

	if err := snapshot.Health(); err == nil {
		t.Error("Expected unhealthy snapshot store after closing Redis")
	}
}
