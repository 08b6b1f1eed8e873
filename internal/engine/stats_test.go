package engine

import (
	"testing"
	"time"

	"todo-dapp/client/internal/models"
)

func TestComputeStatistics(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{ID: 1, Status: models.StatusPending},
		{ID: 2, Status: models.StatusCompleted},
		{ID: 3, Status: models.StatusPending, DueDate: now.Add(-time.Hour).Unix()},
		{ID: 4, Status: models.StatusCompleted, DueDate: now.Add(-time.Hour).Unix()},
	}

	stats := computeStatistics(tasks, now)

	if stats.Total != 4 || stats.Completed != 2 || stats.Pending != 2 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	// A completed task never counts as overdue, even with a past due date.
	if stats.Overdue != 1 {
		t.Errorf("Expected 1 overdue, got %d", stats.Overdue)
	}
}

func TestComputeStatistics_Invariants(t *testing.T) {
	now := time.Now()
	tasks := []models.Task{
		{ID: 1, Status: models.StatusPending, DueDate: now.Add(-time.Hour).Unix()},
		{ID: 2, Status: models.StatusPending, DueDate: now.Add(-2 * time.Hour).Unix()},
		{ID: 3, Status: models.StatusCompleted},
		{ID: 4, Status: models.StatusPending},
	}

	stats := computeStatistics(tasks, now)

	if stats.Total != stats.Completed+stats.Pending {
		t.Errorf("total must equal completed+pending: %+v", stats)
	}
	if stats.Overdue > stats.Pending {
		t.Errorf("overdue cannot exceed pending: %+v", stats)
	}
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := computeStatistics(nil, time.Now())
	if stats != (Statistics{}) {
		t.Errorf("Expected zero statistics, got %+v", stats)
	}
}

func TestComputeBreakdown(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Status: models.StatusPending, Category: "Work"},
		{ID: 2, Status: models.StatusCompleted, Category: "Work"},
		{ID: 3, Status: models.StatusCompleted, Category: "Work"},
		{ID: 4, Status: models.StatusPending, Category: "Personal"},
		{ID: 5, Status: models.StatusPending, Category: ""},
	}

	breakdown := computeBreakdown(tasks)

	if len(breakdown) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(breakdown))
	}

	// Largest group first.
	if breakdown[0].Category != "Work" || breakdown[0].Total != 3 || breakdown[0].Completed != 2 {
		t.Errorf("Unexpected leading group: %+v", breakdown[0])
	}
	if breakdown[0].BarPercent != 100 {
		t.Errorf("Largest group should fill the bar, got %.1f", breakdown[0].BarPercent)
	}

	// 2/3 completed rounds to 67.
	if breakdown[0].CompletionRate != 67 {
		t.Errorf("Expected completion rate 67, got %d", breakdown[0].CompletionRate)
	}

	for _, stat := range breakdown[1:] {
		if stat.Total != 1 {
			t.Errorf("Expected singleton group, got %+v", stat)
		}
		want := float64(1) / float64(3) * 100
		if stat.BarPercent != want {
			t.Errorf("Expected bar percent %.2f, got %.2f", want, stat.BarPercent)
		}
	}
}

// Equal-sized groups tie-break alphabetically.
func TestComputeBreakdown_TieOrder(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Category: "Zeta"},
		{ID: 2, Category: "Alpha"},
	}

	breakdown := computeBreakdown(tasks)

	if breakdown[0].Category != "Alpha" || breakdown[1].Category != "Zeta" {
		t.Errorf("Expected alphabetical tie-break, got %+v", breakdown)
	}
}

func TestComputeBreakdown_Empty(t *testing.T) {
	if breakdown := computeBreakdown(nil); len(breakdown) != 0 {
		t.Errorf("Expected empty breakdown, got %+v", breakdown)
	}
}
