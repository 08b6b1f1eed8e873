package engine

import (
	"fmt"
	"time"

	"todo-dapp/client/internal/models"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
	FilterOverdue   StatusFilter = "overdue"
)

func ParseStatusFilter(value string) (StatusFilter, error) {
	switch StatusFilter(value) {
	case FilterAll, FilterPending, FilterCompleted, FilterOverdue:
		return StatusFilter(value), nil
	}
	return "", fmt.Errorf("unknown status filter %q", value)
}

// Filters is the conjunction applied to the collection before display.
// A zero Priority and an empty Category mean "no constraint".
type Filters struct {
	Status   StatusFilter    `json:"status"`
	Priority models.Priority `json:"priority"`
	Category string          `json:"category"`
}

func DefaultFilters() Filters {
	return Filters{Status: FilterAll}
}

// applyFilters returns the visible subset in collection order. The three
// constraints are independent predicates, so application order is
// irrelevant and re-application is a no-op.
func applyFilters(tasks []models.Task, filters Filters, now time.Time) []models.Task {
	visible := make([]models.Task, 0, len(tasks))

	for _, task := range tasks {
		switch filters.Status {
		case FilterPending:
			if task.Status != models.StatusPending {
				continue
			}
		case FilterCompleted:
			if task.Status != models.StatusCompleted {
				continue
			}
		case FilterOverdue:
			if task.Status != models.StatusPending || !task.IsOverdue(now) {
				continue
			}
		}

		if filters.Priority != 0 && task.Priority != filters.Priority {
			continue
		}

		if filters.Category != "" && task.Category != filters.Category {
			continue
		}

		visible = append(visible, task)
	}

	return visible
}
