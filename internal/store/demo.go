package store

import (
	"time"

	"todo-dapp/client/internal/models"
)

// DemoTasks synthesizes the sample dataset used to seed an empty local
// snapshot and to stand in for a failed remote load. Due dates are relative
// to now so the overdue classification stays meaningful.
func DemoTasks(now time.Time) []models.Task {
	current := now.Unix()

	return []models.Task{
		{
			ID:          1,
			Title:       "Complete project documentation",
			Description: "Write comprehensive documentation for the ledger project",
			Priority:    models.PriorityHigh,
			Status:      models.StatusPending,
			CreatedAt:   current - 86400,
			CompletedAt: 0,
			DueDate:     current + 86400,
			Category:    "Work",
		},
		{
			ID:          2,
			Title:       "Buy groceries",
			Description: "Milk, bread, eggs, vegetables",
			Priority:    models.PriorityMedium,
			Status:      models.StatusCompleted,
			CreatedAt:   current - 172800,
			CompletedAt: current - 86400,
			DueDate:     0,
			Category:    "Personal",
		},
		{
			ID:          3,
			Title:       "Schedule health checkup",
			Description: "Annual physical examination",
			Priority:    models.PriorityMedium,
			Status:      models.StatusPending,
			CreatedAt:   current - 259200,
			CompletedAt: 0,
			DueDate:     current + 604800,
			Category:    "Health",
		},
	}
}
