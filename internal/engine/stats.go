package engine

import (
	"math"
	"sort"
	"time"

	"todo-dapp/client/internal/models"
)

// Statistics aggregates the whole collection, not the filtered view.
type Statistics struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

func computeStatistics(tasks []models.Task, now time.Time) Statistics {
	stats := Statistics{Total: len(tasks)}

	for _, task := range tasks {
		if task.Status == models.StatusCompleted {
			stats.Completed++
			continue
		}
		stats.Pending++
		if task.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats
}

// CategoryStat is one row of the category breakdown. BarPercent is scaled
// against the largest group for proportional bar rendering; CompletionRate
// is a rounded percentage of completed tasks within the group.
type CategoryStat struct {
	Category       string  `json:"category"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	BarPercent     float64 `json:"bar_percent"`
	CompletionRate int     `json:"completion_rate"`
}

func computeBreakdown(tasks []models.Task) []CategoryStat {
	totals := make(map[string]*CategoryStat)
	order := make([]string, 0)

	for _, task := range tasks {
		stat, ok := totals[task.Category]
		if !ok {
			stat = &CategoryStat{Category: task.Category}
			totals[task.Category] = stat
			order = append(order, task.Category)
		}
		stat.Total++
		if task.Status == models.StatusCompleted {
			stat.Completed++
		}
	}

	breakdown := make([]CategoryStat, 0, len(order))
	maxTotal := 0
	for _, category := range order {
		stat := totals[category]
		if stat.Total > maxTotal {
			maxTotal = stat.Total
		}
		breakdown = append(breakdown, *stat)
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	for i := range breakdown {
		if maxTotal > 0 {
			breakdown[i].BarPercent = float64(breakdown[i].Total) / float64(maxTotal) * 100
		}
		if breakdown[i].Total > 0 {
			rate := float64(breakdown[i].Completed) / float64(breakdown[i].Total) * 100
			breakdown[i].CompletionRate = int(math.Round(rate))
		}
	}

	return breakdown
}
