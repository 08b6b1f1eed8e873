package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

type Status int

const (
	StatusPending   Status = 0
	StatusCompleted Status = 1
)

func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "pending"
}

var (
	ErrEmptyTitle      = errors.New("task title is required")
	ErrInvalidPriority = errors.New("task priority must be between 1 and 3")
)

// Task is the canonical record regardless of backing store. Timestamps are
// seconds since epoch; CompletedAt and DueDate use 0 for "unset".
type Task struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   int64    `json:"created_at"`
	CompletedAt int64    `json:"completed_at"`
	DueDate     int64    `json:"due_date"`
	Category    string   `json:"category"`
}

// IsOverdue reports whether the task is past due at the given instant.
// Completed tasks and tasks without a due date are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Status == StatusCompleted || t.DueDate == 0 {
		return false
	}
	return t.DueDate < now.Unix()
}

// TaskDraft carries the user-provided fields of an Add intent before the
// backing store assigns an id and creation time.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     int64    `json:"due_date"`
	Category    string   `json:"category"`
}

func (d TaskDraft) Validate() error {
	if d.Title == "" {
		return ErrEmptyTitle
	}
	if !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// SortForDisplay orders tasks by priority (high first), breaking ties by
// creation time (newest first). The sort is stable for equal keys.
func SortForDisplay(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})
}

// ShortAddress truncates a ledger account address for display,
// e.g. "0xc9bc8d634c75...b6984dae".
func ShortAddress(address string) string {
	if len(address) <= 20 {
		return address
	}
	return address[:12] + "..." + address[len(address)-8:]
}
