package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"todo-dapp/client/internal/ledger"
	"todo-dapp/client/internal/models"
)

// Remote translates task operations into contract calls through the wallet
// provider. Mutations are fire-and-forget: the engine reconciles by
// reloading after the settle delay rather than waiting for finality.
type Remote struct {
	provider ledger.Provider
	contract *ledger.Contract
	account  ledger.Account
}

func NewRemote(provider ledger.Provider, contract *ledger.Contract, account ledger.Account) *Remote {
	return &Remote{
		provider: provider,
		contract: contract,
		account:  account,
	}
}

// Initialize runs the contract's one-time setup. An "already initialized"
// rejection is expected on every session after the first, so failures are
// logged and swallowed.
func (r *Remote) Initialize(ctx context.Context) error {
	_, err := r.provider.SignAndSubmitTransaction(ctx, r.contract.InitializePayload())
	if err != nil {
		log.Printf("Contract initialize skipped (likely already initialized): %v", err)
	}
	return nil
}

func (r *Remote) ListTasks(ctx context.Context) ([]models.Task, error) {
	values, err := r.provider.View(ctx, r.contract.GetTasksView(r.account.Address))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteOperation, err)
	}

	if len(values) == 0 {
		return []models.Task{}, nil
	}

	var rawTasks []map[string]json.RawMessage
	if err := json.Unmarshal(values[0], &rawTasks); err != nil {
		return nil, fmt.Errorf("%w: task array: %v", ErrMalformedRecord, err)
	}

	tasks := make([]models.Task, 0, len(rawTasks))
	for i, raw := range rawTasks {
		task, err := parseTask(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *Remote) AddTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// "No due date" travels as epoch 0.
	if draft.DueDate < 0 {
		draft.DueDate = 0
	}

	handle, err := r.provider.SignAndSubmitTransaction(ctx, r.contract.AddTaskPayload(draft))
	if err != nil {
		return nil, fmt.Errorf("%w: add task: %v", ErrRemoteOperation, err)
	}

	log.Printf("Submitted add-task transaction %s", handle.Hash)
	return nil, nil
}

func (r *Remote) CompleteTask(ctx context.Context, id uint64) error {
	return r.submit(ctx, "complete task", r.contract.CompleteTaskPayload(id))
}

func (r *Remote) DeleteTask(ctx context.Context, id uint64) error {
	return r.submit(ctx, "delete task", r.contract.DeleteTaskPayload(id))
}

func (r *Remote) Reprioritize(ctx context.Context, id uint64, priority models.Priority) error {
	if !priority.Valid() {
		return models.ErrInvalidPriority
	}
	return r.submit(ctx, "update priority", r.contract.UpdatePriorityPayload(id, priority))
}

func (r *Remote) submit(ctx context.Context, op string, payload ledger.EntryFunctionPayload) error {
	handle, err := r.provider.SignAndSubmitTransaction(ctx, payload)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteOperation, op, err)
	}

	log.Printf("Submitted %s transaction %s", op, handle.Hash)
	return nil
}

// parseTask normalizes one raw view record. The contract interface returns
// numeric fields as decimal strings; every required field must be present
// and parseable, otherwise the whole load is treated as malformed.
func parseTask(raw map[string]json.RawMessage) (models.Task, error) {
	id, err := requireUint(raw, "id")
	if err != nil {
		return models.Task{}, err
	}

	title, err := requireString(raw, "title")
	if err != nil {
		return models.Task{}, err
	}

	priority, err := requireUint(raw, "priority")
	if err != nil {
		return models.Task{}, err
	}
	if !models.Priority(priority).Valid() {
		return models.Task{}, fmt.Errorf("%w: priority %d out of range", ErrMalformedRecord, priority)
	}

	status, err := requireUint(raw, "status")
	if err != nil {
		return models.Task{}, err
	}

	createdAt, err := requireUint(raw, "created_at")
	if err != nil {
		return models.Task{}, err
	}

	completedAt, err := requireUint(raw, "completed_at")
	if err != nil {
		return models.Task{}, err
	}

	dueDate, err := requireUint(raw, "due_date")
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		ID:          id,
		Title:       title,
		Description: optionalString(raw, "description"),
		Priority:    models.Priority(priority),
		Status:      models.Status(status),
		CreatedAt:   int64(createdAt),
		CompletedAt: int64(completedAt),
		DueDate:     int64(dueDate),
		Category:    optionalString(raw, "category"),
	}, nil
}

func requireString(raw map[string]json.RawMessage, field string) (string, error) {
	value, ok := raw[field]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%w: field %q: %v", ErrMalformedRecord, field, err)
	}
	if s == "" && field == "title" {
		return "", fmt.Errorf("%w: empty title", ErrMalformedRecord)
	}

	return s, nil
}

// requireUint accepts both a bare JSON number and the decimal-string form
// the contract interface favors.
func requireUint(raw map[string]json.RawMessage, field string) (uint64, error) {
	value, ok := raw[field]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		n, convErr := strconv.ParseUint(s, 10, 64)
		if convErr != nil {
			return 0, fmt.Errorf("%w: field %q: %v", ErrMalformedRecord, field, convErr)
		}
		return n, nil
	}

	var n uint64
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, fmt.Errorf("%w: field %q: %v", ErrMalformedRecord, field, err)
	}

	return n, nil
}

func optionalString(raw map[string]json.RawMessage, field string) string {
	value, ok := raw[field]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}

	return s
}
