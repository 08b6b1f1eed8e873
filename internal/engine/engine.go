// Package engine owns the authoritative in-memory task collection for a
// session and mediates every task intent through the selected backing store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"todo-dapp/client/internal/ledger"
	"todo-dapp/client/internal/models"
	"todo-dapp/client/internal/store"
)

type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateLoaded:
		return "loaded"
	}
	return "disconnected"
}

var ErrNotConnected = errors.New("no account connected")

type Config struct {
	SettleDelay     time.Duration
	AddSettleDelay  time.Duration
	ProviderGrace   time.Duration
	NotificationTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		SettleDelay:     2 * time.Second,
		AddSettleDelay:  3 * time.Second,
		ProviderGrace:   3 * time.Second,
		NotificationTTL: 5 * time.Second,
	}
}

// Engine is the task collection engine. The in-memory list is the single
// source of truth for the session: loads replace it wholesale, single-record
// mutations patch it in place on the local path, and remote mutations
// reconcile through a scheduled reload.
type Engine struct {
	mu         sync.RWMutex
	cfg        Config
	provider   ledger.Provider
	contract   *ledger.Contract
	local      store.Store
	notifier   *Notifier
	reconciler *Reconciler
	now        func() time.Time

	state   State
	account ledger.Account
	backing store.BackingStore
	tasks   []models.Task
	filters Filters
	loadGen uint64
}

func New(cfg Config, provider ledger.Provider, contract *ledger.Contract, local store.Store) *Engine {
	if cfg.SettleDelay == 0 {
		cfg = DefaultConfig()
	}

	e := &Engine{
		cfg:      cfg,
		provider: provider,
		contract: contract,
		local:    local,
		notifier: NewNotifier(cfg.NotificationTTL),
		now:      time.Now,
		filters:  DefaultFilters(),
	}
	e.reconciler = NewReconciler(e.reconcile)

	return e
}

func (e *Engine) Start() {
	e.reconciler.Start()
}

func (e *Engine) Stop() {
	e.reconciler.Stop()
}

type SessionInfo struct {
	State        string `json:"state"`
	Address      string `json:"address,omitempty"`
	ShortAddress string `json:"short_address,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// Connect binds the wallet account. If no provider answers within the grace
// period, the session permanently falls back to demo mode.
func (e *Engine) Connect(ctx context.Context) (SessionInfo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, e.cfg.ProviderGrace)
	defer cancel()

	account, err := e.provider.Connect(connectCtx)
	if err != nil {
		log.Printf("Wallet connect failed, enabling demo mode: %v", err)
		e.notifier.Push(LevelInfo, "Wallet not detected. Enabling demo mode...")
		return e.ConnectDemo(ctx)
	}

	e.notifier.Push(LevelSuccess, "Wallet connected successfully!")
	return e.bind(ctx, account)
}

// ConnectDemo starts a local-only session under the synthetic demo identity.
func (e *Engine) ConnectDemo(ctx context.Context) (SessionInfo, error) {
	info, err := e.bind(ctx, store.DemoAccount())
	if err != nil {
		return info, err
	}

	e.notifier.Push(LevelSuccess, "Demo mode enabled - try creating tasks!")
	return info, nil
}

func (e *Engine) bind(ctx context.Context, account ledger.Account) (SessionInfo, error) {
	var backing store.BackingStore
	if store.IsDemoAccount(account) {
		backing = store.BackingStore{Kind: store.KindLocal, Store: e.local}
	} else {
		remote := store.NewRemote(e.provider, e.contract, account)
		backing = store.Choose(account, remote, e.local)
	}

	e.mu.Lock()
	e.account = account
	e.backing = backing
	e.state = StateConnected
	e.tasks = nil
	e.filters = DefaultFilters()
	e.mu.Unlock()

	if err := backing.Store.Initialize(ctx); err != nil {
		log.Printf("Store initialization failed: %v", err)
	}

	if err := e.Load(ctx); err != nil {
		return e.Session(), err
	}

	return e.Session(), nil
}

// Disconnect unbinds the account and discards the collection.
func (e *Engine) Disconnect(ctx context.Context) {
	e.mu.Lock()
	kind := e.backing.Kind
	connected := e.state != StateDisconnected
	e.mu.Unlock()

	if connected && kind == store.KindRemote {
		if err := e.provider.Disconnect(ctx); err != nil {
			log.Printf("Wallet disconnect error: %v", err)
		}
	}

	e.mu.Lock()
	e.state = StateDisconnected
	e.account = ledger.Account{}
	e.backing = store.BackingStore{}
	e.tasks = nil
	e.filters = DefaultFilters()
	e.loadGen++
	e.mu.Unlock()

	e.notifier.Push(LevelInfo, "Wallet disconnected")
}

// Load replaces the collection with the backing store's current view. A
// failed remote list degrades to the synthesized demo dataset for this load
// only. Stale loads (superseded by a newer one) are discarded.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateDisconnected {
		e.mu.Unlock()
		return ErrNotConnected
	}
	e.loadGen++
	gen := e.loadGen
	backing := e.backing
	e.mu.Unlock()

	tasks, err := backing.Store.ListTasks(ctx)
	if err != nil {
		if backing.Kind == store.KindRemote {
			log.Printf("Remote task load failed, using sample data: %v", err)
			tasks = store.DemoTasks(e.now())
			e.notifier.Push(LevelInfo, "Demo mode: using sample data for this view")
		} else {
			log.Printf("Local task load failed: %v", err)
			e.notifier.Push(LevelError, "Failed to load tasks")
			tasks = []models.Task{}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.loadGen || e.state == StateDisconnected {
		return nil
	}

	e.tasks = tasks
	e.state = StateLoaded
	return nil
}

// Refresh is the explicit reload intent.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.Load(ctx)
}

// AddTask validates the draft, writes through the backing store, and either
// patches the collection (local) or schedules reconciliation (remote).
func (e *Engine) AddTask(ctx context.Context, draft models.TaskDraft) error {
	if draft.DueDate < 0 {
		draft.DueDate = 0
	}

	if err := draft.Validate(); err != nil {
		e.notifier.Push(LevelError, "Please enter a task title and a valid priority")
		return err
	}

	backing, err := e.currentBacking()
	if err != nil {
		return err
	}

	record, err := backing.Store.AddTask(ctx, draft)
	if err != nil {
		log.Printf("Add task failed: %v", err)
		e.notifier.Push(LevelError, "Failed to add task. Please try again.")
		return err
	}

	if backing.Kind == store.KindLocal && record != nil {
		e.mu.Lock()
		if e.state != StateDisconnected {
			e.tasks = append(e.tasks, *record)
			e.state = StateLoaded
		}
		e.mu.Unlock()
		e.notifier.Push(LevelSuccess, "Task added successfully!")
		return nil
	}

	e.notifier.Push(LevelSuccess, "Task submitted to the ledger!")
	e.reconciler.ScheduleReload(e.cfg.AddSettleDelay)
	return nil
}

func (e *Engine) CompleteTask(ctx context.Context, id uint64) error {
	backing, err := e.currentBacking()
	if err != nil {
		return err
	}

	if err := backing.Store.CompleteTask(ctx, id); err != nil {
		log.Printf("Complete task %d failed: %v", id, err)
		e.notifier.Push(LevelError, "Failed to complete task")
		return err
	}

	if backing.Kind == store.KindLocal {
		completedAt := e.now().Unix()
		e.patchTask(id, func(task *models.Task) {
			if task.Status == models.StatusPending {
				task.Status = models.StatusCompleted
				task.CompletedAt = completedAt
			}
		})
		e.notifier.Push(LevelSuccess, "Task completed!")
		return nil
	}

	e.notifier.Push(LevelSuccess, "Task completed successfully!")
	e.reconciler.ScheduleReload(e.cfg.SettleDelay)
	return nil
}

func (e *Engine) DeleteTask(ctx context.Context, id uint64) error {
	backing, err := e.currentBacking()
	if err != nil {
		return err
	}

	if err := backing.Store.DeleteTask(ctx, id); err != nil {
		log.Printf("Delete task %d failed: %v", id, err)
		e.notifier.Push(LevelError, "Failed to delete task")
		return err
	}

	if backing.Kind == store.KindLocal {
		e.mu.Lock()
		kept := e.tasks[:0]
		for _, task := range e.tasks {
			if task.ID != id {
				kept = append(kept, task)
			}
		}
		e.tasks = kept
		e.mu.Unlock()
		e.notifier.Push(LevelSuccess, "Task deleted!")
		return nil
	}

	e.notifier.Push(LevelSuccess, "Task deleted successfully!")
	e.reconciler.ScheduleReload(e.cfg.SettleDelay)
	return nil
}

func (e *Engine) Reprioritize(ctx context.Context, id uint64, priority models.Priority) error {
	if !priority.Valid() {
		e.notifier.Push(LevelError, "Priority must be between 1 and 3")
		return models.ErrInvalidPriority
	}

	backing, err := e.currentBacking()
	if err != nil {
		return err
	}

	if err := backing.Store.Reprioritize(ctx, id, priority); err != nil {
		log.Printf("Reprioritize task %d failed: %v", id, err)
		e.notifier.Push(LevelError, "Failed to update task priority")
		return err
	}

	if backing.Kind == store.KindLocal {
		e.patchTask(id, func(task *models.Task) {
			task.Priority = priority
		})
		e.notifier.Push(LevelSuccess, "Task priority updated!")
		return nil
	}

	e.notifier.Push(LevelSuccess, "Task priority updated successfully!")
	e.reconciler.ScheduleReload(e.cfg.SettleDelay)
	return nil
}

func (e *Engine) SetStatusFilter(value string) error {
	filter, err := ParseStatusFilter(value)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.filters.Status = filter
	e.mu.Unlock()
	return nil
}

func (e *Engine) SetPriorityFilter(value int) error {
	if value != 0 && !models.Priority(value).Valid() {
		return fmt.Errorf("invalid priority filter %d", value)
	}

	e.mu.Lock()
	e.filters.Priority = models.Priority(value)
	e.mu.Unlock()
	return nil
}

func (e *Engine) SetCategoryFilter(value string) {
	e.mu.Lock()
	e.filters.Category = value
	e.mu.Unlock()
}

type ViewModel struct {
	Tasks      []models.Task  `json:"tasks"`
	Visible    int            `json:"visible"`
	Filters    Filters        `json:"filters"`
	Stats      Statistics     `json:"stats"`
	Categories []CategoryStat `json:"categories"`
}

// ViewModel computes the filtered, sorted view plus aggregates. Statistics
// and the category breakdown always cover the unfiltered collection.
func (e *Engine) ViewModel() ViewModel {
	e.mu.RLock()
	tasks := make([]models.Task, len(e.tasks))
	copy(tasks, e.tasks)
	filters := e.filters
	e.mu.RUnlock()

	now := e.now()
	visible := applyFilters(tasks, filters, now)
	models.SortForDisplay(visible)

	return ViewModel{
		Tasks:      visible,
		Visible:    len(visible),
		Filters:    filters,
		Stats:      computeStatistics(tasks, now),
		Categories: computeBreakdown(tasks),
	}
}

func (e *Engine) Session() SessionInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == StateDisconnected {
		return SessionInfo{State: e.state.String()}
	}

	return SessionInfo{
		State:        e.state.String(),
		Address:      e.account.Address,
		ShortAddress: models.ShortAddress(e.account.Address),
		Mode:         e.backing.Kind.String(),
	}
}

func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *Engine) Notifications() []Notification {
	return e.notifier.Active()
}

func (e *Engine) currentBacking() (store.BackingStore, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == StateDisconnected {
		return store.BackingStore{}, ErrNotConnected
	}
	return e.backing, nil
}

func (e *Engine) patchTask(id uint64, fn func(*models.Task)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.tasks {
		if e.tasks[i].ID == id {
			fn(&e.tasks[i])
			return
		}
	}
}

func (e *Engine) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Load(ctx); err != nil {
		log.Printf("Scheduled reload skipped: %v", err)
	}
}
