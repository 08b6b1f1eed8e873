package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-dapp/client/internal/models"
)

var ErrSnapshotMissing = errors.New("snapshot missing")

// SnapshotStore persists the fallback task collection as one JSON-encoded
// array under a fixed key, with a monotonic id counter next to it. Writes
// are whole-array overwrites.
type SnapshotStore struct {
	client   *redis.Client
	tasksKey string
	ctx      context.Context
}

type SnapshotConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TasksKey     string
}

func DefaultSnapshotConfig() *SnapshotConfig {
	return &SnapshotConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		TasksKey:     "todo:tasks",
	}
}

func NewSnapshotStore(config *SnapshotConfig) *SnapshotStore {
	if config == nil {
		config = DefaultSnapshotConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &SnapshotStore{
		client:   rdb,
		tasksKey: config.TasksKey,
		ctx:      context.Background(),
	}
}

func (s *SnapshotStore) counterKey() string {
	return s.tasksKey + ":next_id"
}

func (s *SnapshotStore) LoadTasks() ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, s.tasksKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return tasks, nil
}

func (s *SnapshotStore) SaveTasks(tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	defer cancel()

	if err := s.client.Set(ctx, s.tasksKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// NextID hands out the next task id. The counter survives deletions, so ids
// are never reused.
func (s *SnapshotStore) NextID() (uint64, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	defer cancel()

	id, err := s.client.Incr(ctx, s.counterKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance id counter: %w", err)
	}

	return uint64(id), nil
}

// EnsureCounterAtLeast raises the id counter to floor if it is behind, which
// repairs snapshots written before the counter existed.
func (s *SnapshotStore) EnsureCounterAtLeast(floor uint64) error {
	ctx, cancel := context.WithTimeout(s.ctx, 3*time.Second)
	defer cancel()

	current, err := s.client.Get(ctx, s.counterKey()).Uint64()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read id counter: %w", err)
	}

	if current >= floor {
		return nil
	}

	if err := s.client.Set(ctx, s.counterKey(), floor, 0).Err(); err != nil {
		return fmt.Errorf("failed to set id counter: %w", err)
	}

	return nil
}

func (s *SnapshotStore) Health() error {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
