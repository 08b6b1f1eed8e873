package engine

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification is a transient user-facing message with a fixed auto-dismiss
// window.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type Notifier struct {
	mu    sync.Mutex
	ttl   time.Duration
	items []Notification
	now   func() time.Time
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl == 0 {
		ttl = 5 * time.Second
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

func (n *Notifier) Push(level NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.items = append(n.items, Notification{
		ID:        uuid.Must(uuid.NewV4()).String(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	})
}

// Active returns the notifications that have not yet auto-dismissed, pruning
// expired ones as a side effect.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	alive := n.items[:0]
	for _, item := range n.items {
		if item.ExpiresAt.After(now) {
			alive = append(alive, item)
		}
	}
	n.items = alive

	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}

func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
}
