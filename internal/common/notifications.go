package common

import (
	"sync"
	"time"

	"route-vending/tablegrid/internal/models/dtos"

	"github.com/google/uuid"
)

const (
	NotificationInfo  = "info"
	NotificationError = "error"
)

// NotificationFeed keeps the most recent user-facing notifications.
type NotificationFeed struct {
	mu    sync.RWMutex
	items []dtos.Notification
	size  int
	next  int
	full  bool
}

func NewNotificationFeed(size int) *NotificationFeed {
	if size <= 0 {
		size = 50
	}
	return &NotificationFeed{items: make([]dtos.Notification, size), size: size}
}

// Push records a notification, evicting the oldest when full.
func (f *NotificationFeed) Push(level, message string) dtos.Notification {
	n := dtos.Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	f.mu.Lock()
	f.items[f.next] = n
	f.next = (f.next + 1) % f.size
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()
	return n
}

// List returns up to limit notifications, newest first. limit <= 0 means all.
func (f *NotificationFeed) List(limit int) []dtos.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := f.next
	if f.full {
		count = f.size
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]dtos.Notification, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (f.next - 1 - i + f.size) % f.size
		out = append(out, f.items[idx])
	}
	return out
}
