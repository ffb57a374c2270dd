package app

import (
	"time"

	"github.com/google/uuid"
)

// toastWindow is how long a notification stays visible unless dismissed.
const toastWindow = 3500 * time.Millisecond

type Notification struct {
	ID        string
	Text      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NotificationQueue holds transient toasts, in arrival order. It is
// drained by the UI tick; removal is idempotent.
type NotificationQueue struct {
	items []Notification
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{}
}

func (q *NotificationQueue) Push(text string) Notification {
	now := time.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(toastWindow),
	}
	q.items = append(q.items, n)
	return n
}

func (q *NotificationQueue) Dismiss(id string) {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Expire drops every entry whose window has passed and reports whether
// anything was removed.
func (q *NotificationQueue) Expire(now time.Time) bool {
	kept := q.items[:0]
	for _, n := range q.items {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(q.items)
	q.items = kept
	return removed
}

func (q *NotificationQueue) Items() []Notification { return q.items }

func (q *NotificationQueue) Len() int { return len(q.items) }

// NextExpiry is the earliest pending expiry. Entries expire in arrival
// order because the window is fixed, so the head is always soonest.
func (q *NotificationQueue) NextExpiry() (time.Time, bool) {
	if len(q.items) == 0 {
		return time.Time{}, false
	}
	return q.items[0].ExpiresAt, true
}
