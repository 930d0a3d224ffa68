// Package bus carries notifications (check-in reminders, achievement
// unlocks) from the reminder service to the delivery channels.
package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Notification is one outbound message for a delivery channel.
type Notification struct {
	Kind      string // "reminder" | "achievement"
	Title     string
	Body      string
	CreatedAt time.Time
}

const publishTimeout = 100 * time.Millisecond

// NotificationBus is a bounded queue. Publishing never blocks beyond a
// short grace period; overflow is counted and dropped rather than stalling
// the scheduler.
type NotificationBus struct {
	queue   chan Notification
	closed  bool
	dropped atomic.Uint64
	mu      sync.RWMutex
}

func NewNotificationBus() *NotificationBus {
	return &NotificationBus{
		queue: make(chan Notification, 100),
	}
}

func (nb *NotificationBus) Publish(n Notification) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	if nb.closed {
		return
	}

	select {
	case nb.queue <- n:
	default:
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case nb.queue <- n:
		case <-timer.C:
			nb.dropped.Add(1)
		}
	}
}

func (nb *NotificationBus) Consume(ctx context.Context) (Notification, bool) {
	select {
	case n, ok := <-nb.queue:
		if !ok {
			return Notification{}, false
		}
		return n, true
	case <-ctx.Done():
		return Notification{}, false
	}
}

func (nb *NotificationBus) Close() {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	if nb.closed {
		return
	}
	nb.closed = true
	close(nb.queue)
}

func (nb *NotificationBus) Dropped() uint64 {
	return nb.dropped.Load()
}
