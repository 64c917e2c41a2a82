// Package notifier provides the transient notification queue: short-lived,
// self-expiring UI alerts shown by the dashboard, distinct from the
// dispatch alerts owned by the alert service. Notifications live only in
// memory and have a single consumer.
package notifier

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Kind categorizes a transient notification for UI styling.
type Kind string

const (
	KindError     Kind = "error"
	KindWarning   Kind = "warning"
	KindInfo      Kind = "info"
	KindSuccess   Kind = "success"
	KindDetection Kind = "detection"
)

// DefaultDuration is how long a notification stays visible unless the
// caller says otherwise. A zero duration disables auto-removal.
const DefaultDuration = 5 * time.Second

// Notification is a single transient UI alert.
type Notification struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
	Duration  time.Duration `json:"-"`
}

// subscriber receives queue events until its context is cancelled.
type subscriber struct {
	ch     chan *Notification
	ctx    context.Context
	cancel context.CancelFunc
}

const subscriberBufferSize = 16

// Queue is an ordered in-memory notification queue with automatic
// expiry. Safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	items  []*Notification
	timers map[string]*time.Timer

	subscribersMu sync.RWMutex
	subscribers   []*subscriber

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewQueue creates an empty notification queue.
func NewQueue(debug bool) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		timers: make(map[string]*time.Timer),
		ctx:    ctx,
		cancel: cancel,
		logger: getLogger(debug),
	}
}

// AddAlert appends a notification and returns its generated, time-based
// identifier. If duration > 0 the notification is removed automatically
// after that delay; a zero duration means it stays until removed
// explicitly.
func (q *Queue) AddAlert(kind Kind, message string, duration time.Duration) string {
	q.mu.Lock()

	id := q.nextIDLocked()
	n := &Notification{
		ID:        id,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
	q.items = append(q.items, n)

	if duration > 0 {
		q.timers[id] = time.AfterFunc(duration, func() {
			q.RemoveAlert(id)
		})
	}
	q.mu.Unlock()

	q.logger.Debug("notification added", "id", id, "kind", kind, "duration", duration)
	q.broadcast(n)
	return id
}

// Notify appends a notification with the default visibility duration.
func (q *Queue) Notify(kind Kind, message string) string {
	return q.AddAlert(kind, message, DefaultDuration)
}

// RemoveAlert removes a notification by identity. Removing an unknown or
// already-removed id is a no-op, not an error.
func (q *Queue) RemoveAlert(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			q.logger.Debug("notification removed", "id", id)
			return
		}
	}
}

// List returns the current notifications in insertion order.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, 0, len(q.items))
	for _, n := range q.items {
		out = append(out, *n)
	}
	return out
}

// Len returns the number of notifications currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// nextIDLocked generates a time-based identifier, nudging forward on the
// rare nanosecond collision. Caller must hold q.mu.
func (q *Queue) nextIDLocked() string {
	nano := time.Now().UnixNano()
	for {
		id := strconv.FormatInt(nano, 10)
		if !q.hasLocked(id) {
			return id
		}
		nano++
	}
}

func (q *Queue) hasLocked(id string) bool {
	for _, n := range q.items {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Subscribe returns a channel receiving every notification added after
// this call, plus a context cancelled when the subscription ends. The
// subscriber must not close the channel.
func (q *Queue) Subscribe() (<-chan *Notification, context.Context) {
	q.subscribersMu.Lock()
	defer q.subscribersMu.Unlock()

	ctx, cancel := context.WithCancel(q.ctx)
	sub := &subscriber{
		ch:     make(chan *Notification, subscriberBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
	q.subscribers = append(q.subscribers, sub)
	return sub.ch, ctx
}

// Unsubscribe cancels a subscription created by Subscribe.
func (q *Queue) Unsubscribe(ch <-chan *Notification) {
	q.subscribersMu.Lock()
	defer q.subscribersMu.Unlock()

	for i, sub := range q.subscribers {
		if sub.ch == ch {
			sub.cancel()
			q.subscribers = append(q.subscribers[:i], q.subscribers[i+1:]...)
			break
		}
	}
}

// broadcast delivers a notification to all live subscribers, dropping
// it for any subscriber whose channel is full.
func (q *Queue) broadcast(n *Notification) {
	q.subscribersMu.Lock()
	defer q.subscribersMu.Unlock()

	active := q.subscribers[:0]
	for _, sub := range q.subscribers {
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}

		active = append(active, sub)
		clone := *n
		select {
		case sub.ch <- &clone:
		default:
			q.logger.Debug("subscriber channel full, notification dropped", "id", n.ID)
		}
	}
	q.subscribers = active
}

// Stop cancels all pending expiry timers and subscriber contexts.
func (q *Queue) Stop() {
	q.cancel()

	q.mu.Lock()
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.subscribersMu.Lock()
	for _, sub := range q.subscribers {
		sub.cancel()
	}
	q.subscribers = nil
	q.subscribersMu.Unlock()

	q.logger.Info("notification queue stopped")
}
