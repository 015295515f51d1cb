// Package notify holds the session's notification log and its expiring toasts.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smarthire/internal/metrics"
	"github.com/jonathan/smarthire/internal/types"
	"go.uber.org/zap"
)

// DefaultToastTTL is how long a toast stays up when nobody dismisses it.
const DefaultToastTTL = 4 * time.Second

// Event kinds delivered to subscribers.
const (
	EventNotification = "notification"
	EventReadAll      = "read_all"
	EventToast        = "toast"
	EventToastRemoved = "toast_removed"
)

// Event is one change pushed to subscribers.
type Event struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// Options configures New.
type Options struct {
	ToastTTL time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
}

// Emitter is the in-memory notification log and toast queue.
type Emitter struct {
	mu            sync.Mutex
	notifications []types.Notification
	toasts        []types.Toast
	timers        map[string]*time.Timer
	subscribers   map[chan Event]struct{}
	closed        bool

	ttl time.Duration
	log *zap.Logger
	now func() time.Time
}

// New creates an empty emitter.
func New(opts Options) *Emitter {
	e := &Emitter{
		timers:      make(map[string]*time.Timer),
		subscribers: make(map[chan Event]struct{}),
		ttl:         opts.ToastTTL,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if e.ttl <= 0 {
		e.ttl = DefaultToastTTL
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// AddNotification prepends an unread notification. Empty severity means info.
func (e *Emitter) AddNotification(title, message string, severity types.Severity) types.Notification {
	if severity == "" {
		severity = types.SeverityInfo
	}
	n := types.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: e.now().UTC(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifications = append([]types.Notification{n}, e.notifications...)
	e.publishLocked(Event{Kind: EventNotification, Data: n})
	return n
}

// MarkAllRead flags every notification as read.
func (e *Emitter) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.notifications {
		e.notifications[i].Read = true
	}
	e.publishLocked(Event{Kind: EventReadAll})
}

// UnreadCount counts unread notifications.
func (e *Emitter) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, notif := range e.notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}

// Notifications returns a copy of the log, newest first.
func (e *Emitter) Notifications() []types.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Notification, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// AddToast appends a toast and schedules its removal after the TTL.
// Empty severity means info. After Close the toast is returned but not kept.
func (e *Emitter) AddToast(message string, severity types.Severity) types.Toast {
	if severity == "" {
		severity = types.SeverityInfo
	}
	t := types.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: e.now().UTC(),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return t
	}
	e.toasts = append(e.toasts, t)
	metrics.ToastsActive.Inc()
	id := t.ID
	e.timers[id] = time.AfterFunc(e.ttl, func() { e.RemoveToast(id) })
	e.publishLocked(Event{Kind: EventToast, Data: t})
	return t
}

// RemoveToast removes a toast now. It is a no-op when the toast is already gone,
// so the expiry timer and a manual dismissal can race safely.
func (e *Emitter) RemoveToast(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if timer, ok := e.timers[id]; ok {
		timer.Stop()
		delete(e.timers, id)
	}
	for i, t := range e.toasts {
		if t.ID == id {
			e.toasts = append(e.toasts[:i:i], e.toasts[i+1:]...)
			metrics.ToastsActive.Dec()
			e.publishLocked(Event{Kind: EventToastRemoved, Data: map[string]string{"id": id}})
			return true
		}
	}
	return false
}

// Toasts returns the visible toasts, oldest first.
func (e *Emitter) Toasts() []types.Toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Toast, len(e.toasts))
	copy(out, e.toasts)
	return out
}

// Subscribe returns a channel of events and a function that cancels the
// subscription. Events are dropped for a subscriber whose buffer is full.
func (e *Emitter) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if _, ok := e.subscribers[ch]; ok {
				delete(e.subscribers, ch)
				close(ch)
			}
		})
	}
}

func (e *Emitter) publishLocked(ev Event) {
	for ch := range e.subscribers {
		select {
		case ch <- ev:
		default:
			e.log.Debug("dropping event for slow subscriber", zap.String("kind", ev.Kind))
		}
	}
}

// Close stops pending toast timers and closes all subscriptions.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for id, timer := range e.timers {
		timer.Stop()
		delete(e.timers, id)
	}
	for ch := range e.subscribers {
		delete(e.subscribers, ch)
		close(ch)
	}
}
