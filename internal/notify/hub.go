// Package notify implements the dashboard's single toast slot.
//
// A Hub holds at most one visible toast. Showing a toast replaces the
// current one and schedules its dismissal; a timer belonging to a replaced
// toast never dismisses its successor. Front ends subscribe to the Hub's
// event stream to render toasts.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/metrics"
)

// DefaultDuration is how long a toast stays visible
const DefaultDuration = 3 * time.Second

// Kind is the toast severity
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Icon returns the Font Awesome icon for the kind
func (k Kind) Icon() string {
	switch k {
	case KindSuccess:
		return "check-circle"
	case KindError:
		return "exclamation-circle"
	default:
		return "info-circle"
	}
}

// ParseKind maps a name to a Kind, defaulting to info
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindSuccess, KindError:
		return Kind(s)
	default:
		return KindInfo
	}
}

// Toast is one notification
type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	Icon    string    `json:"icon"`
	ShownAt time.Time `json:"shown_at"`
}

// EventType distinguishes toast events
type EventType string

const (
	EventShow    EventType = "show"
	EventDismiss EventType = "dismiss"
)

// Event is delivered to subscribers whenever the slot changes
type Event struct {
	Type  EventType `json:"type"`
	Toast Toast     `json:"toast"`
}

// Notifier is what producers of toasts depend on
type Notifier interface {
	Show(message string, kind Kind) Toast
}

// Hub is the single-slot toast holder
type Hub struct {
	mu       sync.Mutex
	duration time.Duration
	current  *Toast
	gen      uint64
	timer    *time.Timer
	subs     map[int]chan Event
	nextSub  int
	metrics  metrics.Collector
	closed   bool
}

// Option configures a Hub
type Option func(*Hub)

// WithDuration overrides DefaultDuration
func WithDuration(d time.Duration) Option {
	return func(h *Hub) { h.duration = d }
}

// WithMetrics attaches a metrics collector
func WithMetrics(c metrics.Collector) Option {
	return func(h *Hub) { h.metrics = c }
}

// NewHub creates an empty toast hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		duration: DefaultDuration,
		subs:     make(map[int]chan Event),
		metrics:  metrics.Noop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Show replaces the visible toast with a new one and schedules its dismissal
func (h *Hub) Show(message string, kind Kind) Toast {
	t := Toast{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		Icon:    kind.Icon(),
		ShownAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return t
	}

	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.current = &t
	if h.duration > 0 {
		h.timer = time.AfterFunc(h.duration, func() { h.expire(gen) })
	}

	h.metrics.IncToast(string(kind))
	logging.LogToast(string(kind), message)
	h.publish(Event{Type: EventShow, Toast: t})

	return t
}

// Info shows an info toast
func (h *Hub) Info(message string) Toast { return h.Show(message, KindInfo) }

// Success shows a success toast
func (h *Hub) Success(message string) Toast { return h.Show(message, KindSuccess) }

// Error shows an error toast
func (h *Hub) Error(message string) Toast { return h.Show(message, KindError) }

// expire dismisses the toast of generation gen if it is still visible
func (h *Hub) expire(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if gen != h.gen || h.current == nil {
		return
	}
	h.dismissLocked()
}

// Dismiss hides the toast with the given id. It reports false when that
// toast is no longer visible.
func (h *Hub) Dismiss(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil || h.current.ID != id {
		return false
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.dismissLocked()
	return true
}

func (h *Hub) dismissLocked() {
	t := *h.current
	h.current = nil
	h.timer = nil
	h.publish(Event{Type: EventDismiss, Toast: t})
}

// Current returns the visible toast
func (h *Hub) Current() (Toast, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return Toast{}, false
	}
	return *h.current, true
}

// Subscribe returns a channel of toast events and a function that cancels
// the subscription. A subscriber that falls more than buffer events behind
// misses events.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	if h.closed {
		close(ch)
	} else {
		h.subs[id] = ch
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// publish must be called with h.mu held
func (h *Hub) publish(ev Event) {
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logging.Warn("Dropped toast event for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

// Close stops the pending timer and closes every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
	}
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
