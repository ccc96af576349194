package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

const maxRecent = 50

// DefaultSinkTimeout bounds a single sink delivery.
const DefaultSinkTimeout = 10 * time.Second

// Sink receives every notification after it is recorded.
type Sink interface {
	Deliver(ctx context.Context, n models.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n models.Notification) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, n models.Notification) error {
	return f(ctx, n)
}

// Relay surfaces operator notifications and always requests a reload
// afterwards.
type Relay struct {
	mu     sync.Mutex
	recent []models.Notification
	reload []func()

	sinks       []Sink
	sinkTimeout time.Duration
	wg          sync.WaitGroup

	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRelay wires a relay. Notifications stay active for ttl.
func NewRelay(ttl time.Duration, logger *zap.Logger, sinks ...Sink) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		sinks:       sinks,
		sinkTimeout: DefaultSinkTimeout,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// SetSinkTimeout changes the per-sink delivery deadline. Non-positive values
// are ignored.
func (r *Relay) SetSinkTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinkTimeout = d
}

// OnReload registers a hook run after every notification.
func (r *Relay) OnReload(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reload = append(r.reload, fn)
}

// Notify records the message and runs the reload hooks whatever the kind.
// Sinks are then delivered in the background, each under its own deadline,
// so a slow sink never holds up the reload.
func (r *Relay) Notify(ctx context.Context, n models.Notification) models.Notification {
	if n.At.IsZero() {
		n.At = r.now()
	}

	r.mu.Lock()
	r.recent = append(r.recent, n)
	if len(r.recent) > maxRecent {
		r.recent = r.recent[len(r.recent)-maxRecent:]
	}
	hooks := append([]func(){}, r.reload...)
	timeout := r.sinkTimeout
	r.mu.Unlock()

	fields := []zap.Field{zap.String("kind", string(n.Kind)), zap.String("message", n.Message)}
	if n.Kind == models.NotificationError {
		r.logger.Warn("notification", fields...)
	} else {
		r.logger.Info("notification", fields...)
	}

	for _, fn := range hooks {
		fn()
	}

	base := context.WithoutCancel(ctx)
	for _, sink := range r.sinks {
		r.wg.Add(1)
		go func(sink Sink) {
			defer r.wg.Done()
			r.deliver(base, sink, n, timeout)
		}(sink)
	}
	return n
}

func (r *Relay) deliver(ctx context.Context, sink Sink, n models.Notification, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sink.Deliver(ctx, n); err != nil {
		r.logger.Error("notification sink failed", zap.Error(err), zap.String("kind", string(n.Kind)))
	}
}

// Wait blocks until every pending sink delivery has returned.
func (r *Relay) Wait() {
	r.wg.Wait()
}

// Success is shorthand for a success notification.
func (r *Relay) Success(ctx context.Context, message string) models.Notification {
	return r.Notify(ctx, models.Notification{Kind: models.NotificationSuccess, Message: message})
}

// Error is shorthand for an error notification.
func (r *Relay) Error(ctx context.Context, message string) models.Notification {
	return r.Notify(ctx, models.Notification{Kind: models.NotificationError, Message: message})
}

// Active returns the notifications still within their display window.
func (r *Relay) Active() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	var out []models.Notification
	for _, n := range r.recent {
		if n.At.After(cutoff) {
			out = append(out, n)
		}
	}
	return out
}

// Recent returns the retained history, oldest first.
func (r *Relay) Recent() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.recent...)
}
