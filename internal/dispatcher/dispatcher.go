// Package dispatcher routes editor commands to their handlers. Handlers
// run synchronously on the caller's goroutine by default; registration
// options add per-command queueing and debug logging.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one editor command with its raw string arguments.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result for the caller.
type HandlerFunc func(Event) (any, error)

// Logger is the logging surface the dispatcher needs. The zerolog
// adapter lives in internal/logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures a single handler registration.
type Option func(*regOptions)

type regOptions struct {
	queueSize int
	blocking  bool
	logged    bool
}

// Buffered runs the handler on its own goroutine behind a queue of the
// given size; Dispatch returns "queued" as soon as the event is
// accepted.
func Buffered(size int) Option {
	return func(o *regOptions) {
		o.queueSize = size
	}
}

// Blocking makes a buffered handler wait for queue space instead of
// dropping the event.
func Blocking() Option {
	return func(o *regOptions) {
		o.blocking = true
	}
}

// Logged wraps the handler with debug logging and error reporting.
func Logged() Option {
	return func(o *regOptions) {
		o.logged = true
	}
}

// Dispatcher maps command names to handlers and feeds the otel
// instruments.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	queueDepth metric.Int64ObservableGauge
	processed  metric.Int64Counter
	dropped    metric.Int64Counter

	// queues is only written during Register; the gauge callback reads
	// it concurrently.
	mu     sync.RWMutex
	queues map[string]chan Event
}

// New creates a Dispatcher. Metrics go to the global otel meter, which
// is a no-op unless a meter provider is installed.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queues:   make(map[string]chan Event),
		logger:   logger,
	}
	if err := d.initInstruments(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) initInstruments() error {
	m := meter()

	var err error
	d.queueDepth, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Events waiting in per-command queues"),
	)
	if err != nil {
		return fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for cmd, q := range d.queues {
				o.ObserveInt64(d.queueDepth, int64(len(q)),
					metric.WithAttributes(attribute.String("command", cmd)))
			}
			return nil
		},
		d.queueDepth,
	)
	if err != nil {
		return fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Handlers executed, queued and synchronous alike"),
	)
	if err != nil {
		return fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Events dropped because a queue was full"),
	)
	if err != nil {
		return fmt.Errorf("creating dropped counter: %w", err)
	}

	return nil
}

// Register wires a handler for the command. Wrappers stack innermost
// first: counting around the handler itself so every execution is
// counted, then the queue, then logging on the outside so enqueue
// failures are reported too.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &regOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := d.withCounting(command, h)

	if cfg.queueSize > 0 {
		handler = d.withQueue(command, cfg.queueSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}
	return h(e)
}

// HasHandler reports whether a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// withCounting increments the processed counter after every handler
// run, on the caller's goroutine for synchronous handlers and on the
// drain goroutine for queued ones.
func (d *Dispatcher) withCounting(command string, h HandlerFunc) HandlerFunc {
	attrs := metric.WithAttributes(attribute.String("command", command))
	return func(e Event) (any, error) {
		result, err := h(e)
		d.processed.Add(context.Background(), 1, attrs)
		return result, err
	}
}

// withQueue hands events to a drain goroutine. The drain logs handler
// errors since no caller is waiting on the result anymore.
func (d *Dispatcher) withQueue(command string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	queue := make(chan Event, size)

	d.mu.Lock()
	d.queues[command] = queue
	d.mu.Unlock()

	go func() {
		for e := range queue {
			if _, err := h(e); err != nil {
				d.logger.Error("queued event failed", "command", command, "error", err)
			}
		}
	}()

	if blocking {
		return func(e Event) (any, error) {
			queue <- e
			return "queued", nil
		}
	}

	attrs := metric.WithAttributes(attribute.String("command", command))
	return func(e Event) (any, error) {
		select {
		case queue <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, attrs)
			return nil, fmt.Errorf("queue full: %s", command)
		}
	}
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling event", "command", command, "args", len(e.Args))

		result, err := h(e)

		if err != nil {
			d.logger.Error("event failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
