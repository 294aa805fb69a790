package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/moviemend/moviemend/internal/logger"
)

// Handler coordinates graceful shutdown. Registered functions run in reverse
// order of registration so dependents stop before their dependencies: the
// HTTP server first, then the query layer, then the cache database.
type Handler struct {
	mu       sync.Mutex
	funcs    []namedFunc
	timeout  time.Duration
	log      *logger.Logger
	signals  chan os.Signal
	done     chan struct{}
	stopping bool
}

type namedFunc struct {
	name string
	fn   func(context.Context) error
}

// New creates a shutdown handler with the given overall timeout
func New(timeout time.Duration, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.AppLogger()
	}
	return &Handler{
		timeout: timeout,
		log:     log,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// Register adds a named shutdown function. Functions run LIFO.
func (h *Handler) Register(name string, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.funcs = append(h.funcs, namedFunc{name: name, fn: fn})
}

// Wait blocks until SIGINT or SIGTERM, then runs the shutdown sequence
func (h *Handler) Wait() error {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	<-h.signals
	return h.Shutdown()
}

// Shutdown runs the registered functions in reverse order under the
// configured timeout. It is safe to call more than once; only the first call
// runs the sequence.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.stopping {
		h.mu.Unlock()
		return nil
	}
	h.stopping = true
	funcs := make([]namedFunc, len(h.funcs))
	copy(funcs, h.funcs)
	h.mu.Unlock()

	close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var firstErr error
	for i := len(funcs) - 1; i >= 0; i-- {
		nf := funcs[i]
		h.log.WithFields(map[string]interface{}{"component": nf.name}).Info("Stopping component")
		if err := nf.fn(ctx); err != nil {
			h.log.WithFields(map[string]interface{}{"component": nf.name}).Error("Component shutdown failed", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		if ctx.Err() != nil {
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			break
		}
	}

	return firstErr
}

// Done returns a channel that is closed once shutdown begins
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// Trigger starts the shutdown sequence programmatically
func (h *Handler) Trigger() {
	select {
	case h.signals <- syscall.SIGTERM:
	default:
	}
}
