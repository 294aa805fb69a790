package connectivity

import (
	"sync"

	"github.com/moviemend/moviemend/internal/logger"
)

// Listener is invoked exactly once per genuine connectivity transition with
// the new state. It is never invoked for repeated identical states.
type Listener func(online bool)

// Monitor tracks the process-wide online/offline signal. It is a pure signal
// relay: the runtime's native connectivity events are reported through
// SetOnline by a single writer, and subscribers are notified on transition
// edges only. No polling, no retries.
type Monitor struct {
	mu        sync.Mutex
	online    bool
	nextID    int
	listeners map[int]Listener
	log       *logger.Logger
}

// NewMonitor creates a monitor with the given initial state. The runtime
// default is online, matching what a freshly launched client reports.
func NewMonitor(initiallyOnline bool, log *logger.Logger) *Monitor {
	if log == nil {
		log = logger.AppLogger()
	}
	return &Monitor{
		online:    initiallyOnline,
		listeners: make(map[int]Listener),
		log:       log,
	}
}

// IsOnline returns the current connectivity signal
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline reports a runtime connectivity event. Repeated identical states
// are dropped; genuine transitions notify every subscriber.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	notify := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		notify = append(notify, l)
	}
	m.mu.Unlock()

	if online {
		m.log.Info("Connection restored, back online")
	} else {
		m.log.Warn("Connection lost, switching to offline mode")
	}

	// Listeners run outside the lock so they may query the monitor
	for _, l := range notify {
		l(online)
	}
}

// Subscribe registers a transition listener and returns its unsubscribe
// function
func (m *Monitor) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = l

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}
