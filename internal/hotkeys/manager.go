package hotkeys

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bezmoradi/whichkey/internal/sequence"
)

var (
	ErrUnsupported   = errors.New("global key event tap is only supported on macOS")
	ErrAccessibility = errors.New("accessibility permission is required; grant it in System Settings → Privacy & Security → Accessibility and restart")
	ErrTapCreate     = errors.New("failed to create key event tap")
	ErrRunning       = errors.New("event tap already running")
)

// Manager owns the recorder and the OS event tap feeding it. The tap
// callback reaches the manager through a cgo.Handle, never a global.
type Manager struct {
	recorder *sequence.Recorder
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	stopping atomic.Bool
	tap      tapState
	done     chan error
}

// NewManager creates a manager for recorder. A nil logger discards output.
func NewManager(recorder *sequence.Recorder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		done:     make(chan error, 1),
	}
}

// HandleEvent feeds one key-down or flags-changed event to the recorder and
// reports whether the event should be swallowed. Flags-changed events always
// pass through so the rest of the system never sees a stuck modifier.
func (m *Manager) HandleEvent(code int64, flags uint64, flagsChanged bool) bool {
	inSequence := m.recorder.Process(sequence.KeyEvent{
		KeyCode:   code,
		Flags:     flags,
		Timestamp: m.now(),
	})
	return inSequence && !flagsChanged
}

// Start installs the event tap and begins delivering events on a dedicated
// OS thread. It returns once the tap is live or failed to install.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}
	m.stopping.Store(false)
	if err := m.start(); err != nil {
		return err
	}
	m.running = true
	return nil
}

// Stop removes the event tap. Listen returns afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.stopping.Store(true)
	m.stop()
}

// Listen blocks until the event tap stops and returns why.
func (m *Manager) Listen() error {
	err := <-m.done

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	return err
}

// runUntilStopped calls run, which returns after at most one slice of the
// event loop, until Stop is requested. A Stop that lands before the loop is
// entered is still seen.
func (m *Manager) runUntilStopped(run func()) {
	for !m.stopping.Load() {
		run()
	}
}

func (m *Manager) tapReenabled(reason uint32) {
	m.logger.Warn("key event tap was disabled by the system and re-enabled", "reason", reason)
}
