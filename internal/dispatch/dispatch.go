package dispatch

import (
	"io"
	"log/slog"
	"time"

	"github.com/bezmoradi/whichkey/internal/config"
)

// Launcher starts processes for mappings. Both methods return as soon as the
// process is spawned.
type Launcher interface {
	LaunchApplication(name string) (pid int, err error)
	RunShellCommand(commandLine string) (pid int, err error)
}

// Result describes one dispatch attempt.
type Result struct {
	Keys    string
	Mapping config.Mapping
	PID     int
	Err     error
	At      time.Time
}

// OK reports whether the process was spawned.
func (r Result) OK() bool {
	return r.Err == nil
}

// Observer receives dispatch results. It is called on the event path and
// must return quickly.
type Observer interface {
	Dispatched(r Result)
}

// Dispatcher turns matched mappings into process launches. Launch failures
// are logged and reported to the observer, never returned.
type Dispatcher struct {
	launcher Launcher
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a dispatcher. observer and logger may be nil.
func New(launcher Launcher, observer Observer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		launcher: launcher,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch runs m according to its kind. Unknown kinds are ignored.
func (d *Dispatcher) Dispatch(keys string, m config.Mapping) {
	var (
		pid int
		err error
	)

	switch m.Kind {
	case config.KindApplication:
		pid, err = d.launcher.LaunchApplication(m.Command)
		if err != nil {
			d.logger.Error("failed to open application", "keys", keys, "app", m.Command, "error", err)
		} else {
			d.logger.Info("application launched", "keys", keys, "app", m.Command, "pid", pid)
		}
	case config.KindCommand:
		pid, err = d.launcher.RunShellCommand(m.Command)
		if err != nil {
			d.logger.Error("failed to run command", "keys", keys, "command", m.Command, "error", err)
		} else {
			d.logger.Info("command started", "keys", keys, "command", m.Command, "pid", pid)
		}
	default:
		d.logger.Warn("ignoring mapping with unknown kind", "keys", keys, "kind", string(m.Kind))
		return
	}

	if d.observer != nil {
		d.observer.Dispatched(Result{
			Keys:    keys,
			Mapping: m,
			PID:     pid,
			Err:     err,
			At:      d.now(),
		})
	}
}
