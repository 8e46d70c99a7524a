package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/dispatch"
	"github.com/bezmoradi/whichkey/internal/feedback"
	"github.com/bezmoradi/whichkey/internal/hotkeys"
	"github.com/bezmoradi/whichkey/internal/logging"
	"github.com/bezmoradi/whichkey/internal/metrics"
	"github.com/bezmoradi/whichkey/internal/sequence"
	"github.com/bezmoradi/whichkey/internal/terminal"
)

// resultBuffer bounds dispatch results waiting for bookkeeping; the event
// tap never waits on it.
const resultBuffer = 32

type Daemon struct {
	configPath string
	statsDir   string

	config          *config.Config
	logger          *slog.Logger
	logCloser       io.Closer
	launcher        dispatch.Launcher
	dispatcher      *dispatch.Dispatcher
	recorder        *sequence.Recorder
	hotkeyManager   *hotkeys.Manager
	metricsManager  *metrics.MetricsManager
	feedback        *feedback.Feedback
	terminalControl *terminal.Control
	formatter       *metrics.StatsFormatter
	results         chan dispatch.Result
}

// NewDaemon creates a daemon reading its config from configPath, or from the
// default locations when configPath is empty.
func NewDaemon(configPath string) *Daemon {
	return &Daemon{
		configPath: configPath,
		statsDir:   config.GetStatsDir(),
		launcher:   dispatch.NewExecLauncher(),
		formatter:  metrics.NewStatsFormatter(),
		results:    make(chan dispatch.Result, resultBuffer),
	}
}

func (d *Daemon) Initialize() error {
	path := config.ResolvePath(d.configPath)

	var err error
	d.config, err = config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	d.logger, d.logCloser, err = logging.New(d.config.LogLevel, d.config.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	d.logger.Info("----- Starting whichkey -----",
		"config", path,
		"leader", d.config.LeaderKey,
		"mappings", d.config.MappingCount(),
		"log_file", d.config.LogFile)
	for _, w := range d.config.Warnings() {
		d.logger.Warn(w)
	}

	// Statistics are optional; the daemon runs without them
	d.metricsManager, err = metrics.NewMetricsManager(d.statsDir)
	if err != nil {
		d.logger.Warn("statistics disabled", "dir", d.statsDir, "error", err)
		d.metricsManager = nil
	}

	d.feedback = feedback.New(d.config.BeepEnabled(), d.config.NotifyEnabled())
	d.terminalControl = terminal.NewControl()

	d.dispatcher = dispatch.New(d.launcher, d, d.logger)
	d.recorder = sequence.NewRecorder(d.config, d.dispatcher, d.logger)
	d.hotkeyManager = hotkeys.NewManager(d.recorder, d.logger)

	return nil
}

func (d *Daemon) Run() error {
	if err := d.hotkeyManager.Start(); err != nil {
		d.Cleanup()
		return fmt.Errorf("failed to start key event tap: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	resultsDone := make(chan struct{})
	go func() {
		d.processResults(ctx)
		close(resultsDone)
	}()

	// Setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	fmt.Println("⌨️  whichkey - Leader Key Daemon Started")
	fmt.Printf("📋 Tap %s, then type a sequence (%d mappings loaded)\n", d.config.LeaderKey, d.config.MappingCount())
	fmt.Printf("📝 Logs: %s\n", d.config.LogFile)
	fmt.Println("🛑 Press Ctrl+C to exit")
	fmt.Println()

	tapDone := make(chan error, 1)
	go func() {
		tapDone <- d.hotkeyManager.Listen()
	}()

	var runErr error
	select {
	case <-c:
		fmt.Println("\n🛑 Shutting down...")
		d.hotkeyManager.Stop()
		<-tapDone
	case err := <-tapDone:
		if err != nil {
			runErr = fmt.Errorf("key event tap stopped: %w", err)
		}
	}

	cancel()
	<-resultsDone
	d.Cleanup()
	return runErr
}

func (d *Daemon) Cleanup() {
	if d.logger != nil {
		d.logger.Info("----- whichkey stopped -----")
	}
	if d.logCloser != nil {
		_ = d.logCloser.Close()
		d.logCloser = nil
	}
}

// Dispatched implements dispatch.Observer. It runs inside the event tap
// callback, so it only queues the result; a full queue drops it.
func (d *Daemon) Dispatched(r dispatch.Result) {
	select {
	case d.results <- r:
	default:
		d.logger.Warn("dropping dispatch result, bookkeeping is behind", "keys", r.Keys)
	}
}

func (d *Daemon) processResults(ctx context.Context) {
	for {
		select {
		case r := <-d.results:
			d.handleResult(r)
		case <-ctx.Done():
			// Drain what is already queued
			for {
				select {
				case r := <-d.results:
					d.handleResult(r)
				default:
					return
				}
			}
		}
	}
}

func (d *Daemon) handleResult(r dispatch.Result) {
	if r.OK() {
		d.feedback.Matched()
	} else {
		d.feedback.LaunchFailed(r.Keys, r.Mapping.Command, r.Err)
	}

	record := &metrics.DispatchRecord{
		Timestamp: r.At,
		Keys:      r.Keys,
		Kind:      string(r.Mapping.Kind),
		Command:   r.Mapping.Command,
		OK:        r.OK(),
	}
	if r.Err != nil {
		record.Error = r.Err.Error()
	}

	var today *metrics.DailyMetrics
	if d.metricsManager != nil {
		saved, err := d.metricsManager.RecordDispatch(r.Keys, string(r.Mapping.Kind), r.Mapping.Command, r.At, r.Err)
		if err != nil {
			d.logger.Warn("failed to record statistics", "error", err)
		} else {
			record = saved
		}
		if today, err = d.metricsManager.GetTodayMetrics(); err != nil {
			today = nil
		}
	}

	if d.terminalControl != nil {
		d.terminalControl.UpdateInPlace(d.formatter.FormatDispatchLines(record, today))
	}
}
