package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/keys"
	"github.com/bezmoradi/whichkey/internal/sequence"
)

type fakeLauncher struct {
	mu   sync.Mutex
	apps []string
	err  error
}

func (f *fakeLauncher) LaunchApplication(name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps = append(f.apps, name)
	return 4242, f.err
}

func (f *fakeLauncher) RunShellCommand(string) (int, error) {
	return 4343, f.err
}

func newTestDaemon(t *testing.T, launchErr error) (*Daemon, *fakeLauncher) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "")
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`leader_key = "option"
log_file = %q

[feedback]
beep = false
notify = false

[[groups]]
name = "apps"

  [[groups.mappings]]
  keys = "of"
  kind = "Application"
  command = "Finder"
`, filepath.Join(dir, "whichkey.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	l := &fakeLauncher{err: launchErr}
	d := NewDaemon(cfgPath)
	d.statsDir = filepath.Join(dir, "stats")
	d.launcher = l

	require.NoError(t, d.Initialize())
	d.terminalControl = nil
	t.Cleanup(d.Cleanup)
	return d, l
}

func typeLeaderSequence(d *Daemon, codes ...int64) {
	at := time.Now()
	d.recorder.Process(sequence.KeyEvent{KeyCode: keys.CodeOption, Flags: keys.FlagMaskOptionDown, Timestamp: at})
	d.recorder.Process(sequence.KeyEvent{KeyCode: keys.CodeOption, Flags: keys.FlagMaskOptionUp, Timestamp: at.Add(50 * time.Millisecond)})
	for i, code := range codes {
		d.recorder.Process(sequence.KeyEvent{KeyCode: code, Timestamp: at.Add(time.Duration(i+2) * 50 * time.Millisecond)})
	}
}

func drain(d *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.processResults(ctx)
}

func TestInitializeMissingConfig(t *testing.T) {
	d := NewDaemon(filepath.Join(t.TempDir(), "missing.toml"))
	err := d.Initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSequenceLaunchesAndRecordsStats(t *testing.T) {
	d, l := newTestDaemon(t, nil)

	typeLeaderSequence(d, 31, 3)
	drain(d)

	assert.Equal(t, []string{"Finder"}, l.apps)

	today, err := d.metricsManager.GetTodayMetrics()
	require.NoError(t, err)
	require.Equal(t, 1, today.DispatchCount)
	assert.Equal(t, "of", today.Dispatches[0].Keys)
	assert.True(t, today.Dispatches[0].OK)
}

func TestLaunchFailureIsCountedAndRecognitionContinues(t *testing.T) {
	d, l := newTestDaemon(t, errors.New("unable to find application"))

	typeLeaderSequence(d, 31, 3)
	assert.Equal(t, 0, d.recorder.Len(), "a failed launch still consumes the sequence")
	typeLeaderSequence(d, 31, 3)
	drain(d)

	assert.Len(t, l.apps, 2)

	today, err := d.metricsManager.GetTodayMetrics()
	require.NoError(t, err)
	assert.Equal(t, 2, today.DispatchCount)
	assert.Equal(t, 2, today.FailureCount)
	assert.Equal(t, "unable to find application", today.Dispatches[0].Error)
}

func TestDispatchedDropsWhenQueueIsFull(t *testing.T) {
	d, _ := newTestDaemon(t, nil)

	for i := 0; i < resultBuffer+5; i++ {
		typeLeaderSequence(d, 31, 3)
	}
	assert.Len(t, d.results, resultBuffer)
}
