package sequence

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/keys"
)

type dispatchCall struct {
	keys    string
	mapping config.Mapping
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
}

func (d *recordingDispatcher) Dispatch(keys string, m config.Mapping) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{keys: keys, mapping: m})
}

var (
	base = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	finder = config.Mapping{Keys: "of", Kind: config.KindApplication, Command: "Finder"}
)

func testConfig(mappings ...config.Mapping) *config.Config {
	return &config.Config{
		LeaderKey: "option",
		Groups:    []config.Group{{Name: "test", Mappings: mappings}},
	}
}

func newTestRecorder(cfg *config.Config) (*Recorder, *recordingDispatcher) {
	d := &recordingDispatcher{}
	return NewRecorder(cfg, d, nil), d
}

func optionDown(at time.Time) KeyEvent {
	return KeyEvent{KeyCode: keys.CodeOption, Flags: keys.FlagMaskOptionDown, Timestamp: at}
}

func optionUp(at time.Time) KeyEvent {
	return KeyEvent{KeyCode: keys.CodeOption, Flags: keys.FlagMaskOptionUp, Timestamp: at}
}

func key(code int64, at time.Time) KeyEvent {
	return KeyEvent{KeyCode: code, Timestamp: at}
}

func ms(n int) time.Time {
	return base.Add(time.Duration(n) * time.Millisecond)
}

func TestRecordAppendsWithinInterval(t *testing.T) {
	r, _ := newTestRecorder(testConfig())

	r.Record(key(0, ms(0)))
	assert.Equal(t, 1, r.Len())

	r.Record(key(1, ms(500)))
	assert.Equal(t, 2, r.Len())

	// exactly the interval still counts as the same burst
	r.Record(key(2, ms(1500)))
	assert.Equal(t, 3, r.Len())
}

func TestRecordResetsAfterGap(t *testing.T) {
	r, _ := newTestRecorder(testConfig())

	r.Record(key(0, ms(0)))
	r.Record(key(1, ms(100)))
	r.Record(key(2, ms(1101)))

	events := r.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].KeyCode)
}

func TestRecordGapIsMeasuredFromPreviousEvent(t *testing.T) {
	r, _ := newTestRecorder(testConfig(finder))

	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(900)))
	r.Record(key(31, ms(1800)))
	r.Record(key(3, ms(2700)))

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "of", r.KeySequence())
}

func TestRecordStopsGrowingOnceBurstCannotArm(t *testing.T) {
	r, _ := newTestRecorder(testConfig(finder))

	for i := 0; i < 200; i++ {
		r.Record(key(int64(i%50), ms(i*10)))
	}
	events := r.Events()
	require.Len(t, events, minSequenceLength)
	assert.Equal(t, int64(0), events[0].KeyCode)

	// a leader tap inside the same burst does not arm
	r.Process(optionDown(ms(2000)))
	assert.False(t, r.Process(optionUp(ms(2050))))

	// after a pause the leader works again
	r.Process(optionDown(ms(3100)))
	assert.True(t, r.Process(optionUp(ms(3150))))
	assert.Equal(t, 2, r.Len())
}

func TestRecordStopsGrowingPastLongestMapping(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))

	r.Process(optionDown(ms(0)))
	r.Process(optionUp(ms(50)))
	for i := 0; i < 100; i++ {
		assert.True(t, r.Process(key(6, ms(100+i*10))), "armed keys stay swallowed")
	}

	assert.LessOrEqual(t, r.Len(), leaderStrokes+len(finder.Keys)+1)
	assert.True(t, r.IsInSequence())
	assert.Empty(t, d.calls)
}

func TestIsInSequence(t *testing.T) {
	tests := []struct {
		name   string
		events []KeyEvent
		want   bool
	}{
		{"empty", nil, false},
		{"leader press only", []KeyEvent{optionDown(ms(0))}, false},
		{"leader press and release", []KeyEvent{optionDown(ms(0)), optionUp(ms(50))}, true},
		{"leader pair and payload", []KeyEvent{optionDown(ms(0)), optionUp(ms(50)), key(31, ms(100))}, true},
		{"leader twice", []KeyEvent{optionDown(ms(0)), optionUp(ms(50)), optionDown(ms(100))}, false},
		{"other modifier", []KeyEvent{
			{KeyCode: keys.CodeCommand, Flags: keys.FlagMaskCommandDown, Timestamp: ms(0)},
			{KeyCode: keys.CodeCommand, Flags: keys.FlagMaskCommandUp, Timestamp: ms(50)},
			key(31, ms(100)),
		}, false},
		{"leader without flags", []KeyEvent{
			{KeyCode: keys.CodeOption, Timestamp: ms(0)},
			{KeyCode: keys.CodeOption, Timestamp: ms(50)},
		}, false},
		{"starts with a letter", []KeyEvent{key(31, ms(0)), optionDown(ms(50)), optionUp(ms(100))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRecorder(testConfig(finder))
			for _, ev := range tt.events {
				r.Record(ev)
			}
			assert.Equal(t, tt.want, r.IsInSequence())
		})
	}
}

func TestIsInSequenceReadsLeaderFromConfig(t *testing.T) {
	cfg := testConfig(finder)
	r, _ := newTestRecorder(cfg)
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))
	require.True(t, r.IsInSequence())

	cfg.LeaderKey = "command"
	assert.False(t, r.IsInSequence())
}

func TestCheckSequenceMatch(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))
	r.Record(key(31, ms(100)))
	r.Record(key(3, ms(150)))

	assert.Equal(t, "of", r.KeySequence())
	assert.True(t, r.CheckSequence())

	require.Len(t, d.calls, 1)
	assert.Equal(t, "of", d.calls[0].keys)
	assert.Equal(t, finder, d.calls[0].mapping)
	assert.Equal(t, 0, r.Len())
}

func TestCheckSequenceMissKeepsBuffer(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))
	r.Record(key(6, ms(100)))
	r.Record(key(6, ms(150)))

	before := r.Events()
	assert.Equal(t, "zz", r.KeySequence())
	assert.False(t, r.CheckSequence())
	assert.False(t, r.CheckSequence())

	assert.Empty(t, d.calls)
	assert.Equal(t, before, r.Events())
}

func TestCheckSequenceTooShort(t *testing.T) {
	// a mapping with the leader's own symbol must not match the bare leader pair
	r, d := newTestRecorder(testConfig(config.Mapping{Keys: "", Kind: config.KindCommand, Command: "true"}))
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))

	assert.False(t, r.CheckSequence())
	assert.Empty(t, d.calls)
	assert.Equal(t, 2, r.Len())
}

func TestCheckSequenceFirstMatchWins(t *testing.T) {
	cfg := &config.Config{
		LeaderKey: "option",
		Groups: []config.Group{
			{Name: "first", Mappings: []config.Mapping{
				{Keys: "os", Kind: config.KindCommand, Command: "one"},
				finder,
			}},
			{Name: "second", Mappings: []config.Mapping{
				{Keys: "of", Kind: config.KindCommand, Command: "shadowed"},
			}},
		},
	}
	r, d := newTestRecorder(cfg)
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))
	r.Record(key(31, ms(100)))
	r.Record(key(3, ms(150)))

	assert.True(t, r.CheckSequence())
	require.Len(t, d.calls, 1)
	assert.Equal(t, "Finder", d.calls[0].mapping.Command)

	assert.False(t, r.CheckSequence())
	assert.Len(t, d.calls, 1)
}

func TestCheckSequenceExtendsAfterMiss(t *testing.T) {
	r, d := newTestRecorder(testConfig(config.Mapping{Keys: "gst", Kind: config.KindCommand, Command: "git status"}))
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(50)))

	for i, code := range []int64{5, 1} {
		r.Record(key(code, ms(100+i*50)))
		assert.False(t, r.CheckSequence())
	}
	r.Record(key(17, ms(300)))
	assert.True(t, r.CheckSequence())
	require.Len(t, d.calls, 1)
	assert.Equal(t, "gst", d.calls[0].keys)
}

// option down, option up, o, f: the o is swallowed and of opens Finder.
func TestProcessLeaderSequence(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))

	assert.False(t, r.Process(optionDown(ms(0))))
	assert.True(t, r.Process(optionUp(ms(100))))

	assert.True(t, r.Process(key(31, ms(200))))
	assert.True(t, r.IsInSequence())
	assert.Empty(t, d.calls)

	assert.True(t, r.Process(key(3, ms(300))))
	require.Len(t, d.calls, 1)
	assert.Equal(t, finder, d.calls[0].mapping)
	assert.Equal(t, 0, r.Len())

	// typing continues normally after the match
	assert.False(t, r.Process(key(3, ms(400))))
	assert.Len(t, d.calls, 1)
}

// a pause after the leader release turns the next key into ordinary typing.
func TestProcessTimeoutAfterLeader(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))

	r.Process(optionDown(ms(0)))
	r.Process(optionUp(ms(100)))
	assert.False(t, r.Process(key(31, ms(1600))))

	events := r.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(31), events[0].KeyCode)
	assert.False(t, r.IsInSequence())

	assert.False(t, r.Process(key(3, ms(1700))))
	assert.Empty(t, d.calls)
}

func TestProcessDoubleLeader(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))

	r.Process(optionDown(ms(0)))
	r.Process(optionUp(ms(100)))
	assert.False(t, r.Process(optionDown(ms(200))))
	assert.False(t, r.IsInSequence())
	assert.Empty(t, d.calls)
}

func TestProcessUnmatchedSequenceStaysOpen(t *testing.T) {
	r, d := newTestRecorder(testConfig(finder))

	r.Process(optionDown(ms(0)))
	r.Process(optionUp(ms(100)))
	assert.True(t, r.Process(key(6, ms(200))))
	assert.True(t, r.Process(key(6, ms(300))))

	assert.Equal(t, "zz", r.KeySequence())
	assert.Equal(t, 4, r.Len())
	assert.Empty(t, d.calls)
}

func TestReset(t *testing.T) {
	r, _ := newTestRecorder(testConfig(finder))
	r.Record(optionDown(ms(0)))
	r.Record(optionUp(ms(10)))
	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.IsInSequence())
}

func TestProcessConcurrentCallers(t *testing.T) {
	r, _ := newTestRecorder(testConfig(finder))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Process(key(int64(j%50), ms(i*100+j)))
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 800)
}
