// Package sequence recognizes leader-key sequences in a stream of key events.
//
// A sequence is the leader modifier pressed and released (two flags-changed
// events) followed by one or more payload keys, each arriving within
// KeyStrokeInterval of the previous event. The payload keys' symbols are
// concatenated into a key-sequence string and looked up in the config.
package sequence

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/keys"
)

const (
	// KeyStrokeInterval is the largest gap between two events of one sequence.
	KeyStrokeInterval = 1000 * time.Millisecond

	// leaderStrokes is the leader press and release that open a sequence.
	leaderStrokes = 2
	// minSequenceLength is the leader pair plus the first payload key.
	minSequenceLength = leaderStrokes + 1
)

// KeyEvent is one key-down or modifier flags-changed event.
type KeyEvent struct {
	KeyCode   int64
	Flags     uint64
	Timestamp time.Time
}

// Dispatcher runs the action of a matched mapping. Implementations must not
// block: Dispatch is called while the event source waits for a verdict.
type Dispatcher interface {
	Dispatch(keys string, m config.Mapping)
}

// Recorder buffers recent key events and matches them against the config.
// It is safe for use from the event tap callback and other goroutines.
type Recorder struct {
	mu            sync.Mutex
	strokes       []KeyEvent
	lastEventTime time.Time

	cfg        *config.Config
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewRecorder creates an empty recorder. A nil logger discards output.
func NewRecorder(cfg *config.Config, dispatcher Dispatcher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Record appends an event. If more than KeyStrokeInterval passed since the
// previous event, the buffer is replaced by one holding only this event, so
// it never mixes events from two bursts. Once no further event of the
// current burst can change IsInSequence or CheckSequence, events only move
// the clock and the buffer stops growing.
func (r *Recorder) Record(ev KeyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(ev)
}

func (r *Recorder) record(ev KeyEvent) {
	switch {
	case ev.Timestamp.Sub(r.lastEventTime) > KeyStrokeInterval:
		r.strokes = []KeyEvent{ev}
	case r.saturated():
	default:
		r.strokes = append(r.strokes, ev)
	}
	r.lastEventTime = ev.Timestamp

	r.logger.Debug("key recorded",
		"code", ev.KeyCode,
		"symbol", keys.Symbol(ev.KeyCode),
		"flags", ev.Flags,
		"buffered", len(r.strokes))
}

// IsInSequence reports whether the buffer opens with a leader press and
// release and no second leader follows. While it is true the event source
// should swallow key events instead of passing them on.
func (r *Recorder) IsInSequence() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isInSequence()
}

func (r *Recorder) isInSequence() bool {
	if len(r.strokes) < leaderStrokes {
		return false
	}

	leader := r.cfg.LeaderKey
	if len(r.strokes) >= minSequenceLength && keys.Symbol(r.strokes[2].KeyCode) == leader {
		return false
	}

	first, second := r.strokes[0], r.strokes[1]
	return keys.Symbol(first.KeyCode) == leader &&
		keys.Symbol(second.KeyCode) == leader &&
		keys.IsDown(first.KeyCode, first.Flags) &&
		keys.IsUp(second.KeyCode, second.Flags)
}

// CheckSequence resolves the payload keys to a key-sequence string and
// dispatches the first mapping with exactly those keys, then clears the
// buffer. On a miss the buffer is kept so further keys can extend it.
// It reports whether a mapping was dispatched.
func (r *Recorder) CheckSequence() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkSequence()
}

func (r *Recorder) checkSequence() bool {
	if len(r.strokes) < minSequenceLength {
		return false
	}

	seq := r.keySequence()
	for _, g := range r.cfg.Groups {
		for _, m := range g.Mappings {
			if m.Keys != seq {
				continue
			}
			r.logger.Info("sequence matched",
				"keys", seq,
				"group", g.Name,
				"kind", string(m.Kind),
				"command", m.Command)
			r.dispatcher.Dispatch(seq, m)
			r.strokes = r.strokes[:0]
			return true
		}
	}

	r.logger.Debug("no mapping for sequence", "keys", seq)
	return false
}

// saturated reports whether appending to the buffer is pointless until the
// next gap: the first three events already rule out a sequence, or the
// payload is longer than every mapping and can only grow.
func (r *Recorder) saturated() bool {
	if len(r.strokes) < minSequenceLength {
		return false
	}
	if !r.isInSequence() {
		return true
	}
	return len(r.keySequence()) > r.longestKeys()
}

func (r *Recorder) longestKeys() int {
	longest := 0
	for _, g := range r.cfg.Groups {
		for _, m := range g.Mappings {
			longest = max(longest, len(m.Keys))
		}
	}
	return longest
}

// keySequence concatenates the symbols of the keys after the leader pair.
func (r *Recorder) keySequence() string {
	var b strings.Builder
	for _, ev := range r.strokes[leaderStrokes:] {
		b.WriteString(keys.Symbol(ev.KeyCode))
	}
	return b.String()
}

// KeySequence returns the key-sequence string the buffer currently spells,
// or "" when it holds no payload keys.
func (r *Recorder) KeySequence() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strokes) < minSequenceLength {
		return ""
	}
	return r.keySequence()
}

// Process records ev and, while a sequence is armed, tries to match it.
// It returns true when ev belongs to a leader sequence and should be
// swallowed. The whole step runs under one lock so events from the tap are
// handled strictly in arrival order.
func (r *Recorder) Process(ev KeyEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.record(ev)
	if !r.isInSequence() {
		return false
	}
	r.checkSequence()
	return true
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.strokes)
}

// Events returns a copy of the buffered events.
func (r *Recorder) Events() []KeyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]KeyEvent, len(r.strokes))
	copy(out, r.strokes)
	return out
}

// Reset drops all buffered events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strokes = nil
	r.lastEventTime = time.Time{}
}
