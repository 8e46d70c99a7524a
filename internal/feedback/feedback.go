package feedback

import (
	"fmt"
	"os/exec"

	"github.com/gen2brain/beeep"
)

const appName = "whichkey"

// Feedback plays sounds and shows notifications for dispatch outcomes.
type Feedback struct {
	beep   bool
	notify bool

	// swapped in tests
	beepFn   func(freq float64, duration int) error
	notifyFn func(title, message string, icon any) error
	runFn    func(name string, args ...string) error
}

// New creates feedback with beeps and notifications toggled independently.
func New(beep, notify bool) *Feedback {
	beeep.AppName = appName
	return &Feedback{
		beep:     beep,
		notify:   notify,
		beepFn:   beeep.Beep,
		notifyFn: beeep.Notify,
		runFn: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Matched plays a short beep for a recognized sequence.
func (f *Feedback) Matched() {
	if !f.beep {
		return
	}
	if err := f.beepFn(beeep.DefaultFreq, beeep.DefaultDuration/3); err != nil {
		// Fallback to system beep command
		_ = f.runFn("osascript", "-e", "beep 1")
	}
}

// LaunchFailed tells the user a mapping could not be started.
func (f *Feedback) LaunchFailed(keys, command string, launchErr error) {
	if f.beep {
		if err := f.beepFn(beeep.DefaultFreq/2, beeep.DefaultDuration); err != nil {
			_ = f.runFn("osascript", "-e", "beep 2")
		}
	}
	if !f.notify {
		return
	}
	title := fmt.Sprintf("whichkey: %s failed", keys)
	msg := fmt.Sprintf("%s: %v", command, launchErr)
	_ = f.notifyFn(title, msg, "")
}
