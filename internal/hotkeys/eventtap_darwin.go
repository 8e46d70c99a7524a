//go:build darwin

package hotkeys

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include "eventtap_darwin.h"
*/
import "C"

import (
	"fmt"
	"os/exec"
	"runtime"
	"runtime/cgo"
	"time"
)

// runLoopSlice bounds how long the run loop runs before rechecking for Stop.
const runLoopSlice = 500 * time.Millisecond

const accessibilitySettingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"

//export goHandleKeyEvent
func goHandleKeyEvent(handle C.uintptr_t, code C.int64_t, flags C.uint64_t, flagsChanged C.int) C.int {
	m, ok := cgo.Handle(handle).Value().(*Manager)
	if !ok {
		return 0
	}
	if m.HandleEvent(int64(code), uint64(flags), flagsChanged != 0) {
		return 1
	}
	return 0
}

//export goTapReenabled
func goTapReenabled(handle C.uintptr_t, reason C.uint32_t) {
	if m, ok := cgo.Handle(handle).Value().(*Manager); ok {
		m.tapReenabled(uint32(reason))
	}
}

// AccessibilityTrusted reports whether the process may observe system-wide input.
func AccessibilityTrusted() bool {
	return C.wkAccessibilityTrusted() != 0
}

// OpenAccessibilitySettings opens the Accessibility pane of System Settings.
func OpenAccessibilitySettings() error {
	return exec.Command("open", accessibilitySettingsURL).Run()
}

type tapState struct {
	handle cgo.Handle
}

func (m *Manager) start() error {
	if !AccessibilityTrusted() {
		if err := OpenAccessibilitySettings(); err != nil {
			m.logger.Warn("failed to open System Settings", "error", err)
		}
		return ErrAccessibility
	}

	m.tap.handle = cgo.NewHandle(m)
	ready := make(chan error, 1)

	go func() {
		// The run loop belongs to the thread that created the tap.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if rc := C.wkCreateEventTap(C.uintptr_t(m.tap.handle)); rc != 0 {
			ready <- fmt.Errorf("%w (code %d)", ErrTapCreate, int(rc))
			return
		}
		ready <- nil

		m.logger.Info("monitoring key events")
		m.runUntilStopped(func() {
			C.wkRunEventTapFor(C.double(runLoopSlice.Seconds()))
		})
		C.wkCloseEventTap()

		m.tap.handle.Delete()
		m.done <- nil
	}()

	if err := <-ready; err != nil {
		m.tap.handle.Delete()
		return err
	}
	return nil
}

func (m *Manager) stop() {
	C.wkStopEventTap()
}
