//go:build !darwin

package hotkeys

// AccessibilityTrusted always reports false off macOS.
func AccessibilityTrusted() bool {
	return false
}

// OpenAccessibilitySettings is a no-op off macOS.
func OpenAccessibilitySettings() error {
	return ErrUnsupported
}

type tapState struct{}

func (m *Manager) start() error {
	return ErrUnsupported
}

func (m *Manager) stop() {}
