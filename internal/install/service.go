package install

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Label identifies the launchd agent.
const Label = "com.bezmoradi.whichkey"

var ErrServiceExists = errors.New("launch agent already installed")

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{"xml": escapeXML}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{xml .Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{xml .Executable}}</string>
        <string>start</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <dict>
        <key>SuccessfulExit</key>
        <false/>
        <key>Crashed</key>
        <true/>
    </dict>
    <key>StandardOutPath</key>
    <string>{{xml .LogDir}}/whichkey.out.log</string>
    <key>StandardErrorPath</key>
    <string>{{xml .LogDir}}/whichkey.err.log</string>
    <key>ProcessType</key>
    <string>Interactive</string>
    <key>Nice</key>
    <integer>-20</integer>
</dict>
</plist>
`))

func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Service describes the launch agent that runs `whichkey start` at login.
type Service struct {
	Label      string
	Executable string
	LogDir     string
}

// NewService describes an agent for the running executable.
func NewService() (*Service, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return &Service{
		Label:      Label,
		Executable: exe,
		LogDir:     os.TempDir(),
	}, nil
}

// Plist renders the launchd property list.
func (s *Service) Plist() ([]byte, error) {
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultPlistPath returns ~/Library/LaunchAgents/<label>.plist.
func DefaultPlistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", Label+".plist"), nil
}

// Write installs the plist at path unless one is already there.
func (s *Service) Write(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrServiceExists)
	}

	data, err := s.Plist()
	if err != nil {
		return fmt.Errorf("failed to render plist: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create LaunchAgents directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
