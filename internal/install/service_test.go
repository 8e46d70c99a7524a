package install

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlist(t *testing.T) {
	s := &Service{Label: Label, Executable: "/usr/local/bin/whichkey", LogDir: "/tmp"}

	data, err := s.Plist()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<string>com.bezmoradi.whichkey</string>")
	assert.Contains(t, out, "<string>/usr/local/bin/whichkey</string>\n        <string>start</string>")
	assert.Contains(t, out, "<string>/tmp/whichkey.err.log</string>")
	assert.Contains(t, out, "<key>RunAtLoad</key>")
}

func TestPlistEscapesPaths(t *testing.T) {
	exe := "/Users/tom & jerry/<bin>/whichkey"
	s := &Service{Label: Label, Executable: exe, LogDir: "/tmp/a&b"}

	data, err := s.Plist()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tom &amp; jerry/&lt;bin&gt;")

	var strs []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	inString := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err, "plist must stay well-formed XML")
		switch tok := tok.(type) {
		case xml.StartElement:
			inString = tok.Name.Local == "string"
		case xml.CharData:
			if inString {
				strs = append(strs, string(tok))
			}
		case xml.EndElement:
			inString = false
		}
	}
	assert.Contains(t, strs, exe)
	assert.Contains(t, strs, "/tmp/a&b/whichkey.out.log")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LaunchAgents", Label+".plist")
	s := &Service{Label: Label, Executable: "/bin/whichkey", LogDir: "/tmp"}

	require.NoError(t, s.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/bin/whichkey")

	assert.ErrorIs(t, s.Write(path), ErrServiceExists)
}

func TestNewService(t *testing.T) {
	s, err := NewService()
	require.NoError(t, err)
	assert.Equal(t, Label, s.Label)
	assert.NotEmpty(t, s.Executable)
}

func TestDefaultPlistPath(t *testing.T) {
	path, err := DefaultPlistPath()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}
	assert.Equal(t, Label+".plist", filepath.Base(path))
	assert.Equal(t, "LaunchAgents", filepath.Base(filepath.Dir(path)))
}
