package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Control rewrites a block of status lines in place when writing to a
// terminal and falls back to plain lines otherwise.
type Control struct {
	out        io.Writer
	isTerminal bool
	lastLines  int
}

// NewControl creates a control writing to stdout.
func NewControl() *Control {
	return &Control{
		out:        os.Stdout,
		isTerminal: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// MoveCursorUp moves the cursor up by the specified number of lines
func (c *Control) MoveCursorUp(lines int) {
	if lines <= 0 {
		return
	}
	fmt.Fprintf(c.out, "\033[%dA", lines)
}

// ClearLine clears the current line
func (c *Control) ClearLine() {
	fmt.Fprint(c.out, "\033[2K\r")
}

// IsTerminal checks if output is going to a terminal
func (c *Control) IsTerminal() bool {
	return c.isTerminal
}

// UpdateInPlace replaces the previously printed block with lines.
func (c *Control) UpdateInPlace(lines []string) {
	if !c.isTerminal {
		for _, line := range lines {
			fmt.Fprintln(c.out, line)
		}
		return
	}

	// Move cursor up to overwrite previous output
	c.MoveCursorUp(c.lastLines)
	for _, line := range lines {
		c.ClearLine()
		fmt.Fprintln(c.out, line)
	}

	// Blank out leftovers of a taller previous block
	if extra := c.lastLines - len(lines); extra > 0 {
		for i := 0; i < extra; i++ {
			c.ClearLine()
			fmt.Fprintln(c.out)
		}
		c.MoveCursorUp(extra)
	}
	c.lastLines = len(lines)
}
