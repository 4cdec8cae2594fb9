// Package terminal holds small ANSI helpers for cleaning up prompts.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	clearLine = "\r\x1b[2K"
	cursorUp  = "\x1b[1A"
)

// rowsOccupied reports how many terminal rows a run of textLength
// characters wrapped across, given the current terminal width.
func rowsOccupied(textLength int) int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	rows := (textLength + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ClearPreviousLines erases the rows occupied by textLength characters
// of prompt-plus-input, so sensitive input (a pasted API token) does not
// stay on screen in the terminal.
//
// Pressing Enter leaves the cursor on a fresh row below the input, so
// one extra row is cleared on top of the occupied ones.
func ClearPreviousLines(textLength int) {
	rows := rowsOccupied(textLength) + 1
	for i := 0; i < rows; i++ {
		fmt.Print(clearLine)
		if i < rows-1 {
			fmt.Print(cursorUp)
		}
	}
}
