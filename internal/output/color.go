package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// Status labels the outcome of one kernel.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusChecked   Status = "checked"
	StatusFailed    Status = "failed"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// ColorizeStatus pads a status word to a fixed width and colors it.
func ColorizeStatus(s Status, colorize bool) string {
	text := padStatus(s)
	if !colorize {
		return text
	}

	switch s {
	case StatusGenerated:
		return colorGreen + text + colorReset
	case StatusChecked:
		return colorYellow + text + colorReset
	case StatusFailed:
		return colorBold + colorRed + text + colorReset
	default:
		return text
	}
}

func padStatus(s Status) string {
	const width = len(StatusGenerated)
	text := string(s)
	for len(text) < width {
		text += " "
	}
	return text
}

func (wr *Writer) status(s Status) string {
	return ColorizeStatus(s, wr.colorize)
}
