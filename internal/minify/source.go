package minify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single source line. Kernel sources are small; this only
// guards against feeding the generator a binary file.
const maxLineSize = 1024 * 1024

// Load reads the kernel source at path and returns its lines with the first
// headerLines lines discarded.
func Load(path string, headerLines int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open kernel source: %w", err)
	}
	defer f.Close()

	lines, err := Read(f, headerLines)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// Read splits r into lines, skipping the first headerLines of them.
// Trailing blanks and carriage returns are trimmed from every line.
func Read(r io.Reader, headerLines int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= headerLines {
			continue
		}
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
