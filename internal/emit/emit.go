// Package emit writes minified kernels as C sources: a definition file holding
// the character array (readable under the debug macro, compact otherwise) and
// a header declaring it for C and C++ callers.
package emit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bimmerbailey/clpack/internal/minify"
)

const (
	// DefaultChunkSize bounds the width of each release-mode string literal.
	DefaultChunkSize = 76

	// DefaultDebugMacro selects the readable branch when defined.
	DefaultDebugMacro = "OPENCL_DBG_MODE"
)

// Artifact is everything needed to write one kernel's C sources.
type Artifact struct {
	Symbol     string   // name of the character array
	DebugLines []string // comment-stripped source, one entry per line
	Text       string   // minified and aliased source, not yet escaped
	ChunkSize  int
	DebugMacro string
}

// Paths are the files written for an Artifact.
type Paths struct {
	Definition  string `json:"definition"`
	Declaration string `json:"declaration"`
}

// Chunk splits text into pieces of at most size bytes. Every piece but the
// last is exactly size bytes long.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([]string, 0, (len(text)+size-1)/size)
	for i := 0; i < len(text); i += size {
		end := min(i+size, len(text))
		chunks = append(chunks, text[i:end])
	}
	return chunks
}

// ReleaseLines returns the quoted release-mode literals for a, one per chunk.
// Chunks are escaped individually so an escape sequence never straddles two
// literals.
func ReleaseLines(a Artifact) []string {
	chunks := Chunk(a.Text, a.ChunkSize)
	lines := make([]string, len(chunks))
	for i, c := range chunks {
		lines[i] = `"` + minify.Escape(c) + `"`
	}
	return lines
}

// DebugLines returns the quoted debug-mode literals for a. Each source line
// is prefixed by a space, padded to the widest line and ends in "\n".
func DebugLines(a Artifact) []string {
	escaped := make([]string, len(a.DebugLines))
	width := 0
	for i, ln := range a.DebugLines {
		escaped[i] = minify.Escape(ln)
		width = max(width, utf8.RuneCountInString(escaped[i]))
	}

	lines := make([]string, len(escaped))
	for i, ln := range escaped {
		lines[i] = fmt.Sprintf(`" %-*s\n"`, width, ln)
	}
	return lines
}

// WriteDefinition writes the .c file for a.
func WriteDefinition(w io.Writer, a Artifact) error {
	macro := a.DebugMacro
	if macro == "" {
		macro = DefaultDebugMacro
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "const char %s[] = \n\n\n", a.Symbol)
	fmt.Fprintf(&sb, "#if defined(%s)\n\n\n", macro)
	writeLiterals(&sb, DebugLines(a))
	fmt.Fprintf(&sb, "\n\n#else /* defined(%s) */\n\n\n", macro)
	writeLiterals(&sb, ReleaseLines(a))
	fmt.Fprintf(&sb, "\n\n#endif /* defined(%s) */\n\n\n", macro)
	sb.WriteString(";\n\n\n")
	fmt.Fprintf(&sb, "const unsigned %s_len = sizeof(%s);\n", a.Symbol, a.Symbol)

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeLiterals writes one literal per line; an empty branch still needs a
// literal to stay valid C.
func writeLiterals(sb *strings.Builder, lines []string) {
	if len(lines) == 0 {
		sb.WriteString("\"\"\n")
		return
	}
	for _, ln := range lines {
		sb.WriteString(ln)
		sb.WriteByte('\n')
	}
}

// WriteDeclaration writes the .h file for a.
func WriteDeclaration(w io.Writer, a Artifact) error {
	guard := strings.ToUpper(a.Symbol) + "_H"

	var sb strings.Builder
	fmt.Fprintf(&sb, "#ifndef %s\n#define %s\n\n\n\n", guard, guard)
	sb.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n\n\n")
	fmt.Fprintf(&sb, "extern const char     %s[];\n", a.Symbol)
	fmt.Fprintf(&sb, "extern const unsigned %s_len;\n", a.Symbol)
	sb.WriteString("\n\n\n#ifdef __cplusplus\n}\n#endif\n\n\n\n")
	fmt.Fprintf(&sb, "#endif /* %s */\n", guard)

	_, err := io.WriteString(w, sb.String())
	return err
}

// Files writes <dir>/<symbol>.c and <dir>/<symbol>.h, replacing any previous
// version. The definition is written first; if it fails the header is left
// untouched.
func Files(dir string, a Artifact) (Paths, error) {
	paths := Paths{
		Definition:  filepath.Join(dir, a.Symbol+".c"),
		Declaration: filepath.Join(dir, a.Symbol+".h"),
	}

	if err := writeFile(paths.Definition, a, WriteDefinition); err != nil {
		return Paths{}, err
	}
	if err := writeFile(paths.Declaration, a, WriteDeclaration); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func writeFile(path string, a Artifact, write func(io.Writer, Artifact) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw, a); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
