package minify

import (
	"regexp"
	"strings"
)

var (
	// Non-nesting on purpose: "/* a/b */" is not matched.
	blockCommentRegex = regexp.MustCompile(`/\*[^/]*\*/`)

	lineCommentRegex = regexp.MustCompile(`//[^\n]*`)

	blankRunRegex = regexp.MustCompile(`[ \t]+`)
)

// StripComments removes block comments from the source lines and, when
// lineComments is set, "//" comments as well. The line structure is kept:
// a comment spanning several lines leaves the lines it touched joined where
// the comment was. Trailing blanks left behind are trimmed.
//
// The returned lines are what the debug branch of the generated artifact
// shows.
func StripComments(lines []string, lineComments bool) []string {
	if len(lines) == 0 {
		return nil
	}

	txt := strings.Join(lines, "\n")
	txt = blockCommentRegex.ReplaceAllLiteralString(txt, "")
	if lineComments {
		txt = lineCommentRegex.ReplaceAllLiteralString(txt, "")
	}

	out := strings.Split(txt, "\n")
	for i, ln := range out {
		out[i] = strings.TrimRight(ln, " \t")
	}
	return out
}

// Normalize joins lines into a single logical line. Newlines become blanks,
// runs of blanks collapse to one space and the ends are trimmed, so tokens on
// adjacent lines never fuse.
func Normalize(lines []string) string {
	txt := strings.Join(lines, " ")
	txt = blankRunRegex.ReplaceAllLiteralString(txt, " ")
	return strings.TrimSpace(txt)
}
