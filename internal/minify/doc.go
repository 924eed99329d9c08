// Package minify shrinks OpenCL kernel source so it can be embedded in a C
// string literal.
//
// The text passes through four stages, each a pure function:
//
//  1. Load - Read the source and drop the leading banner lines
//  2. StripComments - Remove block (and optionally line) comments
//  3. Normalize - Collapse blank runs and join everything onto one line
//  4. Compact - Drop the spaces around punctuation until nothing changes
//
// Escape prepares the result for quoting and is applied last, after any
// identifier aliasing.
//
// Basic usage:
//
//	lines, err := minify.Load("blur_h.c", 4)
//	if err != nil {
//	    return err
//	}
//	debug := minify.StripComments(lines, true)
//	text, passes := minify.Compact(minify.Normalize(debug))
//
// Block comments are matched without nesting by the pattern /\*[^/]*\*/, so a
// comment that contains a '/' is left in place. This is a known limitation.
package minify
