package minify

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape makes s safe to place between double quotes in C source.
func Escape(s string) string {
	return escaper.Replace(s)
}
