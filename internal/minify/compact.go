package minify

import (
	"regexp"
)

// Punctuation lists, in application order, the characters whose adjacent
// space carries no meaning in kernel source.
const Punctuation = "{}[](),;+-*/%=><"

// compactRegexes holds " ?c ?" for every character of Punctuation.
var compactRegexes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(Punctuation))
	for i := 0; i < len(Punctuation); i++ {
		res[i] = regexp.MustCompile(` ?` + regexp.QuoteMeta(Punctuation[i:i+1]) + ` ?`)
	}
	return res
}()

// Compact removes the single optional space on either side of every
// punctuation character, repeating whole passes until one makes no change.
// It returns the compacted text and the number of passes run, the final
// unchanged pass included.
//
// Every pass that changes the text shortens it, so the loop terminates.
func Compact(text string) (string, int) {
	passes := 0
	for {
		passes++
		next := compactPass(text)
		if next == text {
			return text, passes
		}
		text = next
	}
}

// compactPass applies one round of the rewrite, character by character.
func compactPass(text string) string {
	for i, re := range compactRegexes {
		text = re.ReplaceAllLiteralString(text, Punctuation[i:i+1])
	}
	return text
}
