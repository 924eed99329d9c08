package alias

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Token is one lexed fragment of kernel source. Concatenating the values of
// all tokens returned by Tokenize reproduces its input.
type Token struct {
	Value   string
	Ident   bool // an identifier (chroma Name category)
	Literal bool // part of a string or character literal
}

// Tokenize splits kernel source into tokens using chroma's C lexer.
func Tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, nil
	}

	lexer := lexers.Get("c")
	if lexer == nil {
		return nil, errors.New("chroma C lexer is not registered")
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize kernel source: %w", err)
	}

	var tokens []Token
	for _, t := range iterator.Tokens() {
		tokens = append(tokens, Token{
			Value:   t.Value,
			Ident:   t.Type.InCategory(chroma.Name),
			Literal: t.Type.InSubCategory(chroma.LiteralString),
		})
	}

	// The C lexer guarantees a trailing newline; drop it if we added one.
	if !strings.HasSuffix(text, "\n") && len(tokens) > 0 {
		last := &tokens[len(tokens)-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
		if last.Value == "" {
			tokens = tokens[:len(tokens)-1]
		}
	}

	return tokens, nil
}

// Ident is an identifier and the number of times it occurs.
type Ident struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Identifiers lexes text and counts its identifiers, most frequent first and
// alphabetically among equals.
func Identifiers(text string) ([]Ident, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, tok := range tokens {
		if tok.Ident {
			counts[tok.Value]++
		}
	}

	idents := make([]Ident, 0, len(counts))
	for name, count := range counts {
		idents = append(idents, Ident{Name: name, Count: count})
	}
	sort.Slice(idents, func(i, j int) bool {
		if idents[i].Count != idents[j].Count {
			return idents[i].Count > idents[j].Count
		}
		return idents[i].Name < idents[j].Name
	})
	return idents, nil
}
