package alias

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidAlias is returned when an entry is not a usable identifier.
	ErrInvalidAlias = errors.New("alias: invalid entry")

	// ErrConflict is returned when entries would corrupt each other or the
	// source when substituted.
	ErrConflict = errors.New("alias: conflicting entries")
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateEntries checks the rules shared by both strategies: every name and
// alias is an identifier and none is declared twice.
func validateEntries(entries []Entry) error {
	names := make(map[string]int, len(entries))
	aliases := make(map[string]int, len(entries))

	for i, e := range entries {
		if !identRegex.MatchString(e.Name) {
			return fmt.Errorf("%w: entry %d: name %q is not an identifier", ErrInvalidAlias, i, e.Name)
		}
		if !identRegex.MatchString(e.Alias) {
			return fmt.Errorf("%w: entry %d: alias %q is not an identifier", ErrInvalidAlias, i, e.Alias)
		}
		if j, ok := names[e.Name]; ok {
			return fmt.Errorf("%w: name %q is declared by entries %d and %d", ErrConflict, e.Name, j, i)
		}
		if j, ok := aliases[e.Alias]; ok {
			return fmt.Errorf("%w: alias %q is used by entries %d and %d", ErrConflict, e.Alias, j, i)
		}
		names[e.Name] = i
		aliases[e.Alias] = i
	}
	return nil
}

// ValidateText checks entries for raw substring substitution in list order.
// For every pair i < j, name i must not occur inside name j (it would be
// rewritten first) and name j must not occur inside alias i (the alias would
// be rewritten later).
func ValidateText(entries []Entry) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if strings.Contains(entries[j].Name, entries[i].Name) {
				return fmt.Errorf("%w: name %q (entry %d) is part of later name %q (entry %d)",
					ErrConflict, entries[i].Name, i, entries[j].Name, j)
			}
			if strings.Contains(entries[i].Alias, entries[j].Name) {
				return fmt.Errorf("%w: alias %q (entry %d) contains later name %q (entry %d)",
					ErrConflict, entries[i].Alias, i, entries[j].Name, j)
			}
		}
	}
	return nil
}

// ValidateTokens checks entries for whole-token substitution over tokens.
// An alias may not also be a canonical name, nor an identifier the source
// already uses. A name may not occur as a word outside identifier tokens
// (a preprocessor line lexes as a single token), since it would be left
// unrenamed.
func ValidateTokens(entries []Entry, tokens []Token) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name] = struct{}{}
	}
	idents := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.Ident {
			idents[tok.Value] = struct{}{}
		}
	}

	for i, e := range entries {
		if _, ok := names[e.Alias]; ok {
			return fmt.Errorf("%w: alias %q (entry %d) is also a name being renamed", ErrConflict, e.Alias, i)
		}
		if _, ok := idents[e.Alias]; ok {
			return fmt.Errorf("%w: alias %q (entry %d) is already an identifier in the source", ErrConflict, e.Alias, i)
		}
	}

	return checkStranded(entries, tokens)
}

// checkStranded reports the first name found as a whole word inside a token
// that is neither an identifier nor a string literal.
func checkStranded(entries []Entry, tokens []Token) error {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = regexp.QuoteMeta(e.Name)
	}
	wordRegex := regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`)

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}

	for _, tok := range tokens {
		if tok.Ident || tok.Literal {
			continue
		}
		if name := wordRegex.FindString(tok.Value); name != "" {
			return fmt.Errorf("%w: name %q (entry %d) occurs outside an identifier in %q and would not be renamed",
				ErrConflict, name, index[name], truncate(tok.Value, 40))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
