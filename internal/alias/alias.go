package alias

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how a Spec's aliases are obtained.
type Mode int

const (
	Explicit   Mode = iota // aliases are given with each entry
	Positional             // aliases are generated from entry position
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case Explicit:
		return "explicit"
	case Positional:
		return "positional"
	default:
		return "unknown"
	}
}

// Strategy selects how entries are substituted into the text.
type Strategy string

const (
	StrategyToken Strategy = "token"
	StrategyText  Strategy = "text"
)

// ParseStrategy converts a configuration string to a Strategy.
// The empty string selects StrategyToken.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "token":
		return StrategyToken, nil
	case "text":
		return StrategyText, nil
	default:
		return "", fmt.Errorf("unknown alias strategy %q (must be 'token' or 'text')", s)
	}
}

// Entry maps a canonical identifier to its alias.
type Entry struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// Spec is an ordered alias table for one kernel.
type Spec struct {
	Mode      Mode
	Namespace string // used by Positional only
	Entries   []Entry
}

// ExplicitSpec builds a Spec from (alias, name) pairs.
func ExplicitSpec(entries ...Entry) Spec {
	return Spec{Mode: Explicit, Entries: entries}
}

// PositionalSpec builds a Spec whose aliases are generated from namespace and
// each name's position.
func PositionalSpec(namespace string, names ...string) Spec {
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name}
	}
	return Spec{Mode: Positional, Namespace: namespace, Entries: entries}
}

// Len reports the number of entries.
func (s Spec) Len() int {
	return len(s.Entries)
}

// Resolve returns the entries in order with every alias filled in.
func (s Spec) Resolve() []Entry {
	out := make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		if s.Mode == Positional {
			e.Alias = PositionalAlias(s.Namespace, i)
		}
		out[i] = e
	}
	return out
}

// PositionalAlias returns the alias of entry i in namespace ns.
func PositionalAlias(ns string, i int) string {
	return "_" + ns + "_" + strconv.FormatInt(int64(i), 16)
}

// Namespace returns the default namespace of the kernel at index in the
// configuration: its lowercase hexadecimal form.
func Namespace(index int) string {
	return strconv.FormatInt(int64(index), 16)
}

// Aliaser applies alias tables with a fixed strategy.
type Aliaser struct {
	strategy Strategy
}

// New creates an Aliaser. An unknown strategy falls back to StrategyToken.
func New(strategy Strategy) *Aliaser {
	if strategy != StrategyText {
		strategy = StrategyToken
	}
	return &Aliaser{strategy: strategy}
}

// Strategy reports the substitution strategy in use.
func (a *Aliaser) Strategy() Strategy {
	return a.strategy
}

// Apply validates spec against text and returns text with every canonical
// name replaced by its alias.
func (a *Aliaser) Apply(text string, spec Spec) (string, error) {
	entries := spec.Resolve()
	if len(entries) == 0 {
		return text, nil
	}

	if a.strategy == StrategyText {
		if err := ValidateText(entries); err != nil {
			return "", err
		}
		return substituteText(text, entries), nil
	}

	tokens, err := Tokenize(text)
	if err != nil {
		return "", err
	}
	if err := ValidateTokens(entries, tokens); err != nil {
		return "", err
	}
	return substituteTokens(tokens, entries), nil
}

// substituteText replaces raw occurrences in declaration order.
func substituteText(text string, entries []Entry) string {
	for _, e := range entries {
		text = strings.ReplaceAll(text, e.Name, e.Alias)
	}
	return text
}

// substituteTokens renames identifier tokens that match a name exactly.
func substituteTokens(tokens []Token, entries []Entry) string {
	aliases := make(map[string]string, len(entries))
	for _, e := range entries {
		aliases[e.Name] = e.Alias
	}

	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Ident {
			if a, ok := aliases[tok.Value]; ok {
				sb.WriteString(a)
				continue
			}
		}
		sb.WriteString(tok.Value)
	}
	return sb.String()
}
