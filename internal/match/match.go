// Package match implements the boolean match-expression language used by
// authored triggers: bare or quoted terms combined with and/or/not (or the
// symbolic aliases +, |, !) and grouped with parentheses. Expressions are
// parsed into an explicit tree and evaluated against a caller-supplied term
// matcher, keeping the package free of game-state knowledge.
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

func isPhraseChar(r rune) bool {
	return r == '\'' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}

// NormalizePhrase lowercases value and collapses it to space-separated
// alphanumeric words, so punctuation and spacing never affect matching.
func NormalizePhrase(value string) string {
	folded := foldCaser.String(value)

	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range folded {
		if isPhraseChar(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return strings.Join(words, " ")
}

// PhraseTermMatch reports whether term occurs in candidate as a whole word or
// whole phrase, case-insensitively.
func PhraseTermMatch(candidate, term string) bool {
	nc := NormalizePhrase(candidate)
	nt := NormalizePhrase(term)
	if nc == "" || nt == "" {
		return false
	}
	return strings.Contains(" "+nc+" ", " "+nt+" ")
}

// Validate checks that expression parses. Blank expressions are valid: they
// mean "no match constraint" and their handling is up to the caller.
func Validate(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	_, err := Parse(expression)
	return err
}

// Evaluate parses expression and evaluates it with matcher.
func Evaluate(expression string, matcher TermMatcher) (bool, error) {
	return EvaluateOrDefault(expression, matcher, false)
}

// EvaluateOrDefault is Evaluate, returning empty for blank expressions.
func EvaluateOrDefault(expression string, matcher TermMatcher, empty bool) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return empty, nil
	}
	node, err := Parse(expression)
	if err != nil {
		return false, err
	}
	return node.Eval(matcher), nil
}

// FirstTerm returns the first literal term of expression, or "" if the
// expression is blank or malformed. Used for human-facing labels.
func FirstTerm(expression string) string {
	if strings.TrimSpace(expression) == "" {
		return ""
	}
	tokens, err := tokenize(expression)
	if err != nil {
		return ""
	}
	for _, tok := range tokens {
		if tok.kind == tokenLiteral {
			if value := strings.Join(strings.Fields(tok.value), " "); value != "" {
				return value
			}
		}
	}
	return ""
}
