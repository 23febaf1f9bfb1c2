package match

import (
	"fmt"
	"strings"
	"sync"
)

// ExpressionError reports a malformed match expression: unbalanced
// parentheses, trailing operators, empty groups, unterminated quotes.
type ExpressionError struct {
	Message string
}

func (e *ExpressionError) Error() string {
	return e.Message
}

func newExpressionError(format string, args ...any) *ExpressionError {
	return &ExpressionError{Message: fmt.Sprintf(format, args...)}
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind  tokenKind
	value string
}

func isWordChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// matchesWordOperator reports whether text[i:] starts with op as a whole
// word, so "sand" is a literal while "x and y" contains an operator.
func matchesWordOperator(text string, i int, op string) bool {
	end := i + len(op)
	if end > len(text) || !strings.EqualFold(text[i:end], op) {
		return false
	}
	if i > 0 && isWordChar(text[i-1]) {
		return false
	}
	if end < len(text) && isWordChar(text[end]) {
		return false
	}
	return true
}

func readQuoted(text string, start int) (string, int, error) {
	quote := text[start]
	i := start + 1
	var b strings.Builder

	for i < len(text) {
		ch := text[i]
		if ch == '\\' {
			if i+1 >= len(text) {
				return "", 0, newExpressionError("invalid escape sequence in quoted literal")
			}
			b.WriteByte(text[i+1])
			i += 2
			continue
		}
		if ch == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(ch)
		i++
	}

	return "", 0, newExpressionError("unterminated quoted literal")
}

func tokenize(expression string) ([]token, error) {
	text := expression
	var tokens []token
	i := 0

	for i < len(text) {
		ch := text[i]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
			continue
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, value: "("})
			i++
			continue
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, value: ")"})
			i++
			continue
		case ch == '|':
			tokens = append(tokens, token{kind: tokenOr, value: "|"})
			i++
			continue
		case ch == '+':
			tokens = append(tokens, token{kind: tokenAnd, value: "+"})
			i++
			continue
		case ch == '!':
			tokens = append(tokens, token{kind: tokenNot, value: "!"})
			i++
			continue
		}

		if matchesWordOperator(text, i, "or") {
			tokens = append(tokens, token{kind: tokenOr, value: text[i : i+2]})
			i += 2
			continue
		}
		if matchesWordOperator(text, i, "and") {
			tokens = append(tokens, token{kind: tokenAnd, value: text[i : i+3]})
			i += 3
			continue
		}
		if matchesWordOperator(text, i, "not") {
			tokens = append(tokens, token{kind: tokenNot, value: text[i : i+3]})
			i += 3
			continue
		}

		if ch == '"' || ch == '\'' {
			quoted, next, err := readQuoted(text, i)
			if err != nil {
				return nil, err
			}
			i = next
			if literal := strings.TrimSpace(quoted); literal != "" {
				tokens = append(tokens, token{kind: tokenLiteral, value: literal})
			}
			continue
		}

		// Bare literal: consume up to the next operator or grouping symbol.
		var b strings.Builder
		for i < len(text) {
			ch = text[i]
			if strings.IndexByte("()|+!", ch) >= 0 {
				break
			}
			if ch == '"' || ch == '\'' {
				quoted, next, err := readQuoted(text, i)
				if err != nil {
					return nil, err
				}
				b.WriteString(quoted)
				i = next
				continue
			}
			if matchesWordOperator(text, i, "or") ||
				matchesWordOperator(text, i, "and") ||
				matchesWordOperator(text, i, "not") {
				break
			}
			b.WriteByte(ch)
			i++
		}

		if literal := strings.TrimSpace(b.String()); literal != "" {
			tokens = append(tokens, token{kind: tokenLiteral, value: literal})
			continue
		}

		return nil, newExpressionError("unexpected token in expression")
	}

	return tokens, nil
}

// parser is a recursive-descent parser with precedence
// not > and > or, matching the authored trigger grammar.
type parser struct {
	tokens []token
	index  int
}

func (p *parser) parse() (Expr, error) {
	if len(p.tokens) == 0 {
		return nil, newExpressionError("expression is empty")
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok != nil {
		return nil, newExpressionError("unexpected token %q", tok.value)
	}
	return node, nil
}

func (p *parser) parseOr() (Expr, error) {
	node, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekKind(tokenOr) {
		p.index++
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		node = &Or{Left: node, Right: rhs}
	}
	return node, nil
}

func (p *parser) parseAnd() (Expr, error) {
	node, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peekKind(tokenAnd) {
		p.index++
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		node = &And{Left: node, Right: rhs}
	}
	return node, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peekKind(tokenNot) {
		p.index++
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{Child: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	if tok == nil {
		return nil, newExpressionError("expression ended unexpectedly")
	}

	if tok.kind == tokenLParen {
		p.index++
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.peekKind(tokenRParen) {
			return nil, newExpressionError("missing closing ')'")
		}
		p.index++
		return node, nil
	}

	if tok.kind == tokenLiteral {
		p.index++
		return &Term{Value: tok.value}, nil
	}

	return nil, newExpressionError("expected a literal or '(', got %q", tok.value)
}

func (p *parser) peek() *token {
	if p.index >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.index]
}

func (p *parser) peekKind(kind tokenKind) bool {
	tok := p.peek()
	return tok != nil && tok.kind == kind
}

var (
	parseMu    sync.RWMutex
	parseCache = map[string]Expr{}
)

// Parse returns the expression tree for expression, caching parse results.
// Trigger expressions are evaluated on every stimulus, so re-parsing would
// dominate the matcher's cost.
func Parse(expression string) (Expr, error) {
	text := strings.TrimSpace(expression)
	if text == "" {
		return nil, newExpressionError("expression is empty")
	}

	parseMu.RLock()
	node, ok := parseCache[text]
	parseMu.RUnlock()
	if ok {
		return node, nil
	}

	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err = p.parse()
	if err != nil {
		return nil, err
	}

	parseMu.Lock()
	parseCache[text] = node
	parseMu.Unlock()
	return node, nil
}
