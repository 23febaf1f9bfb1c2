package match

// TermMatcher reports whether a single leaf term of a match expression is
// satisfied by the text being tested.
type TermMatcher func(term string) bool

// Expr is a parsed boolean match expression. Evaluation is pure: the only
// input is the term matcher, and there are no side effects, so expressions
// are safe to evaluate inside transactional action execution.
type Expr interface {
	Eval(matcher TermMatcher) bool
}

// Term is a leaf: a bare word or quoted phrase.
type Term struct {
	Value string
}

func (t *Term) Eval(matcher TermMatcher) bool {
	return matcher(t.Value)
}

type Not struct {
	Child Expr
}

func (n *Not) Eval(matcher TermMatcher) bool {
	return !n.Child.Eval(matcher)
}

type And struct {
	Left, Right Expr
}

func (a *And) Eval(matcher TermMatcher) bool {
	return a.Left.Eval(matcher) && a.Right.Eval(matcher)
}

type Or struct {
	Left, Right Expr
}

func (o *Or) Eval(matcher TermMatcher) bool {
	return o.Left.Eval(matcher) || o.Right.Eval(matcher)
}
