// Package token defines the postfix token stream the lexer emits (spec
// §3 Token, §4.1). It mirrors the teacher's querier/token package's
// tagged-constant-plus-struct shape, but the spec calls for only two
// kinds of token (an atom carrying optional modifiers, and a bare
// operator marker) rather than a full SQL-style token set.
package token

// OpKind distinguishes the boolean operators and structural markers the
// lexer can emit.
type OpKind uint8

const (
	AND OpKind = iota
	OR
	NOT
	// GroupEnd marks the close of a parenthesized group in the postfix
	// stream. It carries no operand of its own; the parser uses it to
	// tag the operand that came out of the group as a subexpression,
	// regardless of whether the group's contents went through a Merge.
	GroupEnd
)

func (k OpKind) String() string {
	switch k {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case GroupEnd:
		return "GROUPEND"
	default:
		return "?"
	}
}

// Token is one element of the postfix stream: either an Atom or an Op.
// Exactly one of the two constructors below should be used; IsOp reports
// which shape a Token has.
type Token struct {
	IsOp bool

	// Op is meaningful when IsOp is true.
	Op OpKind

	// Atom fields are meaningful when IsOp is false.
	Text  string
	Boost *float64
	Fuzz  *float64
}

// NewAtom builds an atom token carrying its raw, unparsed text plus any
// boost/fuzz modifiers recognized adjacent to it (spec §3).
func NewAtom(text string, boost, fuzz *float64) Token {
	return Token{Text: text, Boost: boost, Fuzz: fuzz}
}

// NewOp builds an operator marker token.
func NewOp(kind OpKind) Token {
	return Token{IsOp: true, Op: kind}
}
