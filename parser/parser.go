// Package parser folds the lexer's postfix token stream directly into a
// queryast.Node, without building an intermediate AST (spec §4.3, §9
// "Postfix token stream"). It mirrors the teacher's querier/parser
// package's single-pass stack-based approach, generalized from a
// Pratt/recursive-descent SQL grammar to a postfix fold over two binary
// operators (AND, OR) and one unary one (NOT).
package parser

import (
	"github.com/Twibooru/fancy-searchable/analyzer"
	"github.com/Twibooru/fancy-searchable/fault"
	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/queryast"
	"github.com/Twibooru/fancy-searchable/token"
)

// origin distinguishes an operand that is still a bare analyzed term from
// one that has passed through at least one Merge or come out of a
// parenthesized group. The distinction drives how a following NOT is
// handled (spec §9's open question): a run of NOTs on a bare term nests
// fully and never collapses, while a NOT following a Merge or a group
// collapses double negation.
type origin uint8

const (
	originTerm origin = iota
	originSubexp
)

type operand struct {
	origin origin
	expr   queryast.Node
}

// Parse folds tokens (the lexer's postfix stream) into the compiled query
// tree, analyzing each atom against meta as it is encountered.
func Parse(tokens []token.Token, meta *fieldmeta.FieldMeta) (queryast.Node, error) {
	if len(tokens) == 0 {
		return queryast.MatchNone{}, nil
	}

	var stack []operand

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case !tok.IsOp:
			leaf, err := analyzer.Analyze(tok.Text, tok.Boost, tok.Fuzz, meta)
			if err != nil {
				return nil, err
			}
			stack = append(stack, operand{origin: originTerm, expr: leaf})
			i++

		case tok.Op == token.NOT:
			if len(stack) < 1 {
				return nil, fault.New(fault.ParseCode, "missing operand for NOT")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			var next queryast.Node
			if top.origin == originTerm {
				next = queryast.BoolNode{MustNot: []queryast.Node{top.expr}}
			} else {
				next = negateOnce(top.expr)
			}
			stack = append(stack, operand{origin: top.origin, expr: next})
			i++

		case tok.Op == token.GroupEnd:
			// A parenthesized group is itself a subexpression
			// regardless of whether its contents went through a
			// Merge: spec section 8's `!(!x)` collapse applies even to a
			// group holding a single bare atom.
			if len(stack) < 1 {
				return nil, fault.New(fault.ParseCode, "unmatched group marker")
			}
			stack[len(stack)-1].origin = originSubexp
			i++

		default: // AND, OR
			if len(stack) < 2 {
				return nil, fault.New(fault.ParseCode, "missing operand for "+tok.Op.String())
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			merged := merge(a.expr, b.expr, tok.Op)
			stack = append(stack, operand{origin: originSubexp, expr: merged})
			i++
		}
	}

	if len(stack) == 0 {
		return nil, fault.New(fault.ParseCode, "missing operand")
	}
	if len(stack) > 1 {
		return nil, fault.New(fault.ParseCode, "missing operator")
	}
	return stack[0].expr, nil
}

// merge implements spec §4.3's Merge (the associativity-flattening half):
// children belonging to a same-operator BoolNode are spliced in rather
// than nested, preserving source order.
func merge(a, b queryast.Node, op token.OpKind) queryast.Node {
	target := "should"
	if op == token.AND {
		target = "must"
	}

	var children []queryast.Node
	for _, o := range []queryast.Node{a, b} {
		if bn, ok := o.(queryast.BoolNode); ok {
			if key, kids, only := bn.OnlyKey(); only && key == target {
				children = append(children, kids...)
				continue
			}
		}
		children = append(children, o)
	}

	if op == token.AND {
		return queryast.BoolNode{Must: children}
	}
	return queryast.BoolNode{Should: children}
}

// negateOnce implements spec §4.3 Merge's negate_result rule: collapse a
// bare must_not back to must, otherwise wrap.
func negateOnce(n queryast.Node) queryast.Node {
	if bn, ok := n.(queryast.BoolNode); ok {
		if key, kids, only := bn.OnlyKey(); only && key == "must_not" {
			return queryast.BoolNode{Must: kids}
		}
	}
	return queryast.BoolNode{MustNot: []queryast.Node{n}}
}
