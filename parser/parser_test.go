package parser

import (
	"encoding/json"
	"testing"

	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/lexer"
	"github.com/Twibooru/fancy-searchable/queryast"
)

func testMeta() *fieldmeta.FieldMeta {
	return fieldmeta.New("t.name").
		Field("t.name", fieldmeta.Literal)
}

func compile(t *testing.T, source string) queryast.Node {
	t.Helper()
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("Lex(%q): %v", source, err)
	}
	node, err := Parse(tokens, testMeta())
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return node
}

func marshal(t *testing.T, n queryast.Node) string {
	t.Helper()
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	return string(b)
}

func TestParseEmptyInput(t *testing.T) {
	node := compile(t, "")
	if _, ok := node.(queryast.MatchNone); !ok {
		t.Fatalf("expected MatchNone, got %T", node)
	}
}

func TestParseSingleTerm(t *testing.T) {
	node := compile(t, "twilight sparkle")
	got := marshal(t, node)
	want := `{"term":{"t.name":"twilight sparkle"}}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseCommaIsAnd(t *testing.T) {
	node := compile(t, "twilight sparkle,starlight glimmer")
	got := marshal(t, node)
	want := `{"bool":{"must":[{"term":{"t.name":"twilight sparkle"}},{"term":{"t.name":"starlight glimmer"}}]}}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseGroupedNotAndOr(t *testing.T) {
	node := compile(t, "!(pinkie pie || twilight sparkle) && rarity")
	got := marshal(t, node)
	want := `{"bool":{"must":[` +
		`{"bool":{"must_not":[{"bool":{"should":[` +
		`{"term":{"t.name":"pinkie pie"}},{"term":{"t.name":"twilight sparkle"}}]}}]}},` +
		`{"term":{"t.name":"rarity"}}]}}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseAssociativityFlatteningAnd(t *testing.T) {
	forms := []string{
		"a && b && c",
		"(a && b) && c",
		"a && (b && c)",
	}
	var reference string
	for _, src := range forms {
		node := compile(t, src)
		bn, ok := node.(queryast.BoolNode)
		if !ok {
			t.Fatalf("%q: expected BoolNode, got %T", src, node)
		}
		if len(bn.Must) != 3 || len(bn.Should) != 0 || len(bn.MustNot) != 0 {
			t.Fatalf("%q: expected a flat 3-way must, got %+v", src, bn)
		}
		got := marshal(t, node)
		if reference == "" {
			reference = got
		} else if got != reference {
			t.Fatalf("%q: got %s, want %s (redundant parens must not change shape)", src, got, reference)
		}
	}
}

func TestParseAssociativityFlatteningOr(t *testing.T) {
	node := compile(t, "a || b || c")
	bn, ok := node.(queryast.BoolNode)
	if !ok {
		t.Fatalf("expected BoolNode, got %T", node)
	}
	if len(bn.Should) != 3 {
		t.Fatalf("expected a flat 3-way should, got %+v", bn)
	}
}

func TestParseTripleNegationOnBareTermDoesNotCollapse(t *testing.T) {
	node := compile(t, "!!!flutterbat")
	got := marshal(t, node)
	want := `{"bool":{"must_not":[{"bool":{"must_not":[{"bool":{"must_not":[` +
		`{"term":{"t.name":"flutterbat"}}]}}]}}]}}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseDoubleNegationOnGroupCollapses(t *testing.T) {
	node := compile(t, "!(!(a && b))")
	bn, ok := node.(queryast.BoolNode)
	if !ok {
		t.Fatalf("expected BoolNode, got %T", node)
	}
	if len(bn.Must) != 1 || len(bn.Should) != 0 || len(bn.MustNot) != 0 {
		t.Fatalf("expected the double negation to collapse to a must, got %+v", bn)
	}
	inner, ok := bn.Must[0].(queryast.BoolNode)
	if !ok {
		t.Fatalf("expected the collapsed child to be the inner bool, got %T", bn.Must[0])
	}
	if len(inner.Must) != 2 {
		t.Fatalf("expected the inner a && b to survive untouched, got %+v", inner)
	}
}

func TestParseDoubleNegationOnBareGroupedAtomCollapses(t *testing.T) {
	node := compile(t, "!(!flutterbat)")
	got := marshal(t, node)
	want := `{"bool":{"must":[{"term":{"t.name":"flutterbat"}}]}}`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseMissingOperand(t *testing.T) {
	tokens, err := lexer.Lex("&& rarity")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if _, err := Parse(tokens, testMeta()); err == nil {
		t.Fatalf("expected a ParseError for a leading AND with no left operand")
	}
}
