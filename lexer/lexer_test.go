package lexer

import (
	"fmt"
	"testing"

	"github.com/Twibooru/fancy-searchable/token"
)

func describe(tok token.Token) string {
	if tok.IsOp {
		return tok.Op.String()
	}
	s := fmt.Sprintf("ATOM(%s)", tok.Text)
	if tok.Boost != nil {
		s += fmt.Sprintf("^%g", *tok.Boost)
	}
	if tok.Fuzz != nil {
		s += fmt.Sprintf("~%g", *tok.Fuzz)
	}
	return s
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "bare word default field",
			input:    "flutterbat",
			expected: []string{"ATOM(flutterbat)"},
		},
		{
			name:     "multi-word runs into one atom",
			input:    "twilight sparkle",
			expected: []string{"ATOM(twilight sparkle)"},
		},
		{
			name:     "comma is AND",
			input:    "twilight sparkle,starlight glimmer",
			expected: []string{"ATOM(twilight sparkle)", "ATOM(starlight glimmer)", "AND"},
		},
		{
			name:     "double ampersand AND",
			input:    "a && b",
			expected: []string{"ATOM(a)", "ATOM(b)", "AND"},
		},
		{
			name:     "word AND",
			input:    "a AND b",
			expected: []string{"ATOM(a)", "ATOM(b)", "AND"},
		},
		{
			name:     "double pipe OR",
			input:    "a || b",
			expected: []string{"ATOM(a)", "ATOM(b)", "OR"},
		},
		{
			name:     "word OR",
			input:    "a OR b",
			expected: []string{"ATOM(a)", "ATOM(b)", "OR"},
		},
		{
			name:     "bang NOT on bare atom",
			input:    "!flutterbat",
			expected: []string{"ATOM(flutterbat)", "NOT"},
		},
		{
			name:     "dash NOT on bare atom",
			input:    "-flutterbat",
			expected: []string{"ATOM(flutterbat)", "NOT"},
		},
		{
			name:     "word NOT on bare atom",
			input:    "NOT flutterbat",
			expected: []string{"ATOM(flutterbat)", "NOT"},
		},
		{
			name:     "triple bang stacks three NOT",
			input:    "!!!flutterbat",
			expected: []string{"ATOM(flutterbat)", "NOT", "NOT", "NOT"},
		},
		{
			name:     "bang inside an open atom is literal",
			input:    "sci-twi!",
			expected: []string{"ATOM(sci-twi!)"},
		},
		{
			name:     "quoted literal keeps its quotes",
			input:    `"twilight sparkle"`,
			expected: []string{`ATOM("twilight sparkle")`},
		},
		{
			name:     "boost modifier",
			input:    "flutterbat^2",
			expected: []string{"ATOM(flutterbat)^2"},
		},
		{
			name:     "abandoned boost reappends verbatim",
			input:    "foo^bar",
			expected: []string{"ATOM(foo^bar)"},
		},
		{
			name:     "boost immediately followed by more text also abandons",
			input:    "foo^2bar",
			expected: []string{"ATOM(foo^2bar)"},
		},
		{
			name:     "fuzz modifier on quoted literal",
			input:    `"lyra hortstrings"~0.9`,
			expected: []string{`ATOM("lyra hortstrings")~0.9`},
		},
		{
			name:     "parens group a subexpression",
			input:    "!(pinkie pie || twilight sparkle) && rarity",
			expected: []string{"ATOM(pinkie pie)", "ATOM(twilight sparkle)", "OR", "GROUPEND", "NOT", "ATOM(rarity)", "AND"},
		},
		{
			name:     "parens opened mid-atom become literal text",
			input:    "pinkie pie (cosplayer)",
			expected: []string{"ATOM(pinkie pie (cosplayer))"},
		},
		{
			name:     "double negation through nested groups",
			input:    "!(!(a && b))",
			expected: []string{"ATOM(a)", "ATOM(b)", "AND", "GROUPEND", "NOT", "GROUPEND", "NOT"},
		},
		{
			name:     "double negation on a bare grouped atom collapses at parse time",
			input:    "!(!x)",
			expected: []string{"ATOM(x)", "NOT", "GROUPEND", "NOT"},
		},
		{
			name:     "backslash escape survives unquoted into the atom text",
			input:    `rating\:explicit`,
			expected: []string{`ATOM(rating\:explicit)`},
		},
		{
			name:     "escaped wildcard survives unquoted into the atom text",
			input:    `foo\*bar`,
			expected: []string{`ATOM(foo\*bar)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) returned error: %v", tt.input, err)
			}
			if len(toks) != len(tt.expected) {
				t.Fatalf("Lex(%q) = %v, want %v", tt.input, describeAll(toks), tt.expected)
			}
			for i, tok := range toks {
				if got := describe(tok); got != tt.expected[i] {
					t.Fatalf("Lex(%q)[%d] = %s, want %s", tt.input, i, got, tt.expected[i])
				}
			}
		})
	}
}

func describeAll(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = describe(tok)
	}
	return out
}

func TestLexUnmatchedParen(t *testing.T) {
	if _, err := Lex("(flutterbat"); err == nil {
		t.Fatalf("expected an unmatched-paren error")
	}
	if _, err := Lex("flutterbat)"); err == nil {
		t.Fatalf("expected an unmatched-paren error")
	}
}

func TestLexUnterminatedQuote(t *testing.T) {
	if _, err := Lex(`"flutterbat`); err == nil {
		t.Fatalf("expected an unterminated-quote error")
	}
}
