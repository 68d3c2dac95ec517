package analyzer

import (
	"testing"
	"time"

	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/queryast"
)

func testMeta() *fieldmeta.FieldMeta {
	return fieldmeta.New("t.name").
		Field("t.name", fieldmeta.FullText).
		Field("score", fieldmeta.Integer).
		Field("weight", fieldmeta.Float).
		Field("uploader_ip", fieldmeta.Ip).
		Field("created_at", fieldmeta.Date).
		Field("source_url", fieldmeta.Literal).
		Field("is_animated", fieldmeta.Boolean).
		Field("uploader", fieldmeta.Literal).
		Field("creator", fieldmeta.Literal).
		Alias("creator", "uploader").
		Field("comment_text", fieldmeta.Literal).
		Nested("comment_text", "comments")
}

func f(v float64) *float64 { return &v }

func TestAnalyzeDefaultFieldTerm(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("twilight sparkle", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mp, ok := leaf.(queryast.MatchPhrase)
	if !ok {
		t.Fatalf("expected MatchPhrase, got %T", leaf)
	}
	if mp.Field != "t.name" || mp.Value != "twilight sparkle" {
		t.Fatalf("got %+v", mp)
	}
}

func TestAnalyzeIntegerRangeSuffix(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("score.gt:100", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := leaf.(queryast.Range)
	if !ok {
		t.Fatalf("expected Range, got %T", leaf)
	}
	if r.Field != "score" || r.Gt != int64(100) {
		t.Fatalf("got %+v", r)
	}
}

func TestAnalyzeDateYearOnly(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("created_at:2015", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := leaf.(queryast.Range)
	if !ok {
		t.Fatalf("expected Range, got %T", leaf)
	}
	wantStart := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	if !r.Gte.(time.Time).Equal(wantStart) || !r.Lt.(time.Time).Equal(wantEnd) {
		t.Fatalf("got %+v", r)
	}
}

func TestAnalyzeFuzzyQuotedLiteral(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze(`"lyra hortstrings"`, nil, f(0.9), meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fz, ok := leaf.(queryast.Fuzzy)
	if !ok {
		t.Fatalf("expected Fuzzy, got %T", leaf)
	}
	if fz.Field != "t.name" || fz.Value != "lyra hortstrings" || fz.Fuzziness != 0.9 {
		t.Fatalf("got %+v", fz)
	}
	if !fz.RequiresQuery() {
		t.Fatalf("Fuzzy must require a query")
	}
}

func TestAnalyzeWildcard(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("source_url:*.derpicdn.net*", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := leaf.(queryast.Wildcard)
	if !ok {
		t.Fatalf("expected Wildcard, got %T", leaf)
	}
	if w.Field != "source_url" || w.Pattern != "*.derpicdn.net*" {
		t.Fatalf("got %+v", w)
	}
}

func TestAnalyzeMatchAll(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("source_url:*", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := leaf.(queryast.MatchAll); !ok {
		t.Fatalf("expected MatchAll, got %T", leaf)
	}
}

func TestAnalyzeQuotedWildcardIsLiteral(t *testing.T) {
	meta := testMeta()
	// Quoting wraps the whole atom, field prefix included; the unescaped
	// wildcard inside the dequoted value must still be taken literally.
	leaf, err := Analyze(`"source_url:*.derpicdn.net"`, nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := leaf.(queryast.Term)
	if !ok {
		t.Fatalf("expected Term, got %T", leaf)
	}
	if term.Field != "source_url" || term.Value != "*.derpicdn.net" {
		t.Fatalf("got %+v", term)
	}
}

func TestAnalyzeBoolean(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("is_animated:true", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := leaf.(queryast.Term)
	if !ok || term.Value != true {
		t.Fatalf("got %+v (%T)", leaf, leaf)
	}
}

func TestAnalyzeBooleanInvalid(t *testing.T) {
	meta := testMeta()
	if _, err := Analyze("is_animated:maybe", nil, nil, meta); err == nil {
		t.Fatalf("expected a ValueError")
	}
}

func TestAnalyzeIP(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("uploader_ip:192.168.1.1", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := leaf.(queryast.Term)
	if !ok || term.Value != "192.168.1.1" {
		t.Fatalf("got %+v", leaf)
	}
}

func TestAnalyzeAliasAppliesAfterRouting(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("creator:rarity", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := leaf.(queryast.Term)
	if !ok {
		t.Fatalf("expected Term, got %T", leaf)
	}
	if term.Field != "uploader" {
		t.Fatalf("expected alias to resolve to uploader, got %s", term.Field)
	}
}

func TestAnalyzeUnknownFieldFallsBackToDefault(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("artist:k-anon", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mp, ok := leaf.(queryast.MatchPhrase)
	if !ok {
		t.Fatalf("expected MatchPhrase, got %T", leaf)
	}
	if mp.Field != "t.name" || mp.Value != "artist:k-anon" {
		t.Fatalf("got %+v", mp)
	}
}

func TestAnalyzeNestedField(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("comment_text:hello", nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := leaf.(queryast.Nested)
	if !ok {
		t.Fatalf("expected Nested, got %T", leaf)
	}
	if n.Path != "comments" {
		t.Fatalf("got %+v", n)
	}
}

func TestAnalyzeEscapedColonIsNotAFieldPrefix(t *testing.T) {
	meta := testMeta()
	// "rating" is not a declared field, but the point of this case is the
	// escaped colon: splitFieldPrefix must not see an unescaped ':' at
	// all, so the whole atom falls through to the default field with its
	// escape resolved rather than being misread as field=rating.
	leaf, err := Analyze(`rating\:explicit`, nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mp, ok := leaf.(queryast.MatchPhrase)
	if !ok {
		t.Fatalf("expected MatchPhrase, got %T", leaf)
	}
	if mp.Field != "t.name" || mp.Value != "rating:explicit" {
		t.Fatalf("got %+v", mp)
	}
}

func TestAnalyzeEscapedWildcardIsLiteral(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze(`source_url:foo\*bar`, nil, nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	term, ok := leaf.(queryast.Term)
	if !ok {
		t.Fatalf("expected Term, got %T", leaf)
	}
	if term.Field != "source_url" || term.Value != "foo*bar" {
		t.Fatalf("got %+v", term)
	}
}

func TestAnalyzeBoostedTermIsScored(t *testing.T) {
	meta := testMeta()
	leaf, err := Analyze("twilight sparkle", f(2), nil, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mp, ok := leaf.(queryast.MatchPhrase)
	if !ok {
		t.Fatalf("expected MatchPhrase, got %T", leaf)
	}
	if mp.Boost == nil || *mp.Boost != 2 {
		t.Fatalf("expected boost 2, got %+v", mp)
	}
}
