// Package queryast defines the output tree the compiler produces: a
// typed sum of leaf queries and boolean nodes (spec §3), plus its JSON
// serialization (spec §6). It is grounded on the teacher repo's
// querier/node.go QueryNode sum type, generalized from "SQL-bound log
// filter" to "Elasticsearch-style query document" as the spec requires,
// and on querier/ast.go's SortField for the one piece of shape reuse
// that still makes sense (none survives here; sorting is out of scope).
package queryast

import (
	"encoding/json"
	"fmt"
)

// Node is anything that can appear inside a BoolNode's must/should/
// must_not lists: a LeafQuery or another BoolNode.
type Node interface {
	// astNode is a private marker, matching the teacher's
	// querier.QueryNode approach to a controlled sum type.
	astNode()
	json.Marshaler
}

// LeafQuery is a non-boolean element of the output tree (spec §3).
type LeafQuery interface {
	Node
	// RequiresQuery reports whether this leaf forces the document into
	// the scoring-query slot rather than the filter slot (spec §2 step 5,
	// §3 invariants): true for Wildcard, Fuzzy, a scored Term/Wildcard,
	// or MatchPhrase.
	RequiresQuery() bool
}

// ---- leaves ----

// Term is an exact-match leaf against a non-scored field.
type Term struct {
	Field string
	Value any
	// Boost, when non-nil, makes this a scored term (TermScored in
	// spec §3) and forces RequiresQuery to true.
	Boost *float64
}

func (Term) astNode() {}
func (t Term) RequiresQuery() bool { return t.Boost != nil }

func (t Term) MarshalJSON() ([]byte, error) {
	if t.Boost == nil {
		return json.Marshal(map[string]any{"term": map[string]any{t.Field: t.Value}})
	}
	type scored struct {
		Value any     `json:"value"`
		Boost float64 `json:"boost"`
	}
	return json.Marshal(map[string]any{"term": map[string]any{
		t.Field: scored{Value: t.Value, Boost: *t.Boost},
	}})
}

// Range is a typed bounds query against an integer, float, or date
// field (spec §3 Range). Values must already be typed (int64, float64,
// or time.Time-derived timestamp), never strings.
type Range struct {
	Field string
	Gt    any `json:"gt,omitempty"`
	Gte   any `json:"gte,omitempty"`
	Lt    any `json:"lt,omitempty"`
	Lte   any `json:"lte,omitempty"`
}

func (Range) astNode()            {}
func (Range) RequiresQuery() bool { return false }

func (r Range) MarshalJSON() ([]byte, error) {
	bounds := map[string]any{}
	if r.Gt != nil {
		bounds["gt"] = r.Gt
	}
	if r.Gte != nil {
		bounds["gte"] = r.Gte
	}
	if r.Lt != nil {
		bounds["lt"] = r.Lt
	}
	if r.Lte != nil {
		bounds["lte"] = r.Lte
	}
	return json.Marshal(map[string]any{"range": map[string]any{r.Field: bounds}})
}

// Wildcard is a pattern leaf containing an unescaped '*' or '?' (spec
// §4.2 step 8).
type Wildcard struct {
	Field   string
	Pattern string
	Boost   *float64
}

func (Wildcard) astNode()            {}
func (Wildcard) RequiresQuery() bool { return true }

func (w Wildcard) MarshalJSON() ([]byte, error) {
	if w.Boost == nil {
		return json.Marshal(map[string]any{"wildcard": map[string]any{w.Field: w.Pattern}})
	}
	type scored struct {
		Value string  `json:"value"`
		Boost float64 `json:"boost"`
	}
	return json.Marshal(map[string]any{"wildcard": map[string]any{
		w.Field: scored{Value: w.Pattern, Boost: *w.Boost},
	}})
}

// Fuzzy is a fuzziness-bounded leaf, produced whenever an atom carried a
// `~N` modifier (spec §4.2 step 8).
type Fuzzy struct {
	Field     string
	Value     string
	Fuzziness float64
	Boost     *float64
}

func (Fuzzy) astNode()            {}
func (Fuzzy) RequiresQuery() bool { return true }

func (f Fuzzy) MarshalJSON() ([]byte, error) {
	type inner struct {
		Value     string   `json:"value"`
		Fuzziness float64  `json:"fuzziness"`
		Boost     *float64 `json:"boost,omitempty"`
	}
	return json.Marshal(map[string]any{"fuzzy": map[string]any{
		f.Field: inner{Value: f.Value, Fuzziness: f.Fuzziness, Boost: f.Boost},
	}})
}

// MatchPhrase is the leaf used for full-text (n-gram analyzed) fields
// (spec §3, §4.2 step 8).
type MatchPhrase struct {
	Field string
	Value string
	Boost *float64
}

func (MatchPhrase) astNode()            {}
func (MatchPhrase) RequiresQuery() bool { return true }

func (m MatchPhrase) MarshalJSON() ([]byte, error) {
	if m.Boost == nil {
		return json.Marshal(map[string]any{"match_phrase": map[string]any{m.Field: m.Value}})
	}
	type scored struct {
		Value string  `json:"value"`
		Boost float64 `json:"boost"`
	}
	return json.Marshal(map[string]any{"match_phrase": map[string]any{
		m.Field: scored{Value: m.Value, Boost: *m.Boost},
	}})
}

// MatchAll matches every document, emitted when a wildcard value is
// exactly "*" (spec §4.2 step 8).
type MatchAll struct{}

func (MatchAll) astNode()            {}
func (MatchAll) RequiresQuery() bool { return false }
func (MatchAll) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"match_all": map[string]any{}})
}

// MatchNone matches no documents, the output for empty/whitespace-only
// input (spec §3 invariants).
type MatchNone struct{}

func (MatchNone) astNode()            {}
func (MatchNone) RequiresQuery() bool { return false }
func (MatchNone) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"match_none": map[string]any{}})
}

// Nested wraps a leaf belonging to a nested sub-document field (spec §3
// Nested, §4.2 step 9).
type Nested struct {
	Path  string
	Inner LeafQuery
}

func (Nested) astNode()              {}
func (n Nested) RequiresQuery() bool { return n.Inner.RequiresQuery() }

func (n Nested) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"nested": map[string]any{
		"path": n.Path, "query": n.Inner,
	}})
}

// ---- boolean tree ----

// BoolNode is a boolean combination of child Nodes (spec §3). At least
// one of Must/Should/MustNot is non-empty; BoolNode never serializes an
// empty list key (spec §3 invariants).
type BoolNode struct {
	Must    []Node
	Should  []Node
	MustNot []Node
}

func (BoolNode) astNode() {}

// RequiresQuery reports whether any descendant leaf requires the
// scoring-query slot.
func (b BoolNode) RequiresQuery() bool {
	for _, group := range [][]Node{b.Must, b.Should, b.MustNot} {
		for _, n := range group {
			if requiresQuery(n) {
				return true
			}
		}
	}
	return false
}

func requiresQuery(n Node) bool {
	switch v := n.(type) {
	case LeafQuery:
		return v.RequiresQuery()
	case BoolNode:
		return v.RequiresQuery()
	default:
		return false
	}
}

// Empty reports whether none of Must/Should/MustNot carry any children.
// A BoolNode satisfying Empty must never be emitted (spec §3 invariants).
func (b BoolNode) Empty() bool {
	return len(b.Must) == 0 && len(b.Should) == 0 && len(b.MustNot) == 0
}

// OnlyKey reports the sole populated key among must/should/must_not, and
// whether exactly one is populated. Used by the parser's associativity
// flattening (spec §4.3 Merge).
func (b BoolNode) OnlyKey() (key string, children []Node, ok bool) {
	populated := 0
	if len(b.Must) > 0 {
		key, children = "must", b.Must
		populated++
	}
	if len(b.Should) > 0 {
		key, children = "should", b.Should
		populated++
	}
	if len(b.MustNot) > 0 {
		key, children = "must_not", b.MustNot
		populated++
	}
	return key, children, populated == 1
}

func (b BoolNode) MarshalJSON() ([]byte, error) {
	if b.Empty() {
		return nil, fmt.Errorf("queryast: refusing to marshal an empty bool node")
	}
	inner := map[string]any{}
	if len(b.Must) > 0 {
		inner["must"] = b.Must
	}
	if len(b.Should) > 0 {
		inner["should"] = b.Should
	}
	if len(b.MustNot) > 0 {
		inner["must_not"] = b.MustNot
	}
	return json.Marshal(map[string]any{"bool": inner})
}

// QueryDoc is the compiled output document (spec §6): the root Node plus
// the requires_query flag the caller uses to pick filter vs. scoring slot.
type QueryDoc struct {
	Query         Node `json:"query"`
	RequiresQuery bool `json:"requires_query"`
}

func (d QueryDoc) MarshalJSON() ([]byte, error) {
	// A struct, not a map, so the two keys keep a stable declaration order
	// instead of encoding/json's alphabetical map-key sort.
	type doc struct {
		Query         Node `json:"query"`
		RequiresQuery bool `json:"requires_query"`
	}
	return json.Marshal(doc{Query: d.Query, RequiresQuery: d.RequiresQuery})
}
