// Package fieldmeta holds the externally supplied schema context the
// compiler needs to interpret a query (spec §3 FieldMeta). Schema
// discovery/introspection itself is out of scope (spec §1); this package
// only defines the shape a host application hands the compiler, plus a
// small number of constructors a caller can use to build one.
package fieldmeta

import "github.com/Twibooru/fancy-searchable/queryast"

// FieldType is the declared type of a field, driving value normalization
// and leaf-query shape in the term analyzer (spec §4.2 step 5).
type FieldType uint8

const (
	Literal FieldType = iota
	FullText
	Boolean
	Integer
	Float
	Date
	Ip
)

func (t FieldType) String() string {
	switch t {
	case Literal:
		return "literal"
	case FullText:
		return "full_text"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Date:
		return "date"
	case Ip:
		return "ip"
	default:
		return "unknown"
	}
}

// Transform is the caller-supplied callable that, given a normalized
// value, produces a final query fragment verbatim (spec §4.2 step 7,
// §9 "Callable field transforms"). Implementations in this repo include
// a plain Go function adapter (Func) and a Lua-script-backed one in the
// transform package.
type Transform interface {
	Apply(value any) (queryast.LeafQuery, error)
}

// Func adapts a plain Go function to the Transform interface, the same
// shape spec §9 suggests for languages with first-class closures.
type Func func(value any) (queryast.LeafQuery, error)

func (f Func) Apply(value any) (queryast.LeafQuery, error) { return f(value) }

// FieldMeta is the schema context a compilation borrows for its
// duration (spec §3, §5). It holds only maps keyed by the field name as
// written in a query; callers populate it however they like (by hand, via
// New and the builder methods below, or via config.LoadFieldMeta) and must
// not mutate it concurrently with a
// running Compile call.
type FieldMeta struct {
	// TypeOf maps a declared field name to its FieldType.
	TypeOf map[string]FieldType

	// AliasOf maps a field name to the canonical field name it stands
	// for. Alias resolution happens after type routing (spec §4.2 step 6),
	// so TypeOf is keyed by the name as it appears in the query, not by
	// the canonical name.
	AliasOf map[string]string

	// TransformOf maps a canonical field name to its registered
	// Transform, invoked after alias resolution (spec §4.2 step 7).
	TransformOf map[string]Transform

	// NoDowncase is the set of literal fields whose values are never
	// lowercased during normalization (spec §4.2 step 5).
	NoDowncase map[string]struct{}

	// NestedPathOf maps a canonical field name to the parent document
	// path it is nested under, if any (spec §3 Nested, §4.2 step 9).
	NestedPathOf map[string]string

	// DefaultField is used when an atom carries no recognized field
	// prefix (spec §4.2 step 4).
	DefaultField string
}

// New returns an empty FieldMeta with DefaultField set and all maps
// initialized, ready for incremental population.
func New(defaultField string) *FieldMeta {
	return &FieldMeta{
		TypeOf:       map[string]FieldType{},
		AliasOf:      map[string]string{},
		TransformOf:  map[string]Transform{},
		NoDowncase:   map[string]struct{}{},
		NestedPathOf: map[string]string{},
		DefaultField: defaultField,
	}
}

// Field registers a field's type, returning the FieldMeta for chaining.
func (m *FieldMeta) Field(name string, t FieldType) *FieldMeta {
	m.TypeOf[name] = t
	return m
}

// Alias registers name as an alias of canonical.
func (m *FieldMeta) Alias(name, canonical string) *FieldMeta {
	m.AliasOf[name] = canonical
	return m
}

// Transform registers a Transform callable for a canonical field name.
func (m *FieldMeta) Transform(canonicalField string, t Transform) *FieldMeta {
	m.TransformOf[canonicalField] = t
	return m
}

// NoDowncaseField marks a literal field as case-preserving.
func (m *FieldMeta) NoDowncaseField(name string) *FieldMeta {
	m.NoDowncase[name] = struct{}{}
	return m
}

// Nested marks a canonical field name as nested under parentPath.
func (m *FieldMeta) Nested(canonicalField, parentPath string) *FieldMeta {
	m.NestedPathOf[canonicalField] = parentPath
	return m
}

// TypeOfField reports the declared type of name, and whether name is a
// declared field at all. Unknown fields are the caller's cue to treat
// the whole atom (colon included) as a default-field literal (spec §7).
func (m *FieldMeta) TypeOfField(name string) (FieldType, bool) {
	t, ok := m.TypeOf[name]
	return t, ok
}

// Canonicalize resolves name through AliasOf, returning name itself when
// it has no registered alias.
func (m *FieldMeta) Canonicalize(name string) string {
	if canonical, ok := m.AliasOf[name]; ok {
		return canonical
	}
	return name
}

// IsNoDowncase reports whether name must keep its original case.
func (m *FieldMeta) IsNoDowncase(name string) bool {
	_, ok := m.NoDowncase[name]
	return ok
}

// TransformFor returns the registered Transform for a canonical field
// name, if any.
func (m *FieldMeta) TransformFor(canonicalField string) (Transform, bool) {
	t, ok := m.TransformOf[canonicalField]
	return t, ok
}

// NestedPath returns the parent path a canonical field is nested under,
// if any.
func (m *FieldMeta) NestedPath(canonicalField string) (string, bool) {
	p, ok := m.NestedPathOf[canonicalField]
	return p, ok
}
