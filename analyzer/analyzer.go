// Package analyzer implements the term analyzer (spec §4.2): given a raw
// atom and a field-type table, it determines field, value, and
// range-suffix, validates and normalizes the value, applies aliases and
// transforms, and emits a leaf query fragment.
package analyzer

import (
	"strings"

	"github.com/Twibooru/fancy-searchable/fault"
	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/queryast"
)

var rangeSuffixes = map[string]bool{"gt": true, "gte": true, "lt": true, "lte": true, "eq": true}

// Analyze turns one atom's raw text plus its lexer-recognized modifiers
// into a LeafQuery.
func Analyze(text string, boost, fuzz *float64, meta *fieldmeta.FieldMeta) (queryast.LeafQuery, error) {
	quoted := false
	body := text
	if isFullyQuoted(body) {
		quoted = true
		body = body[1 : len(body)-1]
	}

	field, value, hasField := splitFieldPrefix(body)
	if hasField {
		field = strings.ToLower(field)
	}

	baseField := field
	rangeOp := ""
	if hasField {
		if name, op, ok := splitRangeSuffix(field); ok {
			if t, known := meta.TypeOfField(name); known && (t == fieldmeta.Date || t == fieldmeta.Integer || t == fieldmeta.Float) {
				baseField, rangeOp = name, op
			}
		}
	}

	var ftype fieldmeta.FieldType
	ngram := false
	routed := hasField
	if hasField {
		if t, ok := meta.TypeOfField(baseField); ok {
			ftype = t
		} else {
			routed = false
		}
	}
	if !routed {
		baseField = meta.DefaultField
		value = body
		rangeOp = ""
		if t, ok := meta.TypeOfField(meta.DefaultField); ok {
			ftype = t
		} else {
			ftype = fieldmeta.FullText
		}
	}
	if ftype == fieldmeta.FullText {
		ngram = true
	}

	normalized, err := normalizeByType(ftype, value, baseField, fuzz, rangeOp, meta)
	if err != nil {
		if f, ok := err.(fault.Fault); ok && f.Code() == fault.ValueCode {
			return nil, fault.New(fault.ValueCode, "field "+baseField+": "+f.Message())
		}
		return nil, err
	}

	canonical := meta.Canonicalize(baseField)

	if tr, ok := meta.TransformFor(canonical); ok {
		leaf, err := tr.Apply(normalized)
		if err != nil {
			return nil, err
		}
		return wrapNested(leaf, canonical, meta), nil
	}

	leaf, err := buildLeaf(canonical, normalized, quoted, ngram, fuzz, boost)
	if err != nil {
		return nil, err
	}
	return wrapNested(leaf, canonical, meta), nil
}

func wrapNested(leaf queryast.LeafQuery, canonical string, meta *fieldmeta.FieldMeta) queryast.LeafQuery {
	if path, ok := meta.NestedPath(canonical); ok {
		return queryast.Nested{Path: path, Inner: leaf}
	}
	return leaf
}

// normalizeByType dispatches spec §4.2 step 5's per-type value
// normalization. It returns either a scalar (string/bool/int64/float64)
// or a bounds value for range-shaped results.
func normalizeByType(ftype fieldmeta.FieldType, value, field string, fuzz *float64, rangeOp string, meta *fieldmeta.FieldMeta) (any, error) {
	switch ftype {
	case fieldmeta.Boolean:
		return normalizeBoolean(value)
	case fieldmeta.Integer:
		return normalizeInteger(value, fuzz, rangeOp)
	case fieldmeta.Float:
		return normalizeFloat(value, fuzz, rangeOp)
	case fieldmeta.Ip:
		return normalizeIP(value)
	case fieldmeta.Date:
		return dateBounds(value, rangeOp)
	case fieldmeta.FullText:
		return strings.ToLower(value), nil
	default: // Literal
		if meta.IsNoDowncase(field) {
			return value, nil
		}
		return strings.ToLower(value), nil
	}
}

// buildLeaf implements spec §4.2 step 8's leaf construction, given an
// already-normalized value.
func buildLeaf(field string, normalized any, quoted, ngram bool, fuzz, boost *float64) (queryast.LeafQuery, error) {
	if b, ok := normalized.(bounds); ok {
		return b.toRange(field), nil
	}

	if s, ok := normalized.(string); ok {
		if fuzz != nil {
			return queryast.Fuzzy{Field: field, Value: unescapeForFuzzy(s), Fuzziness: *fuzz, Boost: boost}, nil
		}
		wildcardable := !quoted
		if wildcardable && hasUnescapedWildcard(s) {
			pattern := stripNonWildcardEscapes(s)
			if pattern == "*" {
				return queryast.MatchAll{}, nil
			}
			return queryast.Wildcard{Field: field, Pattern: pattern, Boost: boost}, nil
		}
		// Outside a wildcard pattern every escape is resolved, `\*` and
		// `\?` included, so an escaped wildcard matches literally.
		clean := unescapeForFuzzy(s)
		if ngram {
			return queryast.MatchPhrase{Field: field, Value: clean, Boost: boost}, nil
		}
		return queryast.Term{Field: field, Value: clean, Boost: boost}, nil
	}

	return queryast.Term{Field: field, Value: normalized, Boost: boost}, nil
}

// isFullyQuoted reports whether s is wrapped in a matching pair of
// unescaped double quotes (spec §4.2 step 1).
func isFullyQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	// the lexer only ever produces balanced quoted spans, so a leading and
	// trailing quote with nothing unescaped in between is sufficient.
	inner := s[1 : len(s)-1]
	return !strings.Contains(strings.ReplaceAll(inner, `\"`, ""), `"`)
}

// splitFieldPrefix implements spec §4.2 step 2: split on the left-most
// unescaped colon.
func splitFieldPrefix(s string) (field, value string, ok bool) {
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if runes[i] == ':' && runes[i-1] != '\\' {
			return string(runes[:i]), string(runes[i+1:]), true
		}
	}
	return "", s, false
}

// splitRangeSuffix implements spec §4.2 step 3: a trailing
// `.gt|.gte|.lt|.lte|.eq` on the field name.
func splitRangeSuffix(field string) (name, op string, ok bool) {
	i := strings.LastIndex(field, ".")
	if i < 0 {
		return "", "", false
	}
	suffix := field[i+1:]
	if !rangeSuffixes[suffix] {
		return "", "", false
	}
	return field[:i], suffix, true
}
