// Package fancysearch is the compiler's public API (spec §6): it wires
// the lexer, term analyzer, and parser stages together into a single
// Compile call, the way the teacher's querier package exposes a single
// Querier.Query entry point over its own lexer/parser/sqlbuilder pipeline.
package fancysearch

import (
	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/lexer"
	"github.com/Twibooru/fancy-searchable/parser"
	"github.com/Twibooru/fancy-searchable/queryast"
)

// Compile turns source into a QueryDoc against the given FieldMeta and
// default field, implementing spec §6's conceptual
// `compile(source, default_field, meta) -> {query, requires_query}`.
func Compile(source, defaultField string, meta *fieldmeta.FieldMeta) (queryast.QueryDoc, error) {
	m := *meta
	m.DefaultField = defaultField

	tokens, err := lexer.Lex(source)
	if err != nil {
		return queryast.QueryDoc{}, err
	}

	node, err := parser.Parse(tokens, &m)
	if err != nil {
		return queryast.QueryDoc{}, err
	}

	requires := false
	switch v := node.(type) {
	case queryast.LeafQuery:
		requires = v.RequiresQuery()
	case queryast.BoolNode:
		requires = v.RequiresQuery()
	}

	return queryast.QueryDoc{Query: node, RequiresQuery: requires}, nil
}
