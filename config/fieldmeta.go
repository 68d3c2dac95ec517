package config

import (
	"fmt"
	"os"

	"github.com/Twibooru/fancy-searchable/fieldmeta"
	"github.com/Twibooru/fancy-searchable/transform"
	"gopkg.in/yaml.v3"
)

// fieldMetaDocument is the on-disk shape of a FieldMeta schema: a
// default field name plus one entry per declared field, remarshaled
// (teacher's config.go remarshal pattern) into fieldmeta builder calls
// rather than into a second concrete struct that fieldmeta itself would
// have to know about.
type fieldMetaDocument struct {
	DefaultField string               `yaml:"default_field"`
	Fields       map[string]fieldSpec `yaml:"fields"`
}

type fieldSpec struct {
	Type       string         `yaml:"type"`
	AliasOf    string         `yaml:"alias_of"`
	NoDowncase bool           `yaml:"no_downcase"`
	NestedPath string         `yaml:"nested_path"`
	Transform  *transformSpec `yaml:"transform"`
}

type transformSpec struct {
	LuaScript string `yaml:"lua_script"`
}

// LoadFieldMeta reads and builds a fieldmeta.FieldMeta from a YAML
// document on disk.
func LoadFieldMeta(path string) (*fieldmeta.FieldMeta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read field meta file: %w", err)
	}

	var doc fieldMetaDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse field meta file: %w", err)
	}

	return buildFieldMeta(doc)
}

func buildFieldMeta(doc fieldMetaDocument) (*fieldmeta.FieldMeta, error) {
	if doc.DefaultField == "" {
		return nil, fmt.Errorf("field meta document: default_field is required")
	}

	meta := fieldmeta.New(doc.DefaultField)

	// Types, no-downcase flags and nested paths are registered in a first
	// pass, aliases and transforms in a second, so every field is declared
	// before any alias_of/transform entry is registered regardless of Go's
	// map iteration order.
	for name, spec := range doc.Fields {
		t, err := fieldTypeFromString(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		meta.Field(name, t)

		if spec.NoDowncase {
			meta.NoDowncaseField(name)
		}
		if spec.NestedPath != "" {
			meta.Nested(name, spec.NestedPath)
		}
	}

	for name, spec := range doc.Fields {
		if spec.AliasOf != "" {
			meta.Alias(name, spec.AliasOf)
		}
		if spec.Transform != nil {
			if spec.Transform.LuaScript == "" {
				return nil, fmt.Errorf("field %q: transform requires a lua_script path", name)
			}
			meta.Transform(name, transform.NewLuaTransform(name, spec.Transform.LuaScript))
		}
	}

	return meta, nil
}

func fieldTypeFromString(s string) (fieldmeta.FieldType, error) {
	switch s {
	case "literal":
		return fieldmeta.Literal, nil
	case "full_text":
		return fieldmeta.FullText, nil
	case "boolean":
		return fieldmeta.Boolean, nil
	case "integer":
		return fieldmeta.Integer, nil
	case "float":
		return fieldmeta.Float, nil
	case "date":
		return fieldmeta.Date, nil
	case "ip":
		return fieldmeta.Ip, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
