// Command compile is a one-shot CLI around fancysearch.Compile: it reads
// a FieldMeta schema and a query string, and prints the compiled query
// document as JSON, the same document cmd/server returns under "data"
// from /api/compile.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	fancysearch "github.com/Twibooru/fancy-searchable"
	"github.com/Twibooru/fancy-searchable/config"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))

	fieldMetaPath := flag.String("field-meta", "./fields.yaml", "path to the field meta YAML document")
	defaultField := flag.String("default-field", "", "default field (overrides the field meta document's default_field)")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		logger.Error("usage: compile [-field-meta path] [-default-field name] <query>")
		os.Exit(2)
	}

	meta, err := config.LoadFieldMeta(*fieldMetaPath)
	if err != nil {
		logger.Error("cannot load field meta", "error", err)
		os.Exit(1)
	}

	field := *defaultField
	if field == "" {
		field = meta.DefaultField
	}

	doc, err := fancysearch.Compile(query, field, meta)
	if err != nil {
		logger.Error("cannot compile query", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		logger.Error("cannot marshal query document", "error", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
