package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
logger:
  level: debug
  type: text
server:
  addr: ":8080"
  default_field: "t.name"
  field_meta_path: "fields.yaml"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.Type != "text" {
		t.Fatalf("got logger config %+v", cfg.Logger)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.DefaultField != "t.name" || cfg.Server.FieldMetaPath != "fields.yaml" {
		t.Fatalf("got server config %+v", cfg.Server)
	}
}

func TestParseLoggerConfigInvalidLevel(t *testing.T) {
	cfg := Config{Logger: LoggerConfig{Level: "nonsense", Type: "text"}}
	if _, err := cfg.Parse(); err == nil {
		t.Fatalf("expected an error for an invalid log level")
	}
}

func TestParseLoggerConfigInvalidType(t *testing.T) {
	cfg := Config{Logger: LoggerConfig{Level: "info", Type: "nonsense"}}
	if _, err := cfg.Parse(); err == nil {
		t.Fatalf("expected an error for an invalid log type")
	}
}

func TestParseLoggerConfigValid(t *testing.T) {
	tests := []struct {
		name string
		typ  string
	}{
		{"json", "json"},
		{"text", "text"},
		{"colored-text", "colored-text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Logger: LoggerConfig{Level: "info", Type: tt.typ}}
			logger, err := cfg.Parse()
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if logger == nil {
				t.Fatalf("expected a non-nil logger")
			}
		})
	}
}
