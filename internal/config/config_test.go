package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/salesdocs/internal/amount"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN == "" {
		t.Fatalf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.Storage.Driver != "fs" || cfg.Storage.Dir != "./output" {
		t.Fatalf("unexpected storage defaults %+v", cfg.Storage)
	}
	if cfg.Pagination.Companies != 10 || cfg.Pagination.Documents != 10 || cfg.Pagination.Consultations != 5 {
		t.Fatalf("unexpected page sizes %+v", cfg.Pagination)
	}
	if len(cfg.Output.Formats) != 1 || cfg.Output.Formats[0] != "xlsx" {
		t.Fatalf("unexpected formats %v", cfg.Output.Formats)
	}
	if cfg.CSVSettings.DataStartRow != 2 || cfg.CSVSettings.Delimiter != "," {
		t.Fatalf("unexpected csv settings %+v", cfg.CSVSettings)
	}
	if cfg.NumeralStyle() != amount.StyleConventional {
		t.Fatalf("default style %v", cfg.NumeralStyle())
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: pgx
  dsn: postgres://localhost/sales?sslmode=disable
storage:
  driver: s3
  s3:
    bucket: documents
    endpoint: http://localhost:9000
    path_style: true
output:
  formats: [xlsx, xml, json]
numerals:
  style: legacy
csv_settings:
  delimiter: ";"
  header_rows: 2
  encoding: CP949
supplier:
  name: 한빛상사
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "pgx" || !strings.HasPrefix(cfg.Database.DSN, "postgres://") {
		t.Fatalf("database %+v", cfg.Database)
	}
	if cfg.Storage.S3.Bucket != "documents" || !cfg.Storage.S3.PathStyle || cfg.Storage.S3.Region != "ap-northeast-2" {
		t.Fatalf("storage %+v", cfg.Storage)
	}
	if len(cfg.Output.Formats) != 3 {
		t.Fatalf("formats %v", cfg.Output.Formats)
	}
	if cfg.NumeralStyle() != amount.StyleLegacy {
		t.Fatalf("style %v", cfg.NumeralStyle())
	}
	if cfg.CSVSettings.DataStartRow != 3 {
		t.Fatalf("data start row %d, want 3", cfg.CSVSettings.DataStartRow)
	}
	if cfg.Supplier.Name != "한빛상사" {
		t.Fatalf("supplier %+v", cfg.Supplier)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected defaults, got %+v", cfg.Database)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("LoadConfig should fail on a missing file")
	}
}

func TestValidationErrors(t *testing.T) {
	cases := map[string]string{
		"database driver": "database:\n  driver: mysql\n",
		"pgx without dsn": "database:\n  driver: pgx\n",
		"s3 bucket":       "storage:\n  driver: s3\n",
		"format":          "output:\n  formats: [pdf]\n",
		"style":           "numerals:\n  style: hanja\n",
		"log level":       "log:\n  level: trace\n",
		"delimiter":       "csv_settings:\n  delimiter: \"||\"\n",
		"data start":      "csv_settings:\n  header_rows: 2\n  data_start_row: 2\n",
		"encoding":        "csv_settings:\n  encoding: latin1\n",
		"bad yaml":        "database: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestImportRules(t *testing.T) {
	cfg, err := Parse([]byte(`
import_rules:
  - field: 수량
    actions:
      - type: extract_digits
      - type: if_empty_use_default
        value: "1"
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.ImportRules) != 1 || cfg.ImportRules[0].Field != "수량" {
		t.Fatalf("rules %+v", cfg.ImportRules)
	}
	actions := cfg.ImportRules[0].Actions
	if len(actions) != 2 || actions[1].Type != "if_empty_use_default" || actions[1].Value != "1" {
		t.Fatalf("actions %+v", actions)
	}
}
