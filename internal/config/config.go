// =============================================================================
// salesdocs - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a single YAML file.
// Every section has defaults, so an empty file (or no file at all when the
// default path is used) yields a working local setup: SQLite database,
// documents written under ./output, console logging.
//
// SECTIONS:
//   database     : record store driver and DSN
//   storage      : where rendered documents are put (fs or s3)
//   output       : rendered formats and file naming
//   numerals     : Korean amount style
//   pagination   : page sizes of the listing commands
//   log          : level, encoder and optional file sink
//   metrics      : node-exporter textfile path
//   csv_settings : how line-item CSV files are read
//   import_rules : cleanup of imported item cells
//   supplier     : our own letterhead printed on every document
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/types"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Database    DatabaseConfig       `yaml:"database"`
	Storage     StorageConfig        `yaml:"storage"`
	Output      OutputConfig         `yaml:"output"`
	Numerals    NumeralsConfig       `yaml:"numerals"`
	Pagination  PaginationConfig     `yaml:"pagination"`
	Log         LogConfig            `yaml:"log"`
	Metrics     MetricsConfig        `yaml:"metrics"`
	CSVSettings CSVSettings          `yaml:"csv_settings"`
	ImportRules []TransformationRule `yaml:"import_rules"`
	Supplier    types.Supplier       `yaml:"supplier"`
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "pgx".
	Driver string `yaml:"driver"`

	// DSN is a file path for sqlite or a postgres:// URL for pgx.
	// Default: "./data/salesdocs.db"
	DSN string `yaml:"dsn"`
}

// StorageConfig selects where rendered documents are stored.
type StorageConfig struct {
	// Driver is "fs" (default) or "s3".
	Driver string `yaml:"driver"`

	// Dir is the root directory of the fs driver.
	// Default: "./output"
	Dir string `yaml:"dir"`

	S3 S3Config `yaml:"s3"`
}

// S3Config configures the s3 storage driver. Credentials fall back to the
// default AWS chain when the keys are empty.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	// Formats lists the renderings produced for each document.
	// Valid values: "xlsx", "xml", "json"
	// Default: ["xlsx"]
	Formats []string `yaml:"formats"`

	// FileNameFormat names stored files. The extension is appended per format.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {type}      - Document type
	//   {number}    - Document number
	//   {company}   - Company name
	// Default: "{number}_{uuid}"
	FileNameFormat string `yaml:"file_name_format"`
}

// NumeralsConfig selects the Korean numeral style.
type NumeralsConfig struct {
	// Style is "conventional" (default) or "legacy".
	Style string `yaml:"style"`
}

// PaginationConfig holds the page sizes of the listing commands.
type PaginationConfig struct {
	Companies     int `yaml:"companies"`
	Documents     int `yaml:"documents"`
	Consultations int `yaml:"consultations"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error". Default: "info"
	Level string `yaml:"level"`

	// Format is "console" (default) or "json".
	Format string `yaml:"format"`

	// File is an optional extra sink; stderr is always written.
	File string `yaml:"file"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// Textfile is written in the node-exporter textfile format after each
	// command when set.
	Textfile string `yaml:"textfile"`
}

// CSVSettings contains settings for reading line-item CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. With more than one, the
	// columns of all header rows are joined with a space. Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row where items begin. Default: HeaderRows+1
	DataStartRow int `yaml:"data_start_row"`

	// Encoding is "UTF-8" (default), "EUC-KR" or "CP949". Spreadsheets saved
	// as CSV by Korean Excel use CP949.
	Encoding string `yaml:"encoding"`
}

// TransformationRule rewrites one item field of imported sheets.
type TransformationRule struct {
	// Field is an item field or one of its header aliases: name, spec,
	// quantity, unit_price, 품명, 수량, ...
	Field string `yaml:"field"`

	// Actions run in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction is one step of a TransformationRule.
//
// Types: trim, uppercase, lowercase, prepend_string, append_string, replace,
// regex_replace, extract_digits, remove_special_chars, normalize_whitespace,
// if_empty_use_default, if_empty_use_field.
type TransformationAction struct {
	Type  string `yaml:"type"`
	Find  string `yaml:"find"`
	Value string `yaml:"value"`
}

// =============================================================================
// ACCEPTED VALUES
// =============================================================================

var (
	databaseDrivers = []string{"sqlite", "pgx"}
	storageDrivers  = []string{"fs", "s3"}
	outputFormats   = []string{"xlsx", "xml", "json"}
	logLevels       = []string{"debug", "info", "warn", "error"}
	logFormats      = []string{"console", "json"}
	csvEncodings    = []string{"UTF-8", "EUC-KR", "CP949"}
)

// =============================================================================
// LOADING
// =============================================================================

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like LoadConfig but returns the defaults when the file
// does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes a YAML document into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "./data/salesdocs.db"
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "fs"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "./output"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "ap-northeast-2"
	}

	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"xlsx"}
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "{number}_{uuid}"
	}

	if cfg.Numerals.Style == "" {
		cfg.Numerals.Style = amount.StyleConventional.String()
	}

	if cfg.Pagination.Companies == 0 {
		cfg.Pagination.Companies = 10
	}
	if cfg.Pagination.Documents == 0 {
		cfg.Pagination.Documents = 10
	}
	if cfg.Pagination.Consultations == 0 {
		cfg.Pagination.Consultations = 5
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.CSVSettings.HeaderRows == 0 {
		cfg.CSVSettings.HeaderRows = 1
	}
	if cfg.CSVSettings.DataStartRow == 0 {
		cfg.CSVSettings.DataStartRow = cfg.CSVSettings.HeaderRows + 1
	}
	if cfg.CSVSettings.Encoding == "" {
		cfg.CSVSettings.Encoding = "UTF-8"
	}
}

// validate checks the configuration after defaults are applied.
func validate(cfg *Config) error {
	if !slices.Contains(databaseDrivers, cfg.Database.Driver) {
		return fmt.Errorf("database.driver must be one of %v, got %q", databaseDrivers, cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", cfg.Database.Driver)
	}

	if !slices.Contains(storageDrivers, cfg.Storage.Driver) {
		return fmt.Errorf("storage.driver must be one of %v, got %q", storageDrivers, cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
	}

	for _, f := range cfg.Output.Formats {
		if !slices.Contains(outputFormats, f) {
			return fmt.Errorf("output.formats: unknown format %q", f)
		}
	}

	if _, err := amount.ParseStyle(cfg.Numerals.Style); err != nil {
		return fmt.Errorf("numerals.style: %w", err)
	}

	if cfg.Pagination.Companies < 0 || cfg.Pagination.Documents < 0 || cfg.Pagination.Consultations < 0 {
		return fmt.Errorf("pagination sizes must be positive")
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", logLevels, cfg.Log.Level)
	}
	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("log.format must be one of %v, got %q", logFormats, cfg.Log.Format)
	}

	cs := cfg.CSVSettings
	if utf8.RuneCountInString(cs.Delimiter) != 1 {
		return fmt.Errorf("csv_settings.delimiter must be a single character, got %q", cs.Delimiter)
	}
	if cs.HeaderRows < 1 {
		return fmt.Errorf("csv_settings.header_rows must be at least 1")
	}
	if cs.DataStartRow <= cs.HeaderRows {
		return fmt.Errorf("csv_settings.data_start_row (%d) must come after the header rows (%d)", cs.DataStartRow, cs.HeaderRows)
	}
	if !slices.Contains(csvEncodings, cs.Encoding) {
		return fmt.Errorf("csv_settings.encoding must be one of %v, got %q", csvEncodings, cs.Encoding)
	}

	return nil
}

// NumeralStyle returns the parsed numeral style. The configuration has been
// validated, so the parse cannot fail.
func (c *Config) NumeralStyle() amount.Style {
	s, _ := amount.ParseStyle(c.Numerals.Style)
	return s
}
