// =============================================================================
// Cartera Report - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Settings come from three
// layers, later layers overriding earlier ones:
//
//   1. Built-in defaults (applyDefaults)
//   2. The YAML file (config.yaml, or the --config flag)
//   3. CARTERA_* environment variables, optionally read from a .env file
//
// The loaded Config is turned into the immutable report.Options handed to
// the report assembler, so no report setting lives in package-level state.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/internal/pptx"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the whole application configuration.
type Config struct {
	Report    ReportConfig    `yaml:"report"`
	Geometry  GeometryConfig  `yaml:"geometry"`
	Fonts     FontsConfig     `yaml:"fonts"`
	Input     InputConfig     `yaml:"input"`
	Converter ConverterConfig `yaml:"converter"`
	Server    ServerConfig    `yaml:"server"`
	Process   ProcessConfig   `yaml:"process"`
	Log       LogConfig       `yaml:"log"`
}

// ReportConfig controls pagination and table content.
type ReportConfig struct {
	// PageSize is the number of data rows per slide.
	// Default: 10
	PageSize int `yaml:"page_size"`

	// OmitClientColumns leaves RUT Cliente, Cliente and Ejecutivo to the
	// cover slide instead of repeating them in every table.
	// Default: true
	OmitClientColumns *bool `yaml:"omit_client_columns"`

	// MonetaryColumns are summed on the totals row of the last page.
	// Default: Monto Documento, Monto Recaudado, Capital Amortizado, Monto Saldo
	MonetaryColumns []string `yaml:"monetary_columns"`

	// StrictDates rejects text values in date columns instead of printing
	// them as they are.
	// Default: false
	StrictDates bool `yaml:"strict_dates"`

	// TemplatePath is an optional .pptx used instead of the built-in deck.
	// The template must have a cover slide holding a shape named CoverShape.
	TemplatePath string `yaml:"template_path"`

	// LayoutIndex selects the slide layout used for table slides.
	// Default: 0
	LayoutIndex int `yaml:"layout_index"`

	// CoverShape is the name of the cover text box receiving the client header.
	// Default: "info_cliente"
	CoverShape string `yaml:"cover_shape"`

	// CoverTitle is the title written on the built-in cover slide.
	// Default: "Reporte Cartera Vigente"
	CoverTitle string `yaml:"cover_title"`

	// TotalLabel is written into the first column of the totals row.
	// Default: "TOTAL"
	TotalLabel string `yaml:"total_label"`
}

// GeometryConfig holds slide and table sizes in inches.
type GeometryConfig struct {
	// Default: 13.33 x 7.5 (16:9)
	SlideWidth  float64 `yaml:"slide_width"`
	SlideHeight float64 `yaml:"slide_height"`

	// Default: 12.3 x 5.2
	TableWidth  float64 `yaml:"table_width"`
	TableHeight float64 `yaml:"table_height"`
}

// FontConfig is the font of one text role.
type FontConfig struct {
	Size float64 `yaml:"size"`
	Bold *bool   `yaml:"bold"`
}

// FontsConfig holds the fonts of each text role.
//
// Defaults: cover 20 bold, header 10 bold, body 9, total 9 bold.
type FontsConfig struct {
	Cover  FontConfig `yaml:"cover"`
	Header FontConfig `yaml:"header"`
	Body   FontConfig `yaml:"body"`
	Total  FontConfig `yaml:"total"`
}

// InputConfig controls how uploaded spreadsheets are read.
type InputConfig struct {
	// HeaderRow is the number of banner rows above the header.
	// Default: 0
	HeaderRow int `yaml:"header_row"`

	// CSVDelimiter is used for CSV input: ",", ";", "tab", "pipe" or "auto".
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// CSVEncoding is the character set of CSV input.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	CSVEncoding string `yaml:"csv_encoding"`
}

// ConverterConfig controls the PDF conversion.
type ConverterConfig struct {
	// Binary is the LibreOffice executable, looked up on PATH when not absolute.
	// Default: "soffice"
	Binary string `yaml:"binary"`

	// Timeout bounds one conversion.
	// Default: 2m
	Timeout time.Duration `yaml:"timeout"`

	// PDFFilename is the download name of converted reports.
	// Default: "reporte_cartera_vigente.pdf"
	PDFFilename string `yaml:"pdf_filename"`
}

// ServerConfig controls the HTTP layer.
type ServerConfig struct {
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// MaxUploadMB limits the request body.
	// Default: 20
	MaxUploadMB int64 `yaml:"max_upload_mb"`

	// RatePerSecond and Burst configure the request rate limiter.
	// Defaults: 5 and 10
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`

	// Defaults: 30s, 5m, 15s
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ProcessConfig controls batch processing of a directory.
type ProcessConfig struct {
	// Defaults: "./input", "./output", "./input_archive", "./output_archive"
	InputDir         string `yaml:"input_dir"`
	OutputDir        string `yaml:"output_dir"`
	ArchiveDir       string `yaml:"archive_dir"`
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// OutputNameFormat names generated files.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "{original}_{timestamp}.pptx"
	OutputNameFormat string `yaml:"output_name_format"`

	// MaxConcurrency is the number of files built at the same time.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// PDF converts every generated deck to PDF.
	PDF bool `yaml:"pdf"`

	// ArchiveOnSuccess moves processed inputs to ArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success"`

	// UseTimestampSubdirs groups archived files by date.
	UseTimestampSubdirs bool `yaml:"use_timestamp_subdirs"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Valid values: "console", "json"
	// Default: "console"
	Format string `yaml:"format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file, applies defaults and environment
// overrides, and validates the result. An empty path skips the file.
//
// PARAMETERS:
//   - path: The YAML file, or "" for defaults plus environment.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or parsed, an override is
//     malformed, or a setting is invalid.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from .env style files into the environment.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Environment variables overriding the file.
const (
	EnvPageSize          = "CARTERA_PAGE_SIZE"
	EnvTemplate          = "CARTERA_TEMPLATE"
	EnvSoffice           = "CARTERA_SOFFICE"
	EnvAddr              = "CARTERA_ADDR"
	EnvLogLevel          = "CARTERA_LOG_LEVEL"
	EnvOmitClientColumns = "CARTERA_OMIT_CLIENT_COLUMNS"
)

// applyEnv copies CARTERA_* overrides into cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvPageSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q is not an integer", EnvPageSize, v)
		}
		cfg.Report.PageSize = n
	}
	if v, ok := get(EnvOmitClientColumns); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q is not a boolean", EnvOmitClientColumns, v)
		}
		cfg.Report.OmitClientColumns = &b
	}
	if v, ok := get(EnvTemplate); ok {
		cfg.Report.TemplatePath = v
	}
	if v, ok := get(EnvSoffice); ok {
		cfg.Converter.Binary = v
	}
	if v, ok := get(EnvAddr); ok {
		cfg.Server.Addr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	r := &cfg.Report
	if r.PageSize == 0 {
		r.PageSize = 10
	}
	if r.OmitClientColumns == nil {
		r.OmitClientColumns = boolPtr(true)
	}
	if len(r.MonetaryColumns) == 0 {
		for _, c := range report.DefaultMonetaryColumns() {
			r.MonetaryColumns = append(r.MonetaryColumns, c.Name())
		}
	}
	if r.CoverShape == "" {
		r.CoverShape = "info_cliente"
	}
	if r.CoverTitle == "" {
		r.CoverTitle = "Reporte Cartera Vigente"
	}
	if r.TotalLabel == "" {
		r.TotalLabel = "TOTAL"
	}

	g := &cfg.Geometry
	if g.SlideWidth == 0 {
		g.SlideWidth = 13.33
	}
	if g.SlideHeight == 0 {
		g.SlideHeight = 7.5
	}
	if g.TableWidth == 0 {
		g.TableWidth = 12.3
	}
	if g.TableHeight == 0 {
		g.TableHeight = 5.2
	}

	fontDefault(&cfg.Fonts.Cover, 20, true)
	fontDefault(&cfg.Fonts.Header, 10, true)
	fontDefault(&cfg.Fonts.Body, 9, false)
	fontDefault(&cfg.Fonts.Total, 9, true)

	if cfg.Input.CSVDelimiter == "" {
		cfg.Input.CSVDelimiter = ","
	}
	if cfg.Input.CSVEncoding == "" {
		cfg.Input.CSVEncoding = "UTF-8"
	}

	c := &cfg.Converter
	if c.Binary == "" {
		c.Binary = "soffice"
	}
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.PDFFilename == "" {
		c.PDFFilename = "reporte_cartera_vigente.pdf"
	}

	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.MaxUploadMB == 0 {
		s.MaxUploadMB = 20
	}
	if s.RatePerSecond == 0 {
		s.RatePerSecond = 5
	}
	if s.Burst == 0 {
		s.Burst = 10
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 5 * time.Minute
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 15 * time.Second
	}

	p := &cfg.Process
	if p.InputDir == "" {
		p.InputDir = "./input"
	}
	if p.OutputDir == "" {
		p.OutputDir = "./output"
	}
	if p.ArchiveDir == "" {
		p.ArchiveDir = "./input_archive"
	}
	if p.OutputArchiveDir == "" {
		p.OutputArchiveDir = "./output_archive"
	}
	if p.OutputNameFormat == "" {
		p.OutputNameFormat = "{original}_{timestamp}.pptx"
	}
	if p.MaxConcurrency == 0 {
		p.MaxConcurrency = 4
	}
	if p.ArchiveOnSuccess == nil {
		p.ArchiveOnSuccess = boolPtr(true)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func fontDefault(f *FontConfig, size float64, bold bool) {
	if f.Size == 0 {
		f.Size = size
	}
	if f.Bold == nil {
		f.Bold = boolPtr(bold)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration. It expects defaults to be applied.
func (c *Config) Validate() error {
	if c.Report.PageSize <= 0 {
		return fmt.Errorf("report.page_size must be positive, got %d", c.Report.PageSize)
	}
	if c.Report.LayoutIndex < 0 {
		return fmt.Errorf("report.layout_index must not be negative, got %d", c.Report.LayoutIndex)
	}
	if c.Input.HeaderRow < 0 {
		return fmt.Errorf("input.header_row must not be negative, got %d", c.Input.HeaderRow)
	}
	if _, err := c.monetaryColumns(); err != nil {
		return err
	}

	g := c.Geometry
	if g.SlideWidth <= 0 || g.SlideHeight <= 0 || g.TableWidth <= 0 || g.TableHeight <= 0 {
		return errors.New("geometry sizes must be positive")
	}
	if g.TableWidth > g.SlideWidth || g.TableHeight > g.SlideHeight {
		return fmt.Errorf("table %gx%g in does not fit the %gx%g in slide",
			g.TableWidth, g.TableHeight, g.SlideWidth, g.SlideHeight)
	}

	fonts := []struct {
		name string
		font FontConfig
	}{
		{"cover", c.Fonts.Cover},
		{"header", c.Fonts.Header},
		{"body", c.Fonts.Body},
		{"total", c.Fonts.Total},
	}
	for _, f := range fonts {
		if f.font.Size <= 0 {
			return fmt.Errorf("fonts.%s.size must be positive, got %g", f.name, f.font.Size)
		}
	}

	if c.Converter.Timeout <= 0 {
		return fmt.Errorf("converter.timeout must be positive, got %s", c.Converter.Timeout)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.RatePerSecond <= 0 || c.Server.Burst <= 0 {
		return errors.New("server.rate_per_second and server.burst must be positive")
	}
	if c.Process.MaxConcurrency <= 0 {
		return fmt.Errorf("process.max_concurrency must be positive, got %d", c.Process.MaxConcurrency)
	}

	return nil
}

// monetaryColumns resolves the configured monetary column names.
func (c *Config) monetaryColumns() ([]report.Column, error) {
	cols := make([]report.Column, 0, len(c.Report.MonetaryColumns))
	for _, name := range c.Report.MonetaryColumns {
		col, ok := report.ColumnByName(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("report.monetary_columns: unknown column %q", name)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ReportOptions returns the immutable options of the report assembler.
func (c *Config) ReportOptions() (report.Options, error) {
	monetary, err := c.monetaryColumns()
	if err != nil {
		return report.Options{}, err
	}

	opts := report.Options{
		PageSize: c.Report.PageSize,
		Columns:  report.RenderedColumns(*c.Report.OmitClientColumns),
		Monetary: monetary,
		Canvas: report.Size{
			Width:  report.Inches(c.Geometry.SlideWidth),
			Height: report.Inches(c.Geometry.SlideHeight),
		},
		Box: report.Size{
			Width:  report.Inches(c.Geometry.TableWidth),
			Height: report.Inches(c.Geometry.TableHeight),
		},
		Styles: report.Styles{
			Cover:  c.Fonts.Cover.style(),
			Header: c.Fonts.Header.style(),
			Body:   c.Fonts.Body.style(),
			Total:  c.Fonts.Total.style(),
		},
		CoverShape:  c.Report.CoverShape,
		StrictDates: c.Report.StrictDates,
		TotalLabel:  c.Report.TotalLabel,
	}
	return opts, opts.Validate()
}

func (f FontConfig) style() report.Style {
	return report.Style{Size: f.Size, Bold: f.Bold != nil && *f.Bold}
}

// PresentationOptions returns the options of the built-in deck.
func (c *Config) PresentationOptions() pptx.Options {
	opts := pptx.DefaultOptions()
	opts.SlideWidth = report.Inches(c.Geometry.SlideWidth)
	opts.SlideHeight = report.Inches(c.Geometry.SlideHeight)
	opts.Title = c.Report.CoverTitle
	opts.CoverShape = c.Report.CoverShape
	return opts
}

// Template returns the configured template bytes, or nil for the built-in deck.
func (c *Config) Template() ([]byte, error) {
	if c.Report.TemplatePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Report.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return data, nil
}

// LoggerOptions returns the logger settings.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format}
}
