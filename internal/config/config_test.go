package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/report"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Report.PageSize != 10 || !*cfg.Report.OmitClientColumns {
		t.Errorf("report = %+v", cfg.Report)
	}
	if cfg.Converter.PDFFilename != "reporte_cartera_vigente.pdf" || cfg.Converter.Timeout != 2*time.Minute {
		t.Errorf("converter = %+v", cfg.Converter)
	}
	if cfg.Server.Addr != ":8080" || cfg.Process.MaxConcurrency != 4 {
		t.Errorf("server/process = %+v / %+v", cfg.Server, cfg.Process)
	}

	opts, err := cfg.ReportOptions()
	if err != nil {
		t.Fatalf("ReportOptions: %v", err)
	}
	if opts.PageSize != 10 || len(opts.Columns) != 11 || opts.Columns[0] != report.IDDeudor {
		t.Errorf("options = %+v", opts)
	}
	if len(opts.Monetary) != 4 || opts.Monetary[3] != report.MontoSaldo {
		t.Errorf("monetary = %v", opts.Monetary)
	}
	if opts.Box.Width != report.Inches(12.3) || opts.Canvas.Height != 6858000 {
		t.Errorf("geometry = %+v / %+v", opts.Canvas, opts.Box)
	}
	if opts.Styles != report.DefaultStyles() {
		t.Errorf("styles = %+v", opts.Styles)
	}
	if opts.TotalLabel != "TOTAL" || opts.CoverShape != "info_cliente" {
		t.Errorf("labels = %q / %q", opts.TotalLabel, opts.CoverShape)
	}

	p := cfg.PresentationOptions()
	if p.SlideHeight != 6858000 || p.Title != "Reporte Cartera Vigente" {
		t.Errorf("presentation = %+v", p)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
report:
  page_size: 8
  omit_client_columns: false
  monetary_columns: ["Monto Saldo"]
  strict_dates: true
fonts:
  body:
    size: 8
    bold: true
converter:
  timeout: 30s
process:
  archive_on_success: false
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts, err := cfg.ReportOptions()
	if err != nil {
		t.Fatalf("ReportOptions: %v", err)
	}
	if opts.PageSize != 8 || len(opts.Columns) != report.NumColumns || !opts.StrictDates {
		t.Errorf("options = %+v", opts)
	}
	if len(opts.Monetary) != 1 || opts.Monetary[0] != report.MontoSaldo {
		t.Errorf("monetary = %v", opts.Monetary)
	}
	if opts.Styles.Body != (report.Style{Size: 8, Bold: true}) {
		t.Errorf("body style = %+v", opts.Styles.Body)
	}
	if opts.Styles.Header != (report.Style{Size: 10, Bold: true}) {
		t.Errorf("header style = %+v", opts.Styles.Header)
	}
	if cfg.Converter.Timeout != 30*time.Second {
		t.Errorf("timeout = %s", cfg.Converter.Timeout)
	}
	if *cfg.Process.ArchiveOnSuccess {
		t.Error("archive_on_success not read")
	}
	if lo := cfg.LoggerOptions(); lo.Level != "debug" || lo.Format != "json" {
		t.Errorf("logger options = %+v", lo)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "report: [", "failed to parse"},
		{"negative page size", "report:\n  page_size: -1\n", "page_size"},
		{"unknown monetary column", "report:\n  monetary_columns: [\"Saldo\"]\n", "unknown column"},
		{"negative header row", "input:\n  header_row: -2\n", "header_row"},
		{"table too wide", "geometry:\n  table_width: 20\n", "does not fit"},
		{"bad concurrency", "process:\n  max_concurrency: -3\n", "max_concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPageSize, "8")
	t.Setenv(EnvOmitClientColumns, "false")
	t.Setenv(EnvSoffice, "/opt/libreoffice/program/soffice")
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvLogLevel, "warn")

	path := writeFile(t, "config.yaml", "report:\n  page_size: 12\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Report.PageSize != 8 {
		t.Errorf("page size = %d, want env override 8", cfg.Report.PageSize)
	}
	if *cfg.Report.OmitClientColumns {
		t.Error("omit_client_columns not overridden")
	}
	if cfg.Converter.Binary != "/opt/libreoffice/program/soffice" || cfg.Server.Addr != ":9090" || cfg.Log.Level != "warn" {
		t.Errorf("overrides not applied: %+v %+v %+v", cfg.Converter, cfg.Server, cfg.Log)
	}
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv(EnvPageSize, "ocho")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), EnvPageSize) {
		t.Errorf("err = %v, want mention of %s", err, EnvPageSize)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CARTERA_TEST_DOTENV=cargado\n")
	t.Setenv("CARTERA_TEST_DOTENV", "")
	os.Unsetenv("CARTERA_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("CARTERA_TEST_DOTENV"); got != "cargado" {
		t.Errorf("CARTERA_TEST_DOTENV = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	cfg := Default()
	data, err := cfg.Template()
	if err != nil || data != nil {
		t.Errorf("no template: %v, %v", data, err)
	}

	cfg.Report.TemplatePath = writeFile(t, "plantilla.pptx", "PK")
	data, err = cfg.Template()
	if err != nil || string(data) != "PK" {
		t.Errorf("template = %q, %v", data, err)
	}

	cfg.Report.TemplatePath = filepath.Join(t.TempDir(), "missing.pptx")
	if _, err := cfg.Template(); err == nil {
		t.Error("missing template: expected error")
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("config.example.yaml differs from the defaults:\n got %+v\nwant %+v", cfg, Default())
	}
}
