package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/config"
	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/office"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/ginjaninja78/cartera-report/internal/table"
)

// csvHeader is the header line of a cartera export.
func csvHeader() string {
	names := make([]string, 0, report.NumColumns)
	for _, c := range report.AllColumns() {
		names = append(names, c.Name())
	}
	return strings.Join(names, ",")
}

func carteraCSV(n int) []byte {
	var b strings.Builder
	b.WriteString(csvHeader() + "\n")
	for i := 0; i < n; i++ {
		b.WriteString("76.123.456-7,ACME SPA,JUAN SOTO,D1,MARIA PEREZ,2024-03-05,Factura,1000,2024-04-05,3,100.5,10,,90.5\n")
	}
	return []byte(b.String())
}

// stubGenerator returns a fixed result or error and records the header row.
type stubGenerator struct {
	err       error
	headerRow int
}

func (g *stubGenerator) result(name, contentType string) *converter.Result {
	return &converter.Result{Data: []byte("report"), FileName: name, ContentType: contentType}
}

func (g *stubGenerator) Generate(ctx context.Context, data []byte, headerRow int) (*converter.Result, error) {
	g.headerRow = headerRow
	if g.err != nil {
		return nil, g.err
	}
	return g.result("reporte_cartera_vigente.pptx", converter.ContentTypePPTX), nil
}

func (g *stubGenerator) GeneratePDF(ctx context.Context, data []byte, headerRow int) (*converter.Result, error) {
	g.headerRow = headerRow
	if g.err != nil {
		return nil, g.err
	}
	return g.result("reporte_cartera_vigente.pdf", converter.ContentTypePDF), nil
}

func (g *stubGenerator) DefaultHeaderRow() int { return 0 }

func testServerConfig() config.ServerConfig {
	return config.Default().Server
}

// upload builds a multipart request with a "file" field and optional fields.
func upload(t *testing.T, path string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile("file", "cartera.csv")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return body
}

func TestIndexAndHealth(t *testing.T) {
	s := New(&stubGenerator{}, testServerConfig(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/generar-pdf"`) {
		t.Errorf("GET / = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generar-pdf", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /generar-pdf = %d, want 405", rec.Code)
	}
}

func TestGeneratePPTEndToEnd(t *testing.T) {
	conv, err := converter.New(config.Default(), nil)
	if err != nil {
		t.Fatalf("converter.New: %v", err)
	}
	s := New(conv, testServerConfig(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-ppt", carteraCSV(15), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != converter.ContentTypePPTX {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="reporte_cartera_vigente.pptx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK\x03\x04")) {
		t.Error("body is not a zip package")
	}
}

func TestGenerateMissingColumns(t *testing.T) {
	conv, err := converter.New(config.Default(), nil)
	if err != nil {
		t.Fatalf("converter.New: %v", err)
	}
	s := New(conv, testServerConfig(), nil)

	data := []byte(strings.Replace(string(carteraCSV(2)), "Monto Saldo", "Saldo", 1))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-pdf", data, nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := decodeError(t, rec)
	if len(body.Missing) != 1 || body.Missing[0] != "Monto Saldo" {
		t.Errorf("missing = %v", body.Missing)
	}
}

func TestGeneratePDFResponse(t *testing.T) {
	s := New(&stubGenerator{}, testServerConfig(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-pdf", []byte("x"), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "reporte_cartera_vigente.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"schema", &report.SchemaError{Missing: []string{"Cliente"}}, http.StatusUnprocessableEntity},
		{"empty", report.ErrEmptyDataset, http.StatusUnprocessableEntity},
		{"format", fmt.Errorf("failed to write page 1: %w", &report.FormatError{Column: report.FechaVencimiento, Value: "x", Reason: "not a date"}), http.StatusUnprocessableEntity},
		{"unreadable", &converter.InputError{Err: table.ErrUnsupportedFormat}, http.StatusBadRequest},
		{"conversion", &office.ConversionError{Stage: office.StageRun, Err: errors.New("exit status 1")}, http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&stubGenerator{err: tt.err}, testServerConfig(), nil)

			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, upload(t, "/generar-pdf", []byte("x"), nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestHeaderRowField(t *testing.T) {
	gen := &stubGenerator{}
	s := New(gen, testServerConfig(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-ppt", []byte("x"), map[string]string{"header_row": "1"}))
	if rec.Code != http.StatusOK || gen.headerRow != 1 {
		t.Errorf("status = %d, header row = %d", rec.Code, gen.headerRow)
	}

	for _, bad := range []string{"-1", "uno", "2", "40"} {
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, upload(t, "/generar-ppt", []byte("x"), map[string]string{"header_row": bad}))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("header_row=%q: status = %d, want 400", bad, rec.Code)
		}
		if body := decodeError(t, rec); !strings.Contains(body.Error, "0 or 1") {
			t.Errorf("header_row=%q: error = %q", bad, body.Error)
		}
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-ppt", []byte("x"), map[string]string{"header_row": "0"}))
	if rec.Code != http.StatusOK || gen.headerRow != 0 {
		t.Errorf("header_row=0: status = %d, header row = %d", rec.Code, gen.headerRow)
	}
}

func TestBadRequests(t *testing.T) {
	s := New(&stubGenerator{}, testServerConfig(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-pdf", nil, map[string]string{"header_row": "0"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no file: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generar-pdf", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("not multipart: status = %d, want 400", rec.Code)
	}
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxUploadMB = 1
	s := New(&stubGenerator{}, cfg, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, upload(t, "/generar-pdf", bytes.Repeat([]byte("a"), 2<<20), nil))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 2
	s := New(&stubGenerator{}, cfg, nil)

	var codes []int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, upload(t, "/generar-ppt", []byte("x"), nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Health checks are not rate limited.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	s := New(&stubGenerator{}, testServerConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
