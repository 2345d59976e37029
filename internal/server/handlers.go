package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/internal/office"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static/index.html
var indexHTML []byte

// maxHeaderRow is the largest header_row the upload form offers.
const maxHeaderRow = 1

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, missing []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Missing: missing})
}

func tooLargeMessage(maxMB int64) string {
	return fmt.Sprintf("file too large, max %d MB", maxMB)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

// handleGenerate returns the handler of /generar-pdf (pdf) or /generar-ppt.
func (s *Server) handleGenerate(pdf bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With("request_id", middleware.GetReqID(r.Context()))

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage(s.cfg.MaxUploadMB), nil)
				return
			}
			writeError(w, http.StatusBadRequest, "expected a multipart form with a \"file\" field", nil)
			return
		}
		defer r.MultipartForm.RemoveAll()

		headerRow := s.gen.DefaultHeaderRow()
		if v := strings.TrimSpace(r.FormValue("header_row")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > maxHeaderRow {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("header_row must be 0 or 1, got %q", v), nil)
				return
			}
			headerRow = n
		}

		file, fh, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing \"file\" field", nil)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file", nil)
			return
		}
		log.Debug("Received %s (%d bytes, header row %d)", fh.Filename, len(data), headerRow)

		var res *converter.Result
		if pdf {
			res, err = s.gen.GeneratePDF(r.Context(), data, headerRow)
		} else {
			res, err = s.gen.Generate(r.Context(), data, headerRow)
		}
		if err != nil {
			s.writeBuildError(w, log, fh.Filename, err)
			return
		}

		log.Info("Built %s from %s: %d row(s), %d page(s)", res.FileName, fh.Filename, res.Stats.Rows, res.Stats.Pages)

		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.WriteHeader(http.StatusOK)
		w.Write(res.Data)
	}
}

// writeBuildError maps a pipeline error to its HTTP status.
func (s *Server) writeBuildError(w http.ResponseWriter, log logger.Logger, name string, err error) {
	var (
		schemaErr *report.SchemaError
		formatErr *report.FormatError
		inputErr  *converter.InputError
		convErr   *office.ConversionError
	)

	switch {
	case errors.As(err, &schemaErr):
		log.Warn("Rejected %s: %v", name, err)
		writeError(w, http.StatusUnprocessableEntity, schemaErr.Error(), schemaErr.Missing)
	case errors.Is(err, report.ErrEmptyDataset), errors.As(err, &formatErr):
		log.Warn("Rejected %s: %v", name, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.As(err, &inputErr):
		log.Warn("Rejected %s: %v", name, err)
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &convErr):
		log.Error("PDF conversion of %s failed: %v", name, err)
		writeError(w, http.StatusBadGateway, "pdf conversion failed", nil)
	default:
		log.Error("Failed to build report from %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "internal error while building the report", nil)
	}
}
