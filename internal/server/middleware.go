package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// logRequests writes one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		log := s.log.With("request_id", middleware.GetReqID(r.Context()))
		msg := "%s %s -> %d (%d bytes) in %s from %s"
		args := []interface{}{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start).Round(time.Millisecond), r.RemoteAddr}
		if status >= http.StatusInternalServerError {
			log.Warn(msg, args...)
		} else {
			log.Info(msg, args...)
		}
	})
}

// rateLimit rejects requests beyond the token bucket with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "too many requests, try again shortly", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps the request body at the configured upload size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	limit := s.cfg.MaxUploadMB << 20
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > limit {
			writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage(s.cfg.MaxUploadMB), nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
