package middleware

import (
	"log"
	"net/http"
	"time"
)

// loggingWriter captures the status code written by the handler.
type loggingWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging logs one line per request: method, path, status, duration,
// and the caller's address.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lw, r)

		log.Printf("%s %s -> %d in %s from %s",
			r.Method, r.URL.Path, lw.status, time.Since(start), r.RemoteAddr)
	})
}
