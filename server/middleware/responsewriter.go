package middleware

import "net/http"

// recorder remembers the first status and counts body bytes for the
// request log.
type recorder struct {
	http.ResponseWriter
	status  int
	written int
	started bool
}

func (rec *recorder) WriteHeader(code int) {
	if !rec.started {
		rec.status, rec.started = code, true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(p []byte) (int, error) {
	if !rec.started {
		rec.status, rec.started = http.StatusOK, true
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.written += n
	return n, err
}

func (rec *recorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
