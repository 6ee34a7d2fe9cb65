package middleware

import (
	"errors"
	"net/http"

	apperrors "github.com/kbukum/compapol/errors"
	"github.com/kbukum/compapol/util"
)

// DefaultMaxBodySize fits a 25MB upload plus multipart framing.
const DefaultMaxBodySize = 26 << 20

// BodySizeLimit rejects requests whose declared length exceeds maxSize
// (e.g. "26MB") with 413 and caps the body reader for the rest, including
// chunked uploads.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, apperrors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// TooLarge reports whether err came from reading past a BodySizeLimit cap,
// returning the limit that was hit.
func TooLarge(err error) (int64, bool) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return mbe.Limit, true
	}
	return 0, false
}
