package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// maxDecompressedBody ограничение на распакованное тело формы.
const maxDecompressedBody = 1 << 20

// GzipRequestMiddleware распаковывает тела запросов с Content-Encoding: gzip.
// Сжатие ответов выполняет chi middleware.Compress.
func GzipRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		reader, err := gzip.NewReader(r.Body)
		if err != nil {
			http.Error(w, "Unable to decompress request", http.StatusBadRequest)
			return
		}
		defer reader.Close()

		r.Header.Del("Content-Encoding")
		r.Header.Del("Content-Length")
		r.ContentLength = -1
		r.Body = http.MaxBytesReader(w, reader, maxDecompressedBody)
		next.ServeHTTP(w, r)
	})
}
