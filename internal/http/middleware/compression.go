package middleware

import (
	"net/http"
	"strings"
)

// SkipCompression wraps a compression middleware so that requests matched by
// skip bypass it. Streaming responses (text/event-stream) always bypass it
// since compression buffers writes.
func SkipCompression(compressionHandler func(http.Handler) http.Handler, skip func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		compressedHandler := compressionHandler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				next.ServeHTTP(w, r)
				return
			}
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}
			compressedHandler.ServeHTTP(w, r)
		})
	}
}

// PathPrefixes returns a skip function matching any of the given path prefixes.
func PathPrefixes(prefixes ...string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				return true
			}
		}
		return false
	}
}
