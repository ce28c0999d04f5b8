package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// ForwardedPrefixHeader carries the stripped prefix to downstream handlers.
const ForwardedPrefixHeader = "X-Forwarded-Prefix"

// RewritePrefix strips prefix from every request path below it before
// handing the request to next, so "/api/v1/users/1" is served as "/users/1".
// Paths listed in exempt are passed through untouched.
func RewritePrefix(prefix string, exempt ...string) func(http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")

	return func(next http.Handler) http.Handler {
		if prefix == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix+"/") || slices.Contains(exempt, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			r2 := r.Clone(r.Context())
			r2.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
			if r.URL.RawPath != "" {
				r2.URL.RawPath = strings.TrimPrefix(r.URL.RawPath, prefix)
			}
			r2.RequestURI = r2.URL.RequestURI()
			r2.Header.Set(ForwardedPrefixHeader, prefix)
			next.ServeHTTP(w, r2)
		})
	}
}
