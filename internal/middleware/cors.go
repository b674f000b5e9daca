// internal/middleware/cors.go
package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/cors"
)

// CORS lets browser clients from the allowed origins call the API with
// their auth cookie. patterns are host globs such as "localhost:*", the same
// form the relay socket checks origins against.
func CORS(patterns []string) func(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc:  OriginAllowed(patterns),
		AllowedHeaders:   []string{"Origin", "Accept", "Content-Type", "Authorization", RequestIDHeader},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	})
	return c.Handler
}

// OriginAllowed matches an Origin header's host against host globs.
func OriginAllowed(patterns []string) func(origin string) bool {
	return func(origin string) bool {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		host := strings.ToLower(u.Host)
		for _, p := range patterns {
			if ok, _ := path.Match(strings.ToLower(p), host); ok {
				return true
			}
		}
		return false
	}
}
