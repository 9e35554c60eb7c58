package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets browsers on other origins drive games. Credentials are allowed
// because ownership travels in cookies, which rules out a "*" origin.
func Cors(development bool) Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return development
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
