package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxGameClaims CtxKey = iota
)

// Auth puts the caller's game claims, if valid, into the request context.
// Requests without claims are passed on untouched; stale or forged cookies
// are cleared.
func Auth(log logrus.FieldLogger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseGameClaims(r)
			if err != nil {
				if _, cerr := r.Cookie("auth"); cerr == nil {
					log.WithError(err).Debug("rejected game claims")
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GameClaims returns the claims Auth stored in ctx.
func GameClaims(ctx context.Context) (*config.GameClaims, bool) {
	claims, ok := ctx.Value(CtxGameClaims).(*config.GameClaims)
	return claims, ok
}
