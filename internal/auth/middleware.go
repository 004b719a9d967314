package auth

import (
	"net/http"

	"biblioteca/internal/httpx"
)

// Require only lets requests through whose caller holds at least tier. The
// authorized user is stored in the request context.
func Require(g *Gate, tier Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := g.authorize(r.Context(), r.Header.Get(httpx.IdentityHeader), tier)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			ctx := httpx.ContextWithUser(r.Context(), p.UserID, p.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFunc is Require for a single handler function.
func RequireFunc(g *Gate, tier Tier, h http.HandlerFunc) http.Handler {
	return Require(g, tier)(h)
}
