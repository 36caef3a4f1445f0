package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/admingate/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "sessionClaims"

// ClaimsFromContext returns the session claims injected by the guard.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// sessionGuard gates every request to a protected path. Authority is the
// token alone: a request is Authenticated iff its session cookie carries a
// token with a valid signature and unexpired claims. Anything else gets a
// redirect to the login entry point with the originally requested path (and
// query) preserved in the `from` parameter.
func (s *HTTPServer) sessionGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isProtected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(s.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			s.redirectToLogin(w, r)
			return
		}

		claims, err := auth.ParseToken(cookie.Value, s.secret)
		if err != nil {
			s.redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HTTPServer) isProtected(path string) bool {
	for _, prefix := range s.cfg.ProtectedPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (s *HTTPServer) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, s.cfg.LoginPath+"?from="+url.QueryEscape(target), http.StatusSeeOther)
}
