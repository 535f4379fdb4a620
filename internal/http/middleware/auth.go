package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/shop-inventory/internal/auth"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

// RequireSession lets a request through only with a valid, non-revoked
// session token, read from the Authorization header or the session cookie.
// Browser navigations without one are sent to the login page, other
// callers get 401.
func RequireSession(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(auth.CookieName); err == nil {
					token = c.Value
				}
			}

			if token != "" {
				if session, err := a.Authenticate(r.Context(), token); err == nil {
					next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
					return
				}
			}

			if wantsHTML(r) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
