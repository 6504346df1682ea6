package middleware

import (
	"context"
	"net/http"
	"strings"

	"eventlivechat/internal/domain"
)

type contextKey string

const accessCodeKey contextKey = "accessCode"

// AccessCodeCookie is the cookie set on confirmation and read back on chat
// entry, mirroring the emailed link's query parameter.
const AccessCodeCookie = "access_code"

// SetAccessCode returns a context with the access code set. Used by the session middleware.
func SetAccessCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, accessCodeKey, code)
}

// AccessCodeFromContext returns the caller's access code from the context, if present.
func AccessCodeFromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(accessCodeKey).(string)
	return code, ok && code != ""
}

// ResolveAccessCode returns a wrapper that extracts the caller's access code
// and stores it in the request context. Precedence: access_code query
// parameter, Bearer session token, cookie. It never rejects the request by
// itself; the authorization gate downstream decides, so that every surface
// denies through the same predicate.
func ResolveAccessCode(verifier domain.SessionTokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("access_code")
			if code == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					token := strings.TrimSpace(auth[len("Bearer "):])
					if token != "" {
						if c, err := verifier.Verify(token); err == nil {
							code = c
						}
					}
				}
			}
			if code == "" {
				if cookie, err := r.Cookie(AccessCodeCookie); err == nil {
					code = cookie.Value
				}
			}
			if code != "" {
				r = r.WithContext(SetAccessCode(r.Context(), code))
			}
			next(w, r)
		}
	}
}
