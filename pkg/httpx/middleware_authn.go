package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
)

// RevocationCheck reports whether the token with the given jti was revoked
// before its natural expiry.
type RevocationCheck func(ctx context.Context, jti string) (bool, error)

// AuthnMiddleware requires a valid bearer access token. The verified claims
// are placed on the request context. When revoked is non-nil every token is
// also checked against it.
func AuthnMiddleware(v jwtx.Verifier, revoked RevocationCheck) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "Authentication credentials were not provided.")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "Given token not valid for any token type")
				return
			}

			if revoked != nil {
				gone, err := revoked(ctx, claims.ID)
				if err != nil {
					log.Error("revocation lookup failed", "err", err)
					WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
					return
				}
				if gone {
					writeBearerError(w, "Token has been revoked")
					return
				}
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.With(ctx, "user_id", claims.Subject, "role", claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 challenge plus the JSON error body the API uses everywhere else.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": desc})
}
