package auth

import (
	"net/http"
	"strings"

	"github.com/aegis-iam/aegis/internal/platform/httpx"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RequireToken authenticates requests via the Authorization header and puts
// the resolved principal into the request context. Both "Bearer" and "Token"
// schemes are accepted.
func RequireToken(store *TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.RespondError(w, shared.E(shared.ErrUnauthorized, "Authentication credentials were not provided."))
				return
			}
			principal, err := store.Resolve(r.Context(), token)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
