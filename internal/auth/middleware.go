package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/saddlefit/oms/internal/platform/httpx"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// RequireAuth resolves the bearer token into the request user.
func RequireAuth(verifier Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			user, sessionID, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, shared.ErrUnauthorized) && logger != nil {
					logger.Error("verify token", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			ctx := rbac.WithUser(r.Context(), user)
			ctx = shared.ContextWithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
