package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bestimator/bestimator-backend/api/responses"
	"github.com/bestimator/bestimator-backend/internal/users"
	pkgauth "github.com/bestimator/bestimator-backend/pkg/auth"
	"github.com/bestimator/bestimator-backend/pkg/config"
	pkgerrors "github.com/bestimator/bestimator-backend/pkg/errors"
	"github.com/bestimator/bestimator-backend/pkg/logger"
)

// Auth validates the bearer token, provisions the user row on first sight,
// and rejects deactivated accounts. The token subject becomes the context
// user id for every downstream handler.
func Auth(cfg config.JWTConfig, userSvc users.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			user, err := userSvc.FindOrCreate(r.Context(), users.Profile{
				UserID:    claims.Subject,
				Email:     claims.Email,
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, user.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
