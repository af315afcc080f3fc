package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// SessionAuthorizer est satisfait par *services.AuthService
type SessionAuthorizer interface {
	Authorize(ctx context.Context, token string) (*utils.Claims, error)
}

// bearerToken extrait le token du header "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get(constants.HeaderAuthorization), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Auth vérifie le token de session admin
func Auth(authorizer SessionAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Les requêtes preflight passent sans token
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
				return
			}

			claims, err := authorizer.Authorize(r.Context(), tokenString)
			if errors.Is(err, services.ErrSessionRevoked) {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrSessionRevoked)
				return
			}
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
				return
			}

			// Ajouter les informations de l'utilisateur au contexte
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext récupère les informations de l'utilisateur depuis le contexte
func GetUserFromContext(ctx context.Context) *utils.Claims {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
