package middleware

import (
	"net/http"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/utils"
)

// Guest refuse l'accès si une session valide est déjà ouverte
func Guest(authorizer SessionAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			// Token invalide, expiré ou révoqué: nouvelle connexion normale
			if _, err := authorizer.Authorize(r.Context(), tokenString); err == nil {
				utils.RespondError(w, http.StatusForbidden, constants.ErrAlreadySignedIn)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
