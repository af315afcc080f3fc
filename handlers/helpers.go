package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/database"
	"humanity-verse-backend/middleware"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// decodeJSON décode le body; écrit une erreur 400 si le JSON est invalide
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return false
	}
	return true
}

// ParseKindVar extrait et valide le type de média depuis les vars de l'URL.
func ParseKindVar(w http.ResponseWriter, r *http.Request) (models.MediaKind, bool) {
	kind, ok := models.ParseMediaKind(mux.Vars(r)["kind"])
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidKind)
		return "", false
	}
	return kind, true
}

// sessionID retourne l'identifiant de session de l'admin connecté
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return "", false
	}
	return claims.SessionID(), true
}

// respondServiceError traduit une erreur de service en notification (titre + message).
// title et fallback décrivent l'action qui a échoué.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, title, fallback string) {
	var validation utils.ValidationError
	var remote *services.RemoteError
	var authErr *services.AuthError

	switch {
	case errors.Is(err, services.ErrOffline):
		utils.RespondToast(w, http.StatusServiceUnavailable, constants.TitleOffline, constants.ErrOffline)
	case errors.Is(err, services.ErrBusy):
		utils.RespondToast(w, http.StatusConflict, constants.TitleBusy, constants.ErrBusy)
	case errors.Is(err, services.ErrMissingFile):
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleNoImage, constants.ErrNoImage)
	case errors.Is(err, services.ErrMissingVideoURL):
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleNoVideoURL, constants.ErrNoVideoURL)
	case errors.Is(err, services.ErrStatsMissing):
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleMissing, constants.ErrStatsFields)
	case errors.Is(err, services.ErrStatsInvalid):
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleInvalid, constants.ErrStatsInvalid)
	case errors.As(err, &validation):
		utils.RespondToast(w, http.StatusBadRequest, title, validation.Message)
	case errors.Is(err, services.ErrPendingNotFound):
		utils.RespondToast(w, http.StatusNotFound, title, constants.ErrPendingNotFound)
	case errors.Is(err, database.ErrStaticItem):
		utils.RespondToast(w, http.StatusForbidden, constants.TitleNotAllowed, constants.ErrStaticMedia)
	case errors.Is(err, database.ErrNotFound):
		utils.RespondToast(w, http.StatusNotFound, title, constants.ErrMediaNotFound)
	case errors.As(err, &authErr):
		utils.RespondToast(w, http.StatusUnauthorized, title, authErr.Message)
	case errors.As(err, &remote):
		logger.Error("❌ Erreur du service distant", zap.String("service", remote.Service), zap.Error(err))
		utils.RespondToast(w, http.StatusBadGateway, title, services.RemoteMessage(err, fallback))
	case errors.Is(err, services.ErrNotConfigured):
		logger.Error("❌ Service non configuré", zap.Error(err))
		utils.RespondToast(w, http.StatusServiceUnavailable, title, fallback)
	default:
		logger.Error("❌ Erreur serveur", zap.Error(err))
		utils.RespondToast(w, http.StatusInternalServerError, title, fallback)
	}
}
