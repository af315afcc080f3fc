package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/middleware"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

// AuthHandler gère les sessions admin
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler crée une nouvelle instance de AuthHandler
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login ouvre une session admin
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleLoginFailed, constants.ErrSignInFailed)
		return
	}

	utils.RespondSuccess(w, constants.MsgLoginSuccess, resp)
}

// Logout révoque la session courante
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	if err := h.authService.Logout(r.Context(), claims); err != nil {
		respondServiceError(w, h.logger, err, constants.TitleError, "An error occurred during logout.")
		return
	}

	utils.RespondSuccess(w, constants.MsgLoggedOut, nil)
}

// Me retourne l'admin connecté
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":      models.Identity{UID: claims.UserID, Email: claims.Email},
		"expiresAt": claims.ExpiresAt.Time,
	})
}
