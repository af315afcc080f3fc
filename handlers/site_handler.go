package handlers

import (
	"net/http"

	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// SiteHandler expose la configuration publique du front
type SiteHandler struct {
	config models.SiteConfig
}

// NewSiteHandler crée une nouvelle instance
func NewSiteHandler(config models.SiteConfig) *SiteHandler {
	return &SiteHandler{config: config}
}

// Config retourne la configuration publique
func (h *SiteHandler) Config(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.config)
}
