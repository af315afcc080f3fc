package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

// StatisticsHandler gère les chiffres clés du site
type StatisticsHandler struct {
	curation *services.CurationService
	logger   *zap.Logger
}

// NewStatisticsHandler crée un nouveau handler pour les statistiques
func NewStatisticsHandler(curation *services.CurationService, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{curation: curation, logger: logger}
}

// Get retourne les statistiques (public et tableau de bord admin).
// Contrairement à la galerie, une erreur de lecture est remontée.
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.curation.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleStatsLoad, constants.ErrStatsLoad)
		return
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}

// Update écrase les statistiques (admin uniquement)
func (h *StatisticsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	// Une valeur non numérique fait échouer le décodage
	var req models.StatisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleInvalid, constants.ErrStatsInvalid)
		return
	}

	stats, err := h.curation.UpdateStatistics(r.Context(), session, req)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleUpdateFailed, constants.ErrStatsFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.StatisticsResponse{
		Success:    true,
		Statistics: stats,
		Message:    constants.MsgStatsUpdated,
		UpdatedAt:  time.Now(),
	})
}
