package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

const (
	defaultLatestLimit = 4
	maxLatestLimit     = 50
	maxUploadSize      = 10 << 20 // 10 Mo
)

// GalleryHandler gère la galerie publique et sa curation par l'admin
type GalleryHandler struct {
	gallery  *database.GalleryRepository
	curation *services.CurationService
	logger   *zap.Logger
}

// NewGalleryHandler crée une nouvelle instance
func NewGalleryHandler(gallery *database.GalleryRepository, curation *services.CurationService, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, curation: curation, logger: logger}
}

// List retourne la liste active et ordonnée d'un type (PUBLIC, ne retourne jamais d'erreur)
func (h *GalleryHandler) List(kind models.MediaKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		utils.RespondJSON(w, http.StatusOK, h.gallery.List(r.Context(), kind))
	}
}

// Latest retourne les derniers éléments des deux galeries, du plus récent au plus ancien (PUBLIC)
func (h *GalleryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultLatestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
			return
		}
		if n > maxLatestLimit {
			n = maxLatestLimit
		}
		limit = n
	}

	utils.RespondJSON(w, http.StatusOK, models.GalleryResponse{
		Images: h.gallery.Latest(r.Context(), models.KindImage, limit),
		Videos: h.gallery.Latest(r.Context(), models.KindVideo, limit),
	})
}

// Dashboard retourne les deux galeries pour le tableau de bord admin
func (h *GalleryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.curation.Gallery(r.Context()))
}

// UploadImage reçoit l'image (multipart: file, title, description) et l'ajoute à la galerie
func (h *GalleryHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("⚠️  Formulaire d'upload invalide", zap.Error(err))
		utils.RespondToast(w, http.StatusBadRequest, constants.TitleUploadFailed, constants.ErrUploadFailed)
		return
	}

	upload := services.ImageUpload{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		upload.File = file
		upload.Filename = header.Filename
		upload.ContentType = header.Header.Get(constants.HeaderContentType)
	}

	result, err := h.curation.UploadImage(r.Context(), session, upload)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleUploadFailed, constants.ErrUploadFailed)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: constants.MsgImageAdded,
		Data:    result,
	})
}

// AddVideo ajoute une vidéo YouTube à la galerie
func (h *GalleryHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req models.AddVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.curation.AddVideo(r.Context(), session, req)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleAddFailed, constants.ErrAddFailed)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, models.SuccessResponse{
		Success: true,
		Message: constants.MsgVideoAdded,
		Data:    result,
	})
}

// RequestDeletion enregistre la cible et retourne le jeton de confirmation
func (h *GalleryHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}
	kind, ok := ParseKindVar(w, r)
	if !ok {
		return
	}

	pending, err := h.curation.RequestDeletion(r.Context(), session, kind, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleDeleteFailed, constants.ErrDeleteFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, pending)
}

// ConfirmDeletion exécute la suppression en attente
func (h *GalleryHandler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.curation.ConfirmDeletion(r.Context(), session, mux.Vars(r)["token"])
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleDeleteFailed, constants.ErrDeleteFailed)
		return
	}

	message := constants.MsgImageDeleted
	if result.Item != nil && result.Item.Kind == models.KindVideo {
		message = constants.MsgVideoDeleted
	}
	utils.RespondSuccess(w, message, result)
}

// CancelDeletion abandonne la suppression en attente
func (h *GalleryHandler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.curation.CancelDeletion(session, mux.Vars(r)["token"]); err != nil {
		respondServiceError(w, h.logger, err, constants.TitleDeleteFailed, constants.ErrDeleteFailed)
		return
	}

	utils.RespondSuccess(w, constants.MsgDeletionCancel, nil)
}
