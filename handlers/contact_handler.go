package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

// ContactHandler gère le formulaire de contact et la newsletter
type ContactHandler struct {
	contact    *services.ContactService
	newsletter services.NewsletterSubscriber
	logger     *zap.Logger
}

// NewContactHandler crée une nouvelle instance
func NewContactHandler(contact *services.ContactService, newsletter services.NewsletterSubscriber, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, newsletter: newsletter, logger: logger}
}

// Contact envoie le message et, si demandé, inscrit l'expéditeur à la newsletter
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	message, err := h.contact.Submit(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleError, constants.ErrEmailFailed)
		return
	}

	utils.RespondSuccess(w, message, nil)
}

// Subscribe inscrit une adresse à la newsletter
func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.NewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, constants.TitleError, constants.ErrNewsletterFailed)
		return
	}
	if !resp.Success {
		utils.RespondJSON(w, http.StatusBadRequest, resp)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}
