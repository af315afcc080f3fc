package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

const maxWebhookSize = 1 << 20

// DonationHandler gère le checkout Flutterwave
type DonationHandler struct {
	flutterwave *services.FlutterwaveService
	logger      *zap.Logger
}

// NewDonationHandler crée une nouvelle instance
func NewDonationHandler(flutterwave *services.FlutterwaveService, logger *zap.Logger) *DonationHandler {
	return &DonationHandler{flutterwave: flutterwave, logger: logger}
}

// donationErrorTitle choisit le titre affiché selon le champ refusé
func donationErrorTitle(err error) string {
	var v utils.ValidationError
	if !errors.As(err, &v) {
		return constants.TitleError
	}
	switch v.Field {
	case "selection":
		return constants.TitleInvalidSel
	case "amount":
		return constants.TitleInvalidAmt
	case "form":
		return constants.TitleMissingInfo
	default:
		return constants.TitleInvalid
	}
}

// Checkout valide le don et retourne le lien de paiement hébergé
func (h *DonationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.DonationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.flutterwave.Checkout(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, donationErrorTitle(err), constants.ErrDonationFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

// Callback reçoit le retour du checkout et redirige le donateur vers le site
func (h *DonationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	txRef := q.Get("tx_ref")
	if txRef == "" {
		http.Redirect(w, r, h.flutterwave.ResultURL(models.DonationFailed, ""), http.StatusFound)
		return
	}

	status, err := h.flutterwave.Callback(r.Context(), q.Get("status"), txRef, q.Get("transaction_id"))
	if err != nil {
		h.logger.Error("❌ Erreur callback don", zap.String("tx_ref", txRef), zap.Error(err))
		status = models.DonationFailed
	}

	http.Redirect(w, r, h.flutterwave.ResultURL(status, txRef), http.StatusFound)
}

// Webhook applique un événement signé de Flutterwave
func (h *DonationHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookSize))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.flutterwave.Webhook(r.Context(), r.Header.Get(constants.HeaderFlutterwaveHash), body); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			h.logger.Warn("⚠️  Webhook Flutterwave refusé: signature invalide")
			utils.RespondError(w, http.StatusUnauthorized, constants.ErrWebhookSignature)
			return
		}
		respondServiceError(w, h.logger, err, constants.TitleError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
