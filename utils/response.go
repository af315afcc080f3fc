package utils

import (
	"encoding/json"
	"net/http"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
)

// RespondJSON envoie une réponse JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	// S'assurer que les en-têtes ne sont pas déjà écrits
	if w.Header().Get(constants.HeaderContentType) == "" {
		w.Header().Set(constants.HeaderContentType, constants.HeaderApplicationJSON)
	}

	if statusCode > 0 {
		w.WriteHeader(statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if data != nil {
		// Les en-têtes sont déjà partis: on ne peut plus changer le statut
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError envoie une réponse d'erreur JSON avec le titre générique
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondToast(w, statusCode, constants.TitleError, message)
}

// RespondToast envoie une erreur sous la forme titre court + description
func RespondToast(w http.ResponseWriter, statusCode int, title, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Title:   title,
		Message: message,
	})
}

// RespondSuccess envoie une réponse de succès JSON
func RespondSuccess(w http.ResponseWriter, message string, data interface{}) {
	RespondJSON(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
