package services

import (
	"errors"
)

// Erreurs sentinelles des services
var (
	ErrOffline            = errors.New("store injoignable")
	ErrBusy               = errors.New("une soumission est déjà en cours")
	ErrPendingNotFound    = errors.New("aucune suppression en attente")
	ErrInvalidCredentials = errors.New("identifiants invalides")
	ErrSessionRevoked     = errors.New("session révoquée")
	ErrNotConfigured      = errors.New("service non configuré")
	ErrMissingFile        = errors.New("aucun fichier fourni")
	ErrMissingVideoURL    = errors.New("URL de vidéo manquante")
	ErrStatsMissing       = errors.New("statistiques incomplètes")
	ErrStatsInvalid       = errors.New("statistiques invalides")
	ErrInvalidSignature   = errors.New("signature webhook invalide")
)

// RemoteError porte le message lisible renvoyé par un service distant
type RemoteError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Service + ": " + e.Message
}

// RemoteMessage retourne le message distant s'il existe, sinon le message de repli
func RemoteMessage(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}
