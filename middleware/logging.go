package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrorNotifier est satisfait par *services.SlackService
type ErrorNotifier interface {
	SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string)
	SendCORSError(method, path, origin, userAgent string)
}

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError: erreurs serveur (5xx) et refus d'accès (403).
// Les erreurs utilisateur (400, 401, 404, 409) ne sont pas notifiées.
// Une panne du store (503) est déjà signalée par le moniteur.
func isCriticalError(statusCode int) bool {
	if statusCode == http.StatusServiceUnavailable {
		return false
	}
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusForbidden
}

// Logging enregistre les requêtes HTTP et notifie Slack pour les erreurs critiques
func Logging(logger *zap.Logger, notifier ErrorNotifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			if statusCode < http.StatusBadRequest {
				logger.Debug("requête",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", statusCode),
					zap.Duration("duration", duration),
				)
				return
			}

			logger.Warn("⚠️ requête en erreur",
				zap.String("method", r.Method),
				zap.String("path", r.RequestURI),
				zap.Int("status", statusCode),
				zap.Duration("duration", duration),
			)

			if notifier == nil || !isCriticalError(statusCode) {
				return
			}

			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")
			if statusCode == http.StatusForbidden && origin != "" {
				notifier.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
				return
			}
			notifier.SendCriticalError(r.Method, r.RequestURI, strconv.Itoa(statusCode), http.StatusText(statusCode), origin, userAgent)
		})
	}
}
