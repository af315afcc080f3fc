package handlers

import (
	"net/http"
	"runtime"
	"time"

	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

var startTime = time.Now()

// StoreStatusProvider est satisfait par *services.StoreMonitor
type StoreStatusProvider interface {
	Status() services.StoreStatus
}

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	driver      string
	monitor     StoreStatusProvider
}

// NewHealthHandler crée un nouveau HealthHandler
func NewHealthHandler(environment, driver string, monitor StoreStatusProvider) *HealthHandler {
	return &HealthHandler{environment: environment, driver: driver, monitor: monitor}
}

// Health retourne l'état de santé du serveur et le dernier état connu du store
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	store := services.StoreStatus{State: services.StoreUnknown}
	if h.monitor != nil {
		store = h.monitor.Status()
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"message":    "Le serveur fonctionne correctement",
		"env":        h.environment,
		"database":   h.driver,
		"db_status":  store.State,
		"store":      store,
		"uptime":     time.Since(startTime).String(),
		"go_version": runtime.Version(),
	})
}
