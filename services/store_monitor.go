package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// États de connectivité du store
const (
	StoreUnknown = "unknown"
	StoreOnline  = "online"
	StoreOffline = "offline"
)

// Pinger est satisfait par database.Store
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreAlerter reçoit les changements de disponibilité
type StoreAlerter interface {
	SendStoreAlert(reachable bool, detail string)
}

// StoreStatus est l'instantané exposé par /api/health
type StoreStatus struct {
	State     string    `json:"state"`
	CheckedAt time.Time `json:"checkedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// StoreMonitor vérifie périodiquement que le store répond
type StoreMonitor struct {
	store    Pinger
	interval time.Duration
	alerter  StoreAlerter
	logger   *zap.Logger
	cron     *cron.Cron

	mu     sync.RWMutex
	status StoreStatus
}

// NewStoreMonitor crée un moniteur; alerter peut être nil
func NewStoreMonitor(store Pinger, interval time.Duration, alerter StoreAlerter, logger *zap.Logger) *StoreMonitor {
	return &StoreMonitor{
		store:    store,
		interval: interval,
		alerter:  alerter,
		logger:   logger,
		cron:     cron.New(),
		status:   StoreStatus{State: StoreUnknown},
	}
}

// Start démarre le cron job et effectue une première vérification
func (m *StoreMonitor) Start() error {
	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.interval), m.check); err != nil {
		return fmt.Errorf("erreur lors de la planification du moniteur: %w", err)
	}
	m.cron.Start()
	go m.check()
	m.logger.Info("✓ Moniteur du store démarré", zap.Duration("interval", m.interval))
	return nil
}

// Stop arrête le cron job
func (m *StoreMonitor) Stop() {
	<-m.cron.Stop().Done()
}

func (m *StoreMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.Check(ctx)
}

// Check pinge le store et met à jour l'état
func (m *StoreMonitor) Check(ctx context.Context) StoreStatus {
	err := m.store.Ping(ctx)

	next := StoreStatus{State: StoreOnline, CheckedAt: time.Now()}
	if err != nil {
		next.State = StoreOffline
		next.Error = err.Error()
	}

	m.mu.Lock()
	previous := m.status.State
	m.status = next
	m.mu.Unlock()

	if previous != next.State {
		switch {
		case next.State == StoreOffline:
			m.logger.Error("❌ Store injoignable", zap.Error(err))
			if m.alerter != nil {
				m.alerter.SendStoreAlert(false, next.Error)
			}
		case previous == StoreOffline:
			m.logger.Info("✓ Store de nouveau joignable")
			if m.alerter != nil {
				m.alerter.SendStoreAlert(true, "")
			}
		}
	}
	return next
}

// Status retourne le dernier état observé
func (m *StoreMonitor) Status() StoreStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Online indique si le store est joignable; l'état inconnu compte comme joignable
func (m *StoreMonitor) Online() bool {
	return m.Status().State != StoreOffline
}
