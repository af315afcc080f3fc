package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) set(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

type recordingAlerter struct {
	alerts []bool
}

func (a *recordingAlerter) SendStoreAlert(reachable bool, detail string) {
	a.alerts = append(a.alerts, reachable)
}

func TestStoreMonitor_Transitions(t *testing.T) {
	pinger := &fakePinger{}
	alerter := &recordingAlerter{}
	m := NewStoreMonitor(pinger, time.Minute, alerter, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, StoreUnknown, m.Status().State)
	assert.True(t, m.Online(), "l'état inconnu compte comme joignable")

	assert.Equal(t, StoreOnline, m.Check(ctx).State)
	assert.Empty(t, alerter.alerts, "pas d'alerte au premier succès")

	pinger.set(errors.New("connection refused"))
	status := m.Check(ctx)
	assert.Equal(t, StoreOffline, status.State)
	assert.Equal(t, "connection refused", status.Error)
	assert.False(t, m.Online())

	// Pas de nouvelle alerte tant que l'état ne change pas
	m.Check(ctx)
	assert.Equal(t, []bool{false}, alerter.alerts)

	pinger.set(nil)
	m.Check(ctx)
	assert.True(t, m.Online())
	assert.Equal(t, []bool{false, true}, alerter.alerts)
}

func TestStoreMonitor_StartStop(t *testing.T) {
	m := NewStoreMonitor(&fakePinger{}, time.Hour, nil, zap.NewNop())
	assert.NoError(t, m.Start())
	assert.Eventually(t, func() bool { return m.Status().State == StoreOnline }, time.Second, 10*time.Millisecond)
	m.Stop()
}
