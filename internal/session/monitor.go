// Package session maneja el bootstrap y la re-validación periódica de sesión.
package session

import (
	"context"
	"time"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/records"
)

// DefaultInterval es el período de re-validación de sesión.
const DefaultInterval = 30 * time.Second

type Monitor struct {
	api      *api.Client
	store    *appctx.Store
	log      logger.Logger
	interval time.Duration

	// onInvalid corre cuando el backend responde "invalid" explícito.
	// Un error de red NO dispara logout: disponibilidad sobre enforcement.
	onInvalid func()
}

func NewMonitor(client *api.Client, store *appctx.Store, log logger.Logger, interval time.Duration, onInvalid func()) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		api:       client,
		store:     store,
		log:       log,
		interval:  interval,
		onInvalid: onInvalid,
	}
}

// Login autentica y cachea usuario + token en el store local.
func (m *Monitor) Login(ctx context.Context, username, password string) (records.User, error) {
	s, err := m.api.Login(ctx, username, password)
	if err != nil {
		return records.User{}, err
	}
	if err := m.store.SetSession(s.User, s.Token); err != nil {
		m.log.Warn("could not persist session", map[string]any{"err": err.Error()})
	}
	return s.User, nil
}

// Resume levanta una sesión cacheada, si hay. No valida contra el backend:
// de eso se encarga el primer tick de Run.
func (m *Monitor) Resume() (records.User, bool) {
	u, ok := m.store.User()
	if !ok {
		return records.User{}, false
	}
	m.api.SetToken(m.store.Token())
	return u, true
}

// Logout limpia el estado local y el token en vuelo.
func (m *Monitor) Logout() {
	m.api.SetToken("")
	_ = m.store.Clear()
}

// Run re-valida la sesión cada interval hasta que ctx se cancele. Es una
// tarea periódica cancelable atada a la vida del programa; el caller la corre
// en su propia goroutine y la corta cancelando ctx.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	valid, err := m.api.VerifySession(ctx)
	if err != nil {
		// transporte caído o backend fallando: sesión se mantiene
		m.log.Warn("session check failed", map[string]any{"err": err.Error()})
		return
	}
	if !valid {
		m.log.Info("session invalidated by backend", nil)
		m.Logout()
		if m.onInvalid != nil {
			m.onInvalid()
		}
	}
}
