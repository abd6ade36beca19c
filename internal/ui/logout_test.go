package ui

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/records"
	"pet-health-console/internal/session"
	"pet-health-console/internal/state"
)

// newLoggedInModel arma un modelo con una sesión guardada. El backend no hace
// falta: los tests de este archivo no tocan la red.
func newLoggedInModel(t *testing.T) (*Model, chan struct{}) {
	t.Helper()

	client, err := api.New("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	store, err := appctx.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("appctx.Open: %v", err)
	}
	if err := store.SetSession(records.User{ID: 1, Username: "admin"}, "token"); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	log := logger.New(logger.Options{Out: io.Discard})
	invalid := make(chan struct{}, 1)
	monitor := session.NewMonitor(client, store, log, time.Minute, func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	m := New(Options{
		API:            client,
		Store:          store,
		Log:            log,
		Monitor:        monitor,
		SessionInvalid: invalid,
	})
	return m, invalid
}

// Un logout desde la UI no es una invalidación del monitor: tiene que producir
// su propio mensaje y su handler no debe volver a suscribirse al canal, porque
// el lector armado en Init sigue vivo y uno extra por logout quedaría colgado
// para siempre.
func TestVoluntaryLogoutIsNotASessionInvalidation(t *testing.T) {
	m, _ := newLoggedInModel(t)
	m.screen = screenMain

	// 1) ejecutar la acción de logout confirmada
	msg := m.runAction(state.Logout{}, 0)()
	if _, ok := msg.(loggedOutMsg); !ok {
		t.Fatalf("runAction(Logout) = %T, want loggedOutMsg", msg)
	}
	if _, ok := m.store.User(); ok {
		t.Fatal("logout must clear the stored session")
	}

	// 2) el handler vuelve al login con un solo comando (el toast), sin
	//    re-suscripción al canal del monitor
	m.actionInFly = true // el confirm del prompt lo dejó en vuelo
	model, cmd := m.Update(loggedOutMsg{})
	m = model.(*Model)
	if m.screen != screenLogin {
		t.Fatal("expected the login screen after logout")
	}
	if m.actionInFly {
		t.Fatal("expected no action in flight after returning to login")
	}
	if cmd == nil {
		t.Fatal("expected the sign-out toast command")
	}

	toast, ok := m.toaster.Current()
	if !ok || toast.Severity != state.SeveritySuccess {
		t.Fatalf("toast = %+v, %v", toast, ok)
	}
}

// La invalidación que llega por el canal sí re-suscribe: su batch trae el
// toast y el próximo lector del canal.
func TestSessionInvalidationResubscribesToTheChannel(t *testing.T) {
	m, _ := newLoggedInModel(t)
	m.screen = screenMain

	model, cmd := m.Update(sessionInvalidMsg{})
	m = model.(*Model)
	if m.screen != screenLogin {
		t.Fatal("expected the login screen after an invalid session")
	}
	if cmd == nil {
		t.Fatal("expected a command batch")
	}

	got := cmd()
	batch, ok := got.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch (toast + channel reader), got %T", got)
	}
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
}
