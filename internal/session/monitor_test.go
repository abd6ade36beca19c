package session_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/records"
	"pet-health-console/internal/session"
)

func TestMain(m *testing.M) {
	// el transport comparte goroutines de keep-alive entre tests; se chequea
	// al final con las conexiones idle cerradas
	goleak.VerifyTestMain(m)
}

// fakeBackend controla las respuestas de login y verify-session.
type fakeBackend struct {
	sessionValid atomic.Bool
	serverError  atomic.Bool
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"token": "tok-1",
			"user":  records.User{ID: 1, Username: "admin", Role: records.RoleAdmin},
		})
	})
	mux.HandleFunc("/api/verify-session", func(w http.ResponseWriter, r *http.Request) {
		if f.serverError.Load() {
			writeEnvelope(w, http.StatusInternalServerError, false, "internal error", nil)
			return
		}
		if f.sessionValid.Load() {
			writeEnvelope(w, http.StatusOK, true, "session ok", nil)
			return
		}
		writeEnvelope(w, http.StatusUnauthorized, false, "session expired or invalid", nil)
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func fixture(t *testing.T) (*fakeBackend, *api.Client, *appctx.Store) {
	t.Helper()

	backend := &fakeBackend{}
	backend.sessionValid.Store(true)

	ts := httptest.NewServer(backend.handler())
	t.Cleanup(func() {
		ts.Close()
		http.DefaultTransport.(*http.Transport).CloseIdleConnections()
	})

	client, err := api.New(ts.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	store, err := appctx.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("appctx.Open: %v", err)
	}
	return backend, client, store
}

func quietLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error, Out: io.Discard})
}

func TestMonitor_LoginPersistsSessionAndResumeRestoresIt(t *testing.T) {
	_, client, store := fixture(t)

	m := session.NewMonitor(client, store, quietLogger(), 0, nil)

	u, err := m.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Username != "admin" {
		t.Fatalf("user = %+v", u)
	}
	if cached, ok := store.User(); !ok || cached.Username != "admin" {
		t.Fatalf("cached user = %+v ok=%v", cached, ok)
	}
	if store.Token() == "" {
		t.Fatal("expected token cached")
	}

	// un monitor nuevo (proceso nuevo) levanta la sesión sin red
	m2 := session.NewMonitor(client, store, quietLogger(), 0, nil)
	resumed, ok := m2.Resume()
	if !ok || resumed.Username != "admin" {
		t.Fatalf("resume = %+v ok=%v", resumed, ok)
	}
}

func TestMonitor_ExplicitInvalidLogsOutOnce(t *testing.T) {
	backend, client, store := fixture(t)

	invalid := make(chan struct{}, 1)
	m := session.NewMonitor(client, store, quietLogger(), 10*time.Millisecond, func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	if _, err := m.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// el backend invalida la sesión: el siguiente tick debe desloguear
	backend.sessionValid.Store(false)

	select {
	case <-invalid:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the invalid-session callback")
	}

	cancel()
	<-done

	if _, ok := store.User(); ok {
		t.Fatal("expected local session cleared after explicit invalid")
	}
}

func TestMonitor_BackendErrorKeepsSession(t *testing.T) {
	backend, client, store := fixture(t)

	invalid := make(chan struct{}, 1)
	m := session.NewMonitor(client, store, quietLogger(), 10*time.Millisecond, func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	if _, err := m.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// el backend responde 500 en cada check: la sesión puede seguir vigente,
	// no hay que desloguear
	backend.serverError.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// varios ticks de margen
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	select {
	case <-invalid:
		t.Fatal("a backend failure must not invalidate the session")
	default:
	}
	if _, ok := store.User(); !ok {
		t.Fatal("expected session kept while the backend is failing")
	}
}

func TestMonitor_TransportFailureKeepsSession(t *testing.T) {
	_, client, store := fixture(t)

	invalid := make(chan struct{}, 1)
	m := session.NewMonitor(client, store, quietLogger(), 10*time.Millisecond, func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	if _, err := m.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// backend inalcanzable: los checks fallan por transporte
	broken, err := api.New("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	broken.SetToken(store.Token())
	m2 := session.NewMonitor(broken, store, quietLogger(), 10*time.Millisecond, func() {
		select {
		case invalid <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m2.Run(ctx)
		close(done)
	}()

	// varios ticks de margen
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	select {
	case <-invalid:
		t.Fatal("a transport failure must not invalidate the session")
	default:
	}
	if _, ok := store.User(); !ok {
		t.Fatal("expected session kept while the backend is unreachable")
	}
}
