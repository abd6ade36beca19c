package state_test

import (
	"testing"

	"pet-health-console/internal/state"
)

func TestToaster_ShowReplacesAndDismissFencesStaleTimers(t *testing.T) {
	tt := state.NewToaster()

	// 1) primer toast visible
	first := tt.Show("saved", state.SeveritySuccess)
	if cur, ok := tt.Current(); !ok || cur.Message != "saved" {
		t.Fatalf("expected first toast visible, got %+v ok=%v", cur, ok)
	}

	// 2) el segundo reemplaza al primero
	second := tt.Show("deleted", state.SeverityError)
	if second.ID == first.ID {
		t.Fatal("expected a fresh token per Show")
	}
	cur, ok := tt.Current()
	if !ok || cur.Message != "deleted" {
		t.Fatalf("expected second toast visible, got %+v ok=%v", cur, ok)
	}

	// 3) el timer del primero expira tarde: no debe voltear al segundo
	tt.Dismiss(first.ID)
	if _, ok := tt.Current(); !ok {
		t.Fatal("stale dismiss must not hide the current toast")
	}

	// 4) el timer del segundo sí lo cierra
	tt.Dismiss(second.ID)
	if _, ok := tt.Current(); ok {
		t.Fatal("expected toast hidden after matching dismiss")
	}

	// 5) dismiss sin toast visible es un no-op
	tt.Dismiss(second.ID)
}

func TestToaster_ManualDismissIsUnconditional(t *testing.T) {
	tt := state.NewToaster()
	tt.Show("anything", state.SeverityWarning)

	// id=0 es el cierre manual del usuario: siempre aplica
	tt.Dismiss(0)
	if _, ok := tt.Current(); ok {
		t.Fatal("expected toast hidden after manual dismiss")
	}
}
