package appctx_test

import (
	"os"
	"path/filepath"
	"testing"

	"pet-health-console/internal/appctx"
	"pet-health-console/internal/records"
)

func TestStore_SessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.User(); ok {
		t.Fatal("fresh store must be empty")
	}

	u := records.User{ID: 1, Username: "admin", Role: records.RoleAdmin}
	if err := s.SetSession(u, "tok-1"); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := s.SetSelectedPet(7); err != nil {
		t.Fatalf("set selected pet: %v", err)
	}

	// proceso nuevo
	s2, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := s2.User()
	if !ok || got.Username != "admin" {
		t.Fatalf("user = %+v ok=%v", got, ok)
	}
	if s2.Token() != "tok-1" {
		t.Fatalf("token = %q", s2.Token())
	}
	if id, ok := s2.SelectedPet(); !ok || id != 7 {
		t.Fatalf("selected pet = %d ok=%v", id, ok)
	}
}

func TestStore_ClearWipesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.SetSession(records.User{ID: 1, Username: "admin"}, "tok")
	_ = s.SetSelectedPet(3)

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	s2, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := s2.User(); ok {
		t.Fatal("expected no user after clear")
	}
	if _, ok := s2.SelectedPet(); ok {
		t.Fatal("expected no selection after clear")
	}
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("open corrupt state must not fail: %v", err)
	}
	if _, ok := s.User(); ok {
		t.Fatal("corrupt state must start empty")
	}

	// y el próximo save lo pisa con JSON válido
	if err := s.SetSelectedPet(1); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
	s2, err := appctx.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if id, ok := s2.SelectedPet(); !ok || id != 1 {
		t.Fatalf("selected pet = %d ok=%v", id, ok)
	}
}
