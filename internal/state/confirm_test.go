package state_test

import (
	"testing"

	"pet-health-console/internal/state"
)

func TestConfirmer_OpenReplacesPending(t *testing.T) {
	c := state.NewConfirmer()

	if _, ok := c.Pending(); ok {
		t.Fatal("expected no pending action on a fresh confirmer")
	}

	c.Open(state.Logout{})
	c.Open(state.DeletePet{}) // reemplaza, no encola

	a, ok := c.Pending()
	if !ok {
		t.Fatal("expected a pending action")
	}
	if _, isDelete := a.(state.DeletePet); !isDelete {
		t.Fatalf("expected the newest action to win, got %T", a)
	}

	c.Close()
	if _, ok := c.Pending(); ok {
		t.Fatal("expected no pending action after Close")
	}
}

func TestConfirmer_CloseWithoutPendingIsANoOp(t *testing.T) {
	c := state.NewConfirmer()
	c.Close()
	if _, ok := c.Pending(); ok {
		t.Fatal("expected still empty")
	}
}
