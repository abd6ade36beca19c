package state_test

import (
	"context"
	"errors"
	"testing"

	"pet-health-console/internal/api"
	"pet-health-console/internal/state"
)

type noteValue struct {
	Title string
}

// formHarness junta el form bajo prueba con los contadores de efectos.
type formHarness struct {
	form *state.Form[noteValue]

	created []noteValue
	updated map[int64]noteValue

	createErr error
	updateErr error

	successes int
	errors    []string
	refetches int
}

func newFormHarness() *formHarness {
	h := &formHarness{updated: map[int64]noteValue{}}

	hooks := state.FormHooks[noteValue]{
		Defaults: func() noteValue { return noteValue{Title: "default"} },
		Validate: func(v noteValue) error {
			if v.Title == "" {
				return errors.New("title is required")
			}
			return nil
		},
		Create: func(_ context.Context, v noteValue) error {
			if h.createErr != nil {
				return h.createErr
			}
			h.created = append(h.created, v)
			return nil
		},
		Update: func(_ context.Context, id int64, v noteValue) error {
			if h.updateErr != nil {
				return h.updateErr
			}
			h.updated[id] = v
			return nil
		},
	}
	callbacks := state.FormCallbacks{
		OnSuccess: func() { h.successes++ },
		OnError:   func(msg string) { h.errors = append(h.errors, msg) },
		Refetch:   func() { h.refetches++ },
	}

	h.form = state.NewForm(hooks, callbacks)
	return h
}

func TestForm_SaveWhileClosedFails(t *testing.T) {
	h := newFormHarness()

	if err := h.form.Save(context.Background()); err == nil {
		t.Fatal("expected error saving a closed form")
	}
	if len(h.created) != 0 || h.successes != 0 {
		t.Fatal("a closed form must not reach the backend")
	}
}

func TestForm_StartCreateResetsToDefaults(t *testing.T) {
	h := newFormHarness()

	h.form.StartEdit(7, noteValue{Title: "old"})
	h.form.StartCreate()

	if _, editing := h.form.Editing(); editing {
		t.Fatal("StartCreate must clear the editing marker")
	}
	if got := h.form.Value(); got.Title != "default" {
		t.Fatalf("expected defaults after StartCreate, got %+v", got)
	}
}

func TestForm_ValidationFailureSkipsNetwork(t *testing.T) {
	h := newFormHarness()

	h.form.StartCreate()
	h.form.SetValue(noteValue{Title: ""})

	if err := h.form.Save(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}

	// 1) OnError con el mensaje de validación
	if len(h.errors) != 1 || h.errors[0] != "title is required" {
		t.Fatalf("errors = %v", h.errors)
	}
	// 2) sin create, sin success, sin refetch
	if len(h.created) != 0 || h.successes != 0 || h.refetches != 0 {
		t.Fatal("validation failure must not reach the backend")
	}
	// 3) el formulario sigue abierto para corregir
	if !h.form.Open() {
		t.Fatal("form must stay open after validation failure")
	}
}

func TestForm_CreateSuccessClosesAndRefetches(t *testing.T) {
	h := newFormHarness()

	h.form.StartCreate()
	h.form.SetValue(noteValue{Title: "first walk"})

	if err := h.form.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(h.created) != 1 || h.created[0].Title != "first walk" {
		t.Fatalf("created = %v", h.created)
	}
	// exactamente un OnSuccess y un Refetch, ningún OnError
	if h.successes != 1 || h.refetches != 1 || len(h.errors) != 0 {
		t.Fatalf("successes=%d refetches=%d errors=%v", h.successes, h.refetches, h.errors)
	}
	if h.form.Open() {
		t.Fatal("form must close after a successful save")
	}
	if got := h.form.Value(); got.Title != "default" {
		t.Fatalf("expected fields reset to defaults, got %+v", got)
	}
}

func TestForm_EditSavesThroughUpdate(t *testing.T) {
	h := newFormHarness()

	h.form.StartEdit(42, noteValue{Title: "rabies shot"})
	if id, editing := h.form.Editing(); !editing || id != 42 {
		t.Fatalf("Editing = %d, %v", id, editing)
	}

	if err := h.form.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(h.created) != 0 {
		t.Fatal("edit must not call create")
	}
	if got, ok := h.updated[42]; !ok || got.Title != "rabies shot" {
		t.Fatalf("updated = %v", h.updated)
	}
}

func TestForm_RemoteFailureKeepsFormOpenWithValues(t *testing.T) {
	h := newFormHarness()
	h.createErr = &api.RemoteError{Message: "name already in use"}

	h.form.StartCreate()
	h.form.SetValue(noteValue{Title: "dup"})

	if err := h.form.Save(context.Background()); err == nil {
		t.Fatal("expected save to propagate the remote error")
	}

	// 1) OnError con el mensaje del server, tal cual
	if len(h.errors) != 1 || h.errors[0] != "name already in use" {
		t.Fatalf("errors = %v", h.errors)
	}
	// 2) el formulario queda abierto y con los valores para reintentar
	if !h.form.Open() {
		t.Fatal("form must stay open after a remote failure")
	}
	if got := h.form.Value(); got.Title != "dup" {
		t.Fatalf("expected values kept for retry, got %+v", got)
	}
	// 3) saving liberado: un retry debe poder ejecutar
	h.createErr = nil
	if err := h.form.Save(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if h.successes != 1 {
		t.Fatalf("successes = %d, want 1", h.successes)
	}
}

// En la app Save corre en la goroutine del comando mientras el loop de la UI
// sigue leyendo Saving/Open/Value para renderizar. Reproduce ese solapamiento
// con un create que queda bloqueado en vuelo.
func TestForm_ConcurrentReadsDuringSave(t *testing.T) {
	h := newFormHarness()

	inFlight := make(chan struct{})
	release := make(chan struct{})
	h.form = state.NewForm(state.FormHooks[noteValue]{
		Defaults: func() noteValue { return noteValue{Title: "default"} },
		Create: func(_ context.Context, v noteValue) error {
			close(inFlight)
			<-release
			h.created = append(h.created, v)
			return nil
		},
	}, state.FormCallbacks{
		OnSuccess: func() { h.successes++ },
		OnError:   func(msg string) { h.errors = append(h.errors, msg) },
		Refetch:   func() { h.refetches++ },
	})

	h.form.StartCreate()
	h.form.SetValue(noteValue{Title: "checkup"})

	done := make(chan error, 1)
	go func() { done <- h.form.Save(context.Background()) }()

	// 1) con el create en vuelo, el loop puede seguir consultando estado
	<-inFlight
	if !h.form.Saving() {
		t.Fatal("Saving must report true while the request is in flight")
	}
	if !h.form.Open() {
		t.Fatal("form must stay open while the request is in flight")
	}
	if got := h.form.Value(); got.Title != "checkup" {
		t.Fatalf("Value during save = %+v", got)
	}
	// 2) double-dispatch durante el vuelo: no-op, sin segundo create
	if err := h.form.Save(context.Background()); err != nil {
		t.Fatalf("save while saving: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}

	// 3) un solo create, el form cerrado y saving liberado
	if len(h.created) != 1 {
		t.Fatalf("created = %v", h.created)
	}
	if h.form.Open() || h.form.Saving() {
		t.Fatal("form must be closed and idle after the save completes")
	}
	if h.successes != 1 || h.refetches != 1 {
		t.Fatalf("successes=%d refetches=%d", h.successes, h.refetches)
	}
}

func TestForm_CancelDiscardsWithoutNetwork(t *testing.T) {
	h := newFormHarness()

	h.form.StartEdit(9, noteValue{Title: "typo"})
	h.form.SetValue(noteValue{Title: "half edited"})
	h.form.Cancel()

	if h.form.Open() {
		t.Fatal("expected form closed after cancel")
	}
	if len(h.created) != 0 || len(h.updated) != 0 {
		t.Fatal("cancel must not reach the backend")
	}
	if h.successes != 0 || h.refetches != 0 {
		t.Fatal("cancel must not fire callbacks")
	}
}
