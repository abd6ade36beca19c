package state_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/devserver"
	"pet-health-console/internal/devserver/memory"
	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

// aggFixture levanta el backend fake + cliente logueado + store local vacío.
func aggFixture(t *testing.T) (*state.Aggregator, *api.Client, *appctx.Store, func()) {
	t.Helper()

	ts := httptest.NewServer(devserver.NewRouter(devserver.Options{Store: memory.NewStore()}))

	client, err := api.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	if _, err := client.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store, err := appctx.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return state.NewAggregator(client, store), client, store, ts.Close
}

func createPet(t *testing.T, client *api.Client, name string) records.Pet {
	t.Helper()
	p, err := client.CreatePet(context.Background(), records.Pet{
		Name:    name,
		Species: records.SpeciesDog,
	})
	if err != nil {
		t.Fatalf("create pet %s: %v", name, err)
	}
	return p
}

func TestAggregator_NoPets(t *testing.T) {
	agg, _, store, done := aggFixture(t)
	defer done()

	res, err := agg.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.State != state.PortfolioNoPets {
		t.Fatalf("state = %v, want PortfolioNoPets", res.State)
	}
	if _, ok := store.SelectedPet(); ok {
		t.Fatal("no selection should be persisted when there are no pets")
	}
}

func TestAggregator_DefaultsToEarliestCreatedAndPersists(t *testing.T) {
	agg, client, store, done := aggFixture(t)
	defer done()

	first := createPet(t, client, "Milo")
	createPet(t, client, "Luna")

	res, err := agg.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.State != state.PortfolioLoaded {
		t.Fatalf("state = %v, want PortfolioLoaded", res.State)
	}
	// 1) sin selección previa gana la mascota creada primero
	if res.Portfolio.Pet.ID != first.ID {
		t.Fatalf("selected pet = %d, want %d", res.Portfolio.Pet.ID, first.ID)
	}
	// 2) la decisión queda persistida de inmediato
	if got, ok := store.SelectedPet(); !ok || got != first.ID {
		t.Fatalf("persisted selection = %d ok=%v, want %d", got, ok, first.ID)
	}
	if len(res.Pets) != 2 {
		t.Fatalf("pets = %d, want 2", len(res.Pets))
	}
}

func TestAggregator_RequestedIDWinsOverStoredSelection(t *testing.T) {
	agg, client, store, done := aggFixture(t)
	defer done()

	first := createPet(t, client, "Milo")
	second := createPet(t, client, "Luna")

	if err := store.SetSelectedPet(first.ID); err != nil {
		t.Fatalf("persist selection: %v", err)
	}

	res, err := agg.Fetch(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Portfolio.Pet.ID != second.ID {
		t.Fatalf("selected pet = %d, want requested %d", res.Portfolio.Pet.ID, second.ID)
	}
	if got, _ := store.SelectedPet(); got != second.ID {
		t.Fatalf("persisted selection = %d, want %d", got, second.ID)
	}
}

func TestAggregator_StaleStoredSelectionFallsBack(t *testing.T) {
	agg, client, store, done := aggFixture(t)
	defer done()

	first := createPet(t, client, "Milo")

	// selección persistida de una mascota que ya no existe
	if err := store.SetSelectedPet(9999); err != nil {
		t.Fatalf("persist selection: %v", err)
	}

	res, err := agg.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Portfolio.Pet.ID != first.ID {
		t.Fatalf("selected pet = %d, want fallback %d", res.Portfolio.Pet.ID, first.ID)
	}
	// se persiste el fallback, no el id muerto
	if got, _ := store.SelectedPet(); got != first.ID {
		t.Fatalf("persisted selection = %d, want %d", got, first.ID)
	}
}

func TestAggregator_SelectPetSwitchesAndReloads(t *testing.T) {
	agg, client, store, done := aggFixture(t)
	defer done()

	createPet(t, client, "Milo")
	second := createPet(t, client, "Luna")

	if _, err := agg.Fetch(context.Background(), 0); err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	res, err := agg.SelectPet(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if res.Portfolio.Pet.ID != second.ID {
		t.Fatalf("selected pet = %d, want %d", res.Portfolio.Pet.ID, second.ID)
	}
	if got, _ := store.SelectedPet(); got != second.ID {
		t.Fatalf("persisted selection = %d, want %d", got, second.ID)
	}
}

func TestAggregator_TransportFailureReturnsError(t *testing.T) {
	agg, _, _, done := aggFixture(t)
	done() // server abajo: el listado falla por transporte

	if _, err := agg.Fetch(context.Background(), 0); err == nil {
		t.Fatal("expected a transport error when the backend is down")
	}
}
