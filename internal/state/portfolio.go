package state

import (
	"context"

	"pet-health-console/internal/api"
	"pet-health-console/internal/appctx"
	"pet-health-console/internal/records"
)

// PortfolioState distingue los tres estados terminales de un fetch.
type PortfolioState int

const (
	// PortfolioLoaded: bundle completo cargado.
	PortfolioLoaded PortfolioState = iota
	// PortfolioNoPets: la cuenta no tiene mascotas.
	PortfolioNoPets
	// PortfolioNotFound: el id se resolvió pero el fetch compuesto falló.
	PortfolioNotFound
)

type PortfolioResult struct {
	State     PortfolioState
	Pets      []records.Pet
	Portfolio records.Portfolio
}

// Aggregator resuelve qué mascota está seleccionada y trae su bundle médico
// completo. La decisión de selección se persiste de inmediato en el store
// local para sobrevivir reinicios.
//
// Sin fencing de requests: dos Fetch solapados pueden pisarse (cambio rápido
// de mascota). Comportamiento heredado, documentado en DESIGN.md.
type Aggregator struct {
	api   *api.Client
	store *appctx.Store
}

func NewAggregator(client *api.Client, store *appctx.Store) *Aggregator {
	return &Aggregator{api: client, store: store}
}

// Fetch resuelve la selección y trae el portfolio. Precedencia:
// requestedID (flag de arranque) → última selección persistida → la mascota
// creada primero. Un id que ya no existe en la lista cae al fallback y se
// persiste el fallback, no el pedido.
// Solo retorna error en fallas de transporte del listado; el resto son
// estados del resultado.
func (a *Aggregator) Fetch(ctx context.Context, requestedID int64) (PortfolioResult, error) {
	pets, err := a.api.ListPets(ctx)
	if err != nil {
		return PortfolioResult{}, err
	}
	if len(pets) == 0 {
		return PortfolioResult{State: PortfolioNoPets}, nil
	}

	id := a.resolve(pets, requestedID)
	_ = a.store.SetSelectedPet(id)

	p, err := a.api.GetPortfolio(ctx, id)
	if err != nil {
		return PortfolioResult{State: PortfolioNotFound, Pets: pets}, nil
	}
	return PortfolioResult{State: PortfolioLoaded, Pets: pets, Portfolio: p}, nil
}

// SelectPet persiste la nueva selección y re-hace el fetch.
func (a *Aggregator) SelectPet(ctx context.Context, id int64) (PortfolioResult, error) {
	_ = a.store.SetSelectedPet(id)
	return a.Fetch(ctx, id)
}

func (a *Aggregator) resolve(pets []records.Pet, requestedID int64) int64 {
	if requestedID != 0 && contains(pets, requestedID) {
		return requestedID
	}
	if stored, ok := a.store.SelectedPet(); ok && contains(pets, stored) {
		return stored
	}
	first, _ := records.EarliestCreated(pets)
	return first.ID
}

func contains(pets []records.Pet, id int64) bool {
	for _, p := range pets {
		if p.ID == id {
			return true
		}
	}
	return false
}
