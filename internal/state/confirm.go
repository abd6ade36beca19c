// Package state implementa la capa de coordinación del cliente: modal de
// confirmación, toasts, formularios por entidad y agregador de portfolio.
// No sabe nada de presentación; la TUI consume estos tipos.
package state

import "pet-health-console/internal/records"

// Action es la unión etiquetada de acciones confirmables. Cada kind lleva su
// payload tipado; los consumidores resuelven con un type switch exhaustivo en
// lugar de una tabla indexada por string.
type Action interface {
	isAction()
}

type DeletePet struct{ Pet records.Pet }
type DeleteVaccine struct{ Vaccine records.Vaccine }
type CompleteVaccine struct{ Vaccine records.Vaccine }
type DeleteMedication struct{ Medication records.Medication }
type CompleteMedication struct{ Medication records.Medication }
type DeleteDeworming struct{ Deworming records.Deworming }
type CompleteDeworming struct{ Deworming records.Deworming }
type DeleteReview struct{ Review records.MedicalReview }
type DeleteWeight struct{ Weight records.WeightRecord }
type DeleteDocument struct{ Document records.Document }
type DeleteDocumentFile struct {
	Document records.Document
	File     records.DocumentFile
}
type DeleteUser struct{ User records.User }
type Logout struct{}

func (DeletePet) isAction()          {}
func (DeleteVaccine) isAction()      {}
func (CompleteVaccine) isAction()    {}
func (DeleteMedication) isAction()   {}
func (CompleteMedication) isAction() {}
func (DeleteDeworming) isAction()    {}
func (CompleteDeworming) isAction()  {}
func (DeleteReview) isAction()       {}
func (DeleteWeight) isAction()       {}
func (DeleteDocument) isAction()     {}
func (DeleteDocumentFile) isAction() {}
func (DeleteUser) isAction()         {}
func (Logout) isAction()             {}

// Confirmer sostiene a lo sumo una acción pendiente de confirmación.
// Toda acción destructiva o de cambio de estado pasa por acá antes de tocar
// el backend; no existe camino de borrado directo.
type Confirmer struct {
	pending Action
}

func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Open reemplaza cualquier acción pendiente por la nueva; no hay cola.
// La anterior se descarta sin ejecutarse.
func (c *Confirmer) Open(a Action) {
	c.pending = a
}

// Close limpia la acción pendiente incondicionalmente. Sirve tanto para el
// botón cancelar como para la limpieza post-confirmación.
func (c *Confirmer) Close() {
	c.pending = nil
}

// Pending devuelve la acción en espera, si hay.
func (c *Confirmer) Pending() (Action, bool) {
	return c.pending, c.pending != nil
}
