// Package devserver es el fake local del backend de fichas médicas: expone el
// mismo contrato REST (envelope {success, message, data}) contra un store
// in-memory o Postgres. Sirve para desarrollo del cliente y como target de los
// tests de integración.
package devserver

import (
	"context"
	"errors"

	"pet-health-console/internal/records"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Store es el contrato de persistencia del fake. Las dos implementaciones
// (memory y postgres) asignan ids numéricos crecientes, como el backend real.
type Store interface {
	// Pets
	CreatePet(ctx context.Context, p records.Pet) (records.Pet, error)
	UpdatePet(ctx context.Context, p records.Pet) error
	DeletePet(ctx context.Context, id int64) error
	GetPet(ctx context.Context, id int64) (records.Pet, error)
	ListPets(ctx context.Context) ([]records.Pet, error)

	// Portfolio: bundle compuesto de una mascota.
	GetPortfolio(ctx context.Context, petID int64) (records.Portfolio, error)

	// Vacunas
	CreateVaccine(ctx context.Context, v records.Vaccine) (records.Vaccine, error)
	UpdateVaccine(ctx context.Context, v records.Vaccine) error
	DeleteVaccine(ctx context.Context, petID, id int64) error
	GetVaccine(ctx context.Context, petID, id int64) (records.Vaccine, error)

	// Medicaciones
	CreateMedication(ctx context.Context, m records.Medication) (records.Medication, error)
	UpdateMedication(ctx context.Context, m records.Medication) error
	DeleteMedication(ctx context.Context, petID, id int64) error
	GetMedication(ctx context.Context, petID, id int64) (records.Medication, error)

	// Desparasitaciones
	CreateDeworming(ctx context.Context, d records.Deworming) (records.Deworming, error)
	UpdateDeworming(ctx context.Context, d records.Deworming) error
	DeleteDeworming(ctx context.Context, petID, id int64) error
	GetDeworming(ctx context.Context, petID, id int64) (records.Deworming, error)

	// Visitas médicas
	CreateReview(ctx context.Context, r records.MedicalReview) (records.MedicalReview, error)
	UpdateReview(ctx context.Context, r records.MedicalReview) error
	DeleteReview(ctx context.Context, petID, id int64) error

	// Historial de peso
	CreateWeight(ctx context.Context, w records.WeightRecord) (records.WeightRecord, error)
	UpdateWeight(ctx context.Context, w records.WeightRecord) error
	DeleteWeight(ctx context.Context, petID, id int64) error

	// Documentos
	CreateDocument(ctx context.Context, d records.Document) (records.Document, error)
	UpdateDocument(ctx context.Context, d records.Document) error
	DeleteDocument(ctx context.Context, petID, id int64) error
	GetDocument(ctx context.Context, petID, id int64) (records.Document, error)
	AddDocumentFile(ctx context.Context, petID, docID int64, f records.DocumentFile) (records.Document, error)
	DeleteDocumentFile(ctx context.Context, petID, docID, fileID int64) error

	// Usuarios
	ListUsers(ctx context.Context) ([]records.User, error)
	CreateUser(ctx context.Context, u records.User, password string) (records.User, error)
	UpdateUser(ctx context.Context, u records.User) error
	DeleteUser(ctx context.Context, id int64) error
	FindUserByCredentials(ctx context.Context, username, password string) (records.User, error)
}
