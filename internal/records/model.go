package records

import "time"

// Las fechas "de calendario" (nacimiento, aplicación, vencimiento) viajan como
// string YYYY-MM-DD, igual que en el contrato del backend. Los timestamps de
// auditoría sí son time.Time (RFC3339 en el wire).

// Pet representa el perfil básico de una mascota registrada en la cuenta.
type Pet struct {
	ID int64 `json:"id"`

	Name      string  `json:"name"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birth_date"` // YYYY-MM-DD
	Color     string  `json:"color"`
	Microchip string  `json:"microchip,omitempty"`
	WeightKg  float64 `json:"weight_kg"`

	Species  Species `json:"species"`
	Gender   Gender  `json:"gender"`
	Size     Size    `json:"size"`
	Neutered bool    `json:"neutered"`

	PhotoURL string `json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Vaccine es una vacuna aplicada o pendiente de una mascota.
type Vaccine struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	Name            string `json:"name"`
	ApplicationDate string `json:"application_date"` // YYYY-MM-DD
	NextDueDate     string `json:"next_due_date,omitempty"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Medication es un tratamiento con medicación de una mascota.
type Medication struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"` // texto libre: "cada 12h"
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Deworming es una desparasitación aplicada o programada.
type Deworming struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	Product         string `json:"product"`
	ApplicationDate string `json:"application_date"`
	NextDueDate     string `json:"next_due_date,omitempty"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// MedicalReview es una visita médica registrada.
type MedicalReview struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	VisitDate string    `json:"visit_date"`
	VisitType VisitType `json:"visit_type"`

	Diagnosis string  `json:"diagnosis,omitempty"`
	Treatment string  `json:"treatment,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Cost      float64 `json:"cost,omitempty"`
}

// WeightRecord es una medición puntual de peso.
// Puede crearse a mano o como efecto de completar una desparasitación o
// medicación que registró peso del tratamiento.
type WeightRecord struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	WeightKg        float64 `json:"weight_kg"`
	MeasurementDate string  `json:"measurement_date"`
	Notes           string  `json:"notes,omitempty"`
	RecordedBy      string  `json:"recorded_by,omitempty"` // username
}

// DocumentFile es un archivo adjunto dentro de un documento.
type DocumentFile struct {
	ID           int64  `json:"id"`
	StoredPath   string `json:"stored_path"`
	DisplayName  string `json:"display_name"`
	OriginalName string `json:"original_name"`
}

// Document agrupa uno o varios archivos bajo un nombre y tipo.
type Document struct {
	ID    int64 `json:"id"`
	PetID int64 `json:"pet_id"`

	DocumentName string         `json:"document_name"`
	DocumentType DocumentType   `json:"document_type"`
	Files        []DocumentFile `json:"files"`
	ExpiryDate   string         `json:"expiry_date,omitempty"`
}

// User es un usuario de la cuenta.
type User struct {
	ID int64 `json:"id"`

	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username"`
	Role     Role   `json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

// Portfolio es el bundle compuesto de una mascota con todos sus sub-registros
// médicos. El backend lo entrega en una sola llamada (GET /api/pets/{id}/complete).
type Portfolio struct {
	Pet           Pet             `json:"pet"`
	Vaccines      []Vaccine       `json:"vaccines"`
	Medications   []Medication    `json:"medications"`
	Dewormings    []Deworming     `json:"dewormings"`
	Reviews       []MedicalReview `json:"medical_reviews"`
	WeightHistory []WeightRecord  `json:"weight_history"`
	Documents     []Document      `json:"documents"`
}
