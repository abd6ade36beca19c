package records

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

// Gender define el sexo de la mascota.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Size define el tamaño aproximado de la mascota.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Status define el estado de un tratamiento (vacuna, medicación, desparasitación).
// "overdue" no se persiste: se deriva de la fecha de vencimiento (ver VaccineStatus).
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// VisitType define el motivo de una visita médica.
type VisitType string

const (
	VisitRoutine     VisitType = "routine"
	VisitEmergency   VisitType = "emergency"
	VisitVaccination VisitType = "vaccination"
	VisitSurgery     VisitType = "surgery"
	VisitFollowUp    VisitType = "follow_up"
	VisitOther       VisitType = "other"
)

// DocumentType define la categoría de un documento adjunto.
type DocumentType string

const (
	DocumentReceipt     DocumentType = "receipt"
	DocumentCertificate DocumentType = "certificate"
	DocumentReport      DocumentType = "report"
	DocumentOther       DocumentType = "other"
)

// Role define el rol de un usuario de la cuenta.
// @Enum user, admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
