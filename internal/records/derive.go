package records

import (
	"fmt"
	"time"
)

// Statused lo implementan los registros que tienen estado pending/completed.
type Statused interface {
	RecordStatus() Status
}

func (v Vaccine) RecordStatus() Status    { return v.Status }
func (m Medication) RecordStatus() Status { return m.Status }
func (d Deworming) RecordStatus() Status  { return d.Status }

// IsPending: sin estado explícito cuenta como pendiente (registros viejos del
// backend no siempre traen el campo).
func IsPending(s Status) bool {
	return s == "" || s == StatusPending
}

// PendingCount cuenta los registros pendientes de una lista.
func PendingCount[T Statused](items []T) int {
	n := 0
	for _, it := range items {
		if IsPending(it.RecordStatus()) {
			n++
		}
	}
	return n
}

// VaccineStatus clasifica una vacuna en pending/completed/overdue.
// Overdue se deriva: pendiente y con vencimiento anterior a hoy.
// today en formato YYYY-MM-DD (comparación lexicográfica es suficiente).
func VaccineStatus(v Vaccine, today string) Status {
	if !IsPending(v.Status) {
		return v.Status
	}
	if v.NextDueDate != "" && v.NextDueDate < today {
		return StatusOverdue
	}
	return StatusPending
}

// CurrentWeight devuelve el peso más reciente del historial (por fecha de
// medición, descendente), con fallback al peso estático del perfil si no hay
// historial. No asume orden en el slice de entrada.
func CurrentWeight(pet Pet, history []WeightRecord) float64 {
	best := -1
	for i, w := range history {
		if best == -1 || w.MeasurementDate > history[best].MeasurementDate {
			best = i
		}
	}
	if best == -1 {
		return pet.WeightKg
	}
	return history[best].WeightKg
}

// EarliestCreated devuelve la mascota creada primero; ok=false si la lista
// está vacía. Es el fallback de selección del agregador.
func EarliestCreated(pets []Pet) (Pet, bool) {
	if len(pets) == 0 {
		return Pet{}, false
	}
	first := pets[0]
	for _, p := range pets[1:] {
		if p.CreatedAt.Before(first.CreatedAt) {
			first = p
		}
	}
	return first, true
}

// Age formatea la edad a partir de la fecha de nacimiento ("2 years", "5 months").
// Devuelve "" si la fecha no parsea o es futura.
func Age(birthDate string, now time.Time) string {
	bd, err := time.Parse("2006-01-02", birthDate)
	if err != nil || bd.After(now) {
		return ""
	}

	years := now.Year() - bd.Year()
	months := int(now.Month()) - int(bd.Month())
	if now.Day() < bd.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}

	switch {
	case years <= 0 && months <= 0:
		return "newborn"
	case years <= 0:
		return plural(months, "month")
	case months == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(months, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
