package devserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-health-console/internal/records"
)

// --- Vacunas ---

func (s *server) createVaccineHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var v records.Vaccine
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(v.Name) == "" {
		respondErr(w, http.StatusBadRequest, "vaccine name is required")
		return
	}
	v.PetID = petID
	if v.Status == "" {
		v.Status = records.StatusPending
	}

	created, err := s.store.CreateVaccine(r.Context(), v)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateVaccineHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var v records.Vaccine
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	v.ID, v.PetID = id, petID

	if err := s.store.UpdateVaccine(r.Context(), v); err != nil {
		respondStoreErr(w, err, "vaccine not found")
		return
	}
	respondOK(w, http.StatusOK, v)
}

func (s *server) deleteVaccineHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteVaccine(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "vaccine not found")
		return
	}
	respondMsg(w, http.StatusOK, "vaccine deleted")
}

// completeVaccineHandler: única transición permitida, pending → completed.
func (s *server) completeVaccineHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	v, err := s.store.GetVaccine(r.Context(), petID, id)
	if err != nil {
		respondStoreErr(w, err, "vaccine not found")
		return
	}
	v.Status = records.StatusCompleted
	if err := s.store.UpdateVaccine(r.Context(), v); err != nil {
		respondStoreErr(w, err, "vaccine not found")
		return
	}
	respondOK(w, http.StatusOK, v)
}

// --- Medicaciones ---

// completeOptions: peso opcional registrado al completar el tratamiento.
type completeOptions struct {
	WeightKg      float64 `json:"weight_kg"`
	TreatmentDate string  `json:"treatment_date"` // YYYY-MM-DD
}

func (s *server) createMedicationHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var m records.Medication
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(m.Name) == "" {
		respondErr(w, http.StatusBadRequest, "medication name is required")
		return
	}
	m.PetID = petID
	if m.Status == "" {
		m.Status = records.StatusPending
	}

	created, err := s.store.CreateMedication(r.Context(), m)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var m records.Medication
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	m.ID, m.PetID = id, petID

	if err := s.store.UpdateMedication(r.Context(), m); err != nil {
		respondStoreErr(w, err, "medication not found")
		return
	}
	respondOK(w, http.StatusOK, m)
}

func (s *server) deleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteMedication(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "medication not found")
		return
	}
	respondMsg(w, http.StatusOK, "medication deleted")
}

func (s *server) completeMedicationHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var opts completeOptions
	_ = json.NewDecoder(r.Body).Decode(&opts) // body opcional

	m, err := s.store.GetMedication(r.Context(), petID, id)
	if err != nil {
		respondStoreErr(w, err, "medication not found")
		return
	}
	m.Status = records.StatusCompleted
	if err := s.store.UpdateMedication(r.Context(), m); err != nil {
		respondStoreErr(w, err, "medication not found")
		return
	}

	if err := s.recordTreatmentWeight(r, petID, u.Username, opts); err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusOK, m)
}

// --- Desparasitaciones ---

func (s *server) createDewormingHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var d records.Deworming
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(d.Product) == "" {
		respondErr(w, http.StatusBadRequest, "deworming product is required")
		return
	}
	d.PetID = petID
	if d.Status == "" {
		d.Status = records.StatusPending
	}

	created, err := s.store.CreateDeworming(r.Context(), d)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateDewormingHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var d records.Deworming
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	d.ID, d.PetID = id, petID

	if err := s.store.UpdateDeworming(r.Context(), d); err != nil {
		respondStoreErr(w, err, "deworming not found")
		return
	}
	respondOK(w, http.StatusOK, d)
}

func (s *server) deleteDewormingHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteDeworming(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "deworming not found")
		return
	}
	respondMsg(w, http.StatusOK, "deworming deleted")
}

func (s *server) completeDewormingHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var opts completeOptions
	_ = json.NewDecoder(r.Body).Decode(&opts)

	d, err := s.store.GetDeworming(r.Context(), petID, id)
	if err != nil {
		respondStoreErr(w, err, "deworming not found")
		return
	}
	d.Status = records.StatusCompleted
	if err := s.store.UpdateDeworming(r.Context(), d); err != nil {
		respondStoreErr(w, err, "deworming not found")
		return
	}

	if err := s.recordTreatmentWeight(r, petID, u.Username, opts); err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusOK, d)
}

// recordTreatmentWeight crea el WeightRecord implícito cuando el complete de
// una medicación o desparasitación trae peso. Exactamente uno por complete,
// fechado a la fecha del tratamiento.
func (s *server) recordTreatmentWeight(r *http.Request, petID int64, username string, opts completeOptions) error {
	if opts.WeightKg <= 0 {
		return nil
	}
	date := opts.TreatmentDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	_, err := s.store.CreateWeight(r.Context(), records.WeightRecord{
		PetID:           petID,
		WeightKg:        opts.WeightKg,
		MeasurementDate: date,
		Notes:           "recorded on treatment completion",
		RecordedBy:      username,
	})
	return err
}
