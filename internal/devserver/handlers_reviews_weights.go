package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"pet-health-console/internal/records"
)

// --- Visitas médicas ---

func (s *server) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var rev records.MedicalReview
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(rev.VisitDate) == "" || rev.VisitType == "" {
		respondErr(w, http.StatusBadRequest, "visit date and type are required")
		return
	}
	rev.PetID = petID

	created, err := s.store.CreateReview(r.Context(), rev)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var rev records.MedicalReview
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	rev.ID, rev.PetID = id, petID

	if err := s.store.UpdateReview(r.Context(), rev); err != nil {
		respondStoreErr(w, err, "medical review not found")
		return
	}
	respondOK(w, http.StatusOK, rev)
}

func (s *server) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteReview(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "medical review not found")
		return
	}
	respondMsg(w, http.StatusOK, "medical review deleted")
}

// --- Historial de peso ---

func (s *server) createWeightHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var wr records.WeightRecord
	if err := json.NewDecoder(r.Body).Decode(&wr); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if wr.WeightKg <= 0 || strings.TrimSpace(wr.MeasurementDate) == "" {
		respondErr(w, http.StatusBadRequest, "weight and measurement date are required")
		return
	}
	wr.PetID = petID
	if wr.RecordedBy == "" {
		wr.RecordedBy = u.Username
	}

	created, err := s.store.CreateWeight(r.Context(), wr)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateWeightHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var wr records.WeightRecord
	if err := json.NewDecoder(r.Body).Decode(&wr); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	wr.ID, wr.PetID = id, petID

	if err := s.store.UpdateWeight(r.Context(), wr); err != nil {
		respondStoreErr(w, err, "weight record not found")
		return
	}
	respondOK(w, http.StatusOK, wr)
}

func (s *server) deleteWeightHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteWeight(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "weight record not found")
		return
	}
	respondMsg(w, http.StatusOK, "weight record deleted")
}
