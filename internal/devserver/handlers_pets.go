package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-health-console/internal/records"
)

func (s *server) listPetsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	pets, err := s.store.ListPets(r.Context())
	if err != nil {
		respondErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondOK(w, http.StatusOK, pets)
}

func (s *server) createPetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var p records.Pet
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(p.Name) == "" || p.Species == "" {
		respondErr(w, http.StatusBadRequest, "name and species are required")
		return
	}

	created, err := s.store.CreatePet(r.Context(), p)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updatePetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	id, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var p records.Pet
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = id

	if err := s.store.UpdatePet(r.Context(), p); err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusOK, p)
}

func (s *server) deletePetHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	id, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}
	if err := s.store.DeletePet(r.Context(), id); err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondMsg(w, http.StatusOK, "pet deleted")
}

func (s *server) portfolioHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	id, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}
	p, err := s.store.GetPortfolio(r.Context(), id)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusOK, p)
}

func respondStoreErr(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondErr(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, ErrInvalidInput):
		respondErr(w, http.StatusBadRequest, "invalid input")
	default:
		respondErr(w, http.StatusInternalServerError, "internal error")
	}
}
