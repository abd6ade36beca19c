// Package memory implementa el Store del devserver en mapas con RWMutex.
// Mismo patrón que un backend real pero sin persistencia: al reiniciar se
// pierde todo, y por eso arranca con un usuario admin/admin sembrado.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pet-health-console/internal/devserver"
	"pet-health-console/internal/records"
)

type Store struct {
	mu  sync.RWMutex
	seq int64

	pets        map[int64]records.Pet
	vaccines    map[int64]records.Vaccine
	medications map[int64]records.Medication
	dewormings  map[int64]records.Deworming
	reviews     map[int64]records.MedicalReview
	weights     map[int64]records.WeightRecord
	documents   map[int64]records.Document

	users     map[int64]records.User
	passwords map[int64]string // en claro: es un fake de desarrollo

	now func() time.Time
}

func NewStore() *Store {
	s := &Store{
		pets:        make(map[int64]records.Pet),
		vaccines:    make(map[int64]records.Vaccine),
		medications: make(map[int64]records.Medication),
		dewormings:  make(map[int64]records.Deworming),
		reviews:     make(map[int64]records.MedicalReview),
		weights:     make(map[int64]records.WeightRecord),
		documents:   make(map[int64]records.Document),
		users:       make(map[int64]records.User),
		passwords:   make(map[int64]string),
		now:         time.Now,
	}

	// Usuario inicial para poder loguearse contra el fake.
	admin := records.User{
		Name:      "Administrator",
		Username:  "admin",
		Role:      records.RoleAdmin,
		CreatedAt: s.now(),
	}
	admin.ID = s.nextID()
	s.users[admin.ID] = admin
	s.passwords[admin.ID] = "admin"

	return s
}

// nextID: secuencia única compartida entre entidades, como un serial global.
// Solo se llama con el lock tomado (o durante la construcción).
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// --- Pets ---

func (s *Store) CreatePet(_ context.Context, p records.Pet) (records.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	p.CreatedAt = s.now()
	s.pets[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePet(_ context.Context, p records.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.pets[p.ID]
	if !ok {
		return devserver.ErrNotFound
	}
	p.CreatedAt = prev.CreatedAt
	s.pets[p.ID] = p
	return nil
}

func (s *Store) DeletePet(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[id]; !ok {
		return devserver.ErrNotFound
	}
	delete(s.pets, id)

	// cascada: los sub-registros no sobreviven a la mascota
	for k, v := range s.vaccines {
		if v.PetID == id {
			delete(s.vaccines, k)
		}
	}
	for k, v := range s.medications {
		if v.PetID == id {
			delete(s.medications, k)
		}
	}
	for k, v := range s.dewormings {
		if v.PetID == id {
			delete(s.dewormings, k)
		}
	}
	for k, v := range s.reviews {
		if v.PetID == id {
			delete(s.reviews, k)
		}
	}
	for k, v := range s.weights {
		if v.PetID == id {
			delete(s.weights, k)
		}
	}
	for k, v := range s.documents {
		if v.PetID == id {
			delete(s.documents, k)
		}
	}
	return nil
}

func (s *Store) GetPet(_ context.Context, id int64) (records.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pets[id]
	if !ok {
		return records.Pet{}, devserver.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPets(_ context.Context) ([]records.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]records.Pet, 0, len(s.pets))
	for _, p := range s.pets {
		out = append(out, p)
	}
	// orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetPortfolio(_ context.Context, petID int64) (records.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pet, ok := s.pets[petID]
	if !ok {
		return records.Portfolio{}, devserver.ErrNotFound
	}

	p := records.Portfolio{
		Pet:           pet,
		Vaccines:      []records.Vaccine{},
		Medications:   []records.Medication{},
		Dewormings:    []records.Deworming{},
		Reviews:       []records.MedicalReview{},
		WeightHistory: []records.WeightRecord{},
		Documents:     []records.Document{},
	}
	for _, v := range s.vaccines {
		if v.PetID == petID {
			p.Vaccines = append(p.Vaccines, v)
		}
	}
	for _, m := range s.medications {
		if m.PetID == petID {
			p.Medications = append(p.Medications, m)
		}
	}
	for _, d := range s.dewormings {
		if d.PetID == petID {
			p.Dewormings = append(p.Dewormings, d)
		}
	}
	for _, r := range s.reviews {
		if r.PetID == petID {
			p.Reviews = append(p.Reviews, r)
		}
	}
	for _, w := range s.weights {
		if w.PetID == petID {
			p.WeightHistory = append(p.WeightHistory, w)
		}
	}
	for _, d := range s.documents {
		if d.PetID == petID {
			p.Documents = append(p.Documents, d)
		}
	}

	sort.Slice(p.Vaccines, func(i, j int) bool { return p.Vaccines[i].ID < p.Vaccines[j].ID })
	sort.Slice(p.Medications, func(i, j int) bool { return p.Medications[i].ID < p.Medications[j].ID })
	sort.Slice(p.Dewormings, func(i, j int) bool { return p.Dewormings[i].ID < p.Dewormings[j].ID })
	sort.Slice(p.Reviews, func(i, j int) bool { return p.Reviews[i].ID < p.Reviews[j].ID })
	sort.Slice(p.WeightHistory, func(i, j int) bool { return p.WeightHistory[i].ID < p.WeightHistory[j].ID })
	sort.Slice(p.Documents, func(i, j int) bool { return p.Documents[i].ID < p.Documents[j].ID })

	return p, nil
}

// --- Vacunas ---

func (s *Store) CreateVaccine(_ context.Context, v records.Vaccine) (records.Vaccine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[v.PetID]; !ok {
		return records.Vaccine{}, devserver.ErrNotFound
	}
	v.ID = s.nextID()
	s.vaccines[v.ID] = v
	return v, nil
}

func (s *Store) UpdateVaccine(_ context.Context, v records.Vaccine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.vaccines[v.ID]
	if !ok || prev.PetID != v.PetID {
		return devserver.ErrNotFound
	}
	s.vaccines[v.ID] = v
	return nil
}

func (s *Store) DeleteVaccine(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vaccines[id]
	if !ok || v.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.vaccines, id)
	return nil
}

func (s *Store) GetVaccine(_ context.Context, petID, id int64) (records.Vaccine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vaccines[id]
	if !ok || v.PetID != petID {
		return records.Vaccine{}, devserver.ErrNotFound
	}
	return v, nil
}

// --- Medicaciones ---

func (s *Store) CreateMedication(_ context.Context, m records.Medication) (records.Medication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[m.PetID]; !ok {
		return records.Medication{}, devserver.ErrNotFound
	}
	m.ID = s.nextID()
	s.medications[m.ID] = m
	return m, nil
}

func (s *Store) UpdateMedication(_ context.Context, m records.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.medications[m.ID]
	if !ok || prev.PetID != m.PetID {
		return devserver.ErrNotFound
	}
	s.medications[m.ID] = m
	return nil
}

func (s *Store) DeleteMedication(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.medications[id]
	if !ok || m.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.medications, id)
	return nil
}

func (s *Store) GetMedication(_ context.Context, petID, id int64) (records.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.medications[id]
	if !ok || m.PetID != petID {
		return records.Medication{}, devserver.ErrNotFound
	}
	return m, nil
}

// --- Desparasitaciones ---

func (s *Store) CreateDeworming(_ context.Context, d records.Deworming) (records.Deworming, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[d.PetID]; !ok {
		return records.Deworming{}, devserver.ErrNotFound
	}
	d.ID = s.nextID()
	s.dewormings[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDeworming(_ context.Context, d records.Deworming) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.dewormings[d.ID]
	if !ok || prev.PetID != d.PetID {
		return devserver.ErrNotFound
	}
	s.dewormings[d.ID] = d
	return nil
}

func (s *Store) DeleteDeworming(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dewormings[id]
	if !ok || d.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.dewormings, id)
	return nil
}

func (s *Store) GetDeworming(_ context.Context, petID, id int64) (records.Deworming, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.dewormings[id]
	if !ok || d.PetID != petID {
		return records.Deworming{}, devserver.ErrNotFound
	}
	return d, nil
}

// --- Visitas médicas ---

func (s *Store) CreateReview(_ context.Context, r records.MedicalReview) (records.MedicalReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[r.PetID]; !ok {
		return records.MedicalReview{}, devserver.ErrNotFound
	}
	r.ID = s.nextID()
	s.reviews[r.ID] = r
	return r, nil
}

func (s *Store) UpdateReview(_ context.Context, r records.MedicalReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.reviews[r.ID]
	if !ok || prev.PetID != r.PetID {
		return devserver.ErrNotFound
	}
	s.reviews[r.ID] = r
	return nil
}

func (s *Store) DeleteReview(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok || r.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

// --- Historial de peso ---

func (s *Store) CreateWeight(_ context.Context, w records.WeightRecord) (records.WeightRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[w.PetID]; !ok {
		return records.WeightRecord{}, devserver.ErrNotFound
	}
	w.ID = s.nextID()
	s.weights[w.ID] = w
	return w, nil
}

func (s *Store) UpdateWeight(_ context.Context, w records.WeightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.weights[w.ID]
	if !ok || prev.PetID != w.PetID {
		return devserver.ErrNotFound
	}
	s.weights[w.ID] = w
	return nil
}

func (s *Store) DeleteWeight(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.weights[id]
	if !ok || w.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.weights, id)
	return nil
}

// --- Documentos ---

func (s *Store) CreateDocument(_ context.Context, d records.Document) (records.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[d.PetID]; !ok {
		return records.Document{}, devserver.ErrNotFound
	}
	d.ID = s.nextID()
	if d.Files == nil {
		d.Files = []records.DocumentFile{}
	}
	s.documents[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDocument(_ context.Context, d records.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.documents[d.ID]
	if !ok || prev.PetID != d.PetID {
		return devserver.ErrNotFound
	}
	d.Files = prev.Files // los archivos se tocan solo por sus endpoints
	s.documents[d.ID] = d
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, petID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok || d.PetID != petID {
		return devserver.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Store) GetDocument(_ context.Context, petID, id int64) (records.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok || d.PetID != petID {
		return records.Document{}, devserver.ErrNotFound
	}
	return d, nil
}

func (s *Store) AddDocumentFile(_ context.Context, petID, docID int64, f records.DocumentFile) (records.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[docID]
	if !ok || d.PetID != petID {
		return records.Document{}, devserver.ErrNotFound
	}
	f.ID = s.nextID()
	d.Files = append(d.Files, f)
	s.documents[docID] = d
	return d, nil
}

func (s *Store) DeleteDocumentFile(_ context.Context, petID, docID, fileID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[docID]
	if !ok || d.PetID != petID {
		return devserver.ErrNotFound
	}
	for i, f := range d.Files {
		if f.ID == fileID {
			d.Files = append(d.Files[:i], d.Files[i+1:]...)
			s.documents[docID] = d
			return nil
		}
	}
	return devserver.ErrNotFound
}

// --- Usuarios ---

func (s *Store) ListUsers(_ context.Context) ([]records.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]records.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u records.User, password string) (records.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return records.User{}, devserver.ErrInvalidInput
		}
	}
	u.ID = s.nextID()
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	s.passwords[u.ID] = password
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u records.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.users[u.ID]
	if !ok {
		return devserver.ErrNotFound
	}
	u.CreatedAt = prev.CreatedAt
	s.users[u.ID] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return devserver.ErrNotFound
	}
	delete(s.users, id)
	delete(s.passwords, id)
	return nil
}

func (s *Store) FindUserByCredentials(_ context.Context, username, password string) (records.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, u := range s.users {
		if u.Username == username && s.passwords[id] == password {
			return u, nil
		}
	}
	return records.User{}, devserver.ErrNotFound
}
