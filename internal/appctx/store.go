// Package appctx guarda el estado local del cliente (usuario cacheado,
// mascota seleccionada) en un archivo JSON bajo el config dir del usuario.
// Reemplaza el key-value ambiental: el store se construye una vez y se
// inyecta explícitamente en agregador y monitor de sesión.
package appctx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pet-health-console/internal/records"
)

type state struct {
	User          *records.User `json:"user,omitempty"`
	Token         string        `json:"token,omitempty"`
	SelectedPetID int64         `json:"selected_pet_id,omitempty"`
}

type Store struct {
	mu   sync.Mutex
	path string
	st   state
}

// Open carga (o inicializa) el estado en path. Un archivo corrupto no es
// fatal: se arranca vacío y se pisa en el próximo save.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("appctx: read state: %w", err)
	}

	if jerr := json.Unmarshal(b, &s.st); jerr != nil {
		s.st = state{}
	}
	return s, nil
}

// DefaultPath es ~/.config/pet-health-console/state.json (o equivalente del SO).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("appctx: config dir: %w", err)
	}
	return filepath.Join(dir, "pet-health-console", "state.json"), nil
}

func (s *Store) User() (records.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return records.User{}, false
	}
	return *s.st.User, true
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Token
}

// SetSession cachea usuario y token tras un login exitoso.
func (s *Store) SetSession(u records.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.User = &u
	s.st.Token = token
	return s.save()
}

func (s *Store) SelectedPet() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SelectedPetID, s.st.SelectedPetID != 0
}

// SetSelectedPet persiste la selección de inmediato para que sobreviva un
// reinicio sin re-resolver.
func (s *Store) SetSelectedPet(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.SelectedPetID == id {
		return nil
	}
	s.st.SelectedPetID = id
	return s.save()
}

// Clear borra todo el estado local (logout).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	return s.save()
}

// save escribe atómico: tmp + rename.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("appctx: mkdir: %w", err)
	}
	b, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return fmt.Errorf("appctx: marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("appctx: write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("appctx: rename state: %w", err)
	}
	return nil
}
