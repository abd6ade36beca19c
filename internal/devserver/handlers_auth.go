package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := s.store.FindUserByCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondErr(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = u
	s.mu.Unlock()

	s.log.Info("session issued", map[string]any{"user": u.Username})

	respondOK(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}

// verifySessionHandler devuelve success=true si el token sigue mapeando a una
// sesión viva. El cliente solo ramifica por success.
func (s *server) verifySessionHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	respondMsg(w, http.StatusOK, "session ok")
}
