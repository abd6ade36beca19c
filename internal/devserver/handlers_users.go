package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"pet-health-console/internal/records"
)

func (s *server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		respondErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondOK(w, http.StatusOK, users)
}

type createUserRequest struct {
	records.User
	Password string `json:"password"`
}

func (s *server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.Role == "" {
		req.Role = records.RoleUser
	}

	created, err := s.store.CreateUser(r.Context(), req.User, req.Password)
	if err != nil {
		respondStoreErr(w, err, "user not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	id, ok := urlID(r, "userID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var u records.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	u.ID = id

	if err := s.store.UpdateUser(r.Context(), u); err != nil {
		respondStoreErr(w, err, "user not found")
		return
	}
	respondOK(w, http.StatusOK, u)
}

func (s *server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "userID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if caller.ID == id {
		respondErr(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		respondStoreErr(w, err, "user not found")
		return
	}
	respondMsg(w, http.StatusOK, "user deleted")
}
