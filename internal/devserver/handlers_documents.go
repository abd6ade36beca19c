package devserver

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pet-health-console/internal/records"

	"github.com/google/uuid"
)

// Límite del form multipart de subida de archivos.
const maxUploadBytes = 32 << 20

func (s *server) createDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok := urlID(r, "petID")
	if !ok {
		respondErr(w, http.StatusBadRequest, "invalid pet id")
		return
	}

	var d records.Document
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(d.DocumentName) == "" || d.DocumentType == "" {
		respondErr(w, http.StatusBadRequest, "document name and type are required")
		return
	}
	d.PetID = petID
	d.Files = nil // los archivos entran por el endpoint de files

	created, err := s.store.CreateDocument(r.Context(), d)
	if err != nil {
		respondStoreErr(w, err, "pet not found")
		return
	}
	respondOK(w, http.StatusCreated, created)
}

func (s *server) updateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	var d records.Document
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	d.ID, d.PetID = id, petID

	if err := s.store.UpdateDocument(r.Context(), d); err != nil {
		respondStoreErr(w, err, "document not found")
		return
	}
	respondOK(w, http.StatusOK, d)
}

func (s *server) deleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	id, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteDocument(r.Context(), petID, id); err != nil {
		respondStoreErr(w, err, "document not found")
		return
	}
	respondMsg(w, http.StatusOK, "document deleted")
}

// uploadFilesHandler recibe multipart con N archivos en "files" y sus nombres
// visibles en "display_names" (campos paralelos, en orden).
func (s *server) uploadFilesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	docID, ok2 := urlID(r, "recordID")
	if !ok1 || !ok2 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	names := r.MultipartForm.Value["display_names"]
	if len(files) == 0 {
		respondErr(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	var doc records.Document
	for i, fh := range files {
		display := fh.Filename
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			display = strings.TrimSpace(names[i])
		}

		stored := filepath.Join("uploads", uuid.NewString()+filepath.Ext(fh.Filename))
		if s.uploadDir != "" {
			if err := s.saveUpload(fh, filepath.Join(s.uploadDir, filepath.Base(stored))); err != nil {
				s.log.Error("upload write failed", map[string]any{"err": err.Error()})
				respondErr(w, http.StatusInternalServerError, "could not store file")
				return
			}
		}

		updated, err := s.store.AddDocumentFile(r.Context(), petID, docID, records.DocumentFile{
			StoredPath:   stored,
			DisplayName:  display,
			OriginalName: fh.Filename,
		})
		if err != nil {
			respondStoreErr(w, err, "document not found")
			return
		}
		doc = updated
	}

	respondOK(w, http.StatusOK, doc)
}

func (s *server) saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

func (s *server) deleteFileHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	petID, ok1 := urlID(r, "petID")
	docID, ok2 := urlID(r, "recordID")
	fileID, ok3 := urlID(r, "fileID")
	if !ok1 || !ok2 || !ok3 {
		respondErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteDocumentFile(r.Context(), petID, docID, fileID); err != nil {
		respondStoreErr(w, err, "file not found")
		return
	}
	respondMsg(w, http.StatusOK, "file deleted")
}
