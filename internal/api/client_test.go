package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-health-console/internal/api"
	"pet-health-console/internal/platform/httpclient"
	"pet-health-console/internal/records"
)

func newClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := api.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c, ts
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestClient_LoginStoresTokenForLaterRequests(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"token": "tok-123",
			"user":  records.User{ID: 1, Username: "admin", Role: records.RoleAdmin},
		})
	})
	mux.HandleFunc("/api/pets", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, true, "", []records.Pet{})
	})

	c, _ := newClient(t, mux)

	s, err := c.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Token != "tok-123" || s.User.Username != "admin" {
		t.Fatalf("session = %+v", s)
	}

	if _, err := c.ListPets(context.Background()); err != nil {
		t.Fatalf("list pets: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestClient_ServerRejectionSurfacesItsMessage(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, false, "vaccine name is required", nil)
	}))

	_, err := c.CreateVaccine(context.Background(), records.Vaccine{PetID: 1})
	if err == nil {
		t.Fatal("expected error from rejected create")
	}
	if got := api.UserMessage(err); got != "vaccine name is required" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestClient_SuccessFalseOn200IsStillARejection(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "nothing to update", nil)
	}))

	err := c.UpdatePet(context.Background(), records.Pet{ID: 1, Name: "Milo"})
	if err == nil {
		t.Fatal("expected error for success=false")
	}
	if got := api.UserMessage(err); got != "nothing to update" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestClient_NonEnvelopeFailureFallsBackToGenericMessage(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))

	err := c.DeletePet(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if got := api.UserMessage(err); got != "something went wrong, please try again" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestClient_VerifySession(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "session ok", nil)
		}))
		valid, err := c.VerifySession(context.Background())
		if err != nil || !valid {
			t.Fatalf("valid=%v err=%v", valid, err)
		}
	})

	t.Run("explicit rejection means invalid, not error", func(t *testing.T) {
		c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusUnauthorized, false, "session expired or invalid", nil)
		}))
		valid, err := c.VerifySession(context.Background())
		if err != nil {
			t.Fatalf("rejection must not be an error, got %v", err)
		}
		if valid {
			t.Fatal("expected invalid session")
		}
	})

	t.Run("backend failure is an error, not an invalid session", func(t *testing.T) {
		c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusInternalServerError, false, "internal error", nil)
		}))
		valid, err := c.VerifySession(context.Background())
		if err == nil {
			t.Fatal("a 500 must propagate as error, not log the session out")
		}
		if valid {
			t.Fatal("expected valid=false alongside the error")
		}
		var re *api.RemoteError
		if !errors.As(err, &re) || re.Unauthorized() {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("transport failure propagates as error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		c, err := api.New(url, time.Second)
		if err != nil {
			t.Fatalf("api.New: %v", err)
		}
		if _, err := c.VerifySession(context.Background()); err == nil {
			t.Fatal("expected transport error with the server down")
		}
	})
}

func TestClient_UploadDocumentFilesSendsParallelDisplayNames(t *testing.T) {
	var (
		gotFiles    []string
		gotDisplays []string
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			writeEnvelope(w, http.StatusBadRequest, false, "bad form", nil)
			return
		}
		for _, fh := range r.MultipartForm.File["files"] {
			gotFiles = append(gotFiles, fh.Filename)
		}
		gotDisplays = r.MultipartForm.Value["display_names"]
		writeEnvelope(w, http.StatusOK, true, "", records.Document{ID: 7, PetID: 1})
	})

	c, _ := newClient(t, handler)

	doc, err := c.UploadDocumentFiles(context.Background(), 1, 7, []httpclient.FilePart{
		{FileName: "front.jpg", DisplayName: "Front", Content: strings.NewReader("a")},
		{FileName: "back.jpg", DisplayName: "Back", Content: strings.NewReader("b")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID != 7 {
		t.Fatalf("doc = %+v", doc)
	}
	if len(gotFiles) != 2 || gotFiles[0] != "front.jpg" || gotFiles[1] != "back.jpg" {
		t.Fatalf("files = %v", gotFiles)
	}
	if len(gotDisplays) != 2 || gotDisplays[0] != "Front" || gotDisplays[1] != "Back" {
		t.Fatalf("display_names = %v", gotDisplays)
	}
}

func TestClient_UploadDocumentFilesWithoutDataIsNotAnError(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"files uploaded"}`))
	}))

	doc, err := c.UploadDocumentFiles(context.Background(), 1, 7, []httpclient.FilePart{
		{FileName: "front.jpg", DisplayName: "Front", Content: strings.NewReader("a")},
	})
	if err != nil {
		t.Fatalf("upload without data: %v", err)
	}
	if doc.ID != 0 {
		t.Fatalf("doc = %+v", doc)
	}
}
