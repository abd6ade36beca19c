package devserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"pet-health-console/internal/devserver"
	"pet-health-console/internal/devserver/memory"
	"pet-health-console/internal/records"
)

func TestHTTP_EndToEnd_PetRecords(t *testing.T) {
	ts := httptest.NewServer(devserver.NewRouter(devserver.Options{Store: memory.NewStore()}))
	defer ts.Close()

	// 1) Sin token no hay acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/pets", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// 2) Credenciales inválidas => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
			"username": "admin",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad credentials, got %d", st)
		}
	}

	// 3) Login con el usuario sembrado
	token := login(t, ts.URL, "admin", "admin")

	// 4) La sesión emitida verifica OK
	{
		st, body := doReq(t, ts.URL, "POST", "/api/verify-session", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 verify-session, got %d body=%s", st, string(body))
		}
	}

	// 5) Alta de mascota
	petID := createPet(t, ts.URL, token, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"breed":   "mixed",
	})

	// 6) Alta sin nombre => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/pets", token, map[string]any{"species": "cat"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for pet without name, got %d", st)
		}
	}

	// 7) Vacuna nueva arranca pendiente
	var vaccine records.Vaccine
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/vaccines"), token, map[string]any{
			"name":             "rabies",
			"application_date": "2026-08-01",
			"next_due_date":    "2027-08-01",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create vaccine, got %d body=%s", st, string(body))
		}
		decodeData(t, body, &vaccine)
		if vaccine.Status != records.StatusPending {
			t.Fatalf("new vaccine status = %q, want pending", vaccine.Status)
		}
	}

	// 8) Completar la vacuna la deja completed
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/vaccines", vaccine.ID, "/complete"), token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete vaccine, got %d body=%s", st, string(body))
		}
		var v records.Vaccine
		decodeData(t, body, &v)
		if v.Status != records.StatusCompleted {
			t.Fatalf("completed vaccine status = %q", v.Status)
		}
	}

	// 9) Completar una medicación con peso crea exactamente un WeightRecord
	var medication records.Medication
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/medications"), token, map[string]any{
			"name":       "antibiotic",
			"dosage":     "2 ml",
			"start_date": "2026-08-10",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
		}
		decodeData(t, body, &medication)
	}
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/medications", medication.ID, "/complete"), token, map[string]any{
			"weight_kg":      12.5,
			"treatment_date": "2026-08-20",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete medication, got %d body=%s", st, string(body))
		}
	}
	{
		p := getPortfolio(t, ts.URL, token, petID)
		if len(p.WeightHistory) != 1 {
			t.Fatalf("weight history = %d records, want exactly 1", len(p.WeightHistory))
		}
		w := p.WeightHistory[0]
		if w.WeightKg != 12.5 || w.MeasurementDate != "2026-08-20" {
			t.Fatalf("treatment weight = %+v", w)
		}
		if w.RecordedBy != "admin" {
			t.Fatalf("recorded_by = %q, want admin", w.RecordedBy)
		}
		if w.Notes == "" {
			t.Fatal("treatment weight should carry a note")
		}
		if p.Medications[0].Status != records.StatusCompleted {
			t.Fatalf("medication status = %q", p.Medications[0].Status)
		}
	}

	// 10) Completar desparasitación sin peso NO agrega mediciones
	var deworming records.Deworming
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/dewormings"), token, map[string]any{
			"product":          "drontal",
			"application_date": "2026-08-05",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create deworming, got %d body=%s", st, string(body))
		}
		decodeData(t, body, &deworming)
	}
	{
		st, _ := doReq(t, ts.URL, "POST", petPath(petID, "/dewormings", deworming.ID, "/complete"), token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete deworming, got %d", st)
		}
		p := getPortfolio(t, ts.URL, token, petID)
		if len(p.WeightHistory) != 1 {
			t.Fatalf("weight history = %d records after weightless complete, want 1", len(p.WeightHistory))
		}
	}

	// 11) Visita médica y peso manual
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/medical-reviews"), token, map[string]any{
			"visit_date": "2026-08-25",
			"visit_type": "routine",
			"diagnosis":  "healthy",
			"cost":       80.0,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create review, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/weight"), token, map[string]any{
			"weight_kg":        13.1,
			"measurement_date": "2026-08-28",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create weight, got %d body=%s", st, string(body))
		}
		var w records.WeightRecord
		decodeData(t, body, &w)
		if w.RecordedBy != "admin" {
			t.Fatalf("manual weight recorded_by = %q, want caller username", w.RecordedBy)
		}
	}

	// 12) Borrar la mascota arrastra todos sus registros
	{
		st, _ := doReq(t, ts.URL, "DELETE", petPath(petID), token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete pet, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", petPath(petID, "/complete"), token, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 portfolio after delete, got %d", st)
		}
	}
}

func TestHTTP_DocumentFiles(t *testing.T) {
	ts := httptest.NewServer(devserver.NewRouter(devserver.Options{Store: memory.NewStore()}))
	defer ts.Close()

	token := login(t, ts.URL, "admin", "admin")
	petID := createPet(t, ts.URL, token, map[string]any{"name": "Luna", "species": "cat"})

	// 1) Documento vacío
	var doc records.Document
	{
		st, body := doReq(t, ts.URL, "POST", petPath(petID, "/documents"), token, map[string]any{
			"document_name": "vaccination card",
			"document_type": "certificate",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create document, got %d body=%s", st, string(body))
		}
		decodeData(t, body, &doc)
	}

	// 2) Subida multipart con display names paralelos
	{
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for _, f := range []struct{ name, display, content string }{
			{"card-front.jpg", "Front", "fake-jpg-1"},
			{"card-back.jpg", "Back", "fake-jpg-2"},
		} {
			fw, err := mw.CreateFormFile("files", f.name)
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			_, _ = io.WriteString(fw, f.content)
			_ = mw.WriteField("display_names", f.display)
		}
		_ = mw.Close()

		req, _ := http.NewRequest("POST", ts.URL+petPath(petID, "/documents", doc.ID, "/files"), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 upload, got %d body=%s", resp.StatusCode, string(body))
		}
		decodeData(t, body, &doc)
		if len(doc.Files) != 2 {
			t.Fatalf("files = %d, want 2", len(doc.Files))
		}
		if doc.Files[0].DisplayName != "Front" || doc.Files[0].OriginalName != "card-front.jpg" {
			t.Fatalf("first file = %+v", doc.Files[0])
		}
	}

	// 3) Borrado de un archivo puntual
	{
		st, body := doReq(t, ts.URL, "DELETE",
			petPath(petID, "/documents", doc.ID, "/files", doc.Files[0].ID), token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete file, got %d body=%s", st, string(body))
		}
		p := getPortfolio(t, ts.URL, token, petID)
		if len(p.Documents) != 1 || len(p.Documents[0].Files) != 1 {
			t.Fatalf("documents after file delete = %+v", p.Documents)
		}
		if p.Documents[0].Files[0].DisplayName != "Back" {
			t.Fatalf("surviving file = %+v", p.Documents[0].Files[0])
		}
	}

	// 4) Actualizar el documento no pisa sus archivos
	{
		st, _ := doReq(t, ts.URL, "PUT", petPath(petID, "/documents", doc.ID), token, map[string]any{
			"document_name": "vaccination card 2026",
			"document_type": "certificate",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update document, got %d", st)
		}
		p := getPortfolio(t, ts.URL, token, petID)
		if p.Documents[0].DocumentName != "vaccination card 2026" {
			t.Fatalf("document name = %q", p.Documents[0].DocumentName)
		}
		if len(p.Documents[0].Files) != 1 {
			t.Fatalf("update must preserve files, got %d", len(p.Documents[0].Files))
		}
	}
}

func TestHTTP_Users(t *testing.T) {
	ts := httptest.NewServer(devserver.NewRouter(devserver.Options{Store: memory.NewStore()}))
	defer ts.Close()

	token := login(t, ts.URL, "admin", "admin")

	// 1) Alta de usuario
	var created records.User
	{
		st, body := doReq(t, ts.URL, "POST", "/api/users", token, map[string]any{
			"name":     "Vet Assistant",
			"username": "assistant",
			"password": "s3cret",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create user, got %d body=%s", st, string(body))
		}
		decodeData(t, body, &created)
		if created.Role != records.RoleUser {
			t.Fatalf("default role = %q, want user", created.Role)
		}
	}

	// 2) El nuevo usuario puede loguearse
	login(t, ts.URL, "assistant", "s3cret")

	// 3) Nadie puede borrarse a sí mismo
	{
		var admin records.User
		st, body := doReq(t, ts.URL, "GET", "/api/users", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list users, got %d", st)
		}
		var users []records.User
		decodeData(t, body, &users)
		for _, u := range users {
			if u.Username == "admin" {
				admin = u
			}
		}
		if admin.ID == 0 {
			t.Fatalf("seeded admin not listed: %+v", users)
		}
		st, _ = doReq(t, ts.URL, "DELETE", idPath("/api/users/", admin.ID), token, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 deleting own account, got %d", st)
		}
	}

	// 4) Borrar al otro usuario sí funciona
	{
		st, _ := doReq(t, ts.URL, "DELETE", idPath("/api/users/", created.ID), token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete user, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/api/login", "", map[string]any{
			"username": "assistant",
			"password": "s3cret",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 login after delete, got %d", st)
		}
	}
}

// -------------------------
// helpers
// -------------------------

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var data struct {
		Token string `json:"token"`
	}
	decodeData(t, body, &data)
	if data.Token == "" {
		t.Fatalf("login: missing token body=%s", string(body))
	}
	return data.Token
}

func createPet(t *testing.T, baseURL, token string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/pets", token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var p records.Pet
	decodeData(t, body, &p)
	if p.ID == 0 {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return p.ID
}

func getPortfolio(t *testing.T, baseURL, token string, petID int64) records.Portfolio {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", petPath(petID, "/complete"), token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 portfolio, got %d body=%s", st, string(body))
	}
	var p records.Portfolio
	decodeData(t, body, &p)
	return p
}

// petPath arma /api/pets/{id}[segmento[/{id}[segmento...]]] alternando
// strings e int64.
func petPath(petID int64, parts ...any) string {
	out := idPath("/api/pets/", petID)
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			out += v
		case int64:
			out = idPath(out+"/", v)
		}
	}
	return out
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, string(body))
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got message=%q", env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v body=%s", err, string(body))
		}
	}
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}
