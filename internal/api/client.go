// Package api es el cliente tipado del backend de fichas médicas.
// Todas las respuestas de mutación vienen en el envelope
// {success, message, data}; acá solo se ramifica por success y se
// propaga message tal cual cuando existe.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pet-health-console/internal/platform/httpclient"
	"pet-health-console/internal/records"
)

const genericErrMsg = "something went wrong, please try again"

// RemoteError es un rechazo explícito del backend (success=false o no-2xx).
// StatusCode es 0 cuando el rechazo vino en un 2xx con success=false.
type RemoteError struct {
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return genericErrMsg
	}
	return e.Message
}

// Unauthorized reporta si el rechazo es de autenticación, o sea si la sesión
// dejó de valer. Un 500 también llega como RemoteError pero no dice nada
// sobre la sesión.
func (e *RemoteError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// UserMessage extrae el texto presentable de cualquier error del cliente.
// Rechazo remoto => message del server (o genérico); error de transporte =>
// el texto del error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}

type Client struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.New(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// SetToken fija el token de sesión para los requests siguientes.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// call hace el round trip, desarma el envelope y decodifica data en out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var env envelope
	if err := c.http.DoJSON(ctx, method, path, in, &env); err != nil {
		return remoteOrTransport(err)
	}
	if !env.Success {
		return &RemoteError{Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: decode data: %w", err)
		}
	}
	return nil
}

// remoteOrTransport: un no-2xx con envelope decodificable es un rechazo del
// server; cualquier otra cosa es falla de transporte y se propaga tal cual.
func remoteOrTransport(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		var env envelope
		if jerr := json.Unmarshal(he.Body, &env); jerr == nil && env.Message != "" {
			return &RemoteError{Message: env.Message, StatusCode: he.StatusCode}
		}
		return &RemoteError{StatusCode: he.StatusCode}
	}
	return err
}

// --- Sesión ---

// Session es el resultado de un login exitoso.
type Session struct {
	Token string       `json:"token"`
	User  records.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	in := map[string]string{"username": username, "password": password}
	var s Session
	if err := c.call(ctx, http.MethodPost, "/api/login", in, &s); err != nil {
		return Session{}, err
	}
	c.SetToken(s.Token)
	return s, nil
}

// VerifySession consulta si la sesión sigue vigente.
// valid=false con err=nil es un rechazo de autenticación explícito del
// backend; cualquier otra falla (transporte, 500) se devuelve como error y no
// invalida la sesión (el monitor decide).
func (c *Client) VerifySession(ctx context.Context) (bool, error) {
	err := c.call(ctx, http.MethodPost, "/api/verify-session", nil, nil)
	if err == nil {
		return true, nil
	}
	var re *RemoteError
	if errors.As(err, &re) && re.Unauthorized() {
		return false, nil
	}
	return false, err
}

// --- Pets ---

func (c *Client) ListPets(ctx context.Context) ([]records.Pet, error) {
	var out []records.Pet
	if err := c.call(ctx, http.MethodGet, "/api/pets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPortfolio(ctx context.Context, petID int64) (records.Portfolio, error) {
	var out records.Portfolio
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/pets/%d/complete", petID), nil, &out)
	return out, err
}

func (c *Client) CreatePet(ctx context.Context, p records.Pet) (records.Pet, error) {
	var out records.Pet
	err := c.call(ctx, http.MethodPost, "/api/pets", p, &out)
	return out, err
}

func (c *Client) UpdatePet(ctx context.Context, p records.Pet) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/api/pets/%d", p.ID), p, nil)
}

func (c *Client) DeletePet(ctx context.Context, petID int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/pets/%d", petID), nil, nil)
}

// --- Sub-registros médicos ---

func subPath(petID int64, collection string) string {
	return fmt.Sprintf("/api/pets/%d/%s", petID, collection)
}

func subItemPath(petID int64, collection string, recordID int64) string {
	return fmt.Sprintf("/api/pets/%d/%s/%d", petID, collection, recordID)
}

func (c *Client) CreateVaccine(ctx context.Context, v records.Vaccine) (records.Vaccine, error) {
	var out records.Vaccine
	err := c.call(ctx, http.MethodPost, subPath(v.PetID, "vaccines"), v, &out)
	return out, err
}

func (c *Client) UpdateVaccine(ctx context.Context, v records.Vaccine) error {
	return c.call(ctx, http.MethodPut, subItemPath(v.PetID, "vaccines", v.ID), v, nil)
}

func (c *Client) DeleteVaccine(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "vaccines", id), nil, nil)
}

func (c *Client) CompleteVaccine(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodPost, subItemPath(petID, "vaccines", id)+"/complete", nil, nil)
}

// CompleteOptions acompaña el complete de medicación/desparasitación.
// Si WeightKg > 0 el backend crea además un WeightRecord con TreatmentDate.
type CompleteOptions struct {
	WeightKg      float64 `json:"weight_kg,omitempty"`
	TreatmentDate string  `json:"treatment_date,omitempty"` // YYYY-MM-DD
}

func (c *Client) CreateMedication(ctx context.Context, m records.Medication) (records.Medication, error) {
	var out records.Medication
	err := c.call(ctx, http.MethodPost, subPath(m.PetID, "medications"), m, &out)
	return out, err
}

func (c *Client) UpdateMedication(ctx context.Context, m records.Medication) error {
	return c.call(ctx, http.MethodPut, subItemPath(m.PetID, "medications", m.ID), m, nil)
}

func (c *Client) DeleteMedication(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "medications", id), nil, nil)
}

func (c *Client) CompleteMedication(ctx context.Context, petID, id int64, opts CompleteOptions) error {
	return c.call(ctx, http.MethodPost, subItemPath(petID, "medications", id)+"/complete", opts, nil)
}

func (c *Client) CreateDeworming(ctx context.Context, d records.Deworming) (records.Deworming, error) {
	var out records.Deworming
	err := c.call(ctx, http.MethodPost, subPath(d.PetID, "dewormings"), d, &out)
	return out, err
}

func (c *Client) UpdateDeworming(ctx context.Context, d records.Deworming) error {
	return c.call(ctx, http.MethodPut, subItemPath(d.PetID, "dewormings", d.ID), d, nil)
}

func (c *Client) DeleteDeworming(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "dewormings", id), nil, nil)
}

func (c *Client) CompleteDeworming(ctx context.Context, petID, id int64, opts CompleteOptions) error {
	return c.call(ctx, http.MethodPost, subItemPath(petID, "dewormings", id)+"/complete", opts, nil)
}

func (c *Client) CreateReview(ctx context.Context, r records.MedicalReview) (records.MedicalReview, error) {
	var out records.MedicalReview
	err := c.call(ctx, http.MethodPost, subPath(r.PetID, "medical-reviews"), r, &out)
	return out, err
}

func (c *Client) UpdateReview(ctx context.Context, r records.MedicalReview) error {
	return c.call(ctx, http.MethodPut, subItemPath(r.PetID, "medical-reviews", r.ID), r, nil)
}

func (c *Client) DeleteReview(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "medical-reviews", id), nil, nil)
}

func (c *Client) CreateWeight(ctx context.Context, w records.WeightRecord) (records.WeightRecord, error) {
	var out records.WeightRecord
	err := c.call(ctx, http.MethodPost, subPath(w.PetID, "weight"), w, &out)
	return out, err
}

func (c *Client) UpdateWeight(ctx context.Context, w records.WeightRecord) error {
	return c.call(ctx, http.MethodPut, subItemPath(w.PetID, "weight", w.ID), w, nil)
}

func (c *Client) DeleteWeight(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "weight", id), nil, nil)
}

// --- Documentos ---

func (c *Client) CreateDocument(ctx context.Context, d records.Document) (records.Document, error) {
	var out records.Document
	err := c.call(ctx, http.MethodPost, subPath(d.PetID, "documents"), d, &out)
	return out, err
}

func (c *Client) UpdateDocument(ctx context.Context, d records.Document) error {
	return c.call(ctx, http.MethodPut, subItemPath(d.PetID, "documents", d.ID), d, nil)
}

func (c *Client) DeleteDocument(ctx context.Context, petID, id int64) error {
	return c.call(ctx, http.MethodDelete, subItemPath(petID, "documents", id), nil, nil)
}

// UploadDocumentFiles sube uno o varios archivos a un documento existente.
// Devuelve el documento actualizado con los archivos nuevos.
func (c *Client) UploadDocumentFiles(ctx context.Context, petID, docID int64, parts []httpclient.FilePart) (records.Document, error) {
	path := subItemPath(petID, "documents", docID) + "/files"
	var env envelope
	if err := c.http.DoMultipart(ctx, http.MethodPost, path, parts, &env); err != nil {
		return records.Document{}, remoteOrTransport(err)
	}
	if !env.Success {
		return records.Document{}, &RemoteError{Message: env.Message}
	}
	var out records.Document
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return records.Document{}, fmt.Errorf("api: decode data: %w", err)
		}
	}
	return out, nil
}

func (c *Client) DeleteDocumentFile(ctx context.Context, petID, docID, fileID int64) error {
	path := fmt.Sprintf("/api/pets/%d/documents/%d/files/%d", petID, docID, fileID)
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

// --- Usuarios ---

// NewUser es el alta de usuario; el password solo viaja en el create.
type NewUser struct {
	records.User
	Password string `json:"password"`
}

func (c *Client) ListUsers(ctx context.Context) ([]records.User, error) {
	var out []records.User
	if err := c.call(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, u NewUser) (records.User, error) {
	var out records.User
	err := c.call(ctx, http.MethodPost, "/api/users", u, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, u records.User) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), u, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}
