package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	// Límite de lectura del body de respuesta.
	maxResponseBytes = 1 << 20
)

// Client envuelve *http.Client con los helpers que usan los adapters de salida.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si está seteado, los métodos aceptan paths relativos

	// Bearer token aplicado a todo request. Se setea vía SetAuthToken.
	// El mutex cubre la carrera entre el monitor de sesión y los requests
	// en vuelo de la TUI.
	mu        sync.RWMutex
	authToken string
}

// New crea un Client contra baseURL con timeout razonable.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		HTTP: &http.Client{Timeout: timeout},
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// SetAuthToken define el bearer token que viaja en Authorization.
// Token vacío limpia el header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = strings.TrimSpace(token)
	c.mu.Unlock()
}

// HTTPError representa una respuesta no-2xx. Body queda disponible para que el
// caller intente decodificar el envelope de error del backend.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// DoJSON hace un request JSON.
// - in: body a enviar (opcional, nil => sin body)
// - out: destino del decode (opcional, nil => descarta body)
// Retorna *HTTPError si el status no es 2xx.
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, pathOrURL, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// FilePart describe un archivo a subir en un request multipart.
type FilePart struct {
	FieldName   string // nombre del campo del form ("files")
	FileName    string // nombre original del archivo
	DisplayName string // nombre visible elegido por el usuario
	Content     io.Reader
}

// DoMultipart sube archivos con sus display names como campos paralelos
// (files + display_names), que es el contrato del endpoint de documentos.
func (c *Client) DoMultipart(ctx context.Context, method, pathOrURL string, parts []FilePart, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, p := range parts {
		field := p.FieldName
		if field == "" {
			field = "files"
		}
		fw, err := mw.CreateFormFile(field, p.FileName)
		if err != nil {
			return fmt.Errorf("httpclient: multipart part: %w", err)
		}
		if _, err := io.Copy(fw, p.Content); err != nil {
			return fmt.Errorf("httpclient: multipart copy: %w", err)
		}
		if err := mw.WriteField("display_names", p.DisplayName); err != nil {
			return fmt.Errorf("httpclient: multipart field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: multipart close: %w", err)
	}

	req, err := c.newRequest(ctx, method, pathOrURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, pathOrURL string, body io.Reader) (*http.Request, error) {
	if c == nil || c.HTTP == nil {
		return nil, errors.New("httpclient: nil client")
	}
	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.mu.RLock()
	token := c.authToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: raw}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}
	if c.BaseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}
