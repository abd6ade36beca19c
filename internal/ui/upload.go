package ui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pet-health-console/internal/platform/httpclient"
)

// readFileParts lee rutas locales y las arma como partes del multipart.
// El display name es el nombre base sin extensión; el backend conserva el
// nombre original aparte.
func readFileParts(paths []string) ([]httpclient.FilePart, error) {
	parts := make([]httpclient.FilePart, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", p, err)
		}
		base := filepath.Base(p)
		display := strings.TrimSuffix(base, filepath.Ext(base))
		parts = append(parts, httpclient.FilePart{
			FileName:    base,
			DisplayName: display,
			Content:     bytes.NewReader(data),
		})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no files given")
	}
	return parts, nil
}
