// Package config concentra la lectura de entorno de los binarios.
// Carga .env si existe (conveniencia de desarrollo) y expone defaults sanos.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Console es la configuración del cliente de terminal.
type Console struct {
	// APIBaseURL es la URL del backend de fichas médicas.
	APIBaseURL string
	// RequestTimeout acota cada request HTTP.
	RequestTimeout time.Duration
	// SessionCheckInterval es el período de re-validación de sesión.
	SessionCheckInterval time.Duration
	// StatePath pisa la ubicación por defecto del estado local ("" = default).
	StatePath string
}

// Server es la configuración del backend de desarrollo.
type Server struct {
	// Addr es la dirección de escucha (":8080").
	Addr string
	// DBDSN opcional: si viene, usa Postgres. Si no, in-memory.
	DBDSN string
	// UploadDir opcional: si viene, los archivos subidos se escriben a disco.
	UploadDir string
}

// LoadConsole lee la configuración del cliente desde el entorno.
func LoadConsole() Console {
	_ = godotenv.Load()

	return Console{
		APIBaseURL:           getEnv("API_BASE_URL", "http://localhost:8080"),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", 10*time.Second),
		SessionCheckInterval: getDuration("SESSION_CHECK_INTERVAL", 30*time.Second),
		StatePath:            os.Getenv("STATE_PATH"),
	}
}

// LoadServer lee la configuración del backend de desarrollo.
func LoadServer() Server {
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	return Server{
		Addr:      addr,
		DBDSN:     os.Getenv("DB_DSN"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// también acepta segundos pelados ("30")
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
