package main

import (
	"net/http"
	"os"
	"time"

	"pet-health-console/internal/config"
	"pet-health-console/internal/devserver"
	"pet-health-console/internal/devserver/memory"
	"pet-health-console/internal/devserver/postgres"
	"pet-health-console/internal/platform/logger"
)

func main() {
	cfg := config.LoadServer()
	log := logger.NewFromEnv().With(map[string]any{"app": "pet-health-devserver"})

	// Opcional: si viene DB_DSN, usa Postgres. Si no, in-memory con seed.
	var store devserver.Store
	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Error("could not connect to postgres", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStore(db)
		log.Info("using postgres storage", nil)
	} else {
		store = memory.NewStore()
		log.Info("using in-memory storage (admin/admin seeded)", nil)
	}

	handler := devserver.NewRouter(devserver.Options{
		Store:     store,
		Log:       log,
		UploadDir: cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting dev server", map[string]any{"addr": cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
