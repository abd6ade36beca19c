package devserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"pet-health-console/internal/platform/logger"
	"pet-health-console/internal/records"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Store Store
	Log   logger.Logger

	// UploadDir: si está vacío, los archivos subidos no se escriben a disco
	// (solo queda la metadata). Suficiente para tests.
	UploadDir string
}

type server struct {
	store     Store
	log       logger.Logger
	uploadDir string

	mu       sync.RWMutex
	sessions map[string]records.User // token -> usuario
}

func NewRouter(opts Options) http.Handler {
	s := &server{
		store:     opts.Store,
		log:       opts.Log,
		uploadDir: opts.UploadDir,
		sessions:  make(map[string]records.User),
	}
	if s.log == nil {
		s.log = logger.New(logger.Options{App: "devserver"})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.loginHandler)

		api.Group(func(priv chi.Router) {
			priv.Use(s.authContext)

			priv.Post("/verify-session", s.verifySessionHandler)

			priv.Route("/pets", func(pr chi.Router) {
				pr.Get("/", s.listPetsHandler)
				pr.Post("/", s.createPetHandler)
				pr.Put("/{petID}", s.updatePetHandler)
				pr.Delete("/{petID}", s.deletePetHandler)
				pr.Get("/{petID}/complete", s.portfolioHandler)

				pr.Route("/{petID}/vaccines", func(vr chi.Router) {
					vr.Post("/", s.createVaccineHandler)
					vr.Put("/{recordID}", s.updateVaccineHandler)
					vr.Delete("/{recordID}", s.deleteVaccineHandler)
					vr.Post("/{recordID}/complete", s.completeVaccineHandler)
				})
				pr.Route("/{petID}/medications", func(mr chi.Router) {
					mr.Post("/", s.createMedicationHandler)
					mr.Put("/{recordID}", s.updateMedicationHandler)
					mr.Delete("/{recordID}", s.deleteMedicationHandler)
					mr.Post("/{recordID}/complete", s.completeMedicationHandler)
				})
				pr.Route("/{petID}/dewormings", func(dr chi.Router) {
					dr.Post("/", s.createDewormingHandler)
					dr.Put("/{recordID}", s.updateDewormingHandler)
					dr.Delete("/{recordID}", s.deleteDewormingHandler)
					dr.Post("/{recordID}/complete", s.completeDewormingHandler)
				})
				pr.Route("/{petID}/medical-reviews", func(rr chi.Router) {
					rr.Post("/", s.createReviewHandler)
					rr.Put("/{recordID}", s.updateReviewHandler)
					rr.Delete("/{recordID}", s.deleteReviewHandler)
				})
				pr.Route("/{petID}/weight", func(wr chi.Router) {
					wr.Post("/", s.createWeightHandler)
					wr.Put("/{recordID}", s.updateWeightHandler)
					wr.Delete("/{recordID}", s.deleteWeightHandler)
				})
				pr.Route("/{petID}/documents", func(dr chi.Router) {
					dr.Post("/", s.createDocumentHandler)
					dr.Put("/{recordID}", s.updateDocumentHandler)
					dr.Delete("/{recordID}", s.deleteDocumentHandler)
					dr.Post("/{recordID}/files", s.uploadFilesHandler)
					dr.Delete("/{recordID}/files/{fileID}", s.deleteFileHandler)
				})
			})

			priv.Route("/users", func(ur chi.Router) {
				ur.Get("/", s.listUsersHandler)
				ur.Post("/", s.createUserHandler)
				ur.Put("/{userID}", s.updateUserHandler)
				ur.Delete("/{userID}", s.deleteUserHandler)
			})
		})
	})

	return r
}

type ctxKey string

const userKey ctxKey = "user"

// authContext resuelve el bearer token contra las sesiones emitidas por
// /api/login. Sin token (o token desconocido) el request sigue; cada handler
// decide si exige usuario.
func (s *server) authContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		s.mu.RLock()
		u, ok := s.sessions[token]
		s.mu.RUnlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireUser corta con 401-envelope si no hay sesión.
func (s *server) requireUser(w http.ResponseWriter, r *http.Request) (records.User, bool) {
	v := r.Context().Value(userKey)
	u, ok := v.(records.User)
	if !ok || strings.TrimSpace(u.Username) == "" {
		respondErr(w, http.StatusUnauthorized, "session expired or invalid")
		return records.User{}, false
	}
	return u, true
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
