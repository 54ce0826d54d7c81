package router

import (
	"net/http"
	"time"

	blobmem "pet-tracker/internal/adapters/blob/memory"
	cachemem "pet-tracker/internal/adapters/cache/memory"
	storemem "pet-tracker/internal/adapters/storage/memory"
	"pet-tracker/internal/domain/interstitial"
	"pet-tracker/internal/domain/pets"
	"pet-tracker/internal/middleware"
	"pet-tracker/internal/platform/logger"
	"pet-tracker/internal/ports/auth"
	"pet-tracker/internal/ports/blob"
	"pet-tracker/internal/ports/cache"
	"pet-tracker/internal/ports/capabilities"

	_ "pet-tracker/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options: todo es opcional; lo que falte se arma in-memory (modo dev).
type Options struct {
	AuthVerifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)
	Logger       logger.Logger

	Remote pets.RemoteStore
	Cache  cache.Store
	Blobs  blob.Store

	// Si viene, se monta en /blobs/ (blob store en filesystem).
	BlobHandler http.Handler

	// 0 => sin intersticiales.
	InterstitialEvery   int
	InterstitialIdleTTL time.Duration
	Capabilities        capabilities.CapabilitiesResolver // nil => nadie es ad-free
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.BlobHandler != nil {
		r.Handle("/blobs/*", http.StripPrefix("/blobs/", opts.BlobHandler))
	}

	remote := opts.Remote
	if remote == nil {
		remote = storemem.NewRemoteStore()
	}
	snapshots := opts.Cache
	if snapshots == nil {
		snapshots = cachemem.NewStore()
	}
	blobs := opts.Blobs
	if blobs == nil {
		blobs = blobmem.NewStore()
	}

	var sessions *interstitial.Sessions
	if opts.InterstitialEvery > 0 {
		sessions = interstitial.NewSessions(opts.InterstitialEvery, opts.InterstitialIdleTTL)
	}

	petsSvc := pets.NewService(remote, blobs, snapshots, log)

	// Rutas de la API: requieren sesión (los handlers devuelven 401 si no hay).
	r.Group(func(api chi.Router) {
		api.Use(middleware.AuthContext(opts.AuthVerifier, log))
		api.Use(middleware.Interstitial(sessions, opts.Capabilities, log))

		pets.RegisterRoutes(api, petsSvc)
	})

	return r
}
