package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/dponte/coletamap/internal/auth"
	"github.com/dponte/coletamap/internal/blob"
	"github.com/dponte/coletamap/internal/events"
	"github.com/dponte/coletamap/internal/service"
	"github.com/dponte/coletamap/internal/suggest"
)

type Server struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
	service       *service.PropertyService
	blobs         blob.Store
	hub           *events.Hub
	suggester     suggest.Suggester
	mapboxToken   string
	mux           *http.ServeMux
	cors          *cors.Cors
	logger        *slog.Logger
}

func NewServer(
	authenticator *auth.PasswordAuthenticator,
	jwtManager *auth.JWTManager,
	svc *service.PropertyService,
	blobs blob.Store,
	hub *events.Hub,
	suggester suggest.Suggester,
	mapboxToken string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		service:       svc,
		blobs:         blobs,
		hub:           hub,
		suggester:     suggester,
		mapboxToken:   mapboxToken,
		mux:           http.NewServeMux(),
		cors: cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.Handle("GET /api/auth/me", s.requireAuth(s.handleMe))

	s.mux.Handle("GET /api/properties", s.requireAuth(s.handleListProperties))
	s.mux.Handle("POST /api/properties", s.requireAuth(s.handleCreateProperty))
	s.mux.Handle("GET /api/properties/{id}", s.requireAuth(s.handleGetProperty))
	s.mux.Handle("PUT /api/properties/{id}", s.requireAuth(s.handleUpdateProperty))
	s.mux.Handle("DELETE /api/properties/{id}", s.requireAuth(s.handleDeleteProperty))

	s.mux.Handle("GET /api/properties/{id}/photos", s.requireAuth(s.handleListPhotos))
	s.mux.Handle("POST /api/properties/{id}/photos", s.requireAuth(s.handleUploadPhotos))
	s.mux.Handle("DELETE /api/photos/{id}", s.requireAuth(s.handleDeletePhoto))

	s.mux.Handle("GET /api/events", s.requireAuth(s.handleEvents))
	s.mux.Handle("GET /api/map-config", s.requireAuth(s.handleMapConfig))
	if s.suggester != nil {
		s.mux.Handle("POST /api/suggest-observations", s.requireAuth(s.handleSuggestObservations))
	}

	s.mux.HandleFunc("GET /photos/{key...}", s.handleGetPhoto)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", metricsHandler())
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := requestLogger(s.logger, securityHeaders(s.cors.Handler(instrumented(s.mux))))
	handler.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	// No WriteTimeout: the change feed holds its response open indefinitely.
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}
