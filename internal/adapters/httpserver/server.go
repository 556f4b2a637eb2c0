package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ferryclock/internal/adapters/metrics"
	"ferryclock/internal/application/assembly"
	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

// Server is the HTTP JSON surface over the state assembler. Every 200-class
// response carries a well-formed Snapshot; meta.fallback tells the UI what
// to distrust. 404 is reserved for unknown routes, 500 for internal
// failures.
type Server struct {
	catalog   *ferry.Catalog
	assembler *assembly.Assembler
	httpSrv   *http.Server
}

// Config holds the listen address and timeouts.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// New creates a server over the given catalog and assembler.
func New(cfg Config, catalog *ferry.Catalog, assembler *assembly.Assembler) *Server {
	s := &Server{
		catalog:   catalog,
		assembler: assembler,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/routes", s.withRequestID(s.handleRoutes))
	mux.HandleFunc("GET /api/state/{routeId}", s.withRequestID(s.handleState))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if metrics.IsEnabled() {
		mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// withRequestID tags each request with a correlation ID for the access log.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next(w, r)
		log.Printf("%s %s request_id=%s duration=%s", r.Method, r.URL.Path, requestID, time.Since(start))
	}
}

// routeListing is the catalog entry shape served by /api/routes.
type routeListing struct {
	RouteID         int    `json:"routeId"`
	Description     string `json:"description"`
	WestName        string `json:"westName"`
	EastName        string `json:"eastName"`
	CrossingMinutes int    `json:"crossingMinutes"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.catalog.ListRoutes()
	listing := make([]routeListing, 0, len(routes))
	for _, route := range routes {
		listing = append(listing, routeListing{
			RouteID:         route.RouteID,
			Description:     route.Description,
			WestName:        route.WestName,
			EastName:        route.EastName,
			CrossingMinutes: route.CrossingMinutes,
		})
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.Atoi(r.PathValue("routeId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown route")
		return
	}

	snapshot, err := s.assembler.BuildSnapshot(r.Context(), routeID)
	if err != nil {
		var unknown *shared.UnknownRouteError
		if errors.As(err, &unknown) {
			writeError(w, http.StatusNotFound, "unknown route")
			return
		}
		log.Printf("snapshot failed for route %d: %v", routeID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
