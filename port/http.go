package port

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	adsim "github.com/adsim/adsim"
)

// HTTPServer is the port's admin HTTP surface over its route table,
// grounded on the teacher's middleware/server.go chi+cors wiring.
type HTTPServer struct {
	router *chi.Mux
	port   *Server
	inner  *http.Server
}

// NewHTTPServer builds the admin router: GET /api/v1/routes, GET
// /api/v1/health, GET /api/v1/info.
func NewHTTPServer(p *Server) *HTTPServer {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	h := &HTTPServer{router: r, port: p}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/routes", h.handleRoutes)
		r.Get("/health", h.handleHealth)
		r.Get("/info", h.handleInfo)
	})
	r.Get("/swagger-ui/*", httpSwagger.WrapHandler)

	return h
}

// Router exposes the chi router, e.g. for tests.
func (h *HTTPServer) Router() *chi.Mux { return h.router }

// Serve starts the admin HTTP listener on addr until Shutdown is called.
func (h *HTTPServer) Serve(addr string) error {
	h.inner = &http.Server{Addr: addr, Handler: h.router}
	return h.inner.ListenAndServe()
}

// Shutdown gracefully stops the admin HTTP listener.
func (h *HTTPServer) Shutdown() error {
	if h.inner == nil {
		return nil
	}
	return h.inner.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *HTTPServer) handleRoutes(w http.ResponseWriter, r *http.Request) {
	entries := h.port.Routes().List()
	out := make([]RouteListEntry, len(entries))
	for i, e := range entries {
		out[i] = RouteListEntry{AmsAddr: e.Addr.String(), ServiceID: e.ServiceID}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"routes": len(h.port.Routes().List()),
	})
}

func (h *HTTPServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    adsim.DeviceName,
		"version": adsim.Version(),
		"role":    "ams-port",
	})
}
