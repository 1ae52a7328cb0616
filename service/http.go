package service

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/adsim/adsim/adscore"

	adsim "github.com/adsim/adsim"
)

// HTTPServer is the service's admin HTTP surface over its symbol table,
// handles, and device state, grounded on the teacher's middleware/server.go
// chi+cors wiring (the same pattern port.HTTPServer uses).
type HTTPServer struct {
	router *chi.Mux
	server *Server
	subs   *SubscriptionManager
	inner  *http.Server
}

// NewHTTPServer builds the admin router, including the /ws/watch endpoint
// backed by a SubscriptionManager over the service's Engine.
func NewHTTPServer(s *Server) *HTTPServer {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT"},
	}))

	h := &HTTPServer{router: r, server: s, subs: NewSubscriptionManager(s.engine, 0)}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/symbols", h.handleSymbols)
		r.Get("/handles", h.handleHandles)
		r.Get("/state", h.handleStateGet)
		r.Put("/state", h.handleStateSet)
		r.Get("/vars/{name}", h.handleVarGet)
		r.Put("/vars/{name}", h.handleVarSet)
		r.Get("/health", h.handleHealth)
		r.Get("/info", h.handleInfo)
	})
	r.Get("/ws/watch", h.subs.ServeWatch)
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

func writeADSError(w http.ResponseWriter, code adscore.Error) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":      code.Error(),
		"error_code": uint32(code),
	})
}

func (h *HTTPServer) handleSymbols(w http.ResponseWriter, r *http.Request) {
	vars := h.server.engine.ListVars()
	out := make([]varListEntry, len(vars))
	for i, v := range vars {
		out[i] = varListEntry{
			Name:        v.Name,
			Type:        v.TypeName(),
			IndexGroup:  v.IndexGroup,
			IndexOffset: v.IndexOffset,
			Size:        v.Size,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPServer) handleHandles(w http.ResponseWriter, r *http.Request) {
	all := h.server.engine.Handles().List()
	var out []handleListEntry
	for client, handles := range all {
		for _, handle := range handles {
			out = append(out, handleListEntry{
				Client:      string(client),
				HandleID:    handle.ID,
				IndexGroup:  handle.IndexGroup,
				IndexOffset: handle.IndexOffset,
				Size:        handle.Size,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPServer) handleStateGet(w http.ResponseWriter, r *http.Request) {
	state := h.server.engine.StateGet()
	writeJSON(w, http.StatusOK, stateResponse{State: state.String(), Code: uint16(state)})
}

func (h *HTTPServer) handleStateSet(w http.ResponseWriter, r *http.Request) {
	var req stateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.server.engine.StateSet(adscore.AdsState(req.Code)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPServer) handleVarGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, errCode := h.server.engine.ReadVar(name)
	if errCode != adscore.ErrNone {
		writeADSError(w, errCode)
		return
	}
	writeJSON(w, http.StatusOK, varGetResponse{DataHex: hex.EncodeToString(data)})
}

func (h *HTTPServer) handleVarSet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req varGetResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	data, err := hex.DecodeString(req.DataHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid data_hex"})
		return
	}
	if errCode := h.server.engine.WriteVar(name, data); errCode != adscore.ErrNone {
		writeADSError(w, errCode)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  h.server.engine.StateGet().String(),
	})
}

func (h *HTTPServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       adsim.DeviceName,
		"version":    adsim.Version(),
		"role":       "ads-service",
		"service_id": h.server.serviceID,
		"ams_addr":   h.server.engine.OwnAddr().String(),
	})
}
