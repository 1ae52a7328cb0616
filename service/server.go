package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/bus"
	"github.com/adsim/adsim/port"

	adsim "github.com/adsim/adsim"
)

// Server is one running ADS service instance: it registers its ads.call
// bus handler, the admin bus methods, a disconnect-topic subscriber, and
// runs the periodic route.ping goroutine that keeps its route alive in the
// port's RouteTable.
type Server struct {
	config    *Config
	engine    *Engine
	bus       *bus.Bus
	serviceID string
	logger    adsim.Logger
	metrics   adsim.Metrics
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(logger adsim.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics overrides the default no-op metrics collector.
func WithMetrics(metrics adsim.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// NewServer wires engine into b under serviceID: the ads.call handler the
// port forwards matched packets to, the admin bus methods, and a
// subscription to portServiceID's disconnect topic.
func NewServer(config *Config, engine *Engine, b *bus.Bus, serviceID, portServiceID string, opts ...Option) *Server {
	s := &Server{
		config:    config,
		engine:    engine,
		bus:       b,
		serviceID: serviceID,
		logger:    adsim.DefaultLogger,
		metrics:   adsim.DefaultMetrics,
	}
	for _, opt := range opts {
		opt(s)
	}

	b.Register("ads.call."+serviceID, s.handleCall)
	b.Register(s.adminMethod("handle.list"), s.handleAdminHandleList)
	b.Register(s.adminMethod("var.get"), s.handleAdminVarGet)
	b.Register(s.adminMethod("var.set"), s.handleAdminVarSet)
	b.Register(s.adminMethod("var.list"), s.handleAdminVarList)
	b.Register(s.adminMethod("state.get"), s.handleAdminStateGet)
	b.Register(s.adminMethod("state.set"), s.handleAdminStateSet)

	b.Subscribe(port.DisconnectTopic(portServiceID), s.handleDisconnect)

	return s
}

func (s *Server) adminMethod(name string) string {
	return s.serviceID + "." + name
}

func (s *Server) handleCall(ctx context.Context, req []byte) ([]byte, error) {
	packetBytes, clientID, err := bus.SplitCall(req)
	if err != nil {
		return nil, fmt.Errorf("service %s: split call: %w", s.serviceID, err)
	}

	packet := &adscore.Packet{}
	if err := packet.UnmarshalBinary(packetBytes); err != nil {
		return nil, fmt.Errorf("service %s: decode packet: %w", s.serviceID, err)
	}
	packet.ClientID = clientID

	reply := s.engine.Dispatch(packet)
	return reply.MarshalBinary()
}

func (s *Server) handleDisconnect(payload []byte) {
	s.engine.DisconnectClient(adscore.ClientId(payload))
}

// RoutePingLoop calls route.ping on the bus every RoutePingSeconds until ctx
// is canceled, keeping this service's entry alive in the port's RouteTable.
// Run as a goroutine from main.
func (s *Server) RoutePingLoop(ctx context.Context) {
	interval := time.Duration(s.config.RoutePingSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.ping(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ping(ctx)
		}
	}
}

func (s *Server) ping(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req := port.EncodeRoutePing(s.engine.OwnAddr(), s.serviceID)
	if _, err := s.bus.Call(callCtx, port.MethodRoutePing, req); err != nil {
		s.logger.Warn("service: route.ping failed", "service", s.serviceID, "err", err)
	}
}

// admin bus methods, JSON request/response, for the HTTP/WebSocket surface.

type varGetRequest struct {
	Path string `json:"path"`
}

type varGetResponse struct {
	DataHex string `json:"data_hex"`
}

func (s *Server) handleAdminVarGet(ctx context.Context, req []byte) ([]byte, error) {
	var r varGetRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return nil, err
	}
	data, errCode := s.engine.ReadVar(r.Path)
	if errCode != adscore.ErrNone {
		return nil, errCode
	}
	return json.Marshal(varGetResponse{DataHex: hex.EncodeToString(data)})
}

type varSetRequest struct {
	Path    string `json:"path"`
	DataHex string `json:"data_hex"`
}

func (s *Server) handleAdminVarSet(ctx context.Context, req []byte) ([]byte, error) {
	var r varSetRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(r.DataHex)
	if err != nil {
		return nil, fmt.Errorf("service: invalid data_hex: %w", err)
	}
	if errCode := s.engine.WriteVar(r.Path, data); errCode != adscore.ErrNone {
		return nil, errCode
	}
	return nil, nil
}

type varListEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	IndexGroup  uint32 `json:"index_group"`
	IndexOffset uint32 `json:"index_offset"`
	Size        uint32 `json:"size"`
}

func (s *Server) handleAdminVarList(ctx context.Context, req []byte) ([]byte, error) {
	vars := s.engine.ListVars()
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
	return json.Marshal(out)
}

type handleListEntry struct {
	Client      string `json:"client"`
	HandleID    uint32 `json:"handle_id"`
	IndexGroup  uint32 `json:"index_group"`
	IndexOffset uint32 `json:"index_offset"`
	Size        uint32 `json:"size"`
}

func (s *Server) handleAdminHandleList(ctx context.Context, req []byte) ([]byte, error) {
	all := s.engine.Handles().List()
	var out []handleListEntry
	for client, handles := range all {
		for _, h := range handles {
			out = append(out, handleListEntry{
				Client:      string(client),
				HandleID:    h.ID,
				IndexGroup:  h.IndexGroup,
				IndexOffset: h.IndexOffset,
				Size:        h.Size,
			})
		}
	}
	return json.Marshal(out)
}

type stateResponse struct {
	State string `json:"state"`
	Code  uint16 `json:"code"`
}

func (s *Server) handleAdminStateGet(ctx context.Context, req []byte) ([]byte, error) {
	state := s.engine.StateGet()
	return json.Marshal(stateResponse{State: state.String(), Code: uint16(state)})
}

type stateSetRequest struct {
	Code uint16 `json:"code"`
}

func (s *Server) handleAdminStateSet(ctx context.Context, req []byte) ([]byte, error) {
	var r stateSetRequest
	if err := json.Unmarshal(req, &r); err != nil {
		return nil, err
	}
	if err := s.engine.StateSet(adscore.AdsState(r.Code)); err != nil {
		return nil, err
	}
	return nil, nil
}
