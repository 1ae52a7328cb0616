// Package port implements the AMS port: the TCP front end that decodes AMS
// frames, maintains the dynamic route table, and forwards each command to
// the back-end service that owns its destination AMS address.
package port

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/bus"

	adsim "github.com/adsim/adsim"
)

// Server is the AMS port: it owns the TCP listener, the route table, and
// the bus methods services use to register themselves.
type Server struct {
	config *Config
	bus    *bus.Bus
	routes *RouteTable
	logger adsim.Logger
	metrics adsim.Metrics

	// serviceID identifies this port instance on the disconnect topic.
	serviceID string

	mu       sync.Mutex
	listener net.Listener
	active   int
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

// NewServer creates a port server bound to the given bus, wiring its
// route.ping / route.unregister / list bus methods.
func NewServer(config *Config, b *bus.Bus, serviceID string, opts ...Option) *Server {
	s := &Server{
		config:    config,
		bus:       b,
		routes:    NewRouteTable(config.RouteLiveness()),
		logger:    adsim.DefaultLogger,
		metrics:   adsim.DefaultMetrics,
		serviceID: serviceID,
	}
	for _, opt := range opts {
		opt(s)
	}

	b.Register(MethodRoutePing, s.handleRoutePing)
	b.Register(MethodRouteUnregister, s.handleRouteUnregister)
	b.Register(MethodList, s.handleList)

	return s
}

// Routes exposes the route table for the admin HTTP surface.
func (s *Server) Routes() *RouteTable { return s.routes }

func (s *Server) handleRoutePing(ctx context.Context, req []byte) ([]byte, error) {
	addr, serviceID, err := DecodeRoutePing(req)
	if err != nil {
		return nil, err
	}
	_, existed := s.routes.Lookup(addr)
	s.routes.Ping(addr, serviceID, time.Now())
	if !existed {
		s.metrics.RouteRegistered()
	}
	return nil, nil
}

func (s *Server) handleRouteUnregister(ctx context.Context, req []byte) ([]byte, error) {
	addr, err := DecodeRouteUnregister(req)
	if err != nil {
		return nil, err
	}
	s.routes.Unregister(addr)
	return nil, nil
}

func (s *Server) handleList(ctx context.Context, req []byte) ([]byte, error) {
	return EncodeList(s.routes.List()), nil
}

// Serve binds the TCP listener and runs the accept loop until ctx is
// canceled or Shutdown is called. A failed listener bind is returned to the
// caller, which per §4.2's failure model should trigger a process restart
// (panic-on-critical policy, recover+re-Serve at the main level).
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("port: listen %s: %w", s.config.Listen, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("port listening", "addr", s.config.Listen)

	done := make(chan struct{})
	cleanerDone := make(chan struct{})
	go func() {
		s.routes.RunCleaner(cleanerDone, s.config.RouteCleanInterval(), func(count int) {
			for i := 0; i < count; i++ {
				s.metrics.RouteExpired()
			}
		})
	}()

	go func() {
		<-ctx.Done()
		close(cleanerDone)
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				close(done)
				return nil
			default:
				return fmt.Errorf("port: accept: %w", err)
			}
		}

		s.mu.Lock()
		s.active++
		s.metrics.ConnectionActive(s.active)
		s.mu.Unlock()
		s.metrics.ConnectionAccepted()

		go s.handleConn(ctx, conn)
	}
}

// Shutdown closes the listener, causing Serve's accept loop to return.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// handleConn runs the per-connection dispatch loop of §4.2: read a frame,
// dispatch it, write exactly one reply frame, repeat. Packets on a single
// connection are processed strictly in order.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	clientID := adscore.ClientId(conn.RemoteAddr().String())
	defer func() {
		conn.Close()
		s.mu.Lock()
		s.active--
		s.metrics.ConnectionActive(s.active)
		s.mu.Unlock()
		s.metrics.ConnectionClosed()
		s.bus.Publish(DisconnectTopic(s.serviceID), []byte(clientID))
	}()

	timeout := s.config.FrameTimeout()

	for {
		packet, err := adscore.ReadPacket(ctx, conn, timeout)
		if err != nil {
			if errors.Is(err, adscore.ErrUnknownAmsCommand) && packet != nil {
				packet.ClientID = clientID
				packet.ResponseErr(adscore.ErrUnknownAmsCommand)
				s.reply(ctx, conn, packet)
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			s.logger.Warn("port: connection read failed", "client", clientID, "err", err)
			return
		}

		packet.ClientID = clientID
		s.dispatch(ctx, conn, packet)
	}
}

func (s *Server) dispatch(ctx context.Context, conn net.Conn, packet *adscore.Packet) {
	dest := packet.DestAddr()
	route, ok := s.routes.Lookup(dest)
	if !ok {
		packet.ResponseErr(adscore.ErrTargetMachineNotFound)
		s.reply(ctx, conn, packet)
		return
	}

	raw, err := packet.MarshalBinary()
	if err != nil {
		packet.ResponseErr(adscore.ErrGeneralClientError)
		s.reply(ctx, conn, packet)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.FrameTimeout())
	result, err := s.bus.Call(callCtx, "ads.call."+route.ServiceID, bus.FrameCall(raw, packet.ClientID))
	cancel()

	if err != nil {
		packet.ResponseErr(adscore.ErrHostUnreachable)
		s.reply(ctx, conn, packet)
		return
	}

	reply := &adscore.Packet{}
	if err := reply.UnmarshalBinary(result); err != nil {
		packet.ResponseErr(adscore.ErrGeneralClientError)
		s.reply(ctx, conn, packet)
		return
	}

	s.reply(ctx, conn, reply)
}

func (s *Server) reply(ctx context.Context, conn net.Conn, packet *adscore.Packet) {
	packet.RouteBack()
	if err := adscore.WritePacket(ctx, conn, packet, s.config.FrameTimeout()); err != nil {
		s.logger.Warn("port: reply write failed", "err", err)
	}
}
