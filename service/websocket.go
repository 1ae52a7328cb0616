package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SubscriptionManager manages WebSocket variable-watch subscriptions,
// adapted from the teacher's middleware.SubscriptionManager: the same
// per-connection subscribe/unsubscribe/poll shape, but polling the local
// Engine instead of dialing a real PLC over ReadSymbolValue.
type SubscriptionManager struct {
	engine        *Engine
	subscriptions map[string]*watchSubscription
	mu            sync.RWMutex
	maxSubs       int
}

type watchSubscription struct {
	id         string
	paths      []string
	interval   time.Duration
	conn       *websocket.Conn
	cancel     context.CancelFunc
	lastValues map[string]string
	mu         sync.RWMutex
}

// WatchMessage is the WebSocket wire message for the watch endpoint.
type WatchMessage struct {
	Type      string            `json:"type"` // "subscribe", "unsubscribe", "data", "subscribed", "unsubscribed", "error"
	RequestID string            `json:"request_id,omitempty"`
	Paths     []string          `json:"paths,omitempty"`
	Interval  int               `json:"interval,omitempty"` // milliseconds
	Data      map[string]string `json:"data,omitempty"`     // path -> hex-encoded value
	Error     string            `json:"error,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const defaultMaxWatchSubscriptions = 64

// NewSubscriptionManager creates a subscription manager bound to engine.
func NewSubscriptionManager(engine *Engine, maxSubscriptions int) *SubscriptionManager {
	if maxSubscriptions <= 0 {
		maxSubscriptions = defaultMaxWatchSubscriptions
	}
	return &SubscriptionManager{
		engine:        engine,
		subscriptions: make(map[string]*watchSubscription),
		maxSubs:       maxSubscriptions,
	}
}

func (sm *SubscriptionManager) subscribe(conn *websocket.Conn, requestID string, paths []string, interval time.Duration) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.subscriptions) >= sm.maxSubs {
		return fmt.Errorf("service: maximum watch subscription limit reached")
	}
	if _, exists := sm.subscriptions[requestID]; exists {
		return fmt.Errorf("service: subscription id already exists")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &watchSubscription{
		id:         requestID,
		paths:      paths,
		interval:   interval,
		conn:       conn,
		cancel:     cancel,
		lastValues: make(map[string]string),
	}
	sm.subscriptions[requestID] = sub

	go sm.pollLoop(ctx, sub)
	return nil
}

func (sm *SubscriptionManager) unsubscribe(requestID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sub, exists := sm.subscriptions[requestID]
	if !exists {
		return fmt.Errorf("service: subscription not found")
	}
	sub.cancel()
	delete(sm.subscriptions, requestID)
	return nil
}

func (sm *SubscriptionManager) unsubscribeAll(conn *websocket.Conn) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sub := range sm.subscriptions {
		if sub.conn == conn {
			sub.cancel()
			delete(sm.subscriptions, id)
		}
	}
}

func (sm *SubscriptionManager) pollLoop(ctx context.Context, sub *watchSubscription) {
	ticker := time.NewTicker(sub.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.pollOnce(sub)
		}
	}
}

func (sm *SubscriptionManager) pollOnce(sub *watchSubscription) {
	sub.mu.RLock()
	paths := sub.paths
	sub.mu.RUnlock()

	data := make(map[string]string)
	changed := false

	for _, path := range paths {
		value, errCode := sm.engine.ReadVar(path)
		if errCode != 0 {
			continue
		}
		hexVal := hex.EncodeToString(value)

		sub.mu.Lock()
		prev, exists := sub.lastValues[path]
		if !exists || prev != hexVal {
			sub.lastValues[path] = hexVal
			changed = true
		}
		sub.mu.Unlock()

		data[path] = hexVal
	}

	if changed {
		msg := WatchMessage{Type: "data", RequestID: sub.id, Data: data, Timestamp: time.Now()}
		_ = sub.conn.WriteJSON(msg)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWatch upgrades r to a WebSocket and runs the subscribe/unsubscribe
// protocol against sm until the connection closes.
func (sm *SubscriptionManager) ServeWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	go func() {
		for range pingTicker.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		var msg WatchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "subscribe":
			if len(msg.Paths) == 0 {
				sm.sendError(conn, msg.RequestID, "no paths specified")
				continue
			}
			interval := time.Duration(msg.Interval) * time.Millisecond
			if interval <= 0 {
				interval = time.Second
			}
			if err := sm.subscribe(conn, msg.RequestID, msg.Paths, interval); err != nil {
				sm.sendError(conn, msg.RequestID, err.Error())
			} else {
				_ = conn.WriteJSON(WatchMessage{Type: "subscribed", RequestID: msg.RequestID, Paths: msg.Paths, Timestamp: time.Now()})
			}

		case "unsubscribe":
			if err := sm.unsubscribe(msg.RequestID); err != nil {
				sm.sendError(conn, msg.RequestID, err.Error())
			} else {
				_ = conn.WriteJSON(WatchMessage{Type: "unsubscribed", RequestID: msg.RequestID, Timestamp: time.Now()})
			}

		default:
			sm.sendError(conn, msg.RequestID, "unknown message type")
		}
	}

	sm.unsubscribeAll(conn)
}

func (sm *SubscriptionManager) sendError(conn *websocket.Conn, requestID, message string) {
	_ = conn.WriteJSON(WatchMessage{Type: "error", RequestID: requestID, Error: message, Timestamp: time.Now()})
}
