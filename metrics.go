package adsim

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics defines the interface for collecting operational metrics emitted by
// the AMS port and ADS service. Implementations can export metrics to
// whatever backend the deployment wants (Prometheus, StatsD, etc.).
type Metrics interface {
	// Connection metrics (AMS port accept loop)
	ConnectionAccepted()
	ConnectionClosed()
	ConnectionActive(count int)
	RouteRegistered()
	RouteExpired()

	// Dispatch metrics (ADS service command handling)
	DispatchStarted(command string)
	DispatchCompleted(command string, duration time.Duration, err error)

	// Data transfer metrics
	BytesSent(bytes int64)
	BytesReceived(bytes int64)

	// Notification metrics
	NotificationSent()
	NotificationDropped()
	NotificationHandlesActive(count int)

	// Error metrics
	ErrorOccurred(category ErrorCategory, operation string)
	AdsErrorOccurred(code uint32)

	// Health metrics
	HealthCheckStarted()
	HealthCheckCompleted(success bool)
}

// noopMetrics implements Metrics with no-op operations for minimal overhead.
type noopMetrics struct{}

func (n *noopMetrics) ConnectionAccepted()                                                 {}
func (n *noopMetrics) ConnectionClosed()                                                   {}
func (n *noopMetrics) ConnectionActive(count int)                                          {}
func (n *noopMetrics) RouteRegistered()                                                    {}
func (n *noopMetrics) RouteExpired()                                                       {}
func (n *noopMetrics) DispatchStarted(command string)                                      {}
func (n *noopMetrics) DispatchCompleted(command string, duration time.Duration, err error) {}
func (n *noopMetrics) BytesSent(bytes int64)                                               {}
func (n *noopMetrics) BytesReceived(bytes int64)                                           {}
func (n *noopMetrics) NotificationSent()                                                   {}
func (n *noopMetrics) NotificationDropped()                                                {}
func (n *noopMetrics) NotificationHandlesActive(count int)                                 {}
func (n *noopMetrics) ErrorOccurred(category ErrorCategory, operation string)              {}
func (n *noopMetrics) AdsErrorOccurred(code uint32)                                        {}
func (n *noopMetrics) HealthCheckStarted()                                                 {}
func (n *noopMetrics) HealthCheckCompleted(success bool)                                   {}

// DefaultMetrics is a no-op metrics collector to minimize overhead when metrics are not configured.
var DefaultMetrics Metrics = &noopMetrics{}

// InMemoryMetrics provides a simple in-memory metrics collector for testing
// and debugging. The /api/v1/health and /api/v1/info admin endpoints do not
// read it.
type InMemoryMetrics struct {
	mu sync.RWMutex

	// Connection metrics
	ConnectionsAcceptedCount atomic.Int64
	ConnectionsClosedCount   atomic.Int64
	ConnectionsActiveCount   atomic.Int64
	RoutesRegisteredCount    atomic.Int64
	RoutesExpiredCount       atomic.Int64

	// Dispatch metrics
	DispatchCounts    map[string]*atomic.Int64
	DispatchDurations map[string][]time.Duration
	DispatchErrors    map[string]*atomic.Int64

	// Data transfer metrics
	BytesSentCount     atomic.Int64
	BytesReceivedCount atomic.Int64

	// Notification metrics
	NotificationsSentCount     atomic.Int64
	NotificationsDroppedCount  atomic.Int64
	NotificationHandlesCount   atomic.Int64

	// Error metrics
	ErrorsByCategory  map[ErrorCategory]*atomic.Int64
	ErrorsByOperation map[string]*atomic.Int64
	AdsErrorsByCode   map[uint32]*atomic.Int64

	// Health metrics
	HealthChecksStartedCount atomic.Int64
	HealthChecksSuccessCount atomic.Int64
	HealthChecksFailureCount atomic.Int64
}

// NewInMemoryMetrics creates a new in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		DispatchCounts:    make(map[string]*atomic.Int64),
		DispatchDurations: make(map[string][]time.Duration),
		DispatchErrors:    make(map[string]*atomic.Int64),
		ErrorsByCategory:  make(map[ErrorCategory]*atomic.Int64),
		ErrorsByOperation: make(map[string]*atomic.Int64),
		AdsErrorsByCode:   make(map[uint32]*atomic.Int64),
	}
}

func (m *InMemoryMetrics) ConnectionAccepted() {
	m.ConnectionsAcceptedCount.Add(1)
}

func (m *InMemoryMetrics) ConnectionClosed() {
	m.ConnectionsClosedCount.Add(1)
}

func (m *InMemoryMetrics) ConnectionActive(count int) {
	m.ConnectionsActiveCount.Store(int64(count))
}

func (m *InMemoryMetrics) RouteRegistered() {
	m.RoutesRegisteredCount.Add(1)
}

func (m *InMemoryMetrics) RouteExpired() {
	m.RoutesExpiredCount.Add(1)
}

func (m *InMemoryMetrics) DispatchStarted(command string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.DispatchCounts[command]; !exists {
		m.DispatchCounts[command] = &atomic.Int64{}
	}
	m.DispatchCounts[command].Add(1)
}

func (m *InMemoryMetrics) DispatchCompleted(command string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DispatchDurations[command] = append(m.DispatchDurations[command], duration)

	if err != nil {
		if _, exists := m.DispatchErrors[command]; !exists {
			m.DispatchErrors[command] = &atomic.Int64{}
		}
		m.DispatchErrors[command].Add(1)
	}
}

func (m *InMemoryMetrics) BytesSent(bytes int64) {
	m.BytesSentCount.Add(bytes)
}

func (m *InMemoryMetrics) BytesReceived(bytes int64) {
	m.BytesReceivedCount.Add(bytes)
}

func (m *InMemoryMetrics) NotificationSent() {
	m.NotificationsSentCount.Add(1)
}

func (m *InMemoryMetrics) NotificationDropped() {
	m.NotificationsDroppedCount.Add(1)
}

func (m *InMemoryMetrics) NotificationHandlesActive(count int) {
	m.NotificationHandlesCount.Store(int64(count))
}

func (m *InMemoryMetrics) ErrorOccurred(category ErrorCategory, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ErrorsByCategory[category]; !exists {
		m.ErrorsByCategory[category] = &atomic.Int64{}
	}
	m.ErrorsByCategory[category].Add(1)

	if _, exists := m.ErrorsByOperation[operation]; !exists {
		m.ErrorsByOperation[operation] = &atomic.Int64{}
	}
	m.ErrorsByOperation[operation].Add(1)
}

func (m *InMemoryMetrics) AdsErrorOccurred(code uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.AdsErrorsByCode[code]; !exists {
		m.AdsErrorsByCode[code] = &atomic.Int64{}
	}
	m.AdsErrorsByCode[code].Add(1)
}

func (m *InMemoryMetrics) HealthCheckStarted() {
	m.HealthChecksStartedCount.Add(1)
}

func (m *InMemoryMetrics) HealthCheckCompleted(success bool) {
	if success {
		m.HealthChecksSuccessCount.Add(1)
	} else {
		m.HealthChecksFailureCount.Add(1)
	}
}

// Snapshot returns a copy of current metrics for reporting over the admin
// HTTP surface.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		ConnectionsAccepted:      m.ConnectionsAcceptedCount.Load(),
		ConnectionsClosed:        m.ConnectionsClosedCount.Load(),
		ConnectionsActive:        m.ConnectionsActiveCount.Load(),
		RoutesRegistered:         m.RoutesRegisteredCount.Load(),
		RoutesExpired:            m.RoutesExpiredCount.Load(),
		BytesSent:                m.BytesSentCount.Load(),
		BytesReceived:            m.BytesReceivedCount.Load(),
		NotificationsSent:        m.NotificationsSentCount.Load(),
		NotificationsDropped:     m.NotificationsDroppedCount.Load(),
		NotificationHandlesCount: m.NotificationHandlesCount.Load(),
		HealthChecksStarted:      m.HealthChecksStartedCount.Load(),
		HealthChecksSuccess:      m.HealthChecksSuccessCount.Load(),
		HealthChecksFailure:      m.HealthChecksFailureCount.Load(),
		DispatchCounts:           make(map[string]int64),
		DispatchErrors:           make(map[string]int64),
		ErrorsByCategory:         make(map[ErrorCategory]int64),
		ErrorsByOperation:        make(map[string]int64),
		AdsErrorsByCode:          make(map[uint32]int64),
	}

	for op, counter := range m.DispatchCounts {
		snapshot.DispatchCounts[op] = counter.Load()
	}

	for op, counter := range m.DispatchErrors {
		snapshot.DispatchErrors[op] = counter.Load()
	}

	for cat, counter := range m.ErrorsByCategory {
		snapshot.ErrorsByCategory[cat] = counter.Load()
	}

	for op, counter := range m.ErrorsByOperation {
		snapshot.ErrorsByOperation[op] = counter.Load()
	}

	for code, counter := range m.AdsErrorsByCode {
		snapshot.AdsErrorsByCode[code] = counter.Load()
	}

	return snapshot
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	ConnectionsAccepted      int64
	ConnectionsClosed        int64
	ConnectionsActive        int64
	RoutesRegistered         int64
	RoutesExpired            int64
	BytesSent                int64
	BytesReceived            int64
	NotificationsSent        int64
	NotificationsDropped     int64
	NotificationHandlesCount int64
	HealthChecksStarted      int64
	HealthChecksSuccess      int64
	HealthChecksFailure      int64
	DispatchCounts           map[string]int64
	DispatchErrors           map[string]int64
	ErrorsByCategory         map[ErrorCategory]int64
	ErrorsByOperation        map[string]int64
	AdsErrorsByCode          map[uint32]int64
}
