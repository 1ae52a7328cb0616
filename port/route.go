package port

import (
	"sort"
	"sync"
	"time"

	"github.com/adsim/adsim/adscore"
)

// RouteEntry binds an AMS address to the identity of the service that owns
// it, plus the last time that service refreshed the entry.
type RouteEntry struct {
	Addr       adscore.AmsAddr
	ServiceID  string
	LastAlive  time.Time
}

// RouteTable is the port's dynamic route table: AmsAddr -> {service
// identity, last_alive}. A route is created or refreshed by route.ping and
// removed by route.unregister or liveness expiry.
type RouteTable struct {
	mu        sync.RWMutex
	entries   map[adscore.AmsAddr]RouteEntry
	liveness  time.Duration
}

// NewRouteTable creates an empty route table with the given liveness
// window.
func NewRouteTable(liveness time.Duration) *RouteTable {
	return &RouteTable{
		entries:  make(map[adscore.AmsAddr]RouteEntry),
		liveness: liveness,
	}
}

// Ping inserts a route if absent, or refreshes last_alive if present.
// Idempotent.
func (t *RouteTable) Ping(addr adscore.AmsAddr, serviceID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[addr] = RouteEntry{Addr: addr, ServiceID: serviceID, LastAlive: now}
}

// Unregister removes a route entry.
func (t *RouteTable) Unregister(addr adscore.AmsAddr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, addr)
}

// Lookup returns the route entry for addr, if present.
func (t *RouteTable) Lookup(addr adscore.AmsAddr) (RouteEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[addr]
	return e, ok
}

// List returns every route entry sorted by AMS address.
func (t *RouteTable) List() []RouteEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]RouteEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Addr.String() < out[j].Addr.String()
	})
	return out
}

// Clean removes every entry whose last_alive is older than the liveness
// window relative to now. Returns the number of entries removed.
func (t *RouteTable) Clean(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for addr, e := range t.entries {
		if now.Sub(e.LastAlive) > t.liveness {
			delete(t.entries, addr)
			removed++
		}
	}
	return removed
}

// RunCleaner scans the route table every interval until done is closed,
// removing expired entries. onExpire, if non-nil, is called once per clean
// pass with the number of entries removed (for metrics).
func (t *RouteTable) RunCleaner(done <-chan struct{}, interval time.Duration, onExpire func(count int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			removed := t.Clean(now)
			if removed > 0 && onExpire != nil {
				onExpire(removed)
			}
		}
	}
}
