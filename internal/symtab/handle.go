package symtab

import (
	"sync"

	"github.com/adsim/adsim/adscore"
)

// Handle is a per-client symbol handle: an id bound to a memory window.
// Equality used for deduplication ignores ID and compares only
// (IndexGroup, IndexOffset, Size).
type Handle struct {
	ID          uint32
	IndexGroup  uint32
	IndexOffset uint32
	Size        uint32
}

func (h Handle) sameWindow(other Handle) bool {
	return h.IndexGroup == other.IndexGroup &&
		h.IndexOffset == other.IndexOffset &&
		h.Size == other.Size
}

// Handles is the per-client handle table: ClientId -> {handle_id ->
// Handle}. Handle ids are allocated per client in [1, MaxHandleID], lowest
// free id first.
type Handles struct {
	mu      sync.Mutex
	clients map[adscore.ClientId]map[uint32]Handle
}

// NewHandles creates an empty handle table.
func NewHandles() *Handles {
	return &Handles{clients: make(map[adscore.ClientId]map[uint32]Handle)}
}

// Acquire returns the existing handle for (client, group, offset, size) if
// one exists, or allocates a new one with the lowest free id. Handles are
// not shared between clients.
func (h *Handles) Acquire(client adscore.ClientId, group, offset, size uint32) (Handle, adscore.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	want := Handle{IndexGroup: group, IndexOffset: offset, Size: size}

	set, ok := h.clients[client]
	if !ok {
		set = make(map[uint32]Handle)
		h.clients[client] = set
	}

	for _, existing := range set {
		if existing.sameWindow(want) {
			return existing, adscore.ErrNone
		}
	}

	for id := uint32(1); id <= adscore.MaxHandleID; id++ {
		if _, taken := set[id]; !taken {
			want.ID = id
			set[id] = want
			return want, adscore.ErrNone
		}
	}
	return Handle{}, adscore.ErrNoFreeSemaphores
}

// Resolve looks up a handle by id for a client.
func (h *Handles) Resolve(client adscore.ClientId, id uint32) (Handle, adscore.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client]
	if !ok {
		return Handle{}, adscore.ErrSymbolNotFound
	}
	handle, ok := set[id]
	if !ok {
		return Handle{}, adscore.ErrSymbolNotFound
	}
	return handle, adscore.ErrNone
}

// Release removes a handle for a client. Silent (no error) if absent.
func (h *Handles) Release(client adscore.ClientId, id uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client]
	if !ok {
		return
	}
	delete(set, id)
}

// DropClient removes every handle held by a client (auto_cleanup policy on
// disconnect).
func (h *Handles) DropClient(client adscore.ClientId) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// DropClientIfEmpty removes the client's slot only if it currently holds no
// handles (the non-auto_cleanup disconnect policy).
func (h *Handles) DropClientIfEmpty(client adscore.ClientId) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[client]; ok && len(set) == 0 {
		delete(h.clients, client)
	}
}

// List returns every client's handles, for the handle.list admin operation.
func (h *Handles) List() map[adscore.ClientId][]Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[adscore.ClientId][]Handle, len(h.clients))
	for client, set := range h.clients {
		handles := make([]Handle, 0, len(set))
		for _, handle := range set {
			handles = append(handles, handle)
		}
		out[client] = handles
	}
	return out
}
