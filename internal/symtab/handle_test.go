package symtab

import (
	"testing"

	"github.com/adsim/adsim/adscore"
)

func TestAcquireAllocatesLowestFreeID(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")

	h1, errCode := h.Acquire(client, 0x4040, 0, 4)
	if errCode != adscore.ErrNone {
		t.Fatalf("Acquire: %v", errCode)
	}
	if h1.ID != 1 {
		t.Errorf("first handle id = %d, want 1", h1.ID)
	}

	h2, _ := h.Acquire(client, 0x4040, 4, 4)
	if h2.ID != 2 {
		t.Errorf("second handle id = %d, want 2", h2.ID)
	}

	h.Release(client, 1)
	h3, _ := h.Acquire(client, 0x4040, 8, 4)
	if h3.ID != 1 {
		t.Errorf("handle id after releasing 1 = %d, want 1 (lowest free)", h3.ID)
	}
}

func TestAcquireDedupesSameWindow(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")

	h1, _ := h.Acquire(client, 0x4040, 0, 4)
	h2, _ := h.Acquire(client, 0x4040, 0, 4)

	if h1.ID != h2.ID {
		t.Errorf("requesting same (group,offset,size) twice should return same id, got %d and %d", h1.ID, h2.ID)
	}
}

func TestAcquireHandlesNotSharedBetweenClients(t *testing.T) {
	h := NewHandles()
	a, _ := h.Acquire(adscore.ClientId("alice"), 0x4040, 0, 4)
	b, _ := h.Acquire(adscore.ClientId("bob"), 0x4040, 0, 4)

	if a.ID != 1 || b.ID != 1 {
		t.Errorf("each client should allocate independently starting at 1, got alice=%d bob=%d", a.ID, b.ID)
	}

	if _, errCode := h.Resolve(adscore.ClientId("bob"), a.ID); errCode != adscore.ErrNone {
		// bob also has id 1 bound to the same window coincidentally; this is
		// expected since ids are per-client namespaces.
		t.Fatalf("bob should resolve its own id 1: %v", errCode)
	}
}

func TestResolveUnknownHandle(t *testing.T) {
	h := NewHandles()
	if _, errCode := h.Resolve(adscore.ClientId("c1"), 99); errCode != adscore.ErrSymbolNotFound {
		t.Errorf("resolving an unknown handle: got %v, want ErrSymbolNotFound", errCode)
	}
}

func TestResolveAfterReleaseReturnsSymbolNotFound(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")
	handle, errCode := h.Acquire(client, 0x4040, 0, 4)
	if errCode != adscore.ErrNone {
		t.Fatalf("Acquire: %v", errCode)
	}

	h.Release(client, handle.ID)

	if _, errCode := h.Resolve(client, handle.ID); errCode != adscore.ErrSymbolNotFound {
		t.Errorf("Resolve after Release: got %v, want ErrSymbolNotFound", errCode)
	}
}

func TestReleaseUnknownHandleIsSilent(t *testing.T) {
	h := NewHandles()
	h.Release(adscore.ClientId("c1"), 99) // must not panic
}

func TestDropClientRemovesAllHandles(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")
	h.Acquire(client, 0x4040, 0, 4)
	h.Acquire(client, 0x4040, 4, 4)

	h.DropClient(client)

	all := h.List()
	if handles, ok := all[client]; ok && len(handles) > 0 {
		t.Errorf("DropClient should remove all handles, got %v", handles)
	}
}

func TestDropClientIfEmptyOnlyDropsWhenEmpty(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")
	handle, _ := h.Acquire(client, 0x4040, 0, 4)

	h.DropClientIfEmpty(client)
	if _, errCode := h.Resolve(client, handle.ID); errCode != adscore.ErrNone {
		t.Error("DropClientIfEmpty should not drop a client with live handles")
	}

	h.Release(client, handle.ID)
	h.DropClientIfEmpty(client)

	all := h.List()
	if _, ok := all[client]; ok {
		t.Error("DropClientIfEmpty should drop a client with zero handles")
	}
}

// TestAcquireAllocatesUniqueIDsInRange exercises a narrow slice of the
// allocator (driving it to MaxHandleID == 0xFFFFF is too slow for a unit
// test) to check every allocated id is unique and within [1, MaxHandleID].
func TestAcquireAllocatesUniqueIDsInRange(t *testing.T) {
	h := NewHandles()
	client := adscore.ClientId("c1")
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		hd, errCode := h.Acquire(client, 0x4040, uint32(i)*4, 4)
		if errCode != adscore.ErrNone {
			t.Fatalf("Acquire #%d: %v", i, errCode)
		}
		if hd.ID < 1 || hd.ID > adscore.MaxHandleID {
			t.Fatalf("handle id %d out of range", hd.ID)
		}
		if seen[hd.ID] {
			t.Fatalf("duplicate handle id %d", hd.ID)
		}
		seen[hd.ID] = true
	}
}
