package symtab

import (
	"sync"

	"github.com/adsim/adsim/adscore"
)

// Memory is the typed memory model: a mapping from index-group id to a
// contiguous, zero-initialized, growable byte buffer. A variable is a
// window [index_offset, index_offset+size) inside its group's buffer.
type Memory struct {
	mu     sync.Mutex
	groups map[uint32][]byte
}

// NewMemory creates an empty memory model.
func NewMemory() *Memory {
	return &Memory{groups: make(map[uint32][]byte)}
}

// Grow ensures group has at least offset+size bytes, zero-filling any new
// space. Called while declaring symbols at service start.
func (m *Memory) Grow(group uint32, offset, size uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.growLocked(group, offset, size)
}

func (m *Memory) growLocked(group uint32, offset, size uint32) {
	need := int(offset) + int(size)
	buf := m.groups[group]
	if len(buf) < need {
		grown := make([]byte, need)
		copy(grown, buf)
		m.groups[group] = grown
	}
}

// Read copies size bytes at offset from group into a new slice.
// ErrInvalidIndexOffset if the window falls outside the group's buffer.
func (m *Memory) Read(group uint32, offset, size uint32) ([]byte, adscore.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.groups[group]
	if !ok {
		return nil, adscore.ErrInvalidIndexGroup
	}
	end := int(offset) + int(size)
	if int(offset) < 0 || end > len(buf) {
		return nil, adscore.ErrInvalidIndexOffset
	}
	out := make([]byte, size)
	copy(out, buf[offset:end])
	return out, adscore.ErrNone
}

// Write copies data into group at offset. It never grows the buffer (a
// group is only known, and sized, once at least one symbol has declared it
// via Grow). ErrInvalidIndexOffset when the window extends past the group's
// current length, ErrInvalidIndexGroup on an unknown group.
func (m *Memory) Write(group uint32, offset uint32, data []byte) adscore.Error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.groups[group]
	if !ok {
		return adscore.ErrInvalidIndexGroup
	}
	end := int(offset) + len(data)
	if end > len(buf) {
		return adscore.ErrInvalidIndexOffset
	}
	copy(buf[offset:end], data)
	return adscore.ErrNone
}

// HasGroup reports whether the group has ever had a symbol declared in it.
func (m *Memory) HasGroup(group uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.groups[group]
	return ok
}
