package service

import (
	"fmt"
	"sync"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/internal/symtab"
	"github.com/adsim/adsim/registry"

	adsim "github.com/adsim/adsim"
)

// Engine owns one virtual device's symbol table, typed memory, per-client
// handles, and device state, and executes ADS commands against them. A
// single mutex guards the whole symbol/memory store so that one ads.call
// (including every sub-request of a sum-up) is atomic relative to other
// calls on the same service.
type Engine struct {
	mu sync.Mutex

	ownAddr adscore.AmsAddr
	table   *symtab.Table
	memory  *symtab.Memory
	handles *symtab.Handles
	state   *stateCell

	autoCleanup bool

	logger  adsim.Logger
	metrics adsim.Metrics
}

// NewEngine builds an Engine from configuration: declares every configured
// symbol into the symbol table and grows the backing memory for it.
func NewEngine(cfg *Config, reg registry.Registry, logger adsim.Logger, metrics adsim.Metrics) (*Engine, error) {
	if reg == nil {
		reg = registry.NewMemory()
	}
	if logger == nil {
		logger = adsim.DefaultLogger
	}
	if metrics == nil {
		metrics = adsim.DefaultMetrics
	}

	addr, err := adscore.ParseAmsAddr(cfg.AmsAddr)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	e := &Engine{
		ownAddr:     addr,
		table:       symtab.NewTable(),
		memory:      symtab.NewMemory(),
		handles:     symtab.NewHandles(),
		state:       newStateCell(reg),
		autoCleanup: cfg.AutoCleanup,
		logger:      logger,
		metrics:     metrics,
	}

	offsets := make(map[uint32]uint32)
	for _, sym := range cfg.Symbols {
		dt, ok := adscore.ParseDataType(sym.Type)
		if !ok {
			return nil, fmt.Errorf("service: symbol %q: unknown type %q", sym.Name, sym.Type)
		}

		group := sym.IndexGroup
		if group == 0 {
			group = uint32(adscore.IndexGroupDefault)
		}
		if adscore.IndexGroup(group).Reserved() {
			return nil, fmt.Errorf("service: symbol %q: index group 0x%X is reserved for ADS system services", sym.Name, group)
		}

		arrayLen := sym.Size
		elems := arrayLen
		if elems == 0 {
			elems = 1
		}
		size := dt.Size() * elems

		offset := offsets[group]
		offsets[group] = offset + size

		e.table.Declare(symtab.Variable{
			Name:        sym.Name,
			Comment:     sym.Comment,
			DataType:    dt,
			IndexGroup:  group,
			IndexOffset: offset,
			Size:        size,
			ArrayLen:    arrayLen,
		})
		e.memory.Grow(group, offset, size)
	}

	return e, nil
}

// OwnAddr returns this service's AMS address.
func (e *Engine) OwnAddr() adscore.AmsAddr { return e.ownAddr }

// Table exposes the symbol table for the admin surface.
func (e *Engine) Table() *symtab.Table { return e.table }

// Handles exposes the handle table for the admin surface.
func (e *Engine) Handles() *symtab.Handles { return e.handles }

// StateGet returns the current device state, for the admin surface.
func (e *Engine) StateGet() adscore.AdsState { return e.state.Get() }

// StateSet sets and persists the device state.
func (e *Engine) StateSet(s adscore.AdsState) error { return e.state.Set(s) }

// DisconnectClient applies the configured handle-cleanup policy for a
// disconnected client.
func (e *Engine) DisconnectClient(client adscore.ClientId) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.autoCleanup {
		e.handles.DropClient(client)
	} else {
		e.handles.DropClientIfEmpty(client)
	}
}

// ReadVar reads a variable's current value by path (see symtab.Table.Resolve
// for path grammar), for the admin var.get operation.
func (e *Engine) ReadVar(path string) ([]byte, adscore.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, errCode := e.table.Resolve(path)
	if errCode != adscore.ErrNone {
		return nil, errCode
	}
	return e.memory.Read(resolved.IndexGroup, resolved.IndexOffset, resolved.Size)
}

// WriteVar writes a variable's value by path, for the admin var.set
// operation.
func (e *Engine) WriteVar(path string, data []byte) adscore.Error {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, errCode := e.table.Resolve(path)
	if errCode != adscore.ErrNone {
		return errCode
	}
	if uint32(len(data)) > resolved.Size {
		return adscore.ErrInvalidAlignment
	}
	return e.memory.Write(resolved.IndexGroup, resolved.IndexOffset, data)
}

// ListVars returns every declared variable, for the admin var.list
// operation.
func (e *Engine) ListVars() []symtab.Variable {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.All()
}
