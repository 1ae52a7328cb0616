package service

import (
	"sync"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/registry"
)

// deviceStateRecord is the JSON shape persisted under the "device_state"
// registry key.
type deviceStateRecord struct {
	State adscore.AdsState `json:"state"`
}

// stateCell is the mutex-protected device state, backed by a persistence
// registry so it survives restarts.
type stateCell struct {
	mu  sync.Mutex
	reg registry.Registry
	cur adscore.AdsState
}

func newStateCell(reg registry.Registry) *stateCell {
	c := &stateCell{reg: reg, cur: adscore.StateIdle}
	var rec deviceStateRecord
	if ok, err := reg.Get("device_state", &rec); err == nil && ok {
		c.cur = rec.State
	}
	return c
}

// Get returns the current device state.
func (c *stateCell) Get() adscore.AdsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Set updates and persists the device state.
func (c *stateCell) Set(s adscore.AdsState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = s
	return c.reg.Set("device_state", deviceStateRecord{State: s})
}
