// Package registry implements the simple key/value persistence abstraction
// used to carry device state across restarts (§6, "Persistent state").
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Registry is a key/value store for small JSON-serializable records. The
// service uses one record keyed "device_state" to persist the ADS device
// state across restarts.
type Registry interface {
	// Get unmarshals the record stored at key into dst. Returns false if no
	// record is stored at key.
	Get(key string, dst any) (bool, error)

	// Set marshals v and stores it at key.
	Set(key string, v any) error
}

// memoryRegistry is an in-memory Registry; records do not survive process
// restart. Useful for tests and for running without a configured
// persistence file.
type memoryRegistry struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an in-memory Registry.
func NewMemory() Registry {
	return &memoryRegistry{records: make(map[string][]byte)}
}

func (r *memoryRegistry) Get(key string, dst any) (bool, error) {
	r.mu.RLock()
	data, ok := r.records[key]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("registry: unmarshal %q: %w", key, err)
	}
	return true, nil
}

func (r *memoryRegistry) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("registry: marshal %q: %w", key, err)
	}
	r.mu.Lock()
	r.records[key] = data
	r.mu.Unlock()
	return nil
}

// fileRegistry is a Registry backed by a single JSON file on disk, holding
// every record. Each Set rewrites the whole file.
type fileRegistry struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a Registry backed by the JSON file at path. The file is
// created on first Set if it does not already exist; an existing file is
// read lazily on each Get/Set.
func NewFile(path string) Registry {
	return &fileRegistry{path: path}
}

func (r *fileRegistry) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", r.path, err)
	}
	records := make(map[string]json.RawMessage)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("registry: decode %s: %w", r.path, err)
		}
	}
	return records, nil
}

func (r *fileRegistry) Get(key string, dst any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return false, err
	}
	raw, ok := records[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("registry: unmarshal %q: %w", key, err)
	}
	return true, nil
}

func (r *fileRegistry) Set(key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("registry: marshal %q: %w", key, err)
	}
	records[key] = data

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: encode %s: %w", r.path, err)
	}
	if err := os.WriteFile(r.path, out, 0o644); err != nil {
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	return nil
}
