package registry

import (
	"path/filepath"
	"testing"
)

type record struct {
	State uint16 `json:"state"`
}

func testRegistries(t *testing.T) map[string]Registry {
	dir := t.TempDir()
	return map[string]Registry{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, "registry.json")),
	}
}

func TestGetMissingKeyReturnsFalse(t *testing.T) {
	for name, reg := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			var r record
			ok, err := reg.Get("device_state", &r)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok {
				t.Error("Get on an empty registry should return false")
			}
		})
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	for name, reg := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			want := record{State: 5}
			if err := reg.Set("device_state", want); err != nil {
				t.Fatalf("Set: %v", err)
			}

			var got record
			ok, err := reg.Get("device_state", &got)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !ok {
				t.Fatal("Get should find a value after Set")
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestSetOverwritesPriorValue(t *testing.T) {
	for name, reg := range testRegistries(t) {
		t.Run(name, func(t *testing.T) {
			reg.Set("device_state", record{State: 1})
			reg.Set("device_state", record{State: 2})

			var got record
			reg.Get("device_state", &got)
			if got.State != 2 {
				t.Errorf("got State=%d, want 2", got.State)
			}
		})
	}
}

func TestFileRegistryPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")

	first := NewFile(path)
	if err := first.Set("device_state", record{State: 7}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := NewFile(path)
	var got record
	ok, err := second.Get("device_state", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got.State != 7 {
		t.Errorf("second instance should see first's write, got ok=%v record=%+v", ok, got)
	}
}

func TestFileRegistryMultipleKeys(t *testing.T) {
	dir := t.TempDir()
	reg := NewFile(filepath.Join(dir, "registry.json"))

	reg.Set("a", record{State: 1})
	reg.Set("b", record{State: 2})

	var a, b record
	reg.Get("a", &a)
	reg.Get("b", &b)
	if a.State != 1 || b.State != 2 {
		t.Errorf("a=%+v b=%+v", a, b)
	}
}
