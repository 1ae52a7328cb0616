package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/bus"
	"github.com/adsim/adsim/port"
	"github.com/adsim/adsim/registry"
)

func testServer(t *testing.T) (*Server, *bus.Bus) {
	cfg := &Config{
		AmsAddr:          "1.2.3.4.5.6:851",
		AutoCleanup:      true,
		RoutePingSeconds: 5,
		Symbols: []SymbolConfig{
			{Name: "MAIN.counter", Type: "INT32"},
		},
	}
	engine, err := NewEngine(cfg, registry.NewMemory(), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.StateSet(adscore.StateRun)

	b := bus.New(nil)
	s := NewServer(cfg, engine, b, "svc-1", "port-1")
	return s, b
}

func TestServerHandleCallDispatchesPacket(t *testing.T) {
	s, b := testServer(t)

	req := &adscore.Packet{
		DestNetID: s.engine.OwnAddr().NetID,
		DestPort:  s.engine.OwnAddr().Port,
		CommandID: uint16(adscore.CommandDevInfo),
	}
	packetBytes, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	framed := bus.FrameCall(packetBytes, adscore.ClientId("peer:1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	respBytes, err := b.Call(ctx, "ads.call.svc-1", framed)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	var reply adscore.Packet
	if err := reply.UnmarshalBinary(respBytes); err != nil {
		t.Fatalf("UnmarshalBinary reply: %v", err)
	}
	if reply.Command() != adscore.CommandDevInfo {
		t.Errorf("reply command = %v", reply.Command())
	}
}

func TestServerAdminVarGetSetRoundTrip(t *testing.T) {
	_, b := testServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	setReq, _ := json.Marshal(varSetRequest{Path: "MAIN.counter", DataHex: "01020304"})
	if _, err := b.Call(ctx, "svc-1.var.set", setReq); err != nil {
		t.Fatalf("var.set: %v", err)
	}

	getReq, _ := json.Marshal(varGetRequest{Path: "MAIN.counter"})
	respBytes, err := b.Call(ctx, "svc-1.var.get", getReq)
	if err != nil {
		t.Fatalf("var.get: %v", err)
	}
	var resp varGetResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.DataHex != "01020304" {
		t.Errorf("DataHex = %q, want 01020304", resp.DataHex)
	}
}

func TestServerAdminVarListIncludesDeclaredSymbol(t *testing.T) {
	_, b := testServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	respBytes, err := b.Call(ctx, "svc-1.var.list", nil)
	if err != nil {
		t.Fatalf("var.list: %v", err)
	}
	var entries []varListEntry
	if err := json.Unmarshal(respBytes, &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "MAIN.counter" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestServerAdminStateGetSet(t *testing.T) {
	_, b := testServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	setReq, _ := json.Marshal(stateSetRequest{Code: uint16(adscore.StateStop)})
	if _, err := b.Call(ctx, "svc-1.state.set", setReq); err != nil {
		t.Fatalf("state.set: %v", err)
	}

	respBytes, err := b.Call(ctx, "svc-1.state.get", nil)
	if err != nil {
		t.Fatalf("state.get: %v", err)
	}
	var resp stateResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Code != uint16(adscore.StateStop) {
		t.Errorf("Code = %d, want %d", resp.Code, uint16(adscore.StateStop))
	}
}

func TestServerHandleDisconnectDropsHandles(t *testing.T) {
	s, b := testServer(t)

	client := adscore.ClientId("peer:1")
	vars := s.engine.ListVars()
	handle, errCode := s.engine.handles.Acquire(client, vars[0].IndexGroup, vars[0].IndexOffset, vars[0].Size)
	if errCode != adscore.ErrNone {
		t.Fatalf("Acquire: %v", errCode)
	}

	b.Publish(port.DisconnectTopic("port-1"), []byte(client))
	// Publish fans out asynchronously; give the subscriber goroutine a
	// moment to run.
	time.Sleep(50 * time.Millisecond)

	if _, errCode := s.engine.handles.Resolve(client, handle.ID); errCode == adscore.ErrNone {
		t.Error("handle should be dropped after the disconnect topic fires")
	}
}
