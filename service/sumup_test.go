package service

import (
	"encoding/binary"
	"testing"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/registry"
)

func sumupEngine(t *testing.T) *Engine {
	cfg := &Config{
		AmsAddr:     "1.2.3.4.5.6:851",
		AutoCleanup: true,
		Symbols: []SymbolConfig{
			{Name: "MAIN.a", Type: "INT32"},
			{Name: "MAIN.b", Type: "INT32"},
		},
	}
	e, err := NewEngine(cfg, registry.NewMemory(), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.StateSet(adscore.StateRun)
	return e
}

func sumupReadReqHeader(group, offset, length uint32) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], group)
	binary.LittleEndian.PutUint32(buf[4:8], offset)
	binary.LittleEndian.PutUint32(buf[8:12], length)
	return buf
}

func TestSumupReadConcatenatesErrorAndData(t *testing.T) {
	e := sumupEngine(t)
	vars := e.ListVars()
	e.WriteVar("MAIN.a", []byte{1, 1, 1, 1})
	e.WriteVar("MAIN.b", []byte{2, 2, 2, 2})

	var payload []byte
	payload = append(payload, sumupReadReqHeader(vars[0].IndexGroup, vars[0].IndexOffset, vars[0].Size)...)
	payload = append(payload, sumupReadReqHeader(vars[1].IndexGroup, vars[1].IndexOffset, vars[1].Size)...)

	data, errCode := e.sumupRead("peer:1", 2, payload, false)
	if errCode != adscore.ErrNone {
		t.Fatalf("sumupRead: %v", errCode)
	}

	// Both 4-byte error codes first, then each entry's data in order.
	err0 := adscore.Error(binary.LittleEndian.Uint32(data[0:4]))
	if err0 != adscore.ErrNone {
		t.Fatalf("entry 0 err = %v", err0)
	}
	got0 := data[8:12]
	if string(got0) != "\x01\x01\x01\x01" {
		t.Errorf("entry 0 data = %v", got0)
	}
	err1 := adscore.Error(binary.LittleEndian.Uint32(data[4:8]))
	if err1 != adscore.ErrNone {
		t.Fatalf("entry 1 err = %v", err1)
	}
	got1 := data[12:16]
	if string(got1) != "\x02\x02\x02\x02" {
		t.Errorf("entry 1 data = %v", got1)
	}
}

func TestSumupReadExEmitsHeadersThenData(t *testing.T) {
	e := sumupEngine(t)
	vars := e.ListVars()
	e.WriteVar("MAIN.a", []byte{1, 1, 1, 1})
	e.WriteVar("MAIN.b", []byte{2, 2, 2, 2})

	var payload []byte
	payload = append(payload, sumupReadReqHeader(vars[0].IndexGroup, vars[0].IndexOffset, vars[0].Size)...)
	payload = append(payload, sumupReadReqHeader(vars[1].IndexGroup, vars[1].IndexOffset, vars[1].Size)...)

	data, errCode := e.sumupRead("peer:1", 2, payload, true)
	if errCode != adscore.ErrNone {
		t.Fatalf("sumupRead: %v", errCode)
	}

	// Two 8-byte headers {err, returned_len}, then concatenated data.
	if len(data) != 16+8 {
		t.Fatalf("len(data) = %d, want %d", len(data), 16+8)
	}
	err0 := adscore.Error(binary.LittleEndian.Uint32(data[0:4]))
	len0 := binary.LittleEndian.Uint32(data[4:8])
	err1 := adscore.Error(binary.LittleEndian.Uint32(data[8:12]))
	len1 := binary.LittleEndian.Uint32(data[12:16])
	if err0 != adscore.ErrNone || err1 != adscore.ErrNone || len0 != 4 || len1 != 4 {
		t.Fatalf("headers = %v %v %v %v", err0, len0, err1, len1)
	}
	body := data[16:]
	if string(body[0:4]) != "\x01\x01\x01\x01" || string(body[4:8]) != "\x02\x02\x02\x02" {
		t.Errorf("body = %v", body)
	}
}

func TestSumupReadRejectsOversizeCountButAllowsZero(t *testing.T) {
	e := sumupEngine(t)
	if _, errCode := e.sumupRead("peer:1", adscore.SumMax+1, nil, false); errCode != adscore.ErrInvalidAmsLength {
		t.Errorf("count>SumMax: got %v, want ErrInvalidAmsLength", errCode)
	}

	// N=0 is a legal no-op (no stated lower bound in the grounding source
	// or the spec), returning a structurally-empty OK result.
	data, errCode := e.sumupRead("peer:1", 0, nil, false)
	if errCode != adscore.ErrNone {
		t.Errorf("count=0: got %v, want ErrNone", errCode)
	}
	if len(data) != 0 {
		t.Errorf("count=0: got %d bytes, want empty result", len(data))
	}
}

func TestSumupWriteAllowsZeroCount(t *testing.T) {
	e := sumupEngine(t)
	out, errCode := e.sumupWrite("peer:1", 0, nil)
	if errCode != adscore.ErrNone {
		t.Errorf("count=0: got %v, want ErrNone", errCode)
	}
	if len(out) != 0 {
		t.Errorf("count=0: got %d bytes, want empty result", len(out))
	}
}

func TestSumupReadWriteAllowsZeroCount(t *testing.T) {
	e := sumupEngine(t)
	out, errCode := e.sumupReadWrite("peer:1", 0, nil)
	if errCode != adscore.ErrNone {
		t.Errorf("count=0: got %v, want ErrNone", errCode)
	}
	if len(out) != 0 {
		t.Errorf("count=0: got %d bytes, want empty result", len(out))
	}
}

func TestSumupReadAcceptsExactlySumMax(t *testing.T) {
	e := sumupEngine(t)
	vars := e.ListVars()

	var payload []byte
	for i := 0; i < adscore.SumMax; i++ {
		payload = append(payload, sumupReadReqHeader(vars[0].IndexGroup, vars[0].IndexOffset, vars[0].Size)...)
	}

	data, errCode := e.sumupRead("peer:1", adscore.SumMax, payload, false)
	if errCode != adscore.ErrNone {
		t.Fatalf("count=SumMax should succeed, got %v", errCode)
	}
	if len(data) != adscore.SumMax*(4+int(vars[0].Size)) {
		t.Errorf("len(data) = %d, want %d", len(data), adscore.SumMax*(4+int(vars[0].Size)))
	}
}

func TestSumupWriteRespondsWithOneErrorCodePerEntry(t *testing.T) {
	e := sumupEngine(t)
	vars := e.ListVars()

	headers := append(
		sumupReadReqHeader(vars[0].IndexGroup, vars[0].IndexOffset, 4),
		sumupReadReqHeader(vars[1].IndexGroup, vars[1].IndexOffset, 4)...,
	)
	data := append([]byte{9, 9, 9, 9}, []byte{8, 8, 8, 8}...)
	payload := append(headers, data...)

	out, errCode := e.sumupWrite("peer:1", 2, payload)
	if errCode != adscore.ErrNone {
		t.Fatalf("sumupWrite: %v", errCode)
	}
	if len(out) != 8 {
		t.Fatalf("len(out) = %d, want 8", len(out))
	}
	err0 := adscore.Error(binary.LittleEndian.Uint32(out[0:4]))
	err1 := adscore.Error(binary.LittleEndian.Uint32(out[4:8]))
	if err0 != adscore.ErrNone || err1 != adscore.ErrNone {
		t.Fatalf("err0=%v err1=%v", err0, err1)
	}

	got, _ := e.ReadVar("MAIN.a")
	if string(got) != "\x09\x09\x09\x09" {
		t.Errorf("MAIN.a = %v", got)
	}
}

func TestSumupReadWriteRejectsNestedSumup(t *testing.T) {
	e := sumupEngine(t)
	// A sub-request inside SumupReadWrite targeting IndexGroupSumupReadWrite
	// itself must be rejected since each sub-request runs with
	// allowSumup=false; the rejection surfaces as that sub-request's own
	// embedded error code, not as the outer call's error.
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], uint32(adscore.IndexGroupSumupReadWrite))

	out, errCode := e.sumupReadWrite("peer:1", 1, header)
	if errCode != adscore.ErrNone {
		t.Fatalf("sumupReadWrite: %v", errCode)
	}
	subErr := adscore.Error(binary.LittleEndian.Uint32(out[0:4]))
	if subErr != adscore.ErrInvalidIndexGroup {
		t.Errorf("nested sumup sub-request errCode = %v, want ErrInvalidIndexGroup", subErr)
	}
}

func TestSumupReadWriteSymHndbynameSubRequest(t *testing.T) {
	e := sumupEngine(t)

	name := []byte("MAIN.a\x00")
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], uint32(adscore.IndexGroupSymHndbyname))
	binary.LittleEndian.PutUint32(header[8:12], 4)
	binary.LittleEndian.PutUint32(header[12:16], uint32(len(name)))
	payload := append(header, name...)

	out, errCode := e.sumupReadWrite("peer:1", 1, payload)
	if errCode != adscore.ErrNone {
		t.Fatalf("sumupReadWrite: %v", errCode)
	}
	subErr := adscore.Error(binary.LittleEndian.Uint32(out[0:4]))
	subLen := binary.LittleEndian.Uint32(out[4:8])
	if subErr != adscore.ErrNone || subLen != 4 {
		t.Fatalf("subErr=%v subLen=%d", subErr, subLen)
	}
}
