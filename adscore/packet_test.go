package adscore

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func samplePacket() *Packet {
	return &Packet{
		DestNetID:  AmsNetId{1, 2, 3, 4, 5, 6},
		DestPort:   801,
		SrcNetID:   AmsNetId{10, 20, 30, 40, 50, 60},
		SrcPort:    32905,
		CommandID:  uint16(CommandRead),
		StateFlags: 0,
		ErrorCode:  0,
		InvokeID:   42,
		Data:       []byte{1, 2, 3, 4},
		ClientID:   "127.0.0.1:1234",
	}
}

func TestPacketMarshalUnmarshalRoundTrip(t *testing.T) {
	p := samplePacket()
	buf, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got Packet
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	if got.DestNetID != p.DestNetID || got.DestPort != p.DestPort {
		t.Errorf("dest addr mismatch: got %v:%d want %v:%d", got.DestNetID, got.DestPort, p.DestNetID, p.DestPort)
	}
	if got.SrcNetID != p.SrcNetID || got.SrcPort != p.SrcPort {
		t.Errorf("src addr mismatch: got %v:%d want %v:%d", got.SrcNetID, got.SrcPort, p.SrcNetID, p.SrcPort)
	}
	if got.CommandID != p.CommandID || got.InvokeID != p.InvokeID {
		t.Errorf("command/invoke mismatch: got %d/%d want %d/%d", got.CommandID, got.InvokeID, p.CommandID, p.InvokeID)
	}
	if !bytes.Equal(got.Data, p.Data) {
		t.Errorf("data mismatch: got %v want %v", got.Data, p.Data)
	}
	// ClientID is never transmitted on the wire.
	if got.ClientID != "" {
		t.Errorf("ClientID should not round-trip through the wire, got %q", got.ClientID)
	}
}

func TestPacketMarshalLength(t *testing.T) {
	p := samplePacket()
	buf, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	want := headerSize + bodySize + len(p.Data)
	if len(buf) != want {
		t.Errorf("frame length = %d, want %d", len(buf), want)
	}
}

func TestUnmarshalBinaryShortBuffer(t *testing.T) {
	err := (&Packet{}).UnmarshalBinary([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestUnmarshalBinaryUnknownAmsCommand(t *testing.T) {
	p := samplePacket()
	buf, _ := p.MarshalBinary()
	buf[0] = 0xFF // corrupt ams_cmd to a non-zero value

	err := (&Packet{}).UnmarshalBinary(buf)
	if err != ErrUnknownAmsCommand {
		t.Fatalf("got %v, want ErrUnknownAmsCommand", err)
	}
}

func TestUnmarshalBinaryInvalidLength(t *testing.T) {
	p := samplePacket()
	buf, _ := p.MarshalBinary()
	// declared length below the fixed 32-byte body minimum
	buf[2], buf[3], buf[4], buf[5] = 10, 0, 0, 0

	err := (&Packet{}).UnmarshalBinary(buf)
	if err != ErrInvalidAmsLength {
		t.Fatalf("got %v, want ErrInvalidAmsLength", err)
	}
}

func TestRouteBackIsInvolution(t *testing.T) {
	p := samplePacket()
	origDest, origSrc := p.DestAddr(), p.SrcAddr()

	p.RouteBack()
	if p.DestAddr() != origSrc || p.SrcAddr() != origDest {
		t.Fatalf("RouteBack did not swap addresses")
	}

	p.RouteBack()
	if p.DestAddr() != origDest || p.SrcAddr() != origSrc {
		t.Fatalf("RouteBack applied twice did not restore original addresses")
	}
}

func TestResponseSetsFlagAndClearsError(t *testing.T) {
	p := samplePacket()
	p.ErrorCode = uint32(ErrInternal)
	p.Response([]byte{9, 9})

	if !p.IsResponse() {
		t.Error("Response should set the response bit")
	}
	if p.ErrorCode != 0 {
		t.Errorf("Response should clear error code, got %d", p.ErrorCode)
	}
	if !bytes.Equal(p.Data, []byte{9, 9}) {
		t.Errorf("Response should set payload, got %v", p.Data)
	}
}

func TestResponseErrSetsFlagAndClearsPayload(t *testing.T) {
	p := samplePacket()
	p.ResponseErr(ErrSymbolNotFound)

	if !p.IsResponse() {
		t.Error("ResponseErr should set the response bit")
	}
	if p.ErrorCode != uint32(ErrSymbolNotFound) {
		t.Errorf("ResponseErr error code = %d, want %d", p.ErrorCode, ErrSymbolNotFound)
	}
	if p.Data != nil {
		t.Errorf("ResponseErr should clear payload, got %v", p.Data)
	}
}

func TestFrameLen(t *testing.T) {
	p := samplePacket()
	buf, _ := p.MarshalBinary()

	n, err := FrameLen(buf)
	if err != nil {
		t.Fatalf("FrameLen: %v", err)
	}
	if n != len(buf) {
		t.Errorf("FrameLen = %d, want %d", n, len(buf))
	}
}

func TestFrameLenShortHeader(t *testing.T) {
	_, err := FrameLen([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestReadWritePacketRoundTrip(t *testing.T) {
	p := samplePacket()

	var buf bytes.Buffer
	if err := WritePacket(context.Background(), &buf, p, 0); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	got, err := ReadPacket(context.Background(), &buf, time.Second)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if got.CommandID != p.CommandID || !bytes.Equal(got.Data, p.Data) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}
