package bus

import (
	"bytes"
	"testing"

	"github.com/adsim/adsim/adscore"
)

func TestFrameCallSplitCallRoundTrip(t *testing.T) {
	p := &adscore.Packet{
		DestNetID: adscore.AmsNetId{1, 2, 3, 4, 5, 6},
		DestPort:  801,
		CommandID: 2,
		Data:      []byte{9, 8, 7},
	}
	packetBytes, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	framed := FrameCall(packetBytes, adscore.ClientId("127.0.0.1:5000"))

	gotPacket, gotClient, err := SplitCall(framed)
	if err != nil {
		t.Fatalf("SplitCall: %v", err)
	}
	if !bytes.Equal(gotPacket, packetBytes) {
		t.Errorf("SplitCall packet mismatch")
	}
	if gotClient != "127.0.0.1:5000" {
		t.Errorf("SplitCall client = %q", gotClient)
	}
}

func TestSplitCallShortPayload(t *testing.T) {
	if _, _, err := SplitCall([]byte{1, 2}); err == nil {
		t.Fatal("expected error for too-short payload")
	}
}
