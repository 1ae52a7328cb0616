package bus

import "github.com/adsim/adsim/adscore"

// FrameCall appends a ClientID to a marshaled AMS packet so it can travel
// as a single bus.Call payload: the packet is self-describing (its own
// header carries its length), so the receiver can split the two back apart
// with SplitCall.
func FrameCall(packetBytes []byte, clientID adscore.ClientId) []byte {
	return append(append([]byte(nil), packetBytes...), []byte(clientID)...)
}

// SplitCall reverses FrameCall.
func SplitCall(payload []byte) (packetBytes []byte, clientID adscore.ClientId, err error) {
	n, err := adscore.FrameLen(payload)
	if err != nil {
		return nil, "", err
	}
	if n > len(payload) {
		return nil, "", adscore.ErrInvalidAmsLength
	}
	return payload[:n], adscore.ClientId(payload[n:]), nil
}
