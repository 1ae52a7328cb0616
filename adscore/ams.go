package adscore

import (
	"fmt"
	"strconv"
	"strings"
)

// AmsNetId is the 6-octet AMS network address, textual form "a.b.c.d.e.f".
type AmsNetId [6]byte

// ParseAmsNetID parses the dot-separated textual form of an AmsNetId.
func ParseAmsNetID(s string) (AmsNetId, error) {
	var id AmsNetId
	parts := strings.Split(s, ".")
	if len(parts) != 6 {
		return id, fmt.Errorf("adscore: invalid ams net id %q: want 6 octets, got %d", s, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return id, fmt.Errorf("adscore: invalid ams net id %q: octet %d: %w", s, i, err)
		}
		id[i] = byte(v)
	}
	return id, nil
}

func (id AmsNetId) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d.%d", id[0], id[1], id[2], id[3], id[4], id[5])
}

// AmsAddr is an AMS network address plus port, textual form "a.b.c.d.e.f:port".
type AmsAddr struct {
	NetID AmsNetId
	Port  uint16
}

// NewAmsAddr constructs an AmsAddr from its parts.
func NewAmsAddr(netID AmsNetId, port uint16) AmsAddr {
	return AmsAddr{NetID: netID, Port: port}
}

// ParseAmsAddr parses the "a.b.c.d.e.f:port" textual form.
func ParseAmsAddr(s string) (AmsAddr, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return AmsAddr{}, fmt.Errorf("adscore: invalid ams addr %q: missing port", s)
	}
	netID, err := ParseAmsNetID(s[:i])
	if err != nil {
		return AmsAddr{}, err
	}
	port, err := strconv.ParseUint(s[i+1:], 10, 16)
	if err != nil {
		return AmsAddr{}, fmt.Errorf("adscore: invalid ams addr %q: port: %w", s, err)
	}
	return AmsAddr{NetID: netID, Port: uint16(port)}, nil
}

func (a AmsAddr) String() string {
	return fmt.Sprintf("%s:%d", a.NetID, a.Port)
}

// ClientId identifies the TCP peer that originated a request, normally a
// net.Addr.String() value. It is stamped onto each packet entering the port
// and preserved through to the owning service so per-client state (handles)
// can be scoped and reclaimed on disconnect.
type ClientId string
