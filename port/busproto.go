package port

import (
	"encoding/json"
	"fmt"

	"github.com/adsim/adsim/adscore"
)

// Bus method names exposed by the port.
const (
	MethodRoutePing       = "route.ping"
	MethodRouteUnregister = "route.unregister"
	MethodList            = "list"
)

// Topic used to fan out a disconnected client's id to subscribed services.
func DisconnectTopic(portServiceID string) string {
	return "SVE/" + portServiceID + "/disconnect"
}

// route.ping/route.unregister payloads are encoded as compact fixed-width
// fields (6-byte net id, 2-byte little-endian port) followed by the raw
// service id bytes, rather than JSON, since these are hot-path calls made
// every 5 seconds by every live service.
func encodeAddrAndID(addr adscore.AmsAddr, id string) []byte {
	netID := addr.NetID
	buf := make([]byte, 0, 6+2+1+len(id))
	buf = append(buf, netID[:]...)
	buf = append(buf, byte(addr.Port), byte(addr.Port>>8))
	buf = append(buf, id...)
	return buf
}

func decodeAddrAndID(data []byte) (adscore.AmsAddr, string, error) {
	if len(data) < 8 {
		return adscore.AmsAddr{}, "", fmt.Errorf("port: short route payload: %d bytes", len(data))
	}
	var netID adscore.AmsNetId
	copy(netID[:], data[0:6])
	port := uint16(data[6]) | uint16(data[7])<<8
	id := string(data[8:])
	return adscore.AmsAddr{NetID: netID, Port: port}, id, nil
}

// EncodeRoutePing encodes a route.ping(AmsAddr, serviceID) call payload.
func EncodeRoutePing(addr adscore.AmsAddr, serviceID string) []byte {
	return encodeAddrAndID(addr, serviceID)
}

// DecodeRoutePing decodes a route.ping call payload.
func DecodeRoutePing(data []byte) (adscore.AmsAddr, string, error) {
	return decodeAddrAndID(data)
}

// EncodeRouteUnregister encodes a route.unregister(AmsAddr) call payload.
// The service id is unused on unregister but kept so the wire shape is
// shared with route.ping.
func EncodeRouteUnregister(addr adscore.AmsAddr) []byte {
	return encodeAddrAndID(addr, "")
}

// DecodeRouteUnregister decodes a route.unregister call payload.
func DecodeRouteUnregister(data []byte) (adscore.AmsAddr, error) {
	addr, _, err := decodeAddrAndID(data)
	return addr, err
}

// RouteListEntry is one entry of the list() admin query response.
type RouteListEntry struct {
	AmsAddr   string `json:"ams_addr"`
	ServiceID string `json:"service_id"`
}

// EncodeList JSON-encodes the route list for the admin list() bus method.
func EncodeList(entries []RouteEntry) []byte {
	out := make([]RouteListEntry, len(entries))
	for i, e := range entries {
		out[i] = RouteListEntry{AmsAddr: e.Addr.String(), ServiceID: e.ServiceID}
	}
	data, _ := json.Marshal(out)
	return data
}
