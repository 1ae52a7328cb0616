package adscore

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// headerSize is the fixed 6-byte AMS/TCP frame header: ams_cmd + length.
const headerSize = 6

// bodySize is the fixed 32-byte AMS packet body preceding the payload.
const bodySize = 32

// Packet is a decoded AMS packet: the 32-byte fixed body plus its variable
// payload. The 6-byte ams_cmd/length frame header is handled by
// ReadPacket/WritePacket and is not retained on the struct (ams_cmd is
// validated at decode time and is always 0 on encode, per §4.1).
type Packet struct {
	DestNetID  AmsNetId
	DestPort   uint16
	SrcNetID   AmsNetId
	SrcPort    uint16
	CommandID  uint16
	StateFlags uint16
	ErrorCode  uint32
	InvokeID   uint32
	Data       []byte

	// ClientID is stamped on packets entering the port and is never
	// transmitted on the wire.
	ClientID ClientId
}

// Command returns the decoded ADS command.
func (p *Packet) Command() Command {
	return FromUint16(p.CommandID)
}

// DestAddr returns the destination AMS address.
func (p *Packet) DestAddr() AmsAddr {
	return AmsAddr{NetID: p.DestNetID, Port: p.DestPort}
}

// SrcAddr returns the source AMS address.
func (p *Packet) SrcAddr() AmsAddr {
	return AmsAddr{NetID: p.SrcNetID, Port: p.SrcPort}
}

// IsResponse reports whether the response bit (bit 0) of StateFlags is set.
func (p *Packet) IsResponse() bool {
	return p.StateFlags&1 != 0
}

// RouteBack swaps the source and destination AMS addresses in place, turning
// a request packet into the shell of its reply. Applying it twice is an
// involution: it yields the original src/dest pairing.
func (p *Packet) RouteBack() {
	p.DestNetID, p.SrcNetID = p.SrcNetID, p.DestNetID
	p.DestPort, p.SrcPort = p.SrcPort, p.DestPort
}

// Response turns the packet into a successful reply carrying data: sets the
// response bit, clears the error code, and replaces the payload.
func (p *Packet) Response(data []byte) {
	p.StateFlags |= 1
	p.ErrorCode = 0
	p.Data = data
}

// ResponseErr turns the packet into an error reply: sets the response bit,
// stores the error code, and clears the payload.
func (p *Packet) ResponseErr(code Error) {
	p.StateFlags |= 1
	p.ErrorCode = uint32(code)
	p.Data = nil
}

// MarshalBinary encodes the full AMS/TCP frame: 6-byte header, 32-byte body,
// then payload.
func (p *Packet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+bodySize+len(p.Data))

	binary.LittleEndian.PutUint16(buf[0:2], uint16(AmsCmdCommand))
	binary.LittleEndian.PutUint32(buf[2:6], uint32(bodySize+len(p.Data)))

	body := buf[headerSize:]
	copy(body[0:6], p.DestNetID[:])
	binary.LittleEndian.PutUint16(body[6:8], p.DestPort)
	copy(body[8:14], p.SrcNetID[:])
	binary.LittleEndian.PutUint16(body[14:16], p.SrcPort)
	binary.LittleEndian.PutUint16(body[16:18], p.CommandID)
	binary.LittleEndian.PutUint16(body[18:20], p.StateFlags)
	binary.LittleEndian.PutUint32(body[20:24], uint32(len(p.Data)))
	binary.LittleEndian.PutUint32(body[24:28], p.ErrorCode)
	binary.LittleEndian.PutUint32(body[28:32], p.InvokeID)

	copy(buf[headerSize+bodySize:], p.Data)
	return buf, nil
}

// FrameLen reads the 6-byte header of a buffer produced by MarshalBinary
// and returns the total frame length (header + body + payload), without
// decoding the rest. Used by the bus transport to split a marshaled packet
// from any trailing out-of-band bytes (e.g. a tagged-on ClientID) sharing
// the same call payload.
func FrameLen(buf []byte) (int, error) {
	if len(buf) < headerSize {
		return 0, fmt.Errorf("adscore: short frame: %d bytes", len(buf))
	}
	length := binary.LittleEndian.Uint32(buf[2:6])
	if length < bodySize {
		return 0, ErrInvalidAmsLength
	}
	return headerSize + int(length), nil
}

// UnmarshalBinary decodes a full AMS/TCP frame (header + body + payload) as
// produced by MarshalBinary. It preserves all fields verbatim; no semantic
// validation is performed here.
func (p *Packet) UnmarshalBinary(buf []byte) error {
	if len(buf) < headerSize+bodySize {
		return fmt.Errorf("adscore: short packet: %d bytes", len(buf))
	}

	amsCmd := binary.LittleEndian.Uint16(buf[0:2])
	length := binary.LittleEndian.Uint32(buf[2:6])
	if amsCmd != uint16(AmsCmdCommand) {
		return ErrUnknownAmsCommand
	}
	if length < bodySize {
		return ErrInvalidAmsLength
	}

	body := buf[headerSize:]
	copy(p.DestNetID[:], body[0:6])
	p.DestPort = binary.LittleEndian.Uint16(body[6:8])
	copy(p.SrcNetID[:], body[8:14])
	p.SrcPort = binary.LittleEndian.Uint16(body[14:16])
	p.CommandID = binary.LittleEndian.Uint16(body[16:18])
	p.StateFlags = binary.LittleEndian.Uint16(body[18:20])
	dataLength := binary.LittleEndian.Uint32(body[20:24])
	p.ErrorCode = binary.LittleEndian.Uint32(body[24:28])
	p.InvokeID = binary.LittleEndian.Uint32(body[28:32])

	payload := buf[headerSize+bodySize:]
	if uint32(len(payload)) < dataLength {
		return ErrInvalidAmsLength
	}
	p.Data = append([]byte(nil), payload[:dataLength]...)
	return nil
}

// ReadPacket reads one full AMS/TCP frame from r: a 6-byte header, then
// length bytes of 32-byte body plus payload. If r is a net.Conn, each phase of the read
// is bounded by deadline (via SetReadDeadline); otherwise deadline is
// ignored and ctx cancellation is not observed mid-read.
func ReadPacket(ctx context.Context, r io.Reader, deadline time.Duration) (*Packet, error) {
	if conn, ok := r.(net.Conn); ok && deadline > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return nil, err
		}
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	amsCmd := binary.LittleEndian.Uint16(header[0:2])
	length := binary.LittleEndian.Uint32(header[2:6])
	if length < bodySize {
		return nil, ErrInvalidAmsLength
	}

	if conn, ok := r.(net.Conn); ok && deadline > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return nil, err
		}
	}

	rest := make([]byte, length)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	if amsCmd != uint16(AmsCmdCommand) {
		// Caller (port) replies with UnknownAmsCommand; still surface the
		// decoded body so a reply can be routed back.
		p := &Packet{}
		_ = p.decodeBody(rest)
		return p, ErrUnknownAmsCommand
	}

	p := &Packet{}
	if err := p.decodeBody(rest); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Packet) decodeBody(rest []byte) error {
	if len(rest) < bodySize {
		return ErrInvalidAmsLength
	}
	body := rest[:bodySize]
	copy(p.DestNetID[:], body[0:6])
	p.DestPort = binary.LittleEndian.Uint16(body[6:8])
	copy(p.SrcNetID[:], body[8:14])
	p.SrcPort = binary.LittleEndian.Uint16(body[14:16])
	p.CommandID = binary.LittleEndian.Uint16(body[16:18])
	p.StateFlags = binary.LittleEndian.Uint16(body[18:20])
	dataLength := binary.LittleEndian.Uint32(body[20:24])
	p.ErrorCode = binary.LittleEndian.Uint32(body[24:28])
	p.InvokeID = binary.LittleEndian.Uint32(body[28:32])

	payload := rest[bodySize:]
	if uint32(len(payload)) < dataLength {
		return ErrInvalidAmsLength
	}
	p.Data = append([]byte(nil), payload[:dataLength]...)
	return nil
}

// WritePacket writes one full AMS/TCP frame to w, bounded by deadline when w
// is a net.Conn.
func WritePacket(ctx context.Context, w io.Writer, p *Packet, deadline time.Duration) error {
	if conn, ok := w.(net.Conn); ok && deadline > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(deadline)); err != nil {
			return err
		}
	}

	buf, err := p.MarshalBinary()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	return bw.Flush()
}
