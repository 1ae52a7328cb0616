package service

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/adsim/adsim/adscore"
	"github.com/adsim/adsim/internal/symtab"

	adsim "github.com/adsim/adsim"
)

// Dispatch executes one AMS packet's command against this engine and
// returns the reply packet (ClientID, invoke id and addresses already
// carried over from the request). It acquires the engine's single mutex
// for the duration of the whole call, including every sub-request of a
// sum-up, so a sum-up is atomic relative to other calls on this service.
func (e *Engine) Dispatch(req *adscore.Packet) *adscore.Packet {
	reply := *req // shallow copy: header fields carried through, Data replaced below

	if req.DestAddr() != e.ownAddr {
		reply.ResponseErr(adscore.ErrTargetPortNotFound)
		return &reply
	}
	if req.ClientID == "" {
		reply.ResponseErr(adscore.ErrInvalidAmsFragment)
		return &reply
	}

	start := time.Now()
	cmd := req.Command()
	e.metrics.DispatchStarted(cmd.String())

	e.mu.Lock()
	errCode := e.dispatchLocked(req, &reply)
	e.mu.Unlock()

	var dispatchErr error
	if errCode != adscore.ErrNone {
		dispatchErr = errCode
		e.metrics.AdsErrorOccurred(uint32(errCode))
	}
	e.metrics.DispatchCompleted(cmd.String(), time.Since(start), dispatchErr)

	return &reply
}

// dispatchLocked implements the command branch of §4.3. Caller holds e.mu.
func (e *Engine) dispatchLocked(req *adscore.Packet, reply *adscore.Packet) adscore.Error {
	switch req.Command() {
	case adscore.CommandDevInfo:
		major, minor, build := adsim.DevInfoVersion()
		reply.Response(adscore.DevInfoReply(major, minor, build, adsim.DeviceName))
		return adscore.ErrNone

	case adscore.CommandReadState:
		data := make([]byte, 4+2+2)
		copy(data, adscore.AdsOK)
		binary.LittleEndian.PutUint16(data[4:6], uint16(e.state.Get()))
		binary.LittleEndian.PutUint16(data[6:8], 0)
		reply.Response(data)
		return adscore.ErrNone

	case adscore.CommandWriteControl:
		// State change accepted but not enacted beyond what state.set does
		// (documented quirk, see DESIGN.md).
		reply.Response(append([]byte(nil), adscore.AdsOK...))
		return adscore.ErrNone

	case adscore.CommandRead:
		return e.handleRead(req, reply)

	case adscore.CommandWrite:
		return e.handleWrite(req, reply)

	case adscore.CommandReadWrite:
		return e.handleReadWrite(req, reply)

	default:
		reply.ResponseErr(adscore.ErrUnknownCommandID)
		return adscore.ErrUnknownCommandID
	}
}

func (e *Engine) requireRun(reply *adscore.Packet) bool {
	if e.state.Get() != adscore.StateRun {
		reply.ResponseErr(adscore.ErrInvalidIndexGroup)
		return false
	}
	return true
}

func (e *Engine) handleRead(req *adscore.Packet, reply *adscore.Packet) adscore.Error {
	if !e.requireRun(reply) {
		return adscore.ErrInvalidIndexGroup
	}

	hdr, ok := adscore.ParseReadReq(req.Data)
	if !ok {
		reply.ResponseErr(adscore.ErrInvalidAmsLength)
		return adscore.ErrInvalidAmsLength
	}

	data, errCode := e.readPipeline(req.ClientID, hdr.IndexGroup, hdr.IndexOffset, hdr.Length)
	if errCode != adscore.ErrNone {
		reply.ResponseErr(errCode)
		return errCode
	}

	if uint32(len(data)) > hdr.Length {
		data = data[:hdr.Length]
	}
	out := make([]byte, 4+4+len(data))
	copy(out, adscore.AdsOK)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(data)))
	copy(out[8:], data)
	reply.Response(out)
	return adscore.ErrNone
}

func (e *Engine) handleWrite(req *adscore.Packet, reply *adscore.Packet) adscore.Error {
	if !e.requireRun(reply) {
		return adscore.ErrInvalidIndexGroup
	}

	hdr, ok := adscore.ParseReadReq(req.Data)
	if !ok || uint32(len(req.Data)) < 12+hdr.Length {
		reply.ResponseErr(adscore.ErrInvalidAmsLength)
		return adscore.ErrInvalidAmsLength
	}
	payload := req.Data[12 : 12+hdr.Length]

	errCode := e.writePipeline(req.ClientID, hdr.IndexGroup, hdr.IndexOffset, payload)
	if errCode != adscore.ErrNone {
		reply.ResponseErr(errCode)
		return errCode
	}
	reply.Response(append([]byte(nil), adscore.AdsOK...))
	return adscore.ErrNone
}

func (e *Engine) handleReadWrite(req *adscore.Packet, reply *adscore.Packet) adscore.Error {
	if !e.requireRun(reply) {
		return adscore.ErrInvalidIndexGroup
	}

	hdr, ok := adscore.ParseReadWriteReq(req.Data)
	if !ok || uint32(len(req.Data)) < 16+hdr.WriteLength {
		reply.ResponseErr(adscore.ErrInvalidAmsLength)
		return adscore.ErrInvalidAmsLength
	}
	payload := req.Data[16 : 16+hdr.WriteLength]

	data, errCode := e.readWritePipeline(req.ClientID, hdr.IndexGroup, hdr.IndexOffset, hdr.ReadLength, payload, true)
	if errCode != adscore.ErrNone {
		reply.ResponseErr(errCode)
		return errCode
	}

	out := make([]byte, 4+4+len(data))
	copy(out, adscore.AdsOK)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(data)))
	copy(out[8:], data)
	reply.Response(out)
	return adscore.ErrNone
}

// readPipeline implements §4.3.1. Caller holds e.mu.
func (e *Engine) readPipeline(client adscore.ClientId, group, offset, length uint32) ([]byte, adscore.Error) {
	switch adscore.IndexGroup(group) {
	case adscore.IndexGroupSymValbyhnd:
		handle, errCode := e.handles.Resolve(client, offset)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		return e.memory.Read(handle.IndexGroup, handle.IndexOffset, handle.Size)

	case adscore.IndexGroupSymUploadinfo2:
		return e.table.BuildSymUploadInfo2().Marshal(), adscore.ErrNone

	case adscore.IndexGroupSymDtUpload:
		return symtab.BuildSymDtUpload(), adscore.ErrNone

	case adscore.IndexGroupSymUpload:
		return e.table.BuildSymUpload(), adscore.ErrNone

	default:
		if !e.memory.HasGroup(group) {
			return nil, adscore.ErrInvalidIndexGroup
		}
		return e.memory.Read(group, offset, length)
	}
}

// writePipeline implements §4.3.2. Caller holds e.mu.
func (e *Engine) writePipeline(client adscore.ClientId, group, offset uint32, payload []byte) adscore.Error {
	switch adscore.IndexGroup(group) {
	case adscore.IndexGroupSymReleasehnd:
		if offset != 0 {
			return adscore.ErrInvalidIndexOffset
		}
		if len(payload) < 4 {
			return adscore.ErrInvalidAmsLength
		}
		handleID := binary.LittleEndian.Uint32(payload[0:4])
		e.handles.Release(client, handleID)
		return adscore.ErrNone

	case adscore.IndexGroupSymValbyhnd:
		handle, errCode := e.handles.Resolve(client, offset)
		if errCode != adscore.ErrNone {
			return errCode
		}
		if handle.Size < uint32(len(payload)) {
			return adscore.ErrInvalidAlignment
		}
		// Writes the full payload without truncation (documented quirk,
		// see DESIGN.md): a payload shorter than handle.Size only
		// overwrites its own length of bytes.
		return e.memory.Write(handle.IndexGroup, handle.IndexOffset, payload)

	default:
		if !e.memory.HasGroup(group) {
			return adscore.ErrInvalidIndexGroup
		}
		return e.memory.Write(group, offset, payload)
	}
}

// readWritePipeline implements §4.3.3. allowSumup is false when called
// recursively from inside SumupReadWrite, per spec ("only legal at the top
// level, not nested inside another sumup"). Caller holds e.mu.
func (e *Engine) readWritePipeline(client adscore.ClientId, group, offset, readLength uint32, payload []byte, allowSumup bool) ([]byte, adscore.Error) {
	switch adscore.IndexGroup(group) {
	case adscore.IndexGroupSymHndbyname:
		name := strings.TrimRight(string(payload), "\x00")
		resolved, errCode := e.table.Resolve(name)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		handle, errCode := e.handles.Acquire(client, resolved.IndexGroup, resolved.IndexOffset, resolved.Size)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, handle.ID)
		return out, adscore.ErrNone

	case adscore.IndexGroupSymInfobyname:
		name := strings.TrimRight(string(payload), "\x00")
		resolved, errCode := e.table.Resolve(name)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		info := adscore.VarInfo{IndexGroup: resolved.IndexGroup, IndexOffset: resolved.IndexOffset, Size: resolved.Size}
		return info.Marshal(), adscore.ErrNone

	case adscore.IndexGroupSymInfobynameex:
		name := strings.TrimRight(string(payload), "\x00")
		resolved, errCode := e.table.Resolve(name)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		rec := adscore.VarInfoEx{
			IndexGroup:     resolved.IndexGroup,
			IndexOffset:    resolved.IndexOffset,
			Size:           resolved.Size,
			DataType:       resolved.Variable.DataType,
			LegacyArrayDim: 0,
			Name:           resolved.Variable.Name,
			TypeName:       resolved.Variable.TypeName(),
			Comment:        resolved.Variable.Comment,
		}
		return rec.Marshal(), adscore.ErrNone

	case adscore.IndexGroupSumupRead:
		return e.sumupRead(client, offset, payload, false)

	case adscore.IndexGroupSumupReadEx:
		return e.sumupRead(client, offset, payload, true)

	case adscore.IndexGroupSumupWrite:
		return e.sumupWrite(client, offset, payload)

	case adscore.IndexGroupSumupReadWrite:
		if !allowSumup {
			return nil, adscore.ErrInvalidIndexGroup
		}
		return e.sumupReadWrite(client, offset, payload)

	default:
		// Read-before-write: exact behavior of the grounding source,
		// preserved as-is (documented quirk, see DESIGN.md).
		data, errCode := e.memory.Read(group, offset, readLength)
		if errCode != adscore.ErrNone {
			return nil, errCode
		}
		if errCode := e.memory.Write(group, offset, payload); errCode != adscore.ErrNone {
			return nil, errCode
		}
		return data, adscore.ErrNone
	}
}
