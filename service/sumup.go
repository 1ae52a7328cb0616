package service

import (
	"encoding/binary"

	"github.com/adsim/adsim/adscore"
)

// sumupRead implements SumupRead (ex=false) and SumupReadEx (ex=true). count
// is carried in the request's index_offset field; payload is count 12-byte
// {group, offset, length} headers with no trailing data.
//
// SumupRead's response is all N 4-byte error codes first, then the
// concatenated data of every sub-request (zero-filled to the requested
// length on failure). SumupReadEx instead emits all N {error_code,
// returned_length} headers first, then the same concatenated data; a failed
// sub-request reports its requested length and contributes that many zero
// bytes, so data offsets stay predictable. Caller holds e.mu.
func (e *Engine) sumupRead(client adscore.ClientId, count uint32, payload []byte, ex bool) ([]byte, adscore.Error) {
	if count > adscore.SumMax {
		return nil, adscore.ErrInvalidAmsLength
	}
	reqs, ok := adscore.ParseSumupReadReqs(payload, int(count))
	if !ok {
		return nil, adscore.ErrInvalidAmsLength
	}

	type result struct {
		errCode adscore.Error
		data    []byte
	}
	results := make([]result, count)
	for i, req := range reqs {
		data, errCode := e.readPipeline(client, req.IndexGroup, req.IndexOffset, req.Length)
		results[i] = result{errCode: errCode, data: data}
	}

	if !ex {
		out := make([]byte, 0, count*4)
		var data []byte
		for i, r := range results {
			hdr := make([]byte, 4)
			binary.LittleEndian.PutUint32(hdr, uint32(r.errCode))
			out = append(out, hdr...)
			if r.errCode == adscore.ErrNone {
				data = append(data, r.data...)
			} else {
				data = append(data, make([]byte, reqs[i].Length)...)
			}
		}
		return append(out, data...), adscore.ErrNone
	}

	headers := make([]byte, 0, count*8)
	var data []byte
	for i, r := range results {
		hdr := make([]byte, 8)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(r.errCode))
		returnedLen := reqs[i].Length
		if r.errCode == adscore.ErrNone {
			returnedLen = uint32(len(r.data))
			data = append(data, r.data...)
		} else {
			data = append(data, make([]byte, returnedLen)...)
		}
		binary.LittleEndian.PutUint32(hdr[4:8], returnedLen)
		headers = append(headers, hdr...)
	}
	return append(headers, data...), adscore.ErrNone
}

// sumupWrite implements SumupWrite: count 12-byte {group, offset, length}
// headers followed by the concatenated write data of each sub-request in
// order. The response is count 4-byte error codes, one per sub-request.
// Caller holds e.mu.
func (e *Engine) sumupWrite(client adscore.ClientId, count uint32, payload []byte) ([]byte, adscore.Error) {
	if count > adscore.SumMax {
		return nil, adscore.ErrInvalidAmsLength
	}
	reqs, ok := adscore.ParseSumupReadReqs(payload, int(count))
	if !ok {
		return nil, adscore.ErrInvalidAmsLength
	}

	dataOff := int(count) * 12
	out := make([]byte, 0, count*4)
	for _, req := range reqs {
		end := dataOff + int(req.Length)
		if end > len(payload) {
			hdr := make([]byte, 4)
			binary.LittleEndian.PutUint32(hdr, uint32(adscore.ErrInvalidAmsLength))
			out = append(out, hdr...)
			continue
		}
		errCode := e.writePipeline(client, req.IndexGroup, req.IndexOffset, payload[dataOff:end])
		dataOff = end

		hdr := make([]byte, 4)
		binary.LittleEndian.PutUint32(hdr, uint32(errCode))
		out = append(out, hdr...)
	}
	return out, adscore.ErrNone
}

// sumupReadWrite implements SumupReadWrite: count 16-byte {group, offset,
// read_length, write_length} headers followed by the concatenated write
// data of each sub-request. Only legal at the top level (readWritePipeline
// enforces this via allowSumup); each sub-request is dispatched with
// allowSumup=false so a SumupReadWrite cannot nest another one. The response
// layout mirrors SumupReadEx: N {error_code, returned_length} headers, then
// the concatenated read data. Caller holds e.mu.
func (e *Engine) sumupReadWrite(client adscore.ClientId, count uint32, payload []byte) ([]byte, adscore.Error) {
	if count > adscore.SumMax {
		return nil, adscore.ErrInvalidAmsLength
	}
	reqs, ok := adscore.ParseSumupReadWriteReqs(payload, int(count))
	if !ok {
		return nil, adscore.ErrInvalidAmsLength
	}

	dataOff := int(count) * 16
	headers := make([]byte, 0, count*8)
	var data []byte
	for _, req := range reqs {
		end := dataOff + int(req.WriteLength)
		if end > len(payload) {
			hdr := make([]byte, 8)
			binary.LittleEndian.PutUint32(hdr[0:4], uint32(adscore.ErrInvalidAmsLength))
			headers = append(headers, hdr...)
			continue
		}
		writeData := payload[dataOff:end]
		dataOff = end

		result, errCode := e.readWritePipeline(client, req.IndexGroup, req.IndexOffset, req.ReadLength, writeData, false)

		hdr := make([]byte, 8)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(errCode))
		returnedLen := uint32(0)
		if errCode == adscore.ErrNone {
			returnedLen = uint32(len(result))
			data = append(data, result...)
		}
		binary.LittleEndian.PutUint32(hdr[4:8], returnedLen)
		headers = append(headers, hdr...)
	}
	return append(headers, data...), adscore.ErrNone
}
