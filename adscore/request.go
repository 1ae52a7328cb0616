package adscore

import "encoding/binary"

// ReadReq is the decoded {index_group, index_offset, length} header carried
// by a Read or Write command, 12 bytes.
type ReadReq struct {
	IndexGroup  uint32
	IndexOffset uint32
	Length      uint32
}

// ParseReadReq decodes the fixed 12-byte header. Remaining bytes (the
// payload for a Write command) start at offset 12 in buf.
func ParseReadReq(buf []byte) (ReadReq, bool) {
	if len(buf) < 12 {
		return ReadReq{}, false
	}
	return ReadReq{
		IndexGroup:  binary.LittleEndian.Uint32(buf[0:4]),
		IndexOffset: binary.LittleEndian.Uint32(buf[4:8]),
		Length:      binary.LittleEndian.Uint32(buf[8:12]),
	}, true
}

// ReadWriteReq is the decoded {index_group, index_offset, read_length,
// write_length} header carried by a ReadWrite command, 16 bytes.
type ReadWriteReq struct {
	IndexGroup  uint32
	IndexOffset uint32
	ReadLength  uint32
	WriteLength uint32
}

// ParseReadWriteReq decodes the fixed 16-byte header. The write payload
// (write_length bytes) starts at offset 16 in buf.
func ParseReadWriteReq(buf []byte) (ReadWriteReq, bool) {
	if len(buf) < 16 {
		return ReadWriteReq{}, false
	}
	return ReadWriteReq{
		IndexGroup:  binary.LittleEndian.Uint32(buf[0:4]),
		IndexOffset: binary.LittleEndian.Uint32(buf[4:8]),
		ReadLength:  binary.LittleEndian.Uint32(buf[8:12]),
		WriteLength: binary.LittleEndian.Uint32(buf[12:16]),
	}, true
}

// SumupReadReq is one 12-byte {group, offset, length} entry of a SumupRead
// or SumupReadEx batch.
type SumupReadReq struct {
	IndexGroup  uint32
	IndexOffset uint32
	Length      uint32
}

// ParseSumupReadReqs decodes N consecutive 12-byte entries.
func ParseSumupReadReqs(buf []byte, n int) ([]SumupReadReq, bool) {
	if len(buf) < n*12 {
		return nil, false
	}
	reqs := make([]SumupReadReq, n)
	for i := 0; i < n; i++ {
		off := i * 12
		reqs[i] = SumupReadReq{
			IndexGroup:  binary.LittleEndian.Uint32(buf[off : off+4]),
			IndexOffset: binary.LittleEndian.Uint32(buf[off+4 : off+8]),
			Length:      binary.LittleEndian.Uint32(buf[off+8 : off+12]),
		}
	}
	return reqs, true
}

// SumupReadWriteReq is one 16-byte {group, offset, read_length,
// write_length} entry of a SumupReadWrite batch.
type SumupReadWriteReq struct {
	IndexGroup  uint32
	IndexOffset uint32
	ReadLength  uint32
	WriteLength uint32
}

// ParseSumupReadWriteReqs decodes N consecutive 16-byte entries.
func ParseSumupReadWriteReqs(buf []byte, n int) ([]SumupReadWriteReq, bool) {
	if len(buf) < n*16 {
		return nil, false
	}
	reqs := make([]SumupReadWriteReq, n)
	for i := 0; i < n; i++ {
		off := i * 16
		reqs[i] = SumupReadWriteReq{
			IndexGroup:  binary.LittleEndian.Uint32(buf[off : off+4]),
			IndexOffset: binary.LittleEndian.Uint32(buf[off+4 : off+8]),
			ReadLength:  binary.LittleEndian.Uint32(buf[off+8 : off+12]),
			WriteLength: binary.LittleEndian.Uint32(buf[off+12 : off+16]),
		}
	}
	return reqs, true
}
