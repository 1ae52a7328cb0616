package adscore

import "encoding/binary"

// VarInfo is the compact {index_group, index_offset, size} record returned
// by SymInfobyname.
type VarInfo struct {
	IndexGroup  uint32
	IndexOffset uint32
	Size        uint32
}

// Marshal encodes the 12-byte VarInfo record.
func (v VarInfo) Marshal() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], v.IndexGroup)
	binary.LittleEndian.PutUint32(buf[4:8], v.IndexOffset)
	binary.LittleEndian.PutUint32(buf[8:12], v.Size)
	return buf
}

// VarInfoEx is the full symbol-info record returned by SymInfobynameex and
// concatenated (one per symbol) to build the SymUpload response.
//
// Wire layout (little-endian), 30-byte header followed by
// name, 0x20, type_name, 0x20, comment, 0x20 (the trailing space is always
// present even when comment is empty):
//
//	u32 length, u32 index_group, u32 index_offset, u32 size, u32 data_type,
//	u16 flags, u16 legacy_array_dim, u16 name_len, u16 type_name_len, u16 comment_len
type VarInfoEx struct {
	IndexGroup      uint32
	IndexOffset     uint32
	Size            uint32
	DataType        DataType
	LegacyArrayDim  uint16
	Name            string
	TypeName        string
	Comment         string
}

// Marshal encodes the record. Total length is 33 + len(Name) + len(TypeName) + len(Comment).
func (v VarInfoEx) Marshal() []byte {
	nameLen := len(v.Name)
	typeLen := len(v.TypeName)
	commentLen := len(v.Comment)
	length := 33 + nameLen + typeLen + commentLen

	buf := make([]byte, 30+nameLen+1+typeLen+1+commentLen+1)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(length))
	binary.LittleEndian.PutUint32(buf[4:8], v.IndexGroup)
	binary.LittleEndian.PutUint32(buf[8:12], v.IndexOffset)
	binary.LittleEndian.PutUint32(buf[12:16], v.Size)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(v.DataType))
	binary.LittleEndian.PutUint16(buf[20:22], 0) // flags
	binary.LittleEndian.PutUint16(buf[22:24], v.LegacyArrayDim)
	binary.LittleEndian.PutUint16(buf[24:26], uint16(nameLen))
	binary.LittleEndian.PutUint16(buf[26:28], uint16(typeLen))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(commentLen))

	off := 30
	off += copy(buf[off:], v.Name)
	buf[off] = 0x20
	off++
	off += copy(buf[off:], v.TypeName)
	buf[off] = 0x20
	off++
	off += copy(buf[off:], v.Comment)
	buf[off] = 0x20

	return buf
}

// SymInfoEx is the per-data-type record used to build the SymDtUpload
// response, one record per entry in DataTypes. Its header differs from
// VarInfoEx's — it is grounded directly on the Rust source's
// DataType::packed_info_ex, which carries additional version/subitem/
// interface-id/reserved fields absent from the symbol-record header.
//
// Wire layout (little-endian), 42-byte header followed by
// name, 0x20, name, 0x20, 0x20 (the type's own name used twice):
//
//	u32 length, u32 version, u16 subitem_index, u16 plc_interface_id,
//	u32 reserved, u32 size, u32 offset, u32 base_type, u32 flags,
//	u16 name_len, u16 type_len, u16 comment_len, u16 array_dim, u16 sub_items
func PackSymInfoEx(dt DataType) []byte {
	name := dt.String()
	n := len(name)
	length := 45 + 2*n

	buf := make([]byte, 42+n+1+n+1+1)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(length))
	binary.LittleEndian.PutUint32(buf[4:8], 1) // version
	binary.LittleEndian.PutUint16(buf[8:10], 0) // subitem_index
	binary.LittleEndian.PutUint16(buf[10:12], 0) // plc_interface_id
	binary.LittleEndian.PutUint32(buf[12:16], 0) // reserved
	binary.LittleEndian.PutUint32(buf[16:20], dt.Size())
	binary.LittleEndian.PutUint32(buf[20:24], 0) // offset
	binary.LittleEndian.PutUint32(buf[24:28], uint32(dt))
	binary.LittleEndian.PutUint32(buf[28:32], 0) // flags
	binary.LittleEndian.PutUint16(buf[32:34], uint16(n))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(n))
	binary.LittleEndian.PutUint16(buf[36:38], 0) // comment_len
	binary.LittleEndian.PutUint16(buf[38:40], 0) // array_dim
	binary.LittleEndian.PutUint16(buf[40:42], 0) // sub_items

	off := 42
	off += copy(buf[off:], name)
	buf[off] = 0x20
	off++
	off += copy(buf[off:], name)
	buf[off] = 0x20
	off++
	buf[off] = 0x20

	return buf
}

// SymUploadInfo2 is the 16-byte {symbols, symbols_len, types, types_len}
// block returned (zero-padded to 64 bytes) by SymUploadinfo2.
type SymUploadInfo2 struct {
	Symbols    uint32
	SymbolsLen uint32
	Types      uint32
	TypesLen   uint32
}

// Marshal encodes the 64-byte block: the 16-byte struct followed by zero
// padding.
func (s SymUploadInfo2) Marshal() []byte {
	buf := make([]byte, 64)
	binary.LittleEndian.PutUint32(buf[0:4], s.Symbols)
	binary.LittleEndian.PutUint32(buf[4:8], s.SymbolsLen)
	binary.LittleEndian.PutUint32(buf[8:12], s.Types)
	binary.LittleEndian.PutUint32(buf[12:16], s.TypesLen)
	return buf
}
