package symtab

import "github.com/adsim/adsim/adscore"

// BuildSymUpload concatenates one VarInfoEx record per declared variable,
// ordered by (index_group, index_offset) ascending with ties broken by
// insertion order (see Table.All).
func (t *Table) BuildSymUpload() []byte {
	vars := t.All()
	var out []byte
	for _, v := range vars {
		rec := adscore.VarInfoEx{
			IndexGroup:  v.IndexGroup,
			IndexOffset: v.IndexOffset,
			Size:        v.Size,
			DataType:    v.DataType,
			Name:        v.Name,
			TypeName:    v.TypeName(),
			Comment:     v.Comment,
		}
		out = append(out, rec.Marshal()...)
	}
	return out
}

// BuildSymDtUpload concatenates one SymInfoEx record per known data type.
func BuildSymDtUpload() []byte {
	var out []byte
	for _, dt := range adscore.DataTypes {
		out = append(out, adscore.PackSymInfoEx(dt)...)
	}
	return out
}

// BuildSymUploadInfo2 computes the {symbols, symbols_len, types, types_len}
// block. symbols_len and types_len must exactly equal the byte lengths of
// the SymUpload and SymDtUpload responses respectively, so clients can
// preallocate buffers before issuing those reads.
func (t *Table) BuildSymUploadInfo2() adscore.SymUploadInfo2 {
	symUpload := t.BuildSymUpload()
	dtUpload := BuildSymDtUpload()
	return adscore.SymUploadInfo2{
		Symbols:    uint32(t.Len()),
		SymbolsLen: uint32(len(symUpload)),
		Types:      uint32(len(adscore.DataTypes)),
		TypesLen:   uint32(len(dtUpload)),
	}
}
