package adscore

// DataType identifies the primitive encoding of a symbol's value.
type DataType uint32

const (
	DataTypeVoid     DataType = 0
	DataTypeInt16    DataType = 2
	DataTypeInt32    DataType = 3
	DataTypeReal32   DataType = 4
	DataTypeReal64   DataType = 5
	DataTypeString   DataType = 30
	DataTypeWstring  DataType = 31
	DataTypeReal80   DataType = 32
	DataTypeBit      DataType = 33
	DataTypeMaxtypes DataType = 34
	DataTypeInt8     DataType = 16
	DataTypeUint8    DataType = 17
	DataTypeUint16   DataType = 18
	DataTypeUint32   DataType = 19
	DataTypeInt64    DataType = 20
	DataTypeUint64   DataType = 21
	DataTypeBigtype  DataType = 65
	DataTypeUnknown  DataType = 0xFFFF
)

// DataTypes lists every known data type, in the order used to build the
// SymDtUpload response.
var DataTypes = []DataType{
	DataTypeVoid,
	DataTypeInt8,
	DataTypeUint8,
	DataTypeInt16,
	DataTypeUint16,
	DataTypeInt32,
	DataTypeUint32,
	DataTypeInt64,
	DataTypeUint64,
	DataTypeReal32,
	DataTypeReal64,
	DataTypeBigtype,
	DataTypeString,
	DataTypeWstring,
	DataTypeReal80,
	DataTypeBit,
	DataTypeMaxtypes,
}

// Size returns the byte size of a single element of this data type.
func (d DataType) Size() uint32 {
	switch d {
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeReal32:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeReal64:
		return 8
	case DataTypeReal80:
		return 10
	default:
		return 1
	}
}

func (d DataType) String() string {
	switch d {
	case DataTypeVoid:
		return "VOID"
	case DataTypeInt8:
		return "INT8"
	case DataTypeUint8:
		return "UINT8"
	case DataTypeInt16:
		return "INT16"
	case DataTypeUint16:
		return "UINT16"
	case DataTypeInt32:
		return "INT32"
	case DataTypeUint32:
		return "UINT32"
	case DataTypeInt64:
		return "INT64"
	case DataTypeUint64:
		return "UINT64"
	case DataTypeReal32:
		return "REAL32"
	case DataTypeReal64:
		return "REAL64"
	case DataTypeBigtype:
		return "BIGTYPE"
	case DataTypeString:
		return "STRING"
	case DataTypeWstring:
		return "WSTRING"
	case DataTypeReal80:
		return "REAL80"
	case DataTypeBit:
		return "BIT"
	case DataTypeMaxtypes:
		return "MAXTYPES"
	default:
		return "UNKNOWN"
	}
}

// ParseDataType maps a case-sensitive type name, as produced by String, back
// to a DataType. It returns (DataTypeUnknown, false) for unrecognized names.
func ParseDataType(name string) (DataType, bool) {
	for _, dt := range DataTypes {
		if dt.String() == name {
			return dt, true
		}
	}
	return DataTypeUnknown, false
}
