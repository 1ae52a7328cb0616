package symtab

import (
	"strconv"
	"strings"

	"github.com/adsim/adsim/adscore"
)

// arrayRef describes the array-index suffix of a resolved symbol path.
// hasIndex is false for a bare "name" path (whole variable).
type arrayRef struct {
	hasIndex bool
	start    uint32
	length   uint32 // element count
}

// parsePath splits a symbol path of the form "name", "name[i]", or
// "name[i-j]" into the bare name and its array reference.
//
// Grounded on eva-ads-common/src/arr_idx.rs's parse_array_index for the
// grammar (no '[' -> bare name; no '-' in the bracket -> single index; '-'
// present -> inclusive range, empty when end < start), except that a '['
// with no trailing ']' is rejected as ErrInvalidArrayIndex rather than
// taken as part of a bare name. It does not follow that source's context.rs as_entry()
// divergence for a bare single index (which computes "remainder of the
// array"); see Resolve, which implements the specification's explicit
// "element at index i; size = one element; array_len = 1" semantics instead.
func parsePath(path string) (name string, ref arrayRef, err error) {
	if !strings.HasSuffix(path, "]") {
		if strings.IndexByte(path, '[') >= 0 {
			return "", arrayRef{}, adscore.ErrInvalidArrayIndex
		}
		return path, arrayRef{}, nil
	}

	open := strings.LastIndexByte(path, '[')
	if open < 0 {
		return "", arrayRef{}, adscore.ErrInvalidArrayIndex
	}

	name = path[:open]
	inner := path[open+1 : len(path)-1]

	if dash := strings.IndexByte(inner, '-'); dash >= 0 {
		startStr, endStr := inner[:dash], inner[dash+1:]
		start, e1 := strconv.ParseUint(startStr, 10, 32)
		end, e2 := strconv.ParseUint(endStr, 10, 32)
		if e1 != nil || e2 != nil {
			return "", arrayRef{}, adscore.ErrInvalidArrayIndex
		}
		length := uint32(0)
		if end >= start {
			length = uint32(end-start) + 1
		}
		return name, arrayRef{hasIndex: true, start: uint32(start), length: length}, nil
	}

	idx, err := strconv.ParseUint(inner, 10, 32)
	if err != nil {
		return "", arrayRef{}, adscore.ErrInvalidArrayIndex
	}
	return name, arrayRef{hasIndex: true, start: uint32(idx), length: 1}, nil
}

// Resolved is a variable path resolved against a symbol table: the group,
// byte offset, and size of the referenced window, plus the effective array
// length in elements (1 for a scalar or a single-index reference).
type Resolved struct {
	Variable Variable
	IndexGroup  uint32
	IndexOffset uint32
	Size        uint32
	ArrayLen    uint32
}

// Resolve looks up path (case-insensitive) and computes the byte window it
// refers to.
//
// For "name[i]": element at index i; size is one element; array_len is 1.
// For "name[i-j]": contiguous slice [i, j] inclusive; if j < i the slice has
// length 0 (legal, produces an empty handle). For bare "name": the whole
// variable. An out-of-range index, or an index/slice start at or beyond the
// declared array length, is ErrInvalidArrayIndex. An unparseable bracket is
// ErrInvalidArrayIndex.
func (t *Table) Resolve(path string) (Resolved, adscore.Error) {
	name, ref, err := parsePath(path)
	if err != nil {
		return Resolved{}, adscore.ErrInvalidArrayIndex
	}

	v, ok := t.Lookup(name)
	if !ok {
		return Resolved{}, adscore.ErrSymbolNotFound
	}

	elemSize := v.DataType.Size()

	if !ref.hasIndex {
		size := v.Size
		arrayLen := v.ArrayLen
		if arrayLen == 0 {
			arrayLen = 1
		}
		return Resolved{
			Variable:    v,
			IndexGroup:  v.IndexGroup,
			IndexOffset: v.IndexOffset,
			Size:        size,
			ArrayLen:    arrayLen,
		}, adscore.ErrNone
	}

	declaredLen := v.ArrayLen
	if declaredLen == 0 {
		declaredLen = 1
	}

	if ref.start >= uint32(declaredLen) {
		return Resolved{}, adscore.ErrInvalidArrayIndex
	}

	if ref.length == 0 {
		// j < i: legal empty slice at the requested start.
		return Resolved{
			Variable:    v,
			IndexGroup:  v.IndexGroup,
			IndexOffset: v.IndexOffset + ref.start*elemSize,
			Size:        0,
			ArrayLen:    0,
		}, adscore.ErrNone
	}

	endInclusive := ref.start + ref.length - 1
	if ref.length > 1 && endInclusive >= uint32(declaredLen) {
		return Resolved{}, adscore.ErrInvalidArrayIndex
	}

	return Resolved{
		Variable:    v,
		IndexGroup:  v.IndexGroup,
		IndexOffset: v.IndexOffset + ref.start*elemSize,
		Size:        ref.length * elemSize,
		ArrayLen:    ref.length,
	}, adscore.ErrNone
}
