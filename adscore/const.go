package adscore

// AdsOK is the 4-byte embedded "no error" result code that leads the
// payload of every successful ADS reply (distinct from the AMS packet
// header's own error_code field, which is also 0 on success).
var AdsOK = []byte{0, 0, 0, 0}

// SumMax is the maximum request count accepted by any sum-up command
// (SumupRead, SumupReadEx, SumupWrite, SumupReadWrite).
const SumMax = 500

// MaxHandleID is the highest handle id that may be allocated to a client;
// handle ids live in [1, MaxHandleID].
const MaxHandleID = 0xFFFFF

// DevInfoReply packs the DevInfo command's payload: 4-byte OK result code,
// u8 major, u8 minor, u16 build, then a 16-byte NUL-padded device name
// (15 name bytes + 1 NUL, truncated if longer).
func DevInfoReply(major, minor uint8, build uint16, name string) []byte {
	buf := make([]byte, 4+1+1+2+16)
	// bytes 0:4 are the embedded OK result code, left zero (ErrNone).
	buf[4] = major
	buf[5] = minor
	buf[6] = byte(build)
	buf[7] = byte(build >> 8)

	nameBuf := buf[8:24]
	n := len(name)
	if n > 15 {
		n = 15
	}
	copy(nameBuf[:n], name[:n])
	// remaining bytes (including at least one NUL) are already zero.
	return buf
}
