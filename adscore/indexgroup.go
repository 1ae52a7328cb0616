package adscore

// IndexGroup identifies an ADS index group, either a user-assigned range or
// one of the reserved system-service groups in [0xF000, 0xFFFF].
type IndexGroup uint32

// System index groups, as reserved by the ADS specification. User variables
// default to IndexGroupDefault and may not be assigned any group in
// [0xF000, 0xFFFF].
const (
	IndexGroupSymtab          IndexGroup = 0xF000
	IndexGroupSymname         IndexGroup = 0xF001
	IndexGroupSymval          IndexGroup = 0xF002
	IndexGroupSymHndbyname    IndexGroup = 0xF003
	IndexGroupSymValbyname    IndexGroup = 0xF004
	IndexGroupSymValbyhnd     IndexGroup = 0xF005
	IndexGroupSymReleasehnd   IndexGroup = 0xF006
	IndexGroupSymInfobyname   IndexGroup = 0xF007
	IndexGroupSymVersion      IndexGroup = 0xF008
	IndexGroupSymInfobynameex IndexGroup = 0xF009
	IndexGroupSymDownload     IndexGroup = 0xF00A
	IndexGroupSymUpload       IndexGroup = 0xF00B
	IndexGroupSymUploadinfo   IndexGroup = 0xF00C
	IndexGroupSymDownload2    IndexGroup = 0xF00D
	IndexGroupSymDtUpload     IndexGroup = 0xF00E
	IndexGroupSymUploadinfo2  IndexGroup = 0xF00F
	IndexGroupSymnote         IndexGroup = 0xF010
	IndexGroupIoimageRwib     IndexGroup = 0xF020
	IndexGroupIoimageRwix     IndexGroup = 0xF021
	IndexGroupIoimageRwob     IndexGroup = 0xF030
	IndexGroupIoimageRwox     IndexGroup = 0xF031
	IndexGroupIoimageCleari   IndexGroup = 0xF040
	IndexGroupIoimageClearo   IndexGroup = 0xF050
	IndexGroupSumupRead       IndexGroup = 0xF080
	IndexGroupSumupWrite      IndexGroup = 0xF081
	IndexGroupSumupReadWrite  IndexGroup = 0xF082
	IndexGroupSumupReadEx     IndexGroup = 0xF083
	IndexGroupDeviceData      IndexGroup = 0xF100
	IndexGroupUnknown         IndexGroup = 0xFFFFFFFF

	// IndexGroupDefault is the group a symbol is assigned in configuration
	// when none is specified.
	IndexGroupDefault IndexGroup = 0x4040

	// IndexGroupSystemReserveLow is the start of the system-service reserved
	// range; groups at or above this value may not be assigned to user
	// variables.
	IndexGroupSystemReserveLow IndexGroup = 0xF000
)

// Reserved reports whether the group falls in the system-service range
// [0xF000, 0xFFFF] and is therefore unavailable to user symbols.
func (g IndexGroup) Reserved() bool {
	return g >= IndexGroupSystemReserveLow && g <= 0xFFFF
}
