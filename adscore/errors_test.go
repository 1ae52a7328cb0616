package adscore

import "testing"

func TestFromUint32KnownCodesRoundTrip(t *testing.T) {
	cases := []Error{
		ErrNone,
		ErrTargetPortNotFound,
		ErrTargetMachineNotFound,
		ErrUnknownCommandID,
		ErrInvalidAmsLength,
		ErrHostUnreachable,
		ErrInvalidAmsFragment,
		ErrInvalidIndexGroup,
		ErrInvalidIndexOffset,
		ErrSymbolNotFound,
		ErrInvalidArrayIndex,
		ErrInvalidAlignment,
		ErrGeneralClientError,
		ErrNoFreeSemaphores,
	}
	for _, want := range cases {
		got := FromUint32(uint32(want))
		if got != want {
			t.Errorf("FromUint32(0x%x) = 0x%x, want 0x%x", uint32(want), uint32(got), uint32(want))
		}
		if got.Error() == "" {
			t.Errorf("Error() empty for known code 0x%x", uint32(want))
		}
	}
}

func TestFromUint32UnknownCodeMapsToSentinel(t *testing.T) {
	got := FromUint32(0xDEADBEEF)
	if got != ErrUnknown {
		t.Errorf("FromUint32(unknown) = 0x%x, want ErrUnknown", uint32(got))
	}
}

func TestErrorOK(t *testing.T) {
	if !ErrNone.OK() {
		t.Error("ErrNone.OK() should be true")
	}
	if ErrInternal.OK() {
		t.Error("ErrInternal.OK() should be false")
	}
}

func TestErrorStringForUnmappedCode(t *testing.T) {
	e := Error(0x12345)
	s := e.Error()
	if s == "" {
		t.Error("Error() should not be empty even for unmapped codes")
	}
}
