package csi_test

import (
	"errors"
	"strings"
	"testing"

	csi "github.com/synadia-labs/csi.go/runtime"
)

func TestWrapError(t *testing.T) {
	if got := csi.WrapError(csi.ErrShortBytes, "offset", 3); got != csi.ErrShortBytes {
		t.Fatalf("ErrShortBytes was wrapped: %v", got)
	}

	ib := &csi.InvalidByteError{Byte: 0x07, Offset: 2}
	wrapped := csi.WrapError(ib, "offset", 40)
	if !strings.HasSuffix(wrapped.Error(), " at offset/40") {
		t.Fatalf("context missing: %q", wrapped.Error())
	}
	if ib.Error() == wrapped.Error() {
		t.Fatalf("WrapError modified the original error")
	}

	plain := errors.New("plain")
	w := csi.WrapError(plain, "stream")
	if csi.Cause(w) != plain || !errors.Is(w, plain) {
		t.Fatalf("Cause/Unwrap lost the original: %v", w)
	}
	if csi.Resumable(w) {
		t.Fatalf("plain error reported as resumable")
	}
	if csi.Cause(plain) != plain {
		t.Fatalf("Cause of unwrapped error changed it")
	}
}
