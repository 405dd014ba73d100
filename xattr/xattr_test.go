package xattr

import "testing"

// compile-time assertion that System implements the combined capability.
var _ WriterReader = (*System)(nil)

func TestTypeVectorIcon(t *testing.T) {
	if TypeVectorIcon == 0 {
		t.Fatal("TypeVectorIcon must be non-zero")
	}
}
