//go:build linux

package xattr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystem_WriteReadAttrRoundTrip(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "xattr-test-*")
	require.NoError(t, err)
	defer f.Close()

	sys := NewSystem()
	err = sys.WriteAttr(f.Name(), "user.hvif_test", TypeVectorIcon, []byte("ficn"))
	if err != nil {
		t.Skipf("extended attributes unavailable on this filesystem: %v", err)
	}

	got, err := sys.ReadAttr(f.Name(), "user.hvif_test")
	require.NoError(t, err)
	require.Equal(t, []byte("ficn"), got)
}
