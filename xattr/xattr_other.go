//go:build !linux

package xattr

// System is the fallback implementation for platforms without a wired
// extended-attribute syscall; every call fails with ErrUnsupported so the
// CLI can report a clear error and require -o instead (spec §6).
type System struct{}

// NewSystem returns the platform's WriterReader.
func NewSystem() *System { return &System{} }

func (System) WriteAttr(string, string, uint32, []byte) error { return ErrUnsupported }

func (System) ReadAttr(string, string) ([]byte, error) { return nil, ErrUnsupported }
