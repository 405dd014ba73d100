// Package endian wraps the scalar byte order used by the HVIF flat-icon
// format.
//
// Every multi-byte scalar in both the authoring archive and the flat blob
// (§4.1 of the format spec) is little-endian; there is no big-endian
// variant in the wild. The package exists mainly so call sites read
// "engine.PutUint32" instead of reaching for encoding/binary directly,
// matching the byte-order abstraction style used throughout this codebase's
// lineage.
package endian

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder so callers can both decode
// from a fixed offset and append while growing a buffer.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LE is the single engine this codec ever uses.
var LE Engine = binary.LittleEndian
