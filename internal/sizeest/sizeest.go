// Package sizeest implements the path-encoding choice the flat encoder makes
// for every VectorPath: compare the 2-bit command stream (package pathcmd)
// against the plain per-point coord encoding and take the command stream
// only when its size is strictly smaller (spec §4.6).
//
// Both candidate sizes are supplied by the caller; this package does not
// compute them. The flat encoder passes its coarse per-point bounds
// (12 bytes per point for the plain form; one byte per point plus 2, 4 or 12
// per straight, line or curve point for the command form), not exact byte
// counts. The result is a Choice value rather than an inline comparison; the
// CLI does not print it.
package sizeest

// Encoding names which on-disk representation a path took.
type Encoding int

const (
	// EncodingPlain stores all control points as explicit coords, curve or
	// corner, with no command stream.
	EncodingPlain Encoding = iota
	// EncodingCommand stores a 2-bit opcode per point plus a payload of
	// the coords each opcode implies (package pathcmd).
	EncodingCommand
)

// String returns the encoding's name as used in -v diagnostics.
func (e Encoding) String() string {
	if e == EncodingCommand {
		return "command"
	}

	return "plain"
}

// Choice is the result of comparing the two candidate encodings for one
// path: which one wins, and the byte counts that decided it.
type Choice struct {
	Encoding     Encoding
	PlainBytes   int
	CommandBytes int
}

// Delta is PlainBytes - CommandBytes: positive means the command stream
// saved that many bytes, negative means it would have cost more.
func (c Choice) Delta() int { return c.PlainBytes - c.CommandBytes }

// Pick returns the Choice for a path given both candidate sizes, computed by
// the caller (the flat encoder passes its coarse per-point bounds). The
// command stream wins only when it is strictly shorter, matching the
// reference encoder's tie-breaking toward the plain form (spec §4.3 "only
// when it is strictly shorter").
func Pick(plainBytes, commandBytes int) Choice {
	c := Choice{PlainBytes: plainBytes, CommandBytes: commandBytes, Encoding: EncodingPlain}
	if commandBytes < plainBytes {
		c.Encoding = EncodingCommand
	}

	return c
}
