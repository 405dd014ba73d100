// Package pathcmd implements the 2-bit opcode path command stream (§4.3):
// a compact alternative encoding for a VectorPath's control points, chosen
// by the encoder only when it beats the plain per-point encoding (§4.6).
//
// The stream has two segments in on-disk order: a command-bits segment of
// ceil(pointCount/4) bytes (2 bits per opcode, low bits first within each
// byte), followed by a payload segment of coord values. This mirrors
// PathCommandQueue in the reference importer/exporter, ported bit-exact.
package pathcmd

import (
	"github.com/threedeyes/hvif-tools/coord"
	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/model"
)

const (
	opHLine uint8 = 0
	opVLine uint8 = 1
	opLine  uint8 = 2
	opCurve uint8 = 3
)

// accumulator packs 2-bit opcodes into bytes, 4 per byte, low bits first.
type accumulator struct {
	bits  *ibuf.WriteBuffer
	byte_ uint8
	pos   uint8
	count int
}

func newAccumulator() *accumulator {
	return &accumulator{bits: ibuf.NewWriteBuffer()}
}

func (a *accumulator) append(op uint8) bool {
	if a.count == 255 {
		return false
	}

	a.byte_ |= op << a.pos
	a.pos += 2
	a.count++

	if a.pos == 8 {
		ok := a.bits.WriteByte(a.byte_)
		a.byte_ = 0
		a.pos = 0

		return ok
	}

	return true
}

func (a *accumulator) finish() bool {
	if a.pos > 0 {
		return a.bits.WriteByte(a.byte_)
	}

	return true
}

// Size reports the exact byte length the command stream would take for the
// given points, without writing anything. The flat encoder does not call it:
// its path-form choice uses coarse per-point bounds instead. The running
// "last point" starts at the origin, so even the first point can come out as
// an H-line or V-line.
func Size(points []model.ControlPoint) int {
	commandBytes := (len(points) + 3) / 4
	payload := 0

	var last model.Point
	for _, p := range points {
		if p.IsCorner() {
			switch {
			case p.P.X == last.X:
				payload += coord.Size(p.P.Y)
			case p.P.Y == last.Y:
				payload += coord.Size(p.P.X)
			default:
				payload += coord.Size(p.P.X) + coord.Size(p.P.Y)
			}
		} else {
			payload += coord.Size(p.P.X) + coord.Size(p.P.Y) +
				coord.Size(p.In.X) + coord.Size(p.In.Y) +
				coord.Size(p.Out.X) + coord.Size(p.Out.Y)
		}
		last = p.P
	}

	return commandBytes + payload
}

// Write appends the command-stream encoding of points to b. The running
// "last point" starts at the origin (matching the reference encoder), so
// the first point is classified by the same X/Y-match rule as every other.
func Write(b *ibuf.WriteBuffer, points []model.ControlPoint) bool {
	cmds := newAccumulator()
	payload := ibuf.NewWriteBuffer()

	var last model.Point
	for _, p := range points {
		if !p.IsCorner() {
			if !cmds.append(opCurve) ||
				!coord.Write(payload, p.P.X) || !coord.Write(payload, p.P.Y) ||
				!coord.Write(payload, p.In.X) || !coord.Write(payload, p.In.Y) ||
				!coord.Write(payload, p.Out.X) || !coord.Write(payload, p.Out.Y) {
				return false
			}

			last = p.P

			continue
		}

		switch {
		case p.P.X == last.X:
			if !cmds.append(opVLine) || !coord.Write(payload, p.P.Y) {
				return false
			}
		case p.P.Y == last.Y:
			if !cmds.append(opHLine) || !coord.Write(payload, p.P.X) {
				return false
			}
		default:
			if !cmds.append(opLine) ||
				!coord.Write(payload, p.P.X) || !coord.Write(payload, p.P.Y) {
				return false
			}
		}

		last = p.P
	}

	if !cmds.finish() {
		return false
	}

	return b.Write(cmds.bits) && b.Write(payload)
}

// reader pulls 2-bit opcodes from a command-bits segment, one byte at a
// time, refilling every 4 reads.
type reader struct {
	bits  *ibuf.ReadCursor
	byte_ uint8
	pos   uint8
	count int
}

func (r *reader) next() (uint8, bool) {
	if r.count == 255 {
		return 0, false
	}

	if r.pos == 0 {
		b, ok := r.bits.ReadByte()
		if !ok {
			return 0, false
		}
		r.byte_ = b
	}

	op := (r.byte_ >> r.pos) & 0x03
	r.pos += 2
	r.count++

	if r.pos == 8 {
		r.pos = 0
	}

	return op, true
}

// Read decodes pointCount points from the command stream at c, returning
// them as a new slice of control points. Every decoded point has Connected
// false, an observable divergence from archive-sourced points (§4.3).
func Read(c *ibuf.ReadCursor, pointCount int) ([]model.ControlPoint, bool) {
	commandBytes := (pointCount + 3) / 4
	sub, ok := c.Sub(commandBytes)
	if !ok {
		return nil, false
	}

	r := &reader{bits: sub}
	points := make([]model.ControlPoint, 0, pointCount)

	var last model.Point
	for i := 0; i < pointCount; i++ {
		op, ok := r.next()
		if !ok {
			return nil, false
		}

		var p model.Point

		switch op {
		case opHLine:
			x, ok := coord.Read(c)
			if !ok {
				return nil, false
			}
			p = model.Point{X: x, Y: last.Y}
		case opVLine:
			y, ok := coord.Read(c)
			if !ok {
				return nil, false
			}
			p = model.Point{X: last.X, Y: y}
		case opLine:
			x, ok1 := coord.Read(c)
			y, ok2 := coord.Read(c)
			if !ok1 || !ok2 {
				return nil, false
			}
			p = model.Point{X: x, Y: y}
		case opCurve:
			x, ok1 := coord.Read(c)
			y, ok2 := coord.Read(c)
			inX, ok3 := coord.Read(c)
			inY, ok4 := coord.Read(c)
			outX, ok5 := coord.Read(c)
			outY, ok6 := coord.Read(c)
			if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
				return nil, false
			}

			points = append(points, model.ControlPoint{
				P:   model.Point{X: x, Y: y},
				In:  model.Point{X: inX, Y: inY},
				Out: model.Point{X: outX, Y: outY},
			})
			last = model.Point{X: x, Y: y}

			continue
		}

		points = append(points, model.ControlPoint{P: p, In: p, Out: p})
		last = p
	}

	return points, true
}
