// Package hvif implements the flat-icon binary codec: the adaptive,
// space-optimized encoding the authoring archive's in-memory Icon is
// compressed into, and its symmetric decoder (§4.5, §4.6).
package hvif

import (
	"fmt"

	"github.com/threedeyes/hvif-tools/coord"
	"github.com/threedeyes/hvif-tools/errs"
	"github.com/threedeyes/hvif-tools/format"
	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/internal/sizeest"
	"github.com/threedeyes/hvif-tools/model"
	"github.com/threedeyes/hvif-tools/pathcmd"
)

// Magic is the 4-byte little-endian header every flat blob starts with
// (spec §6, §8 property 3).
var Magic = [4]byte{0x66, 0x69, 0x63, 0x6E}

// Encode serializes icon as a flat-icon blob. The same Icon always produces
// byte-identical output (§8 property 2): nothing here depends on map
// iteration order or wall-clock time.
func Encode(icon *model.Icon) ([]byte, error) {
	b := ibuf.NewWriteBuffer()
	b.WriteBytes(Magic[:])

	if len(icon.Styles) > 255 {
		return nil, fmt.Errorf("%w: %d styles", errs.ErrTooManyItems, len(icon.Styles))
	}
	b.WriteByte(uint8(len(icon.Styles)))
	for _, s := range icon.Styles {
		if err := encodeStyle(b, s); err != nil {
			return nil, err
		}
	}

	if len(icon.Paths) > 255 {
		return nil, fmt.Errorf("%w: %d paths", errs.ErrTooManyItems, len(icon.Paths))
	}
	b.WriteByte(uint8(len(icon.Paths)))
	for _, p := range icon.Paths {
		if err := encodePath(b, p); err != nil {
			return nil, err
		}
	}

	if len(icon.Shapes) > 255 {
		return nil, fmt.Errorf("%w: %d shapes", errs.ErrTooManyItems, len(icon.Shapes))
	}
	b.WriteByte(uint8(len(icon.Shapes)))
	for _, s := range icon.Shapes {
		if err := encodeShape(b, s); err != nil {
			return nil, err
		}
	}

	if b.Failed() {
		return nil, errs.ErrOutOfMemory
	}

	return b.Bytes(), nil
}

func encodeStyle(b *ibuf.WriteBuffer, s *model.Style) error {
	if s.Gradient != nil {
		b.WriteByte(uint8(format.StyleTypeGradient))

		return encodeGradient(b, s.Gradient)
	}

	c := s.Solid
	switch {
	case c.IsGray() && c.A == 255:
		b.WriteByte(uint8(format.StyleTypeGrayNoAlpha))
		b.WriteByte(c.R)
	case c.IsGray():
		b.WriteByte(uint8(format.StyleTypeGray))
		b.WriteByte(c.R)
		b.WriteByte(c.A)
	case c.A == 255:
		b.WriteByte(uint8(format.StyleTypeColorNoAlpha))
		b.WriteByte(c.R)
		b.WriteByte(c.G)
		b.WriteByte(c.B)
	default:
		b.WriteByte(uint8(format.StyleTypeColor))
		b.WriteByte(c.R)
		b.WriteByte(c.G)
		b.WriteByte(c.B)
		b.WriteByte(c.A)
	}

	return nil
}

func encodeGradient(b *ibuf.WriteBuffer, g *model.Gradient) error {
	if len(g.Stops) > 255 {
		return fmt.Errorf("%w: %d gradient stops", errs.ErrTooManyItems, len(g.Stops))
	}

	hasTransform := !g.Transform.IsIdentity()
	alpha := false
	gray := true
	for _, stop := range g.Stops {
		if stop.Color.A < 255 {
			alpha = true
		}
		if !stop.Color.IsGray() {
			gray = false
		}
	}

	var flags format.GradientFlag
	if hasTransform {
		flags |= format.GradientFlagTransform
	}
	if !alpha {
		flags |= format.GradientFlagNoAlpha
	}
	if gray {
		flags |= format.GradientFlagGrays
	}

	b.WriteByte(uint8(g.Kind))
	b.WriteByte(uint8(flags))
	b.WriteByte(uint8(len(g.Stops)))

	if hasTransform {
		writeFloat24Matrix(b, g.Transform.Matrix6())
	}

	for _, stop := range g.Stops {
		b.WriteByte(uint8(stop.Offset * 255))

		switch {
		case alpha && gray:
			b.WriteByte(stop.Color.R)
			b.WriteByte(stop.Color.A)
		case alpha:
			b.WriteByte(stop.Color.R)
			b.WriteByte(stop.Color.G)
			b.WriteByte(stop.Color.B)
			b.WriteByte(stop.Color.A)
		case gray:
			b.WriteByte(stop.Color.R)
		default:
			b.WriteByte(stop.Color.R)
			b.WriteByte(stop.Color.G)
			b.WriteByte(stop.Color.B)
		}
	}

	return nil
}

// analyzePath classifies each point the way the encoder's size estimate
// does: straight (axis-aligned to the previous point), line (neither
// axis-aligned nor curved), curve (has Bézier handles). The running "last
// point" starts at the origin, so the first point is classified by the same
// rule as every other one.
func analyzePath(points []model.ControlPoint) (straight, line, curve int) {
	var last model.Point
	for _, p := range points {
		if !p.IsCorner() {
			curve++
			last = p.P

			continue
		}

		if p.P.X == last.X || p.P.Y == last.Y {
			straight++
		} else {
			line++
		}

		last = p.P
	}

	return straight, line, curve
}

func encodePath(b *ibuf.WriteBuffer, p *model.VectorPath) error {
	if len(p.Points) > 255 {
		return fmt.Errorf("%w: %d path points", errs.ErrTooManyItems, len(p.Points))
	}

	var flags format.PathFlag
	if p.Closed {
		flags |= format.PathFlagClosed
	}

	straight, line, curve := analyzePath(p.Points)
	commandBytes := len(p.Points) + 2*straight + 4*line + 12*curve
	plainBytes := 12 * len(p.Points)
	choice := sizeest.Pick(plainBytes, commandBytes)

	useCommands := choice.Encoding == sizeest.EncodingCommand
	noCurves := useCommands && curve == 0
	if noCurves {
		flags |= format.PathFlagNoCurves
	} else if useCommands {
		flags |= format.PathFlagUsesCmds
	}

	b.WriteByte(uint8(flags))
	b.WriteByte(uint8(len(p.Points)))

	switch {
	case noCurves:
		for _, pt := range p.Points {
			writeCoordPair(b, pt.P)
		}
	case useCommands:
		pathcmd.Write(b, p.Points)
	default:
		for _, pt := range p.Points {
			writeCoordPair(b, pt.P)
			writeCoordPair(b, pt.In)
			writeCoordPair(b, pt.Out)
		}
	}

	return nil
}

func encodeShape(b *ibuf.WriteBuffer, s *model.Shape) error {
	if s.StyleIndex < 0 || s.StyleIndex > 255 {
		return fmt.Errorf("%w: shape style index %d", errs.ErrIndexOutOfRange, s.StyleIndex)
	}
	if len(s.PathIndex) > 255 {
		return fmt.Errorf("%w: %d shape paths", errs.ErrTooManyItems, len(s.PathIndex))
	}
	if len(s.Transformers) > 255 {
		return fmt.Errorf("%w: %d shape transformers", errs.ErrTooManyItems, len(s.Transformers))
	}

	b.WriteByte(uint8(format.ShapeTypePathSource))
	b.WriteByte(uint8(s.StyleIndex))
	b.WriteByte(uint8(len(s.PathIndex)))
	for _, idx := range s.PathIndex {
		if idx < 0 || idx > 255 {
			return fmt.Errorf("%w: shape path index %d", errs.ErrIndexOutOfRange, idx)
		}
		b.WriteByte(uint8(idx))
	}

	translationOnly := s.Transform.IsTranslationOnly()
	isIdentity := s.Transform.IsIdentity()
	lodSet := s.MinVisibilityScale != model.DefaultMinVisibilityScale ||
		s.MaxVisibilityScale != model.DefaultMaxVisibilityScale

	var flags format.ShapeFlag
	if !isIdentity {
		if translationOnly {
			flags |= format.ShapeFlagTranslation
		} else {
			flags |= format.ShapeFlagTransform
		}
	}
	if s.Hinting {
		flags |= format.ShapeFlagHinting
	}
	if lodSet {
		flags |= format.ShapeFlagLODScale
	}
	if len(s.Transformers) > 0 {
		flags |= format.ShapeFlagHasTransformers
	}

	b.WriteByte(uint8(flags))

	switch {
	case flags&format.ShapeFlagTransform != 0:
		writeFloat24Matrix(b, s.Transform.Matrix6())
	case flags&format.ShapeFlagTranslation != 0:
		origin := s.Transform.Transform(model.Point{})
		writeCoordPair(b, origin)
	}

	if flags&format.ShapeFlagLODScale != 0 {
		b.WriteByte(uint8(s.MinVisibilityScale*63.75 + 0.5))
		b.WriteByte(uint8(s.MaxVisibilityScale*63.75 + 0.5))
	}

	if flags&format.ShapeFlagHasTransformers != 0 {
		b.WriteByte(uint8(len(s.Transformers)))
		for _, t := range s.Transformers {
			encodeTransformer(b, t)
		}
	}

	return nil
}

func encodeTransformer(b *ibuf.WriteBuffer, t model.Transformer) {
	b.WriteByte(uint8(t.Tag))

	switch t.Tag {
	case format.TransformerTagAffine:
		writeFloat24Matrix(b, t.AffineMatrix.Matrix6())
	case format.TransformerTagPerspective:
		for _, v := range t.PerspectiveMatrix {
			writeFloat24(b, v)
		}
	case format.TransformerTagContour:
		b.WriteByte(uint8(int16(t.Width) + 128))
		b.WriteByte(t.LineJoin)
		b.WriteByte(t.MiterLimit)
	case format.TransformerTagStroke:
		b.WriteByte(uint8(int16(t.Width) + 128))
		b.WriteByte((t.LineJoin & 0x0F) | (t.LineCap << 4))
		b.WriteByte(t.MiterLimit)
	}
}

func writeFloat24(b *ibuf.WriteBuffer, v float64) {
	coord.WriteFloat24(b, float32(v))
}

func writeFloat24Matrix(b *ibuf.WriteBuffer, m [6]float64) {
	for _, v := range m {
		coord.WriteFloat24(b, float32(v))
	}
}

func writeCoordPair(b *ibuf.WriteBuffer, p model.Point) {
	coord.Write(b, p.X)
	coord.Write(b, p.Y)
}
