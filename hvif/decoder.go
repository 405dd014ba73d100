package hvif

import (
	"fmt"

	"github.com/threedeyes/hvif-tools/coord"
	"github.com/threedeyes/hvif-tools/errs"
	"github.com/threedeyes/hvif-tools/format"
	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/model"
	"github.com/threedeyes/hvif-tools/pathcmd"
)

// Decode parses a flat-icon blob into an Icon. It is the symmetrical
// inverse of Encode (§4.6): every count byte must match the number of
// records actually consumed, and every style/path index referenced by a
// shape must fit the corresponding section.
//
// Unknown style and transformer tags are fatal (errs.ErrUnknownTag)
// because their payload length can't be inferred without knowing the tag.
// Unknown shape types are skipped: the common shape-record layout doesn't
// depend on the type byte, so the record can still be fully consumed and
// discarded.
func Decode(data []byte) (*model.Icon, error) {
	c := ibuf.NewReadCursor(data)

	magic, ok := c.ReadBytes(4)
	if !ok || magic[0] != Magic[0] || magic[1] != Magic[1] || magic[2] != Magic[2] || magic[3] != Magic[3] {
		return nil, errs.ErrMalformedMagic
	}

	styleCount, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}

	icon := &model.Icon{}
	for i := 0; i < int(styleCount); i++ {
		s, err := decodeStyle(c)
		if err != nil {
			return nil, err
		}
		icon.Styles = append(icon.Styles, s)
	}
	if len(icon.Styles) != int(styleCount) {
		return nil, errs.ErrCountMismatch
	}

	pathCount, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}

	for i := 0; i < int(pathCount); i++ {
		p, err := decodePath(c)
		if err != nil {
			return nil, err
		}
		icon.Paths = append(icon.Paths, p)
	}
	if len(icon.Paths) != int(pathCount) {
		return nil, errs.ErrCountMismatch
	}

	shapeCount, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}

	for i := 0; i < int(shapeCount); i++ {
		s, skip, err := decodeShape(c, len(icon.Styles), len(icon.Paths))
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		icon.Shapes = append(icon.Shapes, s)
	}

	return icon, nil
}

func decodeStyle(c *ibuf.ReadCursor) (*model.Style, error) {
	tag, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}

	switch format.StyleType(tag) {
	case format.StyleTypeColor:
		rgb, ok := c.ReadBytes(4)
		if !ok {
			return nil, errs.ErrTruncated
		}

		return &model.Style{Solid: model.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: rgb[3]}}, nil
	case format.StyleTypeGrayNoAlpha:
		v, ok := c.ReadByte()
		if !ok {
			return nil, errs.ErrTruncated
		}

		return &model.Style{Solid: model.RGBA{R: v, G: v, B: v, A: 255}}, nil
	case format.StyleTypeGray:
		rgb, ok := c.ReadBytes(2)
		if !ok {
			return nil, errs.ErrTruncated
		}

		return &model.Style{Solid: model.RGBA{R: rgb[0], G: rgb[0], B: rgb[0], A: rgb[1]}}, nil
	case format.StyleTypeColorNoAlpha:
		rgb, ok := c.ReadBytes(3)
		if !ok {
			return nil, errs.ErrTruncated
		}

		return &model.Style{Solid: model.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}}, nil
	case format.StyleTypeGradient:
		g, err := decodeGradient(c)
		if err != nil {
			return nil, err
		}

		return &model.Style{Gradient: g}, nil
	default:
		return nil, fmt.Errorf("%w: style tag %d", errs.ErrUnknownTag, tag)
	}
}

func decodeGradient(c *ibuf.ReadCursor) (*model.Gradient, error) {
	kind, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}
	flagByte, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}
	stopCount, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}
	if stopCount == 0 {
		return nil, errs.ErrEmptyGradient
	}

	flags := format.GradientFlag(flagByte)

	transform := model.Identity
	if flags&format.GradientFlagTransform != 0 {
		m, ok := readFloat24Matrix(c)
		if !ok {
			return nil, errs.ErrTruncated
		}
		transform = model.AffineFromMatrix6(m)
	}

	alpha := flags&format.GradientFlagNoAlpha == 0
	gray := flags&format.GradientFlagGrays != 0

	stops := make([]model.GradientStop, 0, stopCount)
	for i := 0; i < int(stopCount); i++ {
		offByte, ok := c.ReadByte()
		if !ok {
			return nil, errs.ErrTruncated
		}
		offset := float32(offByte) / 255.0

		var col model.RGBA
		switch {
		case alpha && gray:
			rg, ok := c.ReadBytes(2)
			if !ok {
				return nil, errs.ErrTruncated
			}
			col = model.RGBA{R: rg[0], G: rg[0], B: rg[0], A: rg[1]}
		case alpha:
			rgba, ok := c.ReadBytes(4)
			if !ok {
				return nil, errs.ErrTruncated
			}
			col = model.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
		case gray:
			v, ok := c.ReadByte()
			if !ok {
				return nil, errs.ErrTruncated
			}
			col = model.RGBA{R: v, G: v, B: v, A: 255}
		default:
			rgb, ok := c.ReadBytes(3)
			if !ok {
				return nil, errs.ErrTruncated
			}
			col = model.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
		}

		stops = append(stops, model.GradientStop{Offset: offset, Color: col})
	}

	return &model.Gradient{Kind: format.GradientKind(kind), Transform: transform, Stops: stops}, nil
}

func decodePath(c *ibuf.ReadCursor) (*model.VectorPath, error) {
	flagByte, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}
	pointCount, ok := c.ReadByte()
	if !ok {
		return nil, errs.ErrTruncated
	}

	flags := format.PathFlag(flagByte)
	path := &model.VectorPath{Closed: flags&format.PathFlagClosed != 0}

	switch {
	case flags&format.PathFlagNoCurves != 0:
		for i := 0; i < int(pointCount); i++ {
			p, ok := readCoordPair(c)
			if !ok {
				return nil, errs.ErrTruncated
			}
			path.Points = append(path.Points, model.ControlPoint{P: p, In: p, Out: p})
		}
	case flags&format.PathFlagUsesCmds != 0:
		points, ok := pathcmd.Read(c, int(pointCount))
		if !ok {
			return nil, errs.ErrTruncated
		}
		path.Points = points
	default:
		for i := 0; i < int(pointCount); i++ {
			p, ok1 := readCoordPair(c)
			in, ok2 := readCoordPair(c)
			out, ok3 := readCoordPair(c)
			if !ok1 || !ok2 || !ok3 {
				return nil, errs.ErrTruncated
			}
			path.Points = append(path.Points, model.ControlPoint{P: p, In: in, Out: out})
		}
	}

	return path, nil
}

func decodeShape(c *ibuf.ReadCursor, styleCount, pathCount int) (*model.Shape, bool, error) {
	shapeType, ok := c.ReadByte()
	if !ok {
		return nil, false, errs.ErrTruncated
	}

	styleIndex, ok := c.ReadByte()
	if !ok {
		return nil, false, errs.ErrTruncated
	}
	if int(styleIndex) >= styleCount {
		return nil, false, fmt.Errorf("%w: shape style index %d", errs.ErrIndexOutOfRange, styleIndex)
	}

	pathRefCount, ok := c.ReadByte()
	if !ok {
		return nil, false, errs.ErrTruncated
	}

	shape := model.NewShape(int(styleIndex))
	for i := 0; i < int(pathRefCount); i++ {
		idx, ok := c.ReadByte()
		if !ok {
			return nil, false, errs.ErrTruncated
		}
		if int(idx) >= pathCount {
			return nil, false, fmt.Errorf("%w: shape path index %d", errs.ErrIndexOutOfRange, idx)
		}
		shape.PathIndex = append(shape.PathIndex, int(idx))
	}

	flagByte, ok := c.ReadByte()
	if !ok {
		return nil, false, errs.ErrTruncated
	}
	flags := format.ShapeFlag(flagByte)

	switch {
	case flags&format.ShapeFlagTransform != 0:
		m, ok := readFloat24Matrix(c)
		if !ok {
			return nil, false, errs.ErrTruncated
		}
		shape.Transform = model.AffineFromMatrix6(m)
	case flags&format.ShapeFlagTranslation != 0:
		p, ok := readCoordPair(c)
		if !ok {
			return nil, false, errs.ErrTruncated
		}
		shape.Transform = model.Affine{A: 1, D: 1, TX: float64(p.X), TY: float64(p.Y)}
	}

	if flags&format.ShapeFlagLODScale != 0 {
		minB, ok1 := c.ReadByte()
		maxB, ok2 := c.ReadByte()
		if !ok1 || !ok2 {
			return nil, false, errs.ErrTruncated
		}
		shape.MinVisibilityScale = float32(minB) / 63.75
		shape.MaxVisibilityScale = float32(maxB) / 63.75
	}

	shape.Hinting = flags&format.ShapeFlagHinting != 0

	if flags&format.ShapeFlagHasTransformers != 0 {
		n, ok := c.ReadByte()
		if !ok {
			return nil, false, errs.ErrTruncated
		}
		for i := 0; i < int(n); i++ {
			t, err := decodeTransformer(c)
			if err != nil {
				return nil, false, err
			}
			shape.Transformers = append(shape.Transformers, t)
		}
	}

	return shape, format.ShapeType(shapeType) != format.ShapeTypePathSource, nil
}

func decodeTransformer(c *ibuf.ReadCursor) (model.Transformer, error) {
	tag, ok := c.ReadByte()
	if !ok {
		return model.Transformer{}, errs.ErrTruncated
	}

	t := model.Transformer{Tag: format.TransformerTag(tag)}

	switch format.TransformerTag(tag) {
	case format.TransformerTagAffine:
		m, ok := readFloat24Matrix(c)
		if !ok {
			return model.Transformer{}, errs.ErrTruncated
		}
		t.AffineMatrix = model.AffineFromMatrix6(m)
	case format.TransformerTagPerspective:
		for i := 0; i < 9; i++ {
			v, ok := coord.ReadFloat24(c)
			if !ok {
				return model.Transformer{}, errs.ErrTruncated
			}
			t.PerspectiveMatrix[i] = float64(v)
		}
	case format.TransformerTagContour:
		width, ok1 := c.ReadByte()
		join, ok2 := c.ReadByte()
		miter, ok3 := c.ReadByte()
		if !ok1 || !ok2 || !ok3 {
			return model.Transformer{}, errs.ErrTruncated
		}
		t.Width = int8(int16(width) - 128)
		t.LineJoin = join
		t.MiterLimit = miter
	case format.TransformerTagStroke:
		width, ok1 := c.ReadByte()
		opts, ok2 := c.ReadByte()
		miter, ok3 := c.ReadByte()
		if !ok1 || !ok2 || !ok3 {
			return model.Transformer{}, errs.ErrTruncated
		}
		t.Width = int8(int16(width) - 128)
		t.LineJoin = opts & 0x0F
		t.LineCap = opts >> 4
		t.MiterLimit = miter
	default:
		return model.Transformer{}, fmt.Errorf("%w: transformer tag %d", errs.ErrUnknownTag, tag)
	}

	return t, nil
}

func readFloat24Matrix(c *ibuf.ReadCursor) ([6]float64, bool) {
	var m [6]float64
	for i := range m {
		v, ok := coord.ReadFloat24(c)
		if !ok {
			return m, false
		}
		m[i] = float64(v)
	}

	return m, true
}

func readCoordPair(c *ibuf.ReadCursor) (model.Point, bool) {
	x, ok1 := coord.Read(c)
	y, ok2 := coord.Read(c)

	return model.Point{X: x, Y: y}, ok1 && ok2
}
