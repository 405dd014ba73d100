package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/threedeyes/hvif-tools/errs"
	"github.com/threedeyes/hvif-tools/format"
	"github.com/threedeyes/hvif-tools/internal/dedup"
	"github.com/threedeyes/hvif-tools/model"
)

// Import reads an authoring archive from r and builds an Icon from it
// (§4.4). Fatal errors (missing required top-level messages, malformed
// gradients, truncated field data) abort the import and are returned as a
// single-element slice. Non-fatal problems — a shape referencing a missing
// style or path — are collected and returned alongside a usable Icon with
// the offending shape or reference omitted (§7 "Skipped").
func Import(r io.Reader) (*model.Icon, []error) {
	root, err := ReadArchive(r)
	if err != nil {
		return nil, []error{err}
	}

	icon := &model.Icon{}
	var warnings []error

	styleHashes := dedup.NewTracker()
	pathHashes := dedup.NewTracker()

	// styleMap/pathMap translate an archive position into the icon index
	// of the (possibly shared) entry it was collapsed into.
	var styleMap, pathMap []int

	pathsMsg, ok := root.FindMessage("paths", 0)
	if !ok {
		return nil, []error{fmt.Errorf("%w: paths", errs.ErrMissingField)}
	}
	for i := 0; ; i++ {
		pathMsg, ok := pathsMsg.FindMessage("path", i)
		if !ok {
			break
		}

		path := parsePath(pathMsg)
		hash := dedup.Hash(hashPath(path))
		if idx, dup := pathHashes.Lookup(hash); dup {
			pathMap = append(pathMap, idx) // path already present at idx; nothing to append

			continue
		}
		pathMap = append(pathMap, len(icon.Paths))
		pathHashes.Record(hash, len(icon.Paths))
		icon.Paths = append(icon.Paths, path)
	}

	stylesMsg, ok := root.FindMessage("styles", 0)
	if !ok {
		return nil, []error{fmt.Errorf("%w: styles", errs.ErrMissingField)}
	}
	for i := 0; ; i++ {
		styleMsg, ok := stylesMsg.FindMessage("style", i)
		if !ok {
			break
		}

		style, err := parseStyle(styleMsg)
		if err != nil {
			return nil, []error{err}
		}

		hash := dedup.Hash(hashStyle(style))
		if idx, dup := styleHashes.Lookup(hash); dup {
			styleMap = append(styleMap, idx)

			continue
		}
		styleMap = append(styleMap, len(icon.Styles))
		styleHashes.Record(hash, len(icon.Styles))
		icon.Styles = append(icon.Styles, style)
	}

	shapesMsg, ok := root.FindMessage("shapes", 0)
	if !ok {
		return nil, []error{fmt.Errorf("%w: shapes", errs.ErrMissingField)}
	}
	for i := 0; ; i++ {
		shapeMsg, ok := shapesMsg.FindMessage("shape", i)
		if !ok {
			break
		}

		styleRef, ok := shapeMsg.FindInt32("style ref", 0)
		if !ok || int(styleRef) < 0 || int(styleRef) >= len(styleMap) {
			warnings = append(warnings, fmt.Errorf("%w: shape %d style ref", errs.ErrIndexOutOfRange, i))

			continue
		}

		shape := model.NewShape(styleMap[styleRef])

		for j := 0; ; j++ {
			pathRef, ok := shapeMsg.FindInt32("path ref", j)
			if !ok {
				break
			}
			if int(pathRef) < 0 || int(pathRef) >= len(pathMap) {
				warnings = append(warnings, fmt.Errorf("%w: shape %d path ref %d", errs.ErrIndexOutOfRange, i, j))

				continue
			}
			shape.PathIndex = append(shape.PathIndex, pathMap[pathRef])
		}

		if data, ok := shapeMsg.FindData("transformation", 0); ok {
			if m, ok := decodeMatrix6(data); ok {
				shape.Transform = model.AffineFromMatrix6(m)
			}
		}

		shape.Hinting, _ = shapeMsg.FindBool("hinting", 0)

		if v, ok := shapeMsg.FindFloat("min visibility scale", 0); ok {
			shape.MinVisibilityScale = v
		}
		if v, ok := shapeMsg.FindFloat("max visibility scale", 0); ok {
			shape.MaxVisibilityScale = v
		}

		for k := 0; ; k++ {
			transMsg, ok := shapeMsg.FindMessage("transformer", k)
			if !ok {
				break
			}
			if t, ok := parseTransformer(transMsg); ok {
				shape.Transformers = append(shape.Transformers, t)
			}
		}

		icon.Shapes = append(icon.Shapes, shape)
	}

	return icon, warnings
}

func parsePath(msg *Archive) *model.VectorPath {
	_, count, _ := msg.GetInfo("point")

	points := make([]model.ControlPoint, 0, count)
	for i := 0; i < count; i++ {
		p, ok1 := msg.FindPoint("point", i)
		pin, ok2 := msg.FindPoint("point in", i)
		pout, ok3 := msg.FindPoint("point out", i)
		conn, ok4 := msg.FindBool("connected", i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			break
		}

		points = append(points, model.ControlPoint{P: p, In: pin, Out: pout, Connected: conn})
	}

	closed, _ := msg.FindBool("path closed", 0)

	return &model.VectorPath{Points: points, Closed: closed}
}

func parseStyle(msg *Archive) (*model.Style, error) {
	if data, ok := msg.FindData("color", 0); ok {
		if len(data) != 4 {
			return nil, fmt.Errorf("%w: style color", errs.ErrInvalidField)
		}

		return &model.Style{Solid: model.RGBA{R: data[0], G: data[1], B: data[2], A: data[3]}}, nil
	}

	gradMsg, ok := msg.FindMessage("gradient", 0)
	if !ok {
		return nil, fmt.Errorf("%w: style color or gradient", errs.ErrMissingField)
	}

	grad, err := parseGradient(gradMsg)
	if err != nil {
		return nil, err
	}

	return &model.Style{Gradient: grad}, nil
}

func parseGradient(msg *Archive) (*model.Gradient, error) {
	kind, ok := msg.FindInt32("kind", 0)
	if !ok {
		return nil, fmt.Errorf("%w: gradient kind", errs.ErrMissingField)
	}

	transform := model.Identity
	if data, ok := msg.FindData("transform", 0); ok {
		if m, ok := decodeMatrix6(data); ok {
			transform = model.AffineFromMatrix6(m)
		}
	}

	var stops []model.GradientStop
	for i := 0; ; i++ {
		offset, ok1 := msg.FindFloat("offset", i)
		color, ok2 := msg.FindData("color", i)
		if !ok1 || !ok2 {
			break
		}
		if len(color) != 4 {
			return nil, fmt.Errorf("%w: gradient stop color", errs.ErrInvalidField)
		}

		stops = append(stops, model.GradientStop{
			Offset: offset,
			Color:  model.RGBA{R: color[0], G: color[1], B: color[2], A: color[3]},
		})
	}

	if len(stops) == 0 {
		return nil, errs.ErrEmptyGradient
	}

	return &model.Gradient{Kind: format.GradientKind(kind), Transform: transform, Stops: stops}, nil
}

func parseTransformer(msg *Archive) (model.Transformer, bool) {
	tag, ok := msg.FindInt32("type", 0)
	if !ok {
		return model.Transformer{}, false
	}

	t := model.Transformer{Tag: format.TransformerTag(tag)}

	switch format.TransformerTag(tag) {
	case format.TransformerTagAffine:
		data, ok := msg.FindData("matrix", 0)
		if !ok {
			return model.Transformer{}, false
		}
		m, ok := decodeMatrix6(data)
		if !ok {
			return model.Transformer{}, false
		}
		t.AffineMatrix = model.AffineFromMatrix6(m)
	case format.TransformerTagPerspective:
		for i := 0; i < 9; i++ {
			v, ok := msg.FindDouble("matrix", i)
			if !ok {
				return model.Transformer{}, false
			}
			t.PerspectiveMatrix[i] = v
		}
	case format.TransformerTagContour, format.TransformerTagStroke:
		width, _ := msg.FindDouble("width", 0)
		lineJoin, _ := msg.FindInt32("line join", 0)
		miterLimit, _ := msg.FindDouble("miter limit", 0)
		t.Width = int8(width)
		t.LineJoin = uint8(lineJoin)
		t.MiterLimit = uint8(miterLimit)
		if format.TransformerTag(tag) == format.TransformerTagStroke {
			lineCap, _ := msg.FindInt32("line cap", 0)
			t.LineCap = uint8(lineCap)
		}
	default:
		return model.Transformer{}, false
	}

	return t, true
}

func decodeMatrix6(data []byte) ([6]float64, bool) {
	var m [6]float64
	if len(data) != 48 {
		return m, false
	}

	for i := range m {
		bits := uint64(0)
		for b := 0; b < 8; b++ {
			bits |= uint64(data[i*8+b]) << (8 * b)
		}
		m[i] = math.Float64frombits(bits)
	}

	return m, true
}

// hashPath and hashStyle return a canonical byte representation of a
// decoded value, used only as dedup content keys — not part of any wire
// format.
func hashPath(p *model.VectorPath) []byte {
	return []byte(fmt.Sprintf("%+v", *p))
}

func hashStyle(s *model.Style) []byte {
	if s.Gradient != nil {
		return []byte(fmt.Sprintf("%+v %+v", s.Solid, *s.Gradient))
	}

	return []byte(fmt.Sprintf("%+v", *s))
}
