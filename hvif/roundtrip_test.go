package hvif

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/threedeyes/hvif-tools/format"
	"github.com/threedeyes/hvif-tools/model"
)

func corner(x, y float32) model.ControlPoint {
	return model.ControlPoint{P: model.Point{X: x, Y: y}, In: model.Point{X: x, Y: y}, Out: model.Point{X: x, Y: y}}
}

// S3 scenario, routed through the full encoder/decoder.
func buildUnitSquareIcon() *model.Icon {
	path := &model.VectorPath{
		Closed: true,
		Points: []model.ControlPoint{
			corner(0, 0), corner(1, 0), corner(1, 1), corner(0, 1),
		},
	}
	shape := model.NewShape(0)
	shape.PathIndex = []int{0}

	return &model.Icon{
		Styles: []*model.Style{{Solid: model.RGBA{R: 10, G: 20, B: 30, A: 255}}},
		Paths:  []*model.VectorPath{path},
		Shapes: []*model.Shape{shape},
	}
}

func TestRoundTrip_UnitSquareAllCornersUsesNoCurves(t *testing.T) {
	icon := buildUnitSquareIcon()
	data, err := Encode(icon)
	require.NoError(t, err)

	// magic(4) + styleCount(1) + style(4, ColorNoAlpha) = 9 -> pathCount byte
	pathFlagsOff := 10
	require.Equal(t, uint8(format.PathFlagClosed|format.PathFlagNoCurves), data[pathFlagsOff])

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Paths, 1)
	require.True(t, got.Paths[0].Closed)
	require.Equal(t, icon.Paths[0].Points[0].P, got.Paths[0].Points[0].P)
	require.Equal(t, icon.Paths[0].Points[1].P, got.Paths[0].Points[1].P)
	require.Equal(t, icon.Paths[0].Points[2].P, got.Paths[0].Points[2].P)
	require.Equal(t, icon.Paths[0].Points[3].P, got.Paths[0].Points[3].P)

	require.Equal(t, icon.Styles[0].Solid, got.Styles[0].Solid)
	require.Equal(t, icon.Shapes[0].PathIndex, got.Shapes[0].PathIndex)
	require.Equal(t, icon.Shapes[0].StyleIndex, got.Shapes[0].StyleIndex)
}

func TestRoundTrip_MixedPathUsesCommandStream(t *testing.T) {
	path := &model.VectorPath{
		Points: []model.ControlPoint{
			corner(0, 0), corner(10, 0), corner(10, 10), corner(0, 10),
			{P: model.Point{X: 5, Y: 5}, In: model.Point{X: 4, Y: 4}, Out: model.Point{X: 6, Y: 6}},
		},
	}
	icon := &model.Icon{
		Styles: []*model.Style{{Solid: model.RGBA{R: 1, G: 2, B: 3, A: 200}}},
		Paths:  []*model.VectorPath{path},
		Shapes: []*model.Shape{model.NewShape(0)},
	}
	icon.Shapes[0].PathIndex = []int{0}

	data, err := Encode(icon)
	require.NoError(t, err)

	// magic(4) + styleCount(1) + style(5, Color w/ alpha: tag+r+g+b+a) = 10 -> pathCount byte
	pathFlagsOff := 11
	require.Equal(t, uint8(format.PathFlagUsesCmds), data[pathFlagsOff])

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Paths[0].Points, 5)
	for i := 0; i < 4; i++ {
		require.Equal(t, path.Points[i].P, got.Paths[0].Points[i].P)
	}
	require.Equal(t, path.Points[4].In, got.Paths[0].Points[4].In)
	require.Equal(t, path.Points[4].Out, got.Paths[0].Points[4].Out)
}

func TestRoundTrip_CurvePathPlainForm(t *testing.T) {
	path := &model.VectorPath{
		Points: []model.ControlPoint{
			{P: model.Point{X: 0, Y: 0}, In: model.Point{X: -5, Y: 0}, Out: model.Point{X: 5, Y: 0}},
			{P: model.Point{X: 10, Y: 10}, In: model.Point{X: 8, Y: 10}, Out: model.Point{X: 12, Y: 10}},
		},
	}
	icon := &model.Icon{
		Styles: []*model.Style{{Solid: model.RGBA{R: 1, G: 2, B: 3, A: 200}}},
		Paths:  []*model.VectorPath{path},
		Shapes: []*model.Shape{model.NewShape(0)},
	}
	icon.Shapes[0].PathIndex = []int{0}

	data, err := Encode(icon)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, got.Paths[0].Points, 2)
	require.Equal(t, path.Points[0].In, got.Paths[0].Points[0].In)
	require.Equal(t, path.Points[1].Out, got.Paths[0].Points[1].Out)
}

func TestRoundTrip_GradientStyle(t *testing.T) {
	icon := &model.Icon{
		Styles: []*model.Style{{Gradient: &model.Gradient{
			Kind:      format.GradientCircular,
			Transform: model.Affine{A: 2, D: 2},
			Stops: []model.GradientStop{
				{Offset: 0, Color: model.RGBA{R: 255, G: 0, B: 0, A: 255}},
				{Offset: 0.5, Color: model.RGBA{R: 0, G: 255, B: 0, A: 128}},
				{Offset: 1, Color: model.RGBA{R: 0, G: 0, B: 255, A: 255}},
			},
		}}},
	}

	data, err := Encode(icon)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, got.Styles[0].Gradient)
	require.Equal(t, format.GradientCircular, got.Styles[0].Gradient.Kind)
	require.Len(t, got.Styles[0].Gradient.Stops, 3)
	require.Equal(t, icon.Styles[0].Gradient.Stops[0].Color, got.Styles[0].Gradient.Stops[0].Color)
	require.Equal(t, icon.Styles[0].Gradient.Stops[1].Color, got.Styles[0].Gradient.Stops[1].Color)
	// offset quantized to 1/255 (§8 property 1)
	require.InDelta(t, float32(0.5), got.Styles[0].Gradient.Stops[1].Offset, 1.0/255)
}

func TestRoundTrip_ShapeWithTransformers(t *testing.T) {
	shape := model.NewShape(0)
	shape.Hinting = true
	shape.Transformers = []model.Transformer{
		{Tag: format.TransformerTagContour, Width: 3, LineJoin: 1, MiterLimit: 4},
		{Tag: format.TransformerTagStroke, Width: -2, LineJoin: 2, LineCap: 1, MiterLimit: 10},
		{Tag: format.TransformerTagAffine, AffineMatrix: model.Affine{A: 1, B: 0, C: 0, D: 1, TX: 2, TY: 3}},
	}
	icon := &model.Icon{Styles: []*model.Style{{Solid: model.RGBA{A: 255}}}, Shapes: []*model.Shape{shape}}

	data, err := Encode(icon)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, got.Shapes[0].Hinting)
	require.Len(t, got.Shapes[0].Transformers, 3)
	require.Equal(t, int8(3), got.Shapes[0].Transformers[0].Width)
	require.Equal(t, uint8(1), got.Shapes[0].Transformers[0].LineJoin)
	require.Equal(t, int8(-2), got.Shapes[0].Transformers[1].Width)
	require.Equal(t, uint8(2), got.Shapes[0].Transformers[1].LineJoin)
	require.Equal(t, uint8(1), got.Shapes[0].Transformers[1].LineCap)
}

func TestDecode_RejectsShapeStyleIndexOutOfRange(t *testing.T) {
	// A shape record referencing a style beyond the decoded styles section
	// is Malformed on decode even though the encoder has no opportunity to
	// catch it (a hand-crafted or corrupted blob). Built by hand rather
	// than via Encode since Encode has no reason to ever emit this.
	data := []byte{
		0x66, 0x69, 0x63, 0x6E, // magic
		1,    // style count
		1, 0, // tag GrayNoAlpha, value 0
		0, // path count
		1, // shape count
		uint8(format.ShapeTypePathSource), 5, 0, 0, // styleIndex=5 (out of range), pathCount=0, flags=0
	}

	_, err := Decode(data)
	require.Error(t, err)
}

func TestEncode_RejectsTooManyStyles(t *testing.T) {
	icon := &model.Icon{}
	for i := 0; i < 256; i++ {
		icon.Styles = append(icon.Styles, &model.Style{Solid: model.RGBA{A: 255}})
	}
	_, err := Encode(icon)
	require.Error(t, err)
}
