package hvif

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/threedeyes/hvif-tools/errs"
	"github.com/threedeyes/hvif-tools/format"
	"github.com/threedeyes/hvif-tools/model"
)

func redSolidStyle() *model.Style {
	return &model.Style{Solid: model.RGBA{R: 255, A: 255}}
}

// S1: one red opaque solid style, one 2-point horizontal line, one shape.
func TestEncode_S1_SolidColorNoAlphaAndNoCurvesPath(t *testing.T) {
	icon := &model.Icon{
		Styles: []*model.Style{redSolidStyle()},
		Paths: []*model.VectorPath{{
			Points: []model.ControlPoint{
				{P: model.Point{X: 0, Y: 0}, In: model.Point{X: 0, Y: 0}, Out: model.Point{X: 0, Y: 0}},
				{P: model.Point{X: 10, Y: 0}, In: model.Point{X: 10, Y: 0}, Out: model.Point{X: 10, Y: 0}},
			},
		}},
		Shapes: []*model.Shape{model.NewShape(0)},
	}
	icon.Shapes[0].PathIndex = []int{0}

	data, err := Encode(icon)
	require.NoError(t, err)
	require.Equal(t, Magic[:], data[:4])

	// style section: count=1, tag=3 (ColorNoAlpha), r,g,b
	require.Equal(t, uint8(1), data[4])
	require.Equal(t, uint8(format.StyleTypeColorNoAlpha), data[5])

	// path section starts after 4(magic)+1(count)+4(style record)=9
	pathOff := 9
	require.Equal(t, uint8(1), data[pathOff])
	pathFlags := data[pathOff+1]
	require.Equal(t, uint8(format.PathFlagNoCurves), pathFlags)
}

// S2: linear gradient black->white, identity transform.
func TestEncode_S2_GrayGradientNoAlphaNoTransform(t *testing.T) {
	grad := &model.Gradient{
		Kind:      format.GradientLinear,
		Transform: model.Identity,
		Stops: []model.GradientStop{
			{Offset: 0, Color: model.RGBA{A: 255}},
			{Offset: 1, Color: model.RGBA{R: 255, G: 255, B: 255, A: 255}},
		},
	}
	icon := &model.Icon{Styles: []*model.Style{{Gradient: grad}}}
	data, err := Encode(icon)
	require.NoError(t, err)

	require.Equal(t, uint8(format.StyleTypeGradient), data[5])
	require.Equal(t, uint8(format.GradientLinear), data[6])
	flags := data[7]
	require.Equal(t, uint8(format.GradientFlagGrays|format.GradientFlagNoAlpha), flags)
	require.Equal(t, uint8(2), data[8])
	// no transform bytes: stop 0 offset byte follows immediately
	require.Equal(t, uint8(0x00), data[9])
	require.Equal(t, uint8(0x00), data[10]) // gray r
	require.Equal(t, uint8(0xFF), data[11])
	require.Equal(t, uint8(0xFF), data[12])
}

// S4: pure translation (5, 7).
func TestEncode_S4_ShapeTranslation(t *testing.T) {
	shape := model.NewShape(0)
	shape.Transform = model.Affine{A: 1, D: 1, TX: 5, TY: 7}
	icon := &model.Icon{
		Styles: []*model.Style{redSolidStyle()},
		Shapes: []*model.Shape{shape},
	}

	data, err := Encode(icon)
	require.NoError(t, err)

	// styles(count+4 bytes)=5, paths(count)=1 -> shapes start at 4+1+4+1=10
	shapesOff := 10
	require.Equal(t, uint8(1), data[shapesOff]) // shape count
	// shapeType, styleIndex, pathCount(0), flags
	flagsOff := shapesOff + 1 + 1 + 1 + 1
	require.Equal(t, uint8(format.ShapeFlagTranslation), data[flagsOff])
	require.Equal(t, uint8(37), data[flagsOff+1])
	require.Equal(t, uint8(39), data[flagsOff+2])
}

// S5: visibility scale changed to (0, 3). Bit-exact against the reference
// encoder's truncating cast: (uint8)(3*63.75+0.5) = 191, not a rounded 192.
func TestEncode_S5_LODScaleUsesTruncatingCast(t *testing.T) {
	shape := model.NewShape(0)
	shape.MaxVisibilityScale = 3
	icon := &model.Icon{Styles: []*model.Style{redSolidStyle()}, Shapes: []*model.Shape{shape}}

	data, err := Encode(icon)
	require.NoError(t, err)

	shapesOff := 10
	flagsOff := shapesOff + 1 + 1 + 1 + 1
	require.NotEqual(t, uint8(0), data[flagsOff]&uint8(format.ShapeFlagLODScale))
	require.Equal(t, uint8(0), data[flagsOff+1])
	require.Equal(t, uint8(191), data[flagsOff+2])
}

func TestEncode_Magic(t *testing.T) {
	icon := &model.Icon{}
	data, err := Encode(icon)
	require.NoError(t, err)
	require.Equal(t, []byte{0x66, 0x69, 0x63, 0x6E}, data[:4])
}

func TestEncode_Deterministic(t *testing.T) {
	icon := &model.Icon{
		Styles: []*model.Style{redSolidStyle()},
		Paths: []*model.VectorPath{{
			Points: []model.ControlPoint{
				{P: model.Point{X: 0, Y: 0}},
				{P: model.Point{X: 1, Y: 0}},
			},
		}},
		Shapes: []*model.Shape{model.NewShape(0)},
	}
	icon.Shapes[0].PathIndex = []int{0}

	a, err := Encode(icon)
	require.NoError(t, err)
	b, err := Encode(icon)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrMalformedMagic)
}
