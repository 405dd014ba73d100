package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAffine_Identity(t *testing.T) {
	require.True(t, Identity.IsIdentity())
	require.False(t, Identity.IsTranslationOnly())
}

func TestAffine_TranslationOnly(t *testing.T) {
	m := Affine{A: 1, D: 1, TX: 5, TY: 7}
	require.True(t, m.IsTranslationOnly())
	require.False(t, m.IsIdentity())

	p := m.Transform(Point{})
	require.Equal(t, Point{X: 5, Y: 7}, p)
}

func TestAffine_Matrix6RoundTrip(t *testing.T) {
	m := Affine{A: 1, B: 2, C: 3, D: 4, TX: 5, TY: 6}
	require.Equal(t, m, AffineFromMatrix6(m.Matrix6()))
}

func TestRGBA_IsGray(t *testing.T) {
	require.True(t, RGBA{R: 10, G: 10, B: 10, A: 255}.IsGray())
	require.False(t, RGBA{R: 10, G: 11, B: 10, A: 255}.IsGray())
}

func TestControlPoint_IsCorner(t *testing.T) {
	p := Point{X: 1, Y: 2}
	require.True(t, ControlPoint{P: p, In: p, Out: p}.IsCorner())
	require.False(t, ControlPoint{P: p, In: Point{X: 9}, Out: p}.IsCorner())
}

func TestNewShape_Defaults(t *testing.T) {
	s := NewShape(3)
	require.Equal(t, 3, s.StyleIndex)
	require.Equal(t, DefaultMinVisibilityScale, s.MinVisibilityScale)
	require.Equal(t, DefaultMaxVisibilityScale, s.MaxVisibilityScale)
}

func TestIcon_MakeEmpty(t *testing.T) {
	ic := &Icon{
		Styles: []*Style{{Solid: RGBA{A: 255}}},
		Paths:  []*VectorPath{{}},
		Shapes: []*Shape{NewShape(0)},
	}
	ic.MakeEmpty()
	require.Empty(t, ic.Styles)
	require.Empty(t, ic.Paths)
	require.Empty(t, ic.Shapes)
}
