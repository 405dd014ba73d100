// Package model defines the in-memory icon graph shared by the archive
// reader and the flat-icon codec (§3).
//
// An Icon owns three ordered sequences — styles, paths, shapes — in
// on-disk draw order. Shapes refer to a style and zero or more paths by
// position in those sequences; those references are weak (index-based),
// resolved through the owning Icon, never held as pointers. Only the Icon
// owns styles and paths; a Shape exclusively owns its Transformers.
//
// None of these types are safe to mutate concurrently. A fully built Icon
// may be read from multiple goroutines as long as nothing is mutating it
// concurrently (§5).
package model

import (
	"math"

	"github.com/threedeyes/hvif-tools/format"
)

// Point is a 2D coordinate in path/shape space.
type Point struct {
	X, Y float32
}

// RGBA is a 32-bit color, channel order matching the in-memory struct the
// encoder inspects byte-for-byte when it emits the 4-byte color style
// record (§4.5 "not gray, alpha<255").
type RGBA struct {
	R, G, B, A uint8
}

// IsGray reports whether all three color channels are equal.
func (c RGBA) IsGray() bool { return c.R == c.G && c.R == c.B }

// Affine is a 2D affine transform, stored as the 6 matrix entries
// [a, b, c, d, tx, ty] such that x' = a*x + c*y + tx, y' = b*x + d*y + ty.
// This mirrors Transformable's matrix layout (original_source
// core/Transformable.h).
type Affine struct {
	A, B, C, D, TX, TY float64
}

// Identity is the identity affine transform.
var Identity = Affine{A: 1, D: 1}

// IsIdentity reports whether the transform has no effect.
func (m Affine) IsIdentity() bool { return m == Identity }

// IsTranslationOnly reports whether the transform is a pure translation
// (no rotation, scale, or shear).
func (m Affine) IsTranslationOnly() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && !m.IsIdentity()
}

// Transform applies the matrix to a point.
func (m Affine) Transform(p Point) Point {
	x, y := float64(p.X), float64(p.Y)

	return Point{
		X: float32(m.A*x + m.C*y + m.TX),
		Y: float32(m.B*x + m.D*y + m.TY),
	}
}

// Matrix6 returns the matrix as the 6-entry array order the flat codec
// serializes (a, b, c, d, tx, ty).
func (m Affine) Matrix6() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.TX, m.TY}
}

// AffineFromMatrix6 rebuilds an Affine from the decoder's 6-entry array.
func AffineFromMatrix6(m [6]float64) Affine {
	return Affine{A: m[0], B: m[1], C: m[2], D: m[3], TX: m[4], TY: m[5]}
}

// EncodeMatrix6 packs m as 48 little-endian bytes, the wire form the
// archive uses for "transformation"/"transform"/"matrix" data fields.
func EncodeMatrix6(m [6]float64) []byte {
	out := make([]byte, 48)
	for i, v := range m {
		bits := math.Float64bits(v)
		for b := 0; b < 8; b++ {
			out[i*8+b] = byte(bits >> (8 * b))
		}
	}

	return out
}

// GradientStop is one ordered color stop in a gradient.
type GradientStop struct {
	Offset float32 // 0..1, quantized to 1/255 on encode (§8 property 1)
	Color  RGBA
}

// Gradient is a multi-stop paint fill.
type Gradient struct {
	Kind      format.GradientKind
	Transform Affine // Identity means "no transform flag" (§3)
	Stops     []GradientStop
}

// Style is a tagged variant: either a solid color or a gradient (§3).
// Gradient is nil for a solid style.
type Style struct {
	Solid    RGBA
	Gradient *Gradient
}

// IsSolid reports whether this is a solid-color style.
func (s *Style) IsSolid() bool { return s.Gradient == nil }

// ControlPoint is one vertex of a VectorPath: a point plus its incoming and
// outgoing Bézier handles. When P == In == Out the point is a corner
// ("straight"); otherwise it carries curve handles (§3).
type ControlPoint struct {
	P, In, Out Point
	Connected  bool
}

// IsCorner reports whether the point carries no curve handles.
func (c ControlPoint) IsCorner() bool { return c.P == c.In && c.P == c.Out }

// VectorPath is an ordered sequence of at most 255 control points plus a
// closed flag (§3).
type VectorPath struct {
	Points []ControlPoint
	Closed bool
}

// Transformer is a tagged sum of per-shape post-processing stages (§3).
// Exactly one of the typed fields is meaningful, selected by Tag.
type Transformer struct {
	Tag format.TransformerTag

	// Affine: 6 doubles.
	AffineMatrix Affine

	// Perspective: 9 doubles.
	PerspectiveMatrix [9]float64

	// Contour / Stroke shared fields.
	Width      int8
	LineJoin   uint8
	MiterLimit uint8

	// Stroke-only.
	LineCap uint8
}

// Shape assigns a style and zero-or-more paths, with an affine transform,
// a hinting flag, visibility scale bounds, and an ordered transformer list
// (§3).
type Shape struct {
	StyleIndex int
	PathIndex  []int

	Transform Affine
	Hinting   bool

	MinVisibilityScale float32 // default 0.0
	MaxVisibilityScale float32 // default 4.0

	Transformers []Transformer
}

// DefaultMinVisibilityScale and DefaultMaxVisibilityScale are the values a
// shape has when the archive omits them (§4.4).
const (
	DefaultMinVisibilityScale float32 = 0.0
	DefaultMaxVisibilityScale float32 = 4.0
)

// NewShape returns a shape with the archive's documented defaults.
func NewShape(styleIndex int) *Shape {
	return &Shape{
		StyleIndex:         styleIndex,
		Transform:          Identity,
		MinVisibilityScale: DefaultMinVisibilityScale,
		MaxVisibilityScale: DefaultMaxVisibilityScale,
	}
}

// Icon owns the three ordered sequences that make up a vector icon (§3).
type Icon struct {
	Styles []*Style
	Paths  []*VectorPath
	Shapes []*Shape
}

// MakeEmpty tears the icon down shapes first, then paths, then styles — the
// reverse of the reference direction (§3 "Lifecycle").
func (ic *Icon) MakeEmpty() {
	ic.Shapes = nil
	ic.Paths = nil
	ic.Styles = nil
}
