package pathcmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/model"
)

func corner(x, y float32) model.ControlPoint {
	p := model.Point{X: x, Y: y}
	return model.ControlPoint{P: p, In: p, Out: p}
}

func TestWrite_UnitSquare(t *testing.T) {
	// Axis-aligned unit square, closed. The running "last point" starts at
	// the origin, so (0,0) itself matches on X and comes out V-line, then
	// H,V,H for the remaining three corners -> packed byte 0b00_01_00_01.
	points := []model.ControlPoint{
		corner(0, 0),
		corner(1, 0),
		corner(1, 1),
		corner(0, 1),
	}

	b := ibuf.NewWriteBuffer()
	require.True(t, Write(b, points))
	require.Equal(t, uint8(0x11), b.Bytes()[0])
}

func TestRoundTrip_UnitSquare(t *testing.T) {
	points := []model.ControlPoint{
		corner(0, 0),
		corner(1, 0),
		corner(1, 1),
		corner(0, 1),
	}

	b := ibuf.NewWriteBuffer()
	require.True(t, Write(b, points))

	got, ok := Read(ibuf.NewReadCursor(b.Bytes()), len(points))
	require.True(t, ok)
	require.Len(t, got, len(points))

	for i, p := range got {
		require.Equal(t, points[i].P, p.P)
		require.False(t, p.Connected)
	}
}

func TestRoundTrip_Curve(t *testing.T) {
	points := []model.ControlPoint{
		corner(0, 0),
		{
			P:   model.Point{X: 5, Y: 5},
			In:  model.Point{X: 4, Y: 4},
			Out: model.Point{X: 6, Y: 6},
		},
	}

	b := ibuf.NewWriteBuffer()
	require.True(t, Write(b, points))

	got, ok := Read(ibuf.NewReadCursor(b.Bytes()), len(points))
	require.True(t, ok)
	require.Equal(t, points[1].P, got[1].P)
	require.Equal(t, points[1].In, got[1].In)
	require.Equal(t, points[1].Out, got[1].Out)
}

func TestSize_MatchesWrittenLength(t *testing.T) {
	points := []model.ControlPoint{
		corner(0, 0),
		corner(1, 0),
		corner(1, 1),
		corner(0, 1),
	}

	b := ibuf.NewWriteBuffer()
	require.True(t, Write(b, points))
	require.Equal(t, Size(points), b.Len())
}

func TestSize_NonAlignedPointUsesLine(t *testing.T) {
	points := []model.ControlPoint{
		corner(0, 0),
		corner(3, 4), // neither x nor y matches the prior point -> Line, two coords
	}

	b := ibuf.NewWriteBuffer()
	require.True(t, Write(b, points))
	require.Equal(t, Size(points), b.Len())
}
