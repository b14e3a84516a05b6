package analyze

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		path []v2.Vec
		want float64
	}{
		{"unit square", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 1},
		{"clockwise square", []v2.Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, 1},
		{"triangle", []v2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}, 6},
		{"degenerate", []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, polygonArea(tt.path), 1e-9)
		})
	}
}

func TestCircularity(t *testing.T) {
	t.Run("square scores pi over 4", func(t *testing.T) {
		square := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
		got := circularity(square, polygonArea(square))
		assert.InDelta(t, math.Pi/4, got, 1e-9)
	})
	t.Run("fine circle approaches 1", func(t *testing.T) {
		circle := ngon(64, 5, 0, 0)
		got := circularity(circle, polygonArea(circle))
		assert.Greater(t, got, 0.99)
	})
	t.Run("square stays below circle threshold", func(t *testing.T) {
		square := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
		got := circularity(square, polygonArea(square))
		assert.Less(t, got, DefaultConfig().CircleThreshold)
	})
}

func TestSimplifyClosedPath(t *testing.T) {
	// A square with collinear midpoints on every side simplifies back to
	// its four corners.
	path := []v2.Vec{
		{X: 0, Y: 0}, {X: 5, Y: 0.01}, {X: 10, Y: 0},
		{X: 10, Y: 5}, {X: 10, Y: 10},
		{X: 5, Y: 10}, {X: 0, Y: 10},
		{X: 0, Y: 5},
	}
	got := simplifyClosedPath(path, 1.0)
	assert.Len(t, got, 4)
}

func TestIsRectangular(t *testing.T) {
	cfg := DefaultConfig()
	t.Run("axis-aligned rectangle", func(t *testing.T) {
		rect := []v2.Vec{{X: -10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 30}, {X: -10, Y: 30}}
		assert.True(t, isRectangular(rect, cfg.RectSimplifyTol, cfg.RectAngleTolerance))
	})
	t.Run("rotated rectangle", func(t *testing.T) {
		// 45-degree rectangle, corners still at 90 degrees.
		rect := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 15}, {X: -5, Y: 5}}
		assert.True(t, isRectangular(rect, cfg.RectSimplifyTol, cfg.RectAngleTolerance))
	})
	t.Run("parallelogram rejected", func(t *testing.T) {
		para := []v2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 16, Y: 8}, {X: 6, Y: 8}}
		assert.False(t, isRectangular(para, cfg.RectSimplifyTol, cfg.RectAngleTolerance))
	})
	t.Run("hexagon rejected", func(t *testing.T) {
		assert.False(t, isRectangular(ngon(6, 10, 0, 0), cfg.RectSimplifyTol, cfg.RectAngleTolerance))
	})
}

func TestCircumcircle(t *testing.T) {
	t.Run("points on a known circle", func(t *testing.T) {
		center, radius, ok := circumcircle(
			v2.Vec{X: 5, Y: 0}, v2.Vec{X: 0, Y: 5}, v2.Vec{X: -5, Y: 0})
		require.True(t, ok)
		assert.InDelta(t, 0, center.X, 1e-9)
		assert.InDelta(t, 0, center.Y, 1e-9)
		assert.InDelta(t, 5, radius, 1e-9)
	})
	t.Run("collinear points", func(t *testing.T) {
		_, _, ok := circumcircle(
			v2.Vec{X: 0, Y: 0}, v2.Vec{X: 1, Y: 0}, v2.Vec{X: 2, Y: 0})
		assert.False(t, ok)
	})
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-9)
	assert.InDelta(t, 2, std, 1e-9)

	mean, std = meanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}
