package analyze

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge3d/meshsem/pkg/mesh"
)

func TestExtractSlab(t *testing.T) {
	e := NewZProfileExtractor(DefaultConfig(), nil)
	slab := boxRecord("plate", v3.Vec{}, v3.Vec{X: 60, Y: 40, Z: 8})

	result := e.Extract([]*mesh.Record{slab})

	p, ok := result.Profiles["plate"]
	require.True(t, ok)
	assert.InDelta(t, 0, p.ZMin, 1e-9)
	assert.InDelta(t, 8, p.ZMax, 1e-9)
	assert.InDelta(t, 8, p.Thickness, 1e-9)
	assert.True(t, p.FlatSlab)

	// Two face planes; histogram bin centers land within half a bin
	// width of the exact bounds.
	require.Len(t, p.Levels, 2)
	assert.InDelta(t, 0, p.Levels[0], 0.05)
	assert.InDelta(t, 8, p.Levels[1], 0.05)

	assert.Equal(t, "plate", result.BodyCandidate)
	assert.InDelta(t, 0, result.BodyZMin, 1e-9)
	assert.InDelta(t, 8, result.BodyZMax, 1e-9)
}

func TestExtractStaircaseLevels(t *testing.T) {
	e := NewZProfileExtractor(DefaultConfig(), nil)

	// Three dense vertex bands at z = 0, 4, 8.
	m := &mesh.Record{Name: "stairs", Kind: mesh.KindSolid, ZMin: 0, ZMax: 8}
	for i := 0; i < 10; i++ {
		x := float64(i)
		m.Vertices = append(m.Vertices,
			v3.Vec{X: x, Y: 0, Z: 0},
			v3.Vec{X: x, Y: 0, Z: 4},
			v3.Vec{X: x, Y: 0, Z: 8})
	}

	result := e.Extract([]*mesh.Record{m})
	p := result.Profiles["stairs"]

	require.Len(t, p.Levels, 3)
	assert.InDelta(t, 0, p.Levels[0], 0.1)
	assert.InDelta(t, 4, p.Levels[1], 0.1)
	assert.InDelta(t, 8, p.Levels[2], 0.1)
	assert.False(t, p.FlatSlab)
}

func TestExtractBodyCandidate(t *testing.T) {
	e := NewZProfileExtractor(DefaultConfig(), nil)

	t.Run("thickest wins", func(t *testing.T) {
		body := boxRecord("body", v3.Vec{}, v3.Vec{X: 10, Y: 10, Z: 8})
		pocket := boxRecord("pocket", v3.Vec{X: 2, Y: 2, Z: 1}, v3.Vec{X: 8, Y: 8, Z: 3})
		result := e.Extract([]*mesh.Record{pocket, body})
		assert.Equal(t, "body", result.BodyCandidate)
	})

	t.Run("ties keep the first mesh", func(t *testing.T) {
		a := boxRecord("first", v3.Vec{}, v3.Vec{X: 10, Y: 10, Z: 8})
		b := boxRecord("second", v3.Vec{X: 20, Y: 0, Z: 0}, v3.Vec{X: 30, Y: 10, Z: 8})
		result := e.Extract([]*mesh.Record{a, b})
		assert.Equal(t, "first", result.BodyCandidate)
	})
}

func TestExtractSkips2DProfiles(t *testing.T) {
	e := NewZProfileExtractor(DefaultConfig(), nil)
	flat := &mesh.Record{Name: "drawing", Kind: mesh.KindProfile2D}
	solid := boxRecord("solid", v3.Vec{}, v3.Vec{X: 5, Y: 5, Z: 5})

	result := e.Extract([]*mesh.Record{flat, solid})
	assert.NotContains(t, result.Profiles, "drawing")
	assert.Contains(t, result.Profiles, "solid")
}

func TestExtractDegenerateMesh(t *testing.T) {
	e := NewZProfileExtractor(DefaultConfig(), nil)
	m := &mesh.Record{Name: "empty", Kind: mesh.KindSolid, ZMin: 2, ZMax: 5}

	result := e.Extract([]*mesh.Record{m})
	p := result.Profiles["empty"]
	assert.Equal(t, []float64{2, 5}, p.Levels)
	assert.True(t, p.FlatSlab)
}

func TestClusterLevels(t *testing.T) {
	t.Run("nearby values merge to their mean", func(t *testing.T) {
		got := clusterLevels([]float64{0, 0.05, 0.09, 5}, 0.1)
		require.Len(t, got, 2)
		assert.InDelta(t, 0.047, got[0], 1e-3)
		assert.InDelta(t, 5, got[1], 1e-9)
	})
	t.Run("output gaps exceed the tolerance", func(t *testing.T) {
		got := clusterLevels([]float64{3.0, 1.0, 1.05, 2.0, 2.09, 0.0}, 0.1)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i]-got[i-1], 0.1)
		}
	})
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, clusterLevels(nil, 0.1))
	})
}
