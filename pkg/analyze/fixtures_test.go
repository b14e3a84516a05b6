package analyze

// Test fixtures are handcrafted watertight prisms with exact vertices,
// so classification assertions work against known ground truth instead
// of tessellation noise.

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/forge3d/meshsem/pkg/kernel"
	"github.com/forge3d/meshsem/pkg/mesh"
)

// prismRecord extrudes a convex CCW polygon from z0 to z1 into a
// watertight record: fan-triangulated caps plus two wall triangles per
// polygon edge, wound outward.
func prismRecord(name string, polygon []v2.Vec, z0, z1 float64) *mesh.Record {
	n := len(polygon)
	bottom := make([]v3.Vec, n)
	top := make([]v3.Vec, n)
	for i, p := range polygon {
		bottom[i] = v3.Vec{X: p.X, Y: p.Y, Z: z0}
		top[i] = v3.Vec{X: p.X, Y: p.Y, Z: z1}
	}

	var tris []kernel.Triangle
	for i := 1; i < n-1; i++ {
		tris = append(tris, kernel.Triangle{bottom[0], bottom[i+1], bottom[i]})
		tris = append(tris, kernel.Triangle{top[0], top[i], top[i+1]})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		tris = append(tris, kernel.Triangle{bottom[i], bottom[j], top[j]})
		tris = append(tris, kernel.Triangle{bottom[i], top[j], top[i]})
	}

	r, err := kernel.BuildRecord(name, tris)
	if err != nil {
		panic("prismRecord: " + err.Error())
	}
	return r
}

// boxRecord is an axis-aligned box spanning min..max.
func boxRecord(name string, min, max v3.Vec) *mesh.Record {
	return prismRecord(name, []v2.Vec{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	}, min.Z, max.Z)
}

// ngon returns a regular CCW n-gon of the given radius around (cx, cy).
func ngon(n int, radius, cx, cy float64) []v2.Vec {
	pts := make([]v2.Vec, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v2.Vec{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return pts
}

// holeFeature is a detected circular hole at (x, y) for pattern tests.
func holeFeature(name string, x, y, diameter float64) DetectedFeature {
	return DetectedFeature{
		Name:         name,
		Kind:         FeatureCircularHole,
		DetectedFrom: "test",
		Params: map[string]any{
			"center_x": x,
			"center_y": y,
			"diameter": diameter,
		},
	}
}
