package analyze

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// sectionQuantum is the coordinate grid used to match up segment
// endpoints when chaining cross-section segments into loops.
const sectionQuantum = 1e-5

type segment struct {
	a, b v2.Vec
}

// crossSection intersects the mesh triangles with the plane z=const and
// chains the resulting segments into closed 2-D paths. Open chains
// (from non-watertight regions) are discarded.
func crossSection(m *mesh.Record, z float64) ([][]v2.Vec, error) {
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %q has no triangle data", m.Name)
	}

	var segments []segment
	for _, tri := range m.Triangles {
		if tri[0] >= len(m.Vertices) || tri[1] >= len(m.Vertices) || tri[2] >= len(m.Vertices) {
			return nil, fmt.Errorf("mesh %q has out-of-range triangle index", m.Name)
		}
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		if seg, ok := trianglePlaneIntersection(a, b, c, z); ok {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no triangles cross z=%.3f in mesh %q", z, m.Name)
	}

	return chainSegments(segments), nil
}

// trianglePlaneIntersection clips one triangle against the plane
// z=const and returns the intersection segment, if any. Triangles
// touching the plane at a single vertex or lying in it are skipped.
func trianglePlaneIntersection(a, b, c v3.Vec, z float64) (segment, bool) {
	verts := [3]v3.Vec{a, b, c}
	var points []v2.Vec

	for i := 0; i < 3; i++ {
		p, q := verts[i], verts[(i+1)%3]
		d0, d1 := p.Z-z, q.Z-z
		if d0 == 0 && d1 == 0 {
			continue // edge lies in the plane
		}
		if (d0 > 0 && d1 > 0) || (d0 < 0 && d1 < 0) {
			continue
		}
		t := d0 / (d0 - d1)
		points = append(points, v2.Vec{
			X: p.X + t*(q.X-p.X),
			Y: p.Y + t*(q.Y-p.Y),
		})
	}

	if len(points) < 2 {
		return segment{}, false
	}
	// Touching at a vertex produces two coincident points.
	if points[0].Sub(points[1]).Length() < sectionQuantum {
		return segment{}, false
	}
	return segment{a: points[0], b: points[1]}, true
}

type gridKey struct {
	x, y int64
}

func quantize(p v2.Vec) gridKey {
	return gridKey{
		x: int64(math.Round(p.X / sectionQuantum)),
		y: int64(math.Round(p.Y / sectionQuantum)),
	}
}

// chainSegments links segments end-to-end into closed loops. Each
// segment is used once; chains that fail to return to their start are
// dropped rather than emitted as bogus open paths.
func chainSegments(segments []segment) [][]v2.Vec {
	// Endpoint index: quantized point -> segment indices touching it.
	index := make(map[gridKey][]int)
	for i, s := range segments {
		index[quantize(s.a)] = append(index[quantize(s.a)], i)
		index[quantize(s.b)] = append(index[quantize(s.b)], i)
	}

	used := make([]bool, len(segments))
	var loops [][]v2.Vec

	for start := range segments {
		if used[start] {
			continue
		}
		used[start] = true
		path := []v2.Vec{segments[start].a, segments[start].b}
		startKey := quantize(segments[start].a)

		for {
			tailKey := quantize(path[len(path)-1])
			if tailKey == startKey {
				// Closed: drop the repeated endpoint.
				loops = append(loops, path[:len(path)-1])
				break
			}
			next := -1
			for _, cand := range index[tailKey] {
				if !used[cand] {
					next = cand
					break
				}
			}
			if next == -1 {
				break // open chain, discard
			}
			used[next] = true
			s := segments[next]
			if quantize(s.a) == tailKey {
				path = append(path, s.b)
			} else {
				path = append(path, s.a)
			}
		}
	}

	return loops
}
