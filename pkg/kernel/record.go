package kernel

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// Triangle is one face of a triangle soup, wound counter-clockwise when
// viewed from outside the solid.
type Triangle [3]v3.Vec

// weldQuantum is the coordinate grid used to merge coincident vertices
// from adjacent triangles. 1e-4 mm is far below any modeled feature.
const weldQuantum = 1e-4

// BuildRecord welds a triangle soup into an indexed record with derived
// metadata: bounds, volume (divergence theorem, so the winding must be
// consistent), surface area, per-face normals, and shared-edge
// adjacency. Degenerate triangles are dropped. The role hint is derived
// from the name.
func BuildRecord(name string, tris []Triangle) (*mesh.Record, error) {
	if len(tris) == 0 {
		return nil, errors.New("empty triangle soup")
	}

	type key [3]int64
	index := make(map[key]int)
	var vertices []v3.Vec

	weld := func(v v3.Vec) int {
		k := key{
			int64(math.Round(v.X / weldQuantum)),
			int64(math.Round(v.Y / weldQuantum)),
			int64(math.Round(v.Z / weldQuantum)),
		}
		if i, ok := index[k]; ok {
			return i
		}
		i := len(vertices)
		index[k] = i
		vertices = append(vertices, v)
		return i
	}

	var (
		faces   [][3]int
		normals []v3.Vec
		volume  float64
		area    float64
	)
	for _, t := range tris {
		a, b, c := weld(t[0]), weld(t[1]), weld(t[2])
		if a == b || b == c || a == c {
			continue
		}
		cross := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		clen := cross.Length()
		if clen < 1e-12 {
			continue
		}
		faces = append(faces, [3]int{a, b, c})
		normals = append(normals, cross.DivScalar(clen))
		area += clen / 2
		volume += t[0].Dot(t[1].Cross(t[2])) / 6
	}
	if len(faces) == 0 {
		return nil, errors.New("all triangles degenerate")
	}

	min := vertices[0]
	max := vertices[0]
	for _, v := range vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}

	r := &mesh.Record{
		Name:        name,
		Kind:        mesh.KindSolid,
		Vertices:    vertices,
		Triangles:   faces,
		BoundsMin:   min,
		BoundsMax:   max,
		Volume:      math.Abs(volume),
		SurfaceArea: area,
		ZMin:        min.Z,
		ZMax:        max.Z,
		RoleHint:    mesh.DetectRoleHint(name),
	}
	r.SetFaceNormals(normals)
	r.SetAdjacency(buildAdjacency(faces))
	return r, nil
}

// buildAdjacency pairs the two faces on each shared edge. Edges with
// one face (boundary) or more than two (non-manifold) are skipped.
func buildAdjacency(faces [][3]int) []mesh.AdjacentEdge {
	type edge [2]int
	byEdge := make(map[edge][]int)
	for fi, f := range faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			byEdge[edge{a, b}] = append(byEdge[edge{a, b}], fi)
		}
	}

	var edges []mesh.AdjacentEdge
	for e, fs := range byEdge {
		if len(fs) != 2 {
			continue
		}
		edges = append(edges, mesh.AdjacentEdge{
			FaceA: fs[0], FaceB: fs[1],
			V0: e[0], V1: e[1],
		})
	}
	return edges
}
