package kernel

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// cubeSoup returns the 12-triangle soup of an axis-aligned cube with
// min corner at the origin, wound outward.
func cubeSoup(size float64) []Triangle {
	s := size
	p := []v3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: s, Y: 0, Z: 0}, {X: s, Y: s, Z: 0}, {X: 0, Y: s, Z: 0},
		{X: 0, Y: 0, Z: s}, {X: s, Y: 0, Z: s}, {X: s, Y: s, Z: s}, {X: 0, Y: s, Z: s},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // bottom, -Z
		{4, 5, 6, 7}, // top, +Z
		{0, 1, 5, 4}, // front, -Y
		{2, 3, 7, 6}, // back, +Y
		{0, 4, 7, 3}, // left, -X
		{1, 2, 6, 5}, // right, +X
	}
	var tris []Triangle
	for _, q := range quads {
		tris = append(tris, Triangle{p[q[0]], p[q[1]], p[q[2]]})
		tris = append(tris, Triangle{p[q[0]], p[q[2]], p[q[3]]})
	}
	return tris
}

func TestBuildRecordCube(t *testing.T) {
	r, err := BuildRecord("cube", cubeSoup(2))
	if err != nil {
		t.Fatalf("BuildRecord() error = %v", err)
	}

	if got := len(r.Vertices); got != 8 {
		t.Errorf("welded vertex count = %d, want 8", got)
	}
	if got := len(r.Triangles); got != 12 {
		t.Errorf("triangle count = %d, want 12", got)
	}
	if math.Abs(r.Volume-8) > 1e-9 {
		t.Errorf("Volume = %f, want 8", r.Volume)
	}
	if math.Abs(r.SurfaceArea-24) > 1e-9 {
		t.Errorf("SurfaceArea = %f, want 24", r.SurfaceArea)
	}
	if r.BoundsMin != (v3.Vec{}) || r.BoundsMax != (v3.Vec{X: 2, Y: 2, Z: 2}) {
		t.Errorf("bounds = %v..%v, want origin..(2,2,2)", r.BoundsMin, r.BoundsMax)
	}
	if r.ZMin != 0 || r.ZMax != 2 {
		t.Errorf("Z range = [%f, %f], want [0, 2]", r.ZMin, r.ZMax)
	}

	normals, ok := r.FaceNormalsOK()
	if !ok {
		t.Fatal("FaceNormalsOK() = false, want normals")
	}
	for i, n := range normals {
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("normal %d not unit length: %v", i, n)
		}
	}

	// A closed cube has 18 interior edges: 12 cube edges plus one
	// diagonal per face, each shared by exactly two triangles.
	edges, ok := r.AdjacencyOK()
	if !ok {
		t.Fatal("AdjacencyOK() = false, want edges")
	}
	if len(edges) != 18 {
		t.Errorf("adjacency edge count = %d, want 18", len(edges))
	}
}

func TestBuildRecordDegenerate(t *testing.T) {
	t.Run("empty soup", func(t *testing.T) {
		if _, err := BuildRecord("empty", nil); err == nil {
			t.Error("BuildRecord(nil) error = nil, want error")
		}
	})
	t.Run("zero-area triangles", func(t *testing.T) {
		tris := []Triangle{
			{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}, // collinear
			{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}}, // repeated vertex
		}
		if _, err := BuildRecord("degenerate", tris); err == nil {
			t.Error("BuildRecord(degenerate) error = nil, want error")
		}
	})
	t.Run("degenerate triangles dropped", func(t *testing.T) {
		tris := append(cubeSoup(1),
			Triangle{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}})
		r, err := BuildRecord("cube", tris)
		if err != nil {
			t.Fatalf("BuildRecord() error = %v", err)
		}
		if got := len(r.Triangles); got != 12 {
			t.Errorf("triangle count = %d, want 12 after dropping degenerate", got)
		}
	})
}

func TestBuildRecordRoleHint(t *testing.T) {
	r, err := BuildRecord("bracket_without_holes", cubeSoup(1))
	if err != nil {
		t.Fatalf("BuildRecord() error = %v", err)
	}
	if r.RoleHint != mesh.HintVariantRemoved {
		t.Errorf("RoleHint = %v, want %v", r.RoleHint, mesh.HintVariantRemoved)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the
// interface is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{0, 0, 0},
		maxBB: [3]float64{x, y, z},
	}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToRecord(name string, _ Solid) (*mesh.Record, error) {
	return &mesh.Record{Name: name, Kind: mesh.KindSolid}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}
