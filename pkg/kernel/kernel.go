// Package kernel defines the abstract geometry kernel interface used to
// synthesize reference parts with known ground truth. Implementations
// provide solid modeling behind this interface; the kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import "github.com/forge3d/meshsem/pkg/mesh"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToRecord triangulates the solid and returns a fully populated
	// analysis record: deduplicated vertices, bounds, volume, surface
	// area, face normals, and face adjacency.
	ToRecord(name string, s Solid) (*mesh.Record, error)
}
