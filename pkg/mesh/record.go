// Package mesh defines the loaded-geometry records consumed by the
// analysis pipeline. Records are produced by an external loader (file
// decoding is out of scope here) and are read-only once constructed.
package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind distinguishes real solids from 2-D profile stubs.
type Kind int

const (
	KindSolid     Kind = iota // triangulated 3-D solid
	KindProfile2D             // flat profile imported from a vector format
)

func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindProfile2D:
		return "profile_2d"
	default:
		return "unknown"
	}
}

// AdjacentEdge is a mesh edge shared by exactly two triangles.
// FaceA/FaceB index into the record's Triangles; V0/V1 index Vertices.
type AdjacentEdge struct {
	FaceA, FaceB int
	V0, V1       int
}

// Record is a single loaded mesh (or 2-D profile stub) with precomputed
// scalar metadata. Bounds, volume, and surface area are always present;
// face normals and adjacency are optional and must be checked with
// FaceNormalsOK / AdjacencyOK before use.
type Record struct {
	Name      string `json:"name" yaml:"name"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Vertices  []v3.Vec
	Triangles [][3]int

	BoundsMin   v3.Vec  `json:"bounds_min" yaml:"bounds_min"`
	BoundsMax   v3.Vec  `json:"bounds_max" yaml:"bounds_max"`
	Volume      float64 `json:"volume" yaml:"volume"`
	SurfaceArea float64 `json:"surface_area" yaml:"surface_area"`
	ZMin        float64 `json:"z_min" yaml:"z_min"`
	ZMax        float64 `json:"z_max" yaml:"z_max"`

	// RoleHint is derived from the source filename by the loader
	// (or via DetectRoleHint).
	RoleHint RoleHint `json:"role_hint" yaml:"role_hint"`

	faceNormals []v3.Vec
	adjacency   []AdjacentEdge
}

// SetFaceNormals attaches per-triangle normals. Length must match
// len(Triangles); a mismatched slice is ignored.
func (r *Record) SetFaceNormals(normals []v3.Vec) {
	if len(normals) != len(r.Triangles) {
		return
	}
	r.faceNormals = normals
}

// SetAdjacency attaches the face-adjacency edge list.
func (r *Record) SetAdjacency(edges []AdjacentEdge) {
	r.adjacency = edges
}

// FaceNormalsOK returns the per-triangle normals if the loader provided
// them.
func (r *Record) FaceNormalsOK() ([]v3.Vec, bool) {
	if r.faceNormals == nil {
		return nil, false
	}
	return r.faceNormals, true
}

// AdjacencyOK returns the face-adjacency edge list if the loader
// provided it.
func (r *Record) AdjacencyOK() ([]AdjacentEdge, bool) {
	if r.adjacency == nil {
		return nil, false
	}
	return r.adjacency, true
}

// IsSolid reports whether the record is a real 3-D solid with enough
// vertex data to analyze.
func (r *Record) IsSolid() bool {
	return r.Kind == KindSolid && len(r.Vertices) >= 4
}

// VertexCount returns the number of vertices.
func (r *Record) VertexCount() int {
	return len(r.Vertices)
}

// Extents returns the per-axis bounding-box extents.
func (r *Record) Extents() v3.Vec {
	return r.BoundsMax.Sub(r.BoundsMin)
}

// ZThickness returns the Z-range height.
func (r *Record) ZThickness() float64 {
	return r.ZMax - r.ZMin
}

// FaceKind labels an explicitly tagged surface from a B-rep import.
type FaceKind int

const (
	FacePlanar FaceKind = iota
	FaceCylindrical
	FaceConical
	FaceToroidal
	FaceSpherical
)

func (k FaceKind) String() string {
	switch k {
	case FacePlanar:
		return "planar"
	case FaceCylindrical:
		return "cylindrical"
	case FaceConical:
		return "conical"
	case FaceToroidal:
		return "toroidal"
	case FaceSpherical:
		return "spherical"
	default:
		return "unknown"
	}
}

// FaceMetadata is optional labelled-surface data from a B-rep capable
// loader. The feature detector turns cylindrical and toroidal faces
// into hole and fillet entries.
type FaceMetadata struct {
	Kind    FaceKind `json:"kind" yaml:"kind"`
	Radius  float64  `json:"radius" yaml:"radius"`
	Area    float64  `json:"area" yaml:"area"`
	CenterX float64  `json:"center_x" yaml:"center_x"`
	CenterY float64  `json:"center_y" yaml:"center_y"`
	ZMin    float64  `json:"z_min" yaml:"z_min"`
}

// IntentData carries the user's declared intent for the part, gathered
// by the (excluded) questionnaire front-end.
type IntentData struct {
	ObjectCategory      string `json:"object_category" yaml:"object_category"`
	Description         string `json:"description,omitempty" yaml:"description,omitempty"`
	ManufacturingMethod string `json:"manufacturing_method,omitempty" yaml:"manufacturing_method,omitempty"`
}
