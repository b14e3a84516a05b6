package analyze

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// Archetype is the closed overall-shape classification that selects the
// downstream generation strategy.
type Archetype int

const (
	ArchetypeFlatPlate Archetype = iota
	ArchetypeRotational
	ArchetypeShell
	ArchetypeBoxEnclosure
	ArchetypeAssembly
	ArchetypeOrganic
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeFlatPlate:
		return "flat_plate"
	case ArchetypeRotational:
		return "rotational"
	case ArchetypeShell:
		return "shell"
	case ArchetypeBoxEnclosure:
		return "box_enclosure"
	case ArchetypeAssembly:
		return "assembly"
	case ArchetypeOrganic:
		return "organic"
	default:
		return "flat_plate"
	}
}

// intentCategoryMap maps questionnaire categories to archetypes.
// "custom" and unmapped categories fall through to the heuristics.
var intentCategoryMap = map[string]Archetype{
	"flat_plate":    ArchetypeFlatPlate,
	"box_enclosure": ArchetypeBoxEnclosure,
	"handle":        ArchetypeRotational,
	"rotational":    ArchetypeRotational,
	"bracket":       ArchetypeFlatPlate,
	"organic":       ArchetypeOrganic,
}

// ArchetypeDetector classifies the overall shape of a mesh set.
type ArchetypeDetector struct {
	cfg Config
	log *zap.Logger
}

// NewArchetypeDetector returns a detector. A nil logger disables
// logging.
func NewArchetypeDetector(cfg Config, log *zap.Logger) *ArchetypeDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArchetypeDetector{cfg: cfg, log: log}
}

// Detect returns the archetype for the mesh set. Explicit user intent
// always wins; otherwise the heuristics run in a fixed order (plate,
// rotational, shell, box, organic) whose precedence is part of the
// downstream contract and must not be reordered.
func (d *ArchetypeDetector) Detect(meshes []*mesh.Record, zp ZProfileResult, intent mesh.IntentData) Archetype {
	if a, ok := intentCategoryMap[intent.ObjectCategory]; ok {
		d.log.Info("archetype from user intent", zap.Stringer("archetype", a))
		return a
	}

	var solids []*mesh.Record
	for _, m := range meshes {
		if m.IsSolid() {
			solids = append(solids, m)
		}
	}
	if len(solids) == 0 {
		return ArchetypeFlatPlate
	}

	if len(solids) >= d.cfg.AssemblyMinBodies && allDisjoint(solids) {
		return ArchetypeAssembly
	}

	primary := solids[0]
	for _, m := range solids[1:] {
		if m.Volume > primary.Volume {
			primary = m
		}
	}

	a := d.classifyPrimary(primary, zp)
	d.log.Info("archetype from heuristics",
		zap.String("primary", primary.Name),
		zap.Stringer("archetype", a))
	return a
}

func (d *ArchetypeDetector) classifyPrimary(primary *mesh.Record, zp ZProfileResult) Archetype {
	ext := primary.Extents()
	if ext.Z < 1e-6 {
		return ArchetypeFlatPlate
	}

	if math.Max(ext.X, ext.Y)/ext.Z >= d.cfg.FlatAspectRatio &&
		len(zp.AllLevels) <= d.cfg.FlatMaxZLevels {
		return ArchetypeFlatPlate
	}

	if d.rotationalScore(primary) >= d.cfg.RotationalThreshold {
		return ArchetypeRotational
	}

	minDim := math.Min(ext.X, math.Min(ext.Y, ext.Z))
	if primary.SurfaceArea > 0 && primary.Volume > 0 && minDim > 0 {
		if primary.Volume/(primary.SurfaceArea*minDim) < d.cfg.ShellVolumeRatio {
			return ArchetypeShell
		}
	}

	if d.isBoxLike(primary) {
		return ArchetypeBoxEnclosure
	}

	if d.isOrganic(primary, ext) {
		return ArchetypeOrganic
	}

	return ArchetypeFlatPlate
}

// allDisjoint reports whether every pair of bounding boxes is separated
// on at least one axis.
func allDisjoint(solids []*mesh.Record) bool {
	for i := 0; i < len(solids); i++ {
		for j := i + 1; j < len(solids); j++ {
			if boxesOverlap(solids[i], solids[j]) {
				return false
			}
		}
	}
	return true
}

func boxesOverlap(a, b *mesh.Record) bool {
	if a.BoundsMax.X < b.BoundsMin.X || b.BoundsMax.X < a.BoundsMin.X {
		return false
	}
	if a.BoundsMax.Y < b.BoundsMin.Y || b.BoundsMax.Y < a.BoundsMin.Y {
		return false
	}
	if a.BoundsMax.Z < b.BoundsMin.Z || b.BoundsMax.Z < a.BoundsMin.Z {
		return false
	}
	return true
}

// rotationalScore samples equal angular sectors around the XY centroid
// and scores how uniform the per-sector maximum radius is:
// 1 - coefficient of variation of the normalized maxima.
func (d *ArchetypeDetector) rotationalScore(m *mesh.Record) float64 {
	if len(m.Vertices) < 8 {
		return 0
	}

	var cx, cy float64
	for _, v := range m.Vertices {
		cx += v.X
		cy += v.Y
	}
	cx /= float64(len(m.Vertices))
	cy /= float64(len(m.Vertices))

	n := d.cfg.RotationalSectors
	sectorMax := make([]float64, n)
	step := 2 * math.Pi / float64(n)
	for _, v := range m.Vertices {
		dx, dy := v.X-cx, v.Y-cy
		theta := math.Atan2(dy, dx)
		if theta < 0 {
			theta += 2 * math.Pi
		}
		idx := int(theta / step)
		if idx >= n {
			idx = n - 1
		}
		r := math.Hypot(dx, dy)
		if r > sectorMax[idx] {
			sectorMax[idx] = r
		}
	}

	maxR := 0.0
	for _, r := range sectorMax {
		maxR = math.Max(maxR, r)
	}
	if maxR < 1e-6 {
		return 0
	}
	normalized := make([]float64, n)
	for i, r := range sectorMax {
		normalized[i] = r / maxR
	}
	mean, std := meanStd(normalized)
	cv := std / (mean + 1e-9)
	return math.Max(0, 1-cv)
}

// isBoxLike reports whether most face normals align with one of the six
// axis directions. Meshes without normals are never box-like.
func (d *ArchetypeDetector) isBoxLike(m *mesh.Record) bool {
	normals, ok := m.FaceNormalsOK()
	if !ok || len(normals) == 0 {
		return false
	}
	axes := []v3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	aligned := 0
	for _, n := range normals {
		best := -1.0
		for _, axis := range axes {
			best = math.Max(best, n.Dot(axis))
		}
		if best > d.cfg.BoxNormalCosine {
			aligned++
		}
	}
	return float64(aligned)/float64(len(normals)) > d.cfg.BoxAlignedFraction
}

// isOrganic uses vertex density within the bounding box as a proxy for
// free-form complexity.
func (d *ArchetypeDetector) isOrganic(m *mesh.Record, ext v3.Vec) bool {
	if len(m.Vertices) < d.cfg.OrganicMinVertices {
		return false
	}
	volBB := math.Max(ext.X*ext.Y*ext.Z, 1e-6)
	return float64(len(m.Vertices))/volBB > d.cfg.OrganicDensity
}
