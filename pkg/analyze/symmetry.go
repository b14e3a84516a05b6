package analyze

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// rotationalOrders are the candidate N-fold symmetries tested, in
// ascending order. Ties on score go to the larger order, so a square
// reports 4, not 2.
var rotationalOrders = []int{2, 3, 4, 6, 8}

// SymmetryResult describes the mirror planes and rotational symmetry of
// one mesh.
type SymmetryResult struct {
	MirrorYZ bool `json:"mirror_yz" yaml:"mirror_yz"` // symmetric when X is negated
	MirrorXZ bool `json:"mirror_xz" yaml:"mirror_xz"` // symmetric when Y is negated
	MirrorXY bool `json:"mirror_xy" yaml:"mirror_xy"` // symmetric when Z is negated

	RotationalOrder int     `json:"rotational_order" yaml:"rotational_order"` // 0, 2, 3, 4, 6, or 8
	RotationalScore float64 `json:"rotational_score" yaml:"rotational_score"`
}

// HasAny reports whether any symmetry was detected.
func (r SymmetryResult) HasAny() bool {
	return r.MirrorYZ || r.MirrorXZ || r.MirrorXY || r.RotationalOrder >= 2
}

// SymmetryDetector tests mirror symmetry about the three principal
// planes and N-fold rotational symmetry about the Z-axis.
type SymmetryDetector struct {
	cfg Config
	log *zap.Logger
}

// NewSymmetryDetector returns a detector. A nil logger disables
// logging.
func NewSymmetryDetector(cfg Config, log *zap.Logger) *SymmetryDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &SymmetryDetector{cfg: cfg, log: log}
}

// Detect returns a result per solid mesh with enough vertices. Meshes
// below the vertex floor report no symmetry rather than failing.
func (d *SymmetryDetector) Detect(meshes []*mesh.Record) map[string]SymmetryResult {
	results := make(map[string]SymmetryResult)
	for _, m := range meshes {
		if m.Kind == mesh.KindProfile2D || len(m.Vertices) == 0 {
			continue
		}
		results[m.Name] = d.analyzeMesh(m)
	}
	d.log.Info("symmetry analyzed", zap.Int("meshes", len(results)))
	return results
}

func (d *SymmetryDetector) analyzeMesh(m *mesh.Record) SymmetryResult {
	var result SymmetryResult
	if len(m.Vertices) < d.cfg.SymmetryMinVertices {
		return result
	}

	var cx, cy, cz float64
	for _, v := range m.Vertices {
		cx += v.X
		cy += v.Y
		cz += v.Z
	}
	n := float64(len(m.Vertices))
	cx, cy, cz = cx/n, cy/n, cz/n

	xs := make([]float64, len(m.Vertices))
	ys := make([]float64, len(m.Vertices))
	zs := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		xs[i] = v.X - cx
		ys[i] = v.Y - cy
		zs[i] = v.Z - cz
	}

	ext := m.Extents()
	result.MirrorYZ = d.testMirror(xs, ext.X)
	result.MirrorXZ = d.testMirror(ys, ext.Y)
	result.MirrorXY = d.testMirror(zs, ext.Z)

	order, score := d.testRotational(xs, ys)
	result.RotationalOrder = order
	result.RotationalScore = score
	return result
}

// testMirror compares the sorted coordinate distribution against its
// negation; the shape mirrors when enough values have a counterpart
// within tolerance (a fraction of the axis extent).
func (d *SymmetryDetector) testMirror(coords []float64, extent float64) bool {
	tol := extent * d.cfg.MirrorTolFraction
	if tol < 1e-6 {
		return false
	}

	sorted := append([]float64(nil), coords...)
	sort.Float64s(sorted)
	mirrored := make([]float64, len(coords))
	for i, c := range coords {
		mirrored[i] = -c
	}
	sort.Float64s(mirrored)

	matched := 0
	for i := range sorted {
		if math.Abs(sorted[i]-mirrored[i]) < tol {
			matched++
		}
	}
	return float64(matched)/float64(len(sorted)) > d.cfg.MirrorMatchFraction
}

// testRotational scores each candidate order by partitioning points
// into N angular sectors and averaging the per-sector radius
// coefficient of variation. An empty sector disqualifies the order:
// a shape with only four angular positions cannot be 8-fold symmetric.
func (d *SymmetryDetector) testRotational(xs, ys []float64) (int, float64) {
	radii := make([]float64, len(xs))
	angles := make([]float64, len(xs))
	for i := range xs {
		radii[i] = math.Hypot(xs[i], ys[i])
		a := math.Atan2(ys[i], xs[i]) * 180 / math.Pi
		angles[i] = math.Mod(a+360, 360)
	}

	bestOrder := 0
	bestScore := 0.0
	for _, order := range rotationalOrders {
		score, ok := sectorScore(radii, angles, order)
		if !ok {
			continue
		}
		// >= prefers the larger order on ties (square: 2 and 4 both
		// score 1.0; report 4).
		if score >= bestScore {
			bestScore = score
			bestOrder = order
		}
	}

	if bestScore < d.cfg.RotationalThreshold {
		return 0, bestScore
	}
	return bestOrder, bestScore
}

// sectorScore averages 1-CV of the radius distribution over the N
// sectors. ok is false when any sector is empty of meaningful radii.
func sectorScore(radii, angles []float64, order int) (float64, bool) {
	step := 360.0 / float64(order)
	sectors := make([][]float64, order)
	for i, a := range angles {
		idx := int(a / step)
		if idx >= order {
			idx = order - 1
		}
		sectors[idx] = append(sectors[idx], radii[i])
	}

	var cvs []float64
	for _, sector := range sectors {
		if len(sector) == 0 {
			return 0, false
		}
		mean, std := meanStd(sector)
		if mean <= 1e-6 {
			continue
		}
		cvs = append(cvs, std/mean)
	}
	if len(cvs) == 0 {
		return 0, false
	}
	mean, _ := meanStd(cvs)
	return math.Max(0, 1-mean), true
}
