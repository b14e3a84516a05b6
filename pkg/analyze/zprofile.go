package analyze

import (
	"sort"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// ZProfile is the Z-level stratification of a single mesh.
type ZProfile struct {
	Name      string    `json:"name" yaml:"name"`
	ZMin      float64   `json:"z_min" yaml:"z_min"`
	ZMax      float64   `json:"z_max" yaml:"z_max"`
	Thickness float64   `json:"thickness" yaml:"thickness"`
	Levels    []float64 `json:"levels" yaml:"levels"`       // significant Z-levels, ascending
	FlatSlab  bool      `json:"flat_slab" yaml:"flat_slab"` // at most two levels
}

// ZProfileResult aggregates per-mesh profiles with the merged global
// level set and the body candidate.
type ZProfileResult struct {
	Profiles      map[string]ZProfile `json:"profiles" yaml:"profiles"`
	AllLevels     []float64           `json:"all_levels" yaml:"all_levels"`
	BodyCandidate string              `json:"body_candidate" yaml:"body_candidate"`
	BodyZMin      float64             `json:"body_z_min" yaml:"body_z_min"`
	BodyZMax      float64             `json:"body_z_max" yaml:"body_z_max"`
}

// ZProfileExtractor buckets vertex Z-coordinates into density bins to
// find the horizontal face planes of each mesh.
type ZProfileExtractor struct {
	cfg Config
	log *zap.Logger
}

// NewZProfileExtractor returns an extractor with the given config. A
// nil logger disables logging.
func NewZProfileExtractor(cfg Config, log *zap.Logger) *ZProfileExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZProfileExtractor{cfg: cfg, log: log}
}

// Extract profiles every solid mesh and merges the level sets. 2-D
// profile stubs are skipped. Never fails: meshes without vertex data
// fall back to their precomputed Z-range.
func (e *ZProfileExtractor) Extract(meshes []*mesh.Record) ZProfileResult {
	result := ZProfileResult{Profiles: make(map[string]ZProfile)}

	var all []float64
	bodyThickness := -1.0

	for _, m := range meshes {
		if m.Kind == mesh.KindProfile2D {
			continue
		}
		p := e.profileMesh(m)
		result.Profiles[p.Name] = p
		all = append(all, p.Levels...)

		// Strict > keeps the first-encountered mesh on ties.
		if p.Thickness > bodyThickness {
			bodyThickness = p.Thickness
			result.BodyCandidate = p.Name
			result.BodyZMin = p.ZMin
			result.BodyZMax = p.ZMax
		}
	}

	result.AllLevels = clusterLevels(all, e.cfg.ClusterTolerance)
	e.log.Info("z-profiles extracted",
		zap.Int("meshes", len(result.Profiles)),
		zap.Int("levels", len(result.AllLevels)),
		zap.String("body_candidate", result.BodyCandidate))
	return result
}

// profileMesh computes one mesh's significant Z-levels via histogram
// density. Degenerate meshes degrade to a bounds-only profile.
func (e *ZProfileExtractor) profileMesh(m *mesh.Record) ZProfile {
	p := ZProfile{
		Name:      m.Name,
		ZMin:      round3(m.ZMin),
		ZMax:      round3(m.ZMax),
		Thickness: round3(m.ZMax - m.ZMin),
	}

	if len(m.Vertices) == 0 || m.ZMax <= m.ZMin {
		p.Levels = clusterLevels([]float64{m.ZMin, m.ZMax}, e.cfg.ClusterTolerance)
		p.FlatSlab = true
		e.log.Debug("degenerate mesh, bounds-only profile", zap.String("mesh", m.Name))
		return p
	}

	span := m.ZMax - m.ZMin
	bins := make([]int, e.cfg.ZBinCount)
	for _, v := range m.Vertices {
		idx := int(float64(e.cfg.ZBinCount) * (v.Z - m.ZMin) / span)
		if idx < 0 {
			idx = 0
		}
		if idx >= e.cfg.ZBinCount {
			idx = e.cfg.ZBinCount - 1
		}
		bins[idx]++
	}

	// A bin is a real face plane if it holds more than the significance
	// fraction of all vertices; incidental geometry stays below it.
	threshold := e.cfg.SignificantFraction * float64(len(m.Vertices))
	levels := []float64{m.ZMin, m.ZMax}
	binWidth := span / float64(e.cfg.ZBinCount)
	for i, count := range bins {
		if float64(count) > threshold {
			levels = append(levels, m.ZMin+(float64(i)+0.5)*binWidth)
		}
	}

	p.Levels = clusterLevels(levels, e.cfg.ClusterTolerance)
	p.FlatSlab = len(p.Levels) <= 2
	return p
}

// clusterLevels sorts values and merges runs whose consecutive gaps are
// within tol, emitting each cluster's mean. The result is strictly
// increasing with adjacent gaps >= tol, rounded to 3 decimals.
func clusterLevels(values []float64, tol float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var out []float64
	clusterStart := 0
	flush := func(end int) {
		sum := 0.0
		for _, v := range sorted[clusterStart:end] {
			sum += v
		}
		out = append(out, round3(sum/float64(end-clusterStart)))
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > tol {
			flush(i)
			clusterStart = i
		}
	}
	flush(len(sorted))
	return out
}
