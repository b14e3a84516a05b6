package analyze

import (
	"fmt"
	"math"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// FeatureKind is the closed set of geometric features the detector can
// report.
type FeatureKind int

const (
	FeatureCircularHole FeatureKind = iota
	FeatureRectangularSlot
	FeaturePolygon
	FeatureNotch
	FeatureFillet
	FeatureChamfer
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureCircularHole:
		return "circular_hole"
	case FeatureRectangularSlot:
		return "rectangular_slot"
	case FeaturePolygon:
		return "polygon"
	case FeatureNotch:
		return "notch"
	case FeatureFillet:
		return "fillet"
	case FeatureChamfer:
		return "chamfer"
	default:
		return "unknown"
	}
}

// DetectedFeature is one geometric feature cut into the body. Params
// keys depend on the kind:
//
//	circular_hole:    center_x, center_y, diameter, z_level
//	rectangular_slot: x_min, x_max, y_min, y_max, width, height, z_level
//	polygon:          vertices ([][2]float64), vertex_count, z_level, area
//	fillet:           radius, edge_count
//	chamfer:          size, edge_count
//
// Values are plain numbers, strings, or flat lists so every feature
// serializes without cycles.
type DetectedFeature struct {
	Name         string         `json:"name" yaml:"name"`
	Kind         FeatureKind    `json:"kind" yaml:"kind"`
	DetectedFrom string         `json:"detected_from" yaml:"detected_from"`
	Params       map[string]any `json:"params" yaml:"params"`
}

func (f DetectedFeature) param(key string) float64 {
	if v, ok := f.Params[key].(float64); ok {
		return v
	}
	return 0
}

// FeatureDetector finds features via cross-section fitting at the
// global Z-levels, edge dihedral analysis, variant-diff hints, and
// optional labelled-surface metadata.
type FeatureDetector struct {
	cfg Config
	log *zap.Logger
}

// NewFeatureDetector returns a detector. A nil logger disables logging.
func NewFeatureDetector(cfg Config, log *zap.Logger) *FeatureDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeatureDetector{cfg: cfg, log: log}
}

// Detect runs all feature sub-detectors against the body mesh and
// returns the deduplicated, named feature list. Sub-operation failures
// contribute zero features and never abort the run. Output order is
// stable for identical input.
func (d *FeatureDetector) Detect(meshes []*mesh.Record, zp ZProfileResult, vd VariantDiffResult, faces []mesh.FaceMetadata) []DetectedFeature {
	body := d.bodyMesh(meshes, zp)
	if body == nil {
		d.log.Info("no body mesh, skipping feature detection")
		return nil
	}

	var features []DetectedFeature
	for _, z := range zp.AllLevels {
		features = append(features, d.sectionFeatures(body, z)...)
	}
	features = append(features, d.variantFeatures(vd)...)
	features = append(features, d.edgeFeatures(body)...)
	features = append(features, d.surfaceFeatures(faces)...)

	features = d.deduplicate(features)
	for i := range features {
		if features[i].Name == "" {
			features[i].Name = fmt.Sprintf("%s_%d", features[i].Kind, i+1)
		}
	}

	d.log.Info("features detected",
		zap.String("body", body.Name),
		zap.Int("features", len(features)))
	return features
}

// bodyMesh picks the designated body candidate, falling back to the
// largest solid by volume.
func (d *FeatureDetector) bodyMesh(meshes []*mesh.Record, zp ZProfileResult) *mesh.Record {
	var fallback *mesh.Record
	for _, m := range meshes {
		if m.Kind == mesh.KindProfile2D {
			continue
		}
		if m.Name == zp.BodyCandidate {
			return m
		}
		if fallback == nil || m.Volume > fallback.Volume {
			fallback = m
		}
	}
	return fallback
}

// sectionFeatures slices the body slightly above z (or below, near the
// top) and classifies each closed path. A failed section yields zero
// features.
func (d *FeatureDetector) sectionFeatures(body *mesh.Record, z float64) []DetectedFeature {
	zMid := z + d.cfg.SectionOffset
	if zMid > body.ZMax {
		zMid = math.Max(body.ZMin+0.01, z-d.cfg.SectionOffset)
	}

	paths, err := crossSection(body, zMid)
	if err != nil {
		d.log.Debug("cross-section skipped", zap.Float64("z", zMid), zap.Error(err))
		return nil
	}

	var features []DetectedFeature
	for _, path := range paths {
		if f, ok := d.classifyPath(path, zMid, body.Name); ok {
			features = append(features, f)
		}
	}
	return features
}

// classifyPath fits a closed 2-D path as circle, rectangle, or generic
// polygon, in that order.
func (d *FeatureDetector) classifyPath(path []v2.Vec, z float64, source string) (DetectedFeature, bool) {
	if len(path) < 3 {
		return DetectedFeature{}, false
	}
	area := polygonArea(path)
	if area < d.cfg.MinFeatureArea {
		return DetectedFeature{}, false
	}

	from := fmt.Sprintf("cross_section_z%.1f_%s", z, source)

	if circularity(path, area) >= d.cfg.CircleThreshold {
		center := pathCentroid(path)
		return DetectedFeature{
			Kind:         FeatureCircularHole,
			DetectedFrom: from,
			Params: map[string]any{
				"center_x": round3(center.X),
				"center_y": round3(center.Y),
				"diameter": round3(2 * math.Sqrt(area/math.Pi)),
				"z_level":  round3(z),
			},
		}, true
	}

	if isRectangular(path, d.cfg.RectSimplifyTol, d.cfg.RectAngleTolerance) {
		xMin, xMax := path[0].X, path[0].X
		yMin, yMax := path[0].Y, path[0].Y
		for _, p := range path[1:] {
			xMin = math.Min(xMin, p.X)
			xMax = math.Max(xMax, p.X)
			yMin = math.Min(yMin, p.Y)
			yMax = math.Max(yMax, p.Y)
		}
		return DetectedFeature{
			Kind:         FeatureRectangularSlot,
			DetectedFrom: from,
			Params: map[string]any{
				"x_min":   round3(xMin),
				"x_max":   round3(xMax),
				"y_min":   round3(yMin),
				"y_max":   round3(yMax),
				"width":   round3(xMax - xMin),
				"height":  round3(yMax - yMin),
				"z_level": round3(z),
			},
		}, true
	}

	simplified := simplifyClosedPath(path, d.cfg.PolySimplifyTol)
	if len(simplified) < 3 {
		return DetectedFeature{}, false
	}
	verts := make([][2]float64, len(simplified))
	for i, p := range simplified {
		verts[i] = [2]float64{round3(p.X), round3(p.Y)}
	}
	return DetectedFeature{
		Kind:         FeaturePolygon,
		DetectedFrom: from,
		Params: map[string]any{
			"vertices":     verts,
			"vertex_count": len(verts),
			"z_level":      round3(z),
			"area":         round3(area),
		},
	}, true
}

// variantFeatures derives feature hints from subtracted/holes_removed
// variant pairs: the removed volume is the feature.
func (d *FeatureDetector) variantFeatures(vd VariantDiffResult) []DetectedFeature {
	var features []DetectedFeature
	for _, pair := range vd.Pairs {
		if pair.Relationship != VariantSubtracted && pair.Relationship != VariantHolesRemoved {
			continue
		}
		if pair.VolumeDiff == 0 {
			continue
		}
		kind := FeaturePolygon
		if pair.Relationship == VariantHolesRemoved {
			kind = FeatureCircularHole
		}
		features = append(features, DetectedFeature{
			Kind:         kind,
			DetectedFrom: fmt.Sprintf("variant_diff:%s->%s", pair.Base, pair.Variant),
			Params: map[string]any{
				"volume_diff":  round3(math.Abs(pair.VolumeDiff)),
				"relationship": pair.Relationship.String(),
			},
		})
	}
	return features
}

// edgeFeatures classifies mesh edges by dihedral angle: smooth
// transitions (< FilletMaxAngle) are fillet facets, moderate ones are
// chamfer facets, anything sharper is structural and ignored. At most
// one summary fillet and one summary chamfer are emitted per mesh.
func (d *FeatureDetector) edgeFeatures(body *mesh.Record) []DetectedFeature {
	edges, ok := body.AdjacencyOK()
	if !ok {
		return nil
	}
	normals, ok := body.FaceNormalsOK()
	if !ok {
		return nil
	}

	var filletEdges, chamferEdges []mesh.AdjacentEdge
	for _, e := range edges {
		if e.FaceA >= len(normals) || e.FaceB >= len(normals) {
			continue
		}
		cos := normals[e.FaceA].Dot(normals[e.FaceB])
		cos = math.Max(-1, math.Min(1, cos))
		angle := math.Acos(math.Abs(cos)) * 180 / math.Pi
		switch {
		case angle < d.cfg.FilletMaxAngle:
			filletEdges = append(filletEdges, e)
		case angle <= d.cfg.ChamferMaxAngle:
			chamferEdges = append(chamferEdges, e)
		}
	}

	from := fmt.Sprintf("edge_dihedral_%s", body.Name)
	var features []DetectedFeature
	if len(filletEdges) > 0 {
		features = append(features, DetectedFeature{
			Kind:         FeatureFillet,
			DetectedFrom: from,
			Params: map[string]any{
				"radius":     round3(d.estimateFilletRadius(body, normals, filletEdges)),
				"edge_count": len(filletEdges),
			},
		})
	}
	if len(chamferEdges) > 0 {
		features = append(features, DetectedFeature{
			Kind:         FeatureChamfer,
			DetectedFrom: from,
			Params: map[string]any{
				"size":       round3(d.estimateChamferSize(body, chamferEdges)),
				"edge_count": len(chamferEdges),
			},
		})
	}
	return features
}

// estimateFilletRadius estimates r from the chord relation
// r ≈ edge_length / (2·sin(angle/2)) over a bounded edge sample, taking
// the median. Sampling keeps the original first-N order.
func (d *FeatureDetector) estimateFilletRadius(body *mesh.Record, normals []v3.Vec, edges []mesh.AdjacentEdge) float64 {
	var radii []float64
	for i, e := range edges {
		if i >= d.cfg.EdgeSampleLimit {
			break
		}
		if e.V0 >= len(body.Vertices) || e.V1 >= len(body.Vertices) {
			continue
		}
		cos := normals[e.FaceA].Dot(normals[e.FaceB])
		cos = math.Max(-1, math.Min(1, cos))
		angle := math.Acos(math.Abs(cos))
		if angle < 1e-6 {
			continue
		}
		edgeLen := body.Vertices[e.V0].Sub(body.Vertices[e.V1]).Length()
		if edgeLen > 0 {
			radii = append(radii, edgeLen/(2*math.Sin(angle/2)))
		}
	}
	return median(radii, 1.0)
}

// estimateChamferSize uses the median sampled edge length as the
// chamfer face width.
func (d *FeatureDetector) estimateChamferSize(body *mesh.Record, edges []mesh.AdjacentEdge) float64 {
	var lengths []float64
	for i, e := range edges {
		if i >= d.cfg.EdgeSampleLimit {
			break
		}
		if e.V0 >= len(body.Vertices) || e.V1 >= len(body.Vertices) {
			continue
		}
		lengths = append(lengths, body.Vertices[e.V0].Sub(body.Vertices[e.V1]).Length())
	}
	return median(lengths, 1.0)
}

// surfaceFeatures converts labelled B-rep faces into features:
// cylindrical faces become holes, toroidal faces become fillets.
func (d *FeatureDetector) surfaceFeatures(faces []mesh.FaceMetadata) []DetectedFeature {
	var features []DetectedFeature
	for _, f := range faces {
		switch f.Kind {
		case mesh.FaceCylindrical:
			if f.Radius > 0 && f.Area >= d.cfg.MinFeatureArea {
				features = append(features, DetectedFeature{
					Kind:         FeatureCircularHole,
					DetectedFrom: "brep_face",
					Params: map[string]any{
						"diameter": round3(2 * f.Radius),
						"center_x": round3(f.CenterX),
						"center_y": round3(f.CenterY),
						"z_level":  round3(f.ZMin),
					},
				})
			}
		case mesh.FaceToroidal:
			if f.Radius > 0 {
				features = append(features, DetectedFeature{
					Kind:         FeatureFillet,
					DetectedFrom: "brep_face",
					Params: map[string]any{
						"radius":     round3(f.Radius),
						"edge_count": 1,
					},
				})
			}
		}
	}
	return features
}

// deduplicate collapses near-identical features, keeping the first
// occurrence: holes within the dedupe tolerance of each other, slots
// with matching min corners, and repeated fillet/chamfer summaries from
// the same provenance.
func (d *FeatureDetector) deduplicate(features []DetectedFeature) []DetectedFeature {
	tol := d.cfg.FeatureDedupeTol
	var kept []DetectedFeature
	for _, f := range features {
		dup := false
		for _, s := range kept {
			if s.Kind != f.Kind {
				continue
			}
			switch f.Kind {
			case FeatureCircularHole:
				dx := f.param("center_x") - s.param("center_x")
				dy := f.param("center_y") - s.param("center_y")
				if math.Hypot(dx, dy) < tol {
					dup = true
				}
			case FeatureRectangularSlot:
				if math.Abs(f.param("x_min")-s.param("x_min")) < tol &&
					math.Abs(f.param("y_min")-s.param("y_min")) < tol {
					dup = true
				}
			case FeatureFillet, FeatureChamfer:
				if s.DetectedFrom == f.DetectedFrom {
					dup = true
				}
			}
			if dup {
				break
			}
		}
		if !dup {
			kept = append(kept, f)
		}
	}
	return kept
}

func median(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
