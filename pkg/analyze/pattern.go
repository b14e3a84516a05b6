package analyze

import (
	"fmt"
	"math"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"go.uber.org/zap"
)

// PatternKind distinguishes linear arrays from circular (bolt-circle)
// arrangements.
type PatternKind int

const (
	PatternLinear PatternKind = iota
	PatternCircular
)

func (k PatternKind) String() string {
	switch k {
	case PatternLinear:
		return "linear"
	case PatternCircular:
		return "circular"
	default:
		return "unknown"
	}
}

// DetectedPattern is a repeating arrangement of same-kind, same-size
// features.
type DetectedPattern struct {
	Kind        PatternKind `json:"kind" yaml:"kind"`
	FeatureKind FeatureKind `json:"feature_kind" yaml:"feature_kind"`
	Count       int         `json:"count" yaml:"count"`

	// Linear patterns.
	Spacing   float64    `json:"spacing,omitempty" yaml:"spacing,omitempty"`     // mm between centers
	Direction [2]float64 `json:"direction,omitempty" yaml:"direction,omitempty"` // unit vector
	Start     [2]float64 `json:"start,omitempty" yaml:"start,omitempty"`         // first center

	// Circular patterns.
	Radius         float64    `json:"radius,omitempty" yaml:"radius,omitempty"`
	AngularSpacing float64    `json:"angular_spacing_deg,omitempty" yaml:"angular_spacing_deg,omitempty"`
	ArcCenter      [2]float64 `json:"arc_center,omitempty" yaml:"arc_center,omitempty"`

	MemberNames []string `json:"member_names" yaml:"member_names"`
}

// PatternDetector groups features by kind and characteristic size and
// tests each group for a linear then a circular arrangement.
type PatternDetector struct {
	cfg Config
	log *zap.Logger
}

// NewPatternDetector returns a detector. A nil logger disables logging.
func NewPatternDetector(cfg Config, log *zap.Logger) *PatternDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatternDetector{cfg: cfg, log: log}
}

// Detect returns at most one pattern per feature group. Linear is
// tested first; circular only if linear fails.
func (d *PatternDetector) Detect(features []DetectedFeature) []DetectedPattern {
	groups := groupBySizeKey(features)

	// Deterministic group order for stable output.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var patterns []DetectedPattern
	for _, key := range keys {
		group := groups[key]
		if len(group) < d.cfg.PatternMinMembers {
			continue
		}
		centers := featureCenters(group)
		if len(centers) < d.cfg.PatternMinMembers {
			continue
		}

		names := make([]string, len(group))
		for i, f := range group {
			names[i] = f.Name
		}

		if p, ok := d.testLinear(centers); ok {
			p.FeatureKind = group[0].Kind
			p.Count = len(group)
			p.MemberNames = names
			patterns = append(patterns, p)
			continue
		}
		if p, ok := d.testCircular(centers); ok {
			p.FeatureKind = group[0].Kind
			p.Count = len(group)
			p.MemberNames = names
			patterns = append(patterns, p)
		}
	}

	d.log.Info("patterns detected", zap.Int("patterns", len(patterns)))
	return patterns
}

// groupBySizeKey buckets features by kind plus rounded characteristic
// size, so a 5 mm hole never patterns with an 8 mm hole.
func groupBySizeKey(features []DetectedFeature) map[string][]DetectedFeature {
	groups := make(map[string][]DetectedFeature)
	for _, f := range features {
		var key string
		switch f.Kind {
		case FeatureCircularHole:
			key = fmt.Sprintf("%s|%.1f", f.Kind, f.param("diameter"))
		case FeatureRectangularSlot, FeatureNotch:
			key = fmt.Sprintf("%s|%.1fx%.1f", f.Kind, f.param("width"), f.param("height"))
		default:
			key = f.Kind.String()
		}
		groups[key] = append(groups[key], f)
	}
	return groups
}

// featureCenters extracts 2-D centers from hole centers or slot
// bounding boxes. Features without positions are skipped.
func featureCenters(features []DetectedFeature) []v2.Vec {
	var centers []v2.Vec
	for _, f := range features {
		if _, ok := f.Params["center_x"]; ok {
			centers = append(centers, v2.Vec{X: f.param("center_x"), Y: f.param("center_y")})
			continue
		}
		if _, ok := f.Params["x_min"]; ok {
			centers = append(centers, v2.Vec{
				X: (f.param("x_min") + f.param("x_max")) / 2,
				Y: (f.param("y_min") + f.param("y_max")) / 2,
			})
		}
	}
	return centers
}

// testLinear checks that the centers, sorted by (x, y), are collinear
// with uniform spacing within tolerance.
func (d *PatternDetector) testLinear(centers []v2.Vec) (DetectedPattern, bool) {
	pts := append([]v2.Vec(nil), centers...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	span := pts[len(pts)-1].Sub(pts[0])
	total := span.Length()
	if total < 1e-6 {
		return DetectedPattern{}, false
	}
	dir := span.DivScalar(total)
	expected := total / float64(len(pts)-1)

	for i := 0; i < len(pts)-1; i++ {
		delta := pts[i+1].Sub(pts[i])
		along := delta.Dot(dir)
		perp := delta.Sub(dir.MulScalar(along)).Length()
		if perp > d.cfg.SpacingTolerance {
			return DetectedPattern{}, false
		}
		if math.Abs(along-expected) > d.cfg.SpacingTolerance {
			return DetectedPattern{}, false
		}
	}

	return DetectedPattern{
		Kind:      PatternLinear,
		Spacing:   round3(expected),
		Direction: [2]float64{round4(dir.X), round4(dir.Y)},
		Start:     [2]float64{round3(pts[0].X), round3(pts[0].Y)},
	}, true
}

// testCircular fits the circumcircle of the first three centers, then
// requires every center on that radius and near-uniform angular gaps.
func (d *PatternDetector) testCircular(centers []v2.Vec) (DetectedPattern, bool) {
	center, radius, ok := circumcircle(centers[0], centers[1], centers[2])
	if !ok || radius < 1e-3 {
		return DetectedPattern{}, false
	}

	for _, p := range centers {
		if math.Abs(p.Sub(center).Length()-radius) > d.cfg.SpacingTolerance {
			return DetectedPattern{}, false
		}
	}

	angles := make([]float64, len(centers))
	for i, p := range centers {
		a := math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
		angles[i] = math.Mod(a+360, 360)
	}
	sort.Float64s(angles)

	gaps := make([]float64, 0, len(angles))
	for i := 0; i < len(angles)-1; i++ {
		gaps = append(gaps, angles[i+1]-angles[i])
	}
	gaps = append(gaps, math.Mod(360-angles[len(angles)-1]+angles[0], 360))

	mean, _ := meanStd(gaps)
	for _, g := range gaps {
		if math.Abs(g-mean) > d.cfg.AngularTolerance {
			return DetectedPattern{}, false
		}
	}

	return DetectedPattern{
		Kind:           PatternCircular,
		Radius:         round3(radius),
		AngularSpacing: math.Round(mean*100) / 100,
		ArcCenter:      [2]float64{round3(center.X), round3(center.Y)},
	}, true
}
