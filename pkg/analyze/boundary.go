package analyze

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// Axis labels a principal axis in boundary reports.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// CoincidentBoundary is a face shared by two components at the same
// axis-aligned coordinate. Downstream boolean geometry needs clearance
// there to avoid coincident-face artifacts.
type CoincidentBoundary struct {
	ComponentA     string  `json:"component_a" yaml:"component_a"`
	ComponentB     string  `json:"component_b" yaml:"component_b"`
	Axis           Axis    `json:"axis" yaml:"axis"`
	Value          float64 `json:"value" yaml:"value"`
	NeedsClearance bool    `json:"needs_clearance" yaml:"needs_clearance"`
	Description    string  `json:"description" yaml:"description"`
}

// BoundaryDetector finds coincident faces between classified component
// pairs by comparing bounding boxes per axis.
type BoundaryDetector struct {
	cfg Config
	log *zap.Logger
}

// NewBoundaryDetector returns a detector. A nil logger disables
// logging.
func NewBoundaryDetector(cfg Config, log *zap.Logger) *BoundaryDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &BoundaryDetector{cfg: cfg, log: log}
}

// Detect compares every component pair. Pairs whose meshes are missing
// bounding data fall back to a Z-range-only comparison.
func (d *BoundaryDetector) Detect(meshes []*mesh.Record, components []ClassifiedComponent) []CoincidentBoundary {
	byName := make(map[string]*mesh.Record, len(meshes))
	for _, m := range meshes {
		byName[m.Name] = m
	}

	var boundaries []CoincidentBoundary
	for i, ca := range components {
		for _, cb := range components[i+1:] {
			boundaries = append(boundaries, d.comparePair(byName, ca, cb)...)
		}
	}

	d.log.Info("boundaries detected", zap.Int("boundaries", len(boundaries)))
	return boundaries
}

func (d *BoundaryDetector) comparePair(byName map[string]*mesh.Record, ca, cb ClassifiedComponent) []CoincidentBoundary {
	ma, okA := byName[ca.Name]
	mb, okB := byName[cb.Name]
	if !okA || !okB {
		return d.compareZRanges(ca, cb)
	}

	aMin := [3]float64{ma.BoundsMin.X, ma.BoundsMin.Y, ma.BoundsMin.Z}
	aMax := [3]float64{ma.BoundsMax.X, ma.BoundsMax.Y, ma.BoundsMax.Z}
	bMin := [3]float64{mb.BoundsMin.X, mb.BoundsMin.Y, mb.BoundsMin.Z}
	bMax := [3]float64{mb.BoundsMax.X, mb.BoundsMax.Y, mb.BoundsMax.Z}

	var results []CoincidentBoundary
	for axis := AxisX; axis <= AxisZ; axis++ {
		i := int(axis)
		if math.Abs(aMax[i]-bMin[i]) < d.cfg.CoincidenceTolerance {
			results = append(results, CoincidentBoundary{
				ComponentA:     ca.Name,
				ComponentB:     cb.Name,
				Axis:           axis,
				Value:          round4(aMax[i]),
				NeedsClearance: true,
				Description: fmt.Sprintf("%s %s-max (%.3f) coincides with %s %s-min",
					ca.Name, axis, aMax[i], cb.Name, axis),
			})
		}
		if math.Abs(aMin[i]-bMax[i]) < d.cfg.CoincidenceTolerance {
			results = append(results, CoincidentBoundary{
				ComponentA:     ca.Name,
				ComponentB:     cb.Name,
				Axis:           axis,
				Value:          round4(aMin[i]),
				NeedsClearance: true,
				Description: fmt.Sprintf("%s %s-min (%.3f) coincides with %s %s-max",
					ca.Name, axis, aMin[i], cb.Name, axis),
			})
		}
	}
	return results
}

// compareZRanges only checks matching Z-min and Z-max pairs, the best
// that can be done without full bounds.
func (d *BoundaryDetector) compareZRanges(ca, cb ClassifiedComponent) []CoincidentBoundary {
	var results []CoincidentBoundary
	if math.Abs(ca.ZMin-cb.ZMin) < d.cfg.CoincidenceTolerance {
		results = append(results, CoincidentBoundary{
			ComponentA:     ca.Name,
			ComponentB:     cb.Name,
			Axis:           AxisZ,
			Value:          round4(ca.ZMin),
			NeedsClearance: true,
			Description:    fmt.Sprintf("shared bottom face between %s and %s", ca.Name, cb.Name),
		})
	}
	if math.Abs(ca.ZMax-cb.ZMax) < d.cfg.CoincidenceTolerance {
		results = append(results, CoincidentBoundary{
			ComponentA:     ca.Name,
			ComponentB:     cb.Name,
			Axis:           AxisZ,
			Value:          round4(ca.ZMax),
			NeedsClearance: true,
			Description:    fmt.Sprintf("shared top face between %s and %s", ca.Name, cb.Name),
		})
	}
	return results
}
