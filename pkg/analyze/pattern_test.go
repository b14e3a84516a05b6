package analyze

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLinearPattern(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)

	var features []DetectedFeature
	for i := 0; i < 5; i++ {
		features = append(features, holeFeature(fmt.Sprintf("hole_%d", i+1), float64(i)*10, 0, 5))
	}

	patterns := d.Detect(features)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, PatternLinear, p.Kind)
	assert.Equal(t, FeatureCircularHole, p.FeatureKind)
	assert.Equal(t, 5, p.Count)
	assert.InDelta(t, 10, p.Spacing, 1e-9)
	assert.InDelta(t, 1, p.Direction[0], 1e-9)
	assert.InDelta(t, 0, p.Direction[1], 1e-9)
	assert.InDelta(t, 0, p.Start[0], 1e-9)
	assert.Len(t, p.MemberNames, 5)
}

func TestDetectCircularPattern(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)

	// Six-hole bolt circle, radius 20 around (50, 50).
	var features []DetectedFeature
	for i := 0; i < 6; i++ {
		a := 2 * math.Pi * float64(i) / 6
		features = append(features, holeFeature(fmt.Sprintf("bolt_%d", i+1),
			50+20*math.Cos(a), 50+20*math.Sin(a), 4))
	}

	patterns := d.Detect(features)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, PatternCircular, p.Kind)
	assert.Equal(t, 6, p.Count)
	assert.InDelta(t, 20, p.Radius, 1e-6)
	assert.InDelta(t, 60, p.AngularSpacing, 1e-6)
	assert.InDelta(t, 50, p.ArcCenter[0], 1e-6)
	assert.InDelta(t, 50, p.ArcCenter[1], 1e-6)
}

func TestDetectNoPatternBelowMinMembers(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)
	features := []DetectedFeature{
		holeFeature("a", 0, 0, 5),
		holeFeature("b", 10, 0, 5),
	}
	assert.Empty(t, d.Detect(features))
}

func TestDetectMixedSizesDoNotGroup(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)
	// Five collinear holes, but alternating diameters split the group.
	features := []DetectedFeature{
		holeFeature("a", 0, 0, 5),
		holeFeature("b", 10, 0, 8),
		holeFeature("c", 20, 0, 5),
		holeFeature("d", 30, 0, 8),
		holeFeature("e", 40, 0, 5),
	}

	patterns := d.Detect(features)
	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].Count)
	assert.InDelta(t, 20, patterns[0].Spacing, 1e-9)
}

func TestDetectIrregularSpacingRejected(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)
	features := []DetectedFeature{
		holeFeature("a", 0, 0, 5),
		holeFeature("b", 10, 0, 5),
		holeFeature("c", 25, 0, 5),
	}
	assert.Empty(t, d.Detect(features))
}

func TestDetectRadiusDeviationRejected(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)

	var features []DetectedFeature
	for i := 0; i < 4; i++ {
		a := 2 * math.Pi * float64(i) / 4
		r := 20.0
		if i == 3 {
			r = 22 // off the circle
		}
		features = append(features, holeFeature(fmt.Sprintf("h%d", i),
			r*math.Cos(a), r*math.Sin(a), 5))
	}
	assert.Empty(t, d.Detect(features))
}

func TestFeatureCentersFromSlots(t *testing.T) {
	slot := func(x float64) DetectedFeature {
		return DetectedFeature{
			Kind: FeatureRectangularSlot,
			Params: map[string]any{
				"x_min": x, "x_max": x + 4.0,
				"y_min": 0.0, "y_max": 10.0,
				"width": 4.0, "height": 10.0,
			},
		}
	}
	centers := featureCenters([]DetectedFeature{slot(0), slot(20), slot(40)})
	require.Len(t, centers, 3)
	assert.InDelta(t, 2, centers[0].X, 1e-9)
	assert.InDelta(t, 5, centers[0].Y, 1e-9)
}

func TestDetectSlotPattern(t *testing.T) {
	d := NewPatternDetector(DefaultConfig(), nil)
	slot := func(name string, x float64) DetectedFeature {
		return DetectedFeature{
			Name: name,
			Kind: FeatureRectangularSlot,
			Params: map[string]any{
				"x_min": x, "x_max": x + 4.0,
				"y_min": 0.0, "y_max": 10.0,
				"width": 4.0, "height": 10.0,
			},
		}
	}
	patterns := d.Detect([]DetectedFeature{
		slot("s1", 0), slot("s2", 15), slot("s3", 30),
	})
	require.Len(t, patterns, 1)
	assert.Equal(t, PatternLinear, patterns[0].Kind)
	assert.Equal(t, FeatureRectangularSlot, patterns[0].FeatureKind)
	assert.InDelta(t, 15, patterns[0].Spacing, 1e-9)
}
