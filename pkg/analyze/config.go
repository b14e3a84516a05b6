// Package analyze implements the geometric classification pipeline:
// Z-profile extraction, variant differencing, topology classification,
// feature detection, archetype detection, pattern detection, symmetry
// detection, and boundary detection. Each stage is a pure function over
// immutable inputs and never fails the pipeline; degenerate geometry
// and sub-operation failures degrade to partial results.
package analyze

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable tolerance and threshold used by the
// pipeline. All lengths are millimetres, all angles degrees. Tests
// construct variants of DefaultConfig rather than mutating globals.
type Config struct {
	// Z-profile extraction.
	ZBinCount           int     `yaml:"z_bin_count"`           // histogram bins across [z_min, z_max]
	SignificantFraction float64 `yaml:"significant_fraction"`  // bin counts above this fraction of total are face planes
	ClusterTolerance    float64 `yaml:"cluster_tolerance"`     // mm; merge Z-levels closer than this

	// Topology classification.
	ZSubsetTolerance float64 `yaml:"z_subset_tolerance"` // mm; margin for the Z-range-subset rule

	// Feature detection.
	CircleThreshold    float64 `yaml:"circle_threshold"`     // circularity at or above is a circular hole
	MinFeatureArea     float64 `yaml:"min_feature_area"`     // mm²; smaller cross-section paths are noise
	RectAngleTolerance float64 `yaml:"rect_angle_tolerance"` // |cos| bound for near-90° rectangle corners
	RectSimplifyTol    float64 `yaml:"rect_simplify_tol"`    // path simplification tol for the rectangle test
	PolySimplifyTol    float64 `yaml:"poly_simplify_tol"`    // coarser tol for generic polygon output
	SectionOffset      float64 `yaml:"section_offset"`       // mm above a Z-level to slice
	FilletMaxAngle     float64 `yaml:"fillet_max_angle"`     // deg; dihedral below is a fillet candidate
	ChamferMaxAngle    float64 `yaml:"chamfer_max_angle"`    // deg; dihedral below (and above fillet) is a chamfer
	EdgeSampleLimit    int     `yaml:"edge_sample_limit"`    // edges sampled per bucket for radius/size estimates
	FeatureDedupeTol   float64 `yaml:"feature_dedupe_tol"`   // mm; centers/corners closer than this collapse

	// Archetype detection.
	FlatAspectRatio     float64 `yaml:"flat_aspect_ratio"`     // max(dx,dy)/dz at or above suggests a plate
	FlatMaxZLevels      int     `yaml:"flat_max_z_levels"`     // plate check also requires few Z-levels
	RotationalThreshold float64 `yaml:"rotational_threshold"`  // sector-radius score for rotational parts
	RotationalSectors   int     `yaml:"rotational_sectors"`    // angular sectors sampled around the centroid
	ShellVolumeRatio    float64 `yaml:"shell_volume_ratio"`    // volume/(area·min_dim) below is thin-walled
	BoxNormalCosine     float64 `yaml:"box_normal_cosine"`     // axis-alignment cosine for box faces
	BoxAlignedFraction  float64 `yaml:"box_aligned_fraction"`  // fraction of aligned faces for box_enclosure
	OrganicMinVertices  int     `yaml:"organic_min_vertices"`  // complexity floor for organic shapes
	OrganicDensity      float64 `yaml:"organic_density"`       // vertices per bbox mm³ above is organic
	AssemblyMinBodies   int     `yaml:"assembly_min_bodies"`   // disjoint solids needed for assembly

	// Pattern detection.
	PatternMinMembers int     `yaml:"pattern_min_members"` // group size needed to call a pattern
	SpacingTolerance  float64 `yaml:"spacing_tolerance"`   // mm; linear gap / circular radius deviation
	AngularTolerance  float64 `yaml:"angular_tolerance"`   // deg; circular gap deviation

	// Symmetry detection.
	SymmetryMinVertices int     `yaml:"symmetry_min_vertices"` // vertices needed to test symmetry
	MirrorTolFraction   float64 `yaml:"mirror_tol_fraction"`   // tolerance as a fraction of axis extent
	MirrorMatchFraction float64 `yaml:"mirror_match_fraction"` // fraction of coords that must mirror-match

	// Boundary detection.
	CoincidenceTolerance float64 `yaml:"coincidence_tolerance"` // mm; bbox faces closer than this coincide
}

// DefaultConfig returns the tolerances the downstream generator
// contract depends on.
func DefaultConfig() Config {
	return Config{
		ZBinCount:           200,
		SignificantFraction: 0.01,
		ClusterTolerance:    0.1,

		ZSubsetTolerance: 0.5,

		CircleThreshold:    0.80,
		MinFeatureArea:     4.0,
		RectAngleTolerance: 0.15,
		RectSimplifyTol:    1.0,
		PolySimplifyTol:    0.5,
		SectionOffset:      0.1,
		FilletMaxAngle:     10.0,
		ChamferMaxAngle:    80.0,
		EdgeSampleLimit:    20,
		FeatureDedupeTol:   1.0,

		FlatAspectRatio:     4.0,
		FlatMaxZLevels:      3,
		RotationalThreshold: 0.75,
		RotationalSectors:   16,
		ShellVolumeRatio:    0.12,
		BoxNormalCosine:     0.9,
		BoxAlignedFraction:  0.7,
		OrganicMinVertices:  50,
		OrganicDensity:      5.0,
		AssemblyMinBodies:   2,

		PatternMinMembers: 3,
		SpacingTolerance:  0.5,
		AngularTolerance:  1.0,

		SymmetryMinVertices: 8,
		MirrorTolFraction:   0.05,
		MirrorMatchFraction: 0.80,

		CoincidenceTolerance: 0.05,
	}
}

// ParseConfig decodes a YAML document over DefaultConfig, so a partial
// file only overrides the tolerances it names.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("analyze: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ZBinCount < 2 {
		return fmt.Errorf("analyze: z_bin_count must be >= 2, got %d", c.ZBinCount)
	}
	if c.ClusterTolerance <= 0 {
		return fmt.Errorf("analyze: cluster_tolerance must be positive, got %g", c.ClusterTolerance)
	}
	if c.CircleThreshold <= 0 || c.CircleThreshold > 1 {
		return fmt.Errorf("analyze: circle_threshold must be in (0, 1], got %g", c.CircleThreshold)
	}
	if c.PatternMinMembers < 3 {
		return fmt.Errorf("analyze: pattern_min_members must be >= 3, got %d", c.PatternMinMembers)
	}
	return nil
}
