package analyze

import (
	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// Report is the full semantic description of a part: the contract
// handed to the parametric-code generator. Every field is a plain
// record (numbers, strings, flat lists and maps) with no cycles, so the
// whole report serializes as JSON or YAML.
type Report struct {
	ZProfiles   ZProfileResult            `json:"z_profiles" yaml:"z_profiles"`
	Variants    VariantDiffResult         `json:"variants" yaml:"variants"`
	Components  []ClassifiedComponent     `json:"components" yaml:"components"`
	Features    []DetectedFeature         `json:"features" yaml:"features"`
	Archetype   Archetype                 `json:"archetype" yaml:"archetype"`
	Patterns    []DetectedPattern         `json:"patterns" yaml:"patterns"`
	Symmetry    map[string]SymmetryResult `json:"symmetry" yaml:"symmetry"`
	Boundaries  []CoincidentBoundary      `json:"boundaries" yaml:"boundaries"`
	Tolerances  ToleranceProfile          `json:"tolerances" yaml:"tolerances"`
}

// Pipeline runs every analysis stage in dependency order. Stages are
// pure functions over immutable inputs; a degenerate mesh or failed
// sub-operation degrades that mesh's contribution, never the run.
type Pipeline struct {
	cfg Config
	log *zap.Logger

	zprofiles  *ZProfileExtractor
	variants   *VariantDiffer
	topology   *TopologyClassifier
	features   *FeatureDetector
	archetypes *ArchetypeDetector
	patterns   *PatternDetector
	symmetry   *SymmetryDetector
	boundaries *BoundaryDetector
}

// NewPipeline wires all stages with a shared config. A nil logger
// disables logging.
func NewPipeline(cfg Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		zprofiles:  NewZProfileExtractor(cfg, log),
		variants:   NewVariantDiffer(cfg, log),
		topology:   NewTopologyClassifier(cfg, log),
		features:   NewFeatureDetector(cfg, log),
		archetypes: NewArchetypeDetector(cfg, log),
		patterns:   NewPatternDetector(cfg, log),
		symmetry:   NewSymmetryDetector(cfg, log),
		boundaries: NewBoundaryDetector(cfg, log),
	}
}

// Run analyzes the mesh set and always returns a (possibly partial)
// report. faces may be nil when the loader had no labelled-surface
// metadata.
func (p *Pipeline) Run(meshes []*mesh.Record, intent mesh.IntentData, faces []mesh.FaceMetadata) *Report {
	report := &Report{}

	report.ZProfiles = p.zprofiles.Extract(meshes)
	report.Variants = p.variants.Compute(meshes)
	report.Components = p.topology.Classify(meshes, report.ZProfiles, report.Variants)
	report.Features = p.features.Detect(meshes, report.ZProfiles, report.Variants, faces)
	report.Archetype = p.archetypes.Detect(meshes, report.ZProfiles, intent)
	report.Patterns = p.patterns.Detect(report.Features)
	report.Symmetry = p.symmetry.Detect(meshes)
	report.Boundaries = p.boundaries.Detect(meshes, report.Components)
	report.Tolerances = ProfileFor(intent.ManufacturingMethod)

	p.log.Info("analysis complete",
		zap.Int("components", len(report.Components)),
		zap.Int("features", len(report.Features)),
		zap.Int("patterns", len(report.Patterns)),
		zap.Int("boundaries", len(report.Boundaries)),
		zap.Stringer("archetype", report.Archetype))
	return report
}
