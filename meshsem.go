// Package meshsem turns loaded 3-D mesh records into a structured
// semantic part description: Z-level stratification, CSG roles,
// detected features, patterns, symmetry, and manufacturing tolerances.
// The Analyzer is the public entry point; the stages live in
// pkg/analyze.
package meshsem

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/analyze"
	"github.com/forge3d/meshsem/pkg/mesh"
)

// Analyzer wires the configuration, logger, and pipeline together.
type Analyzer struct {
	cfg      analyze.Config
	log      *zap.Logger
	pipeline *analyze.Pipeline
}

// NewAnalyzer creates an analyzer with the given config. A nil logger
// disables logging.
func NewAnalyzer(cfg analyze.Config, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		cfg:      cfg,
		log:      log,
		pipeline: analyze.NewPipeline(cfg, log),
	}
}

// NewDefaultAnalyzer creates an analyzer with default tolerances and a
// production logger.
func NewDefaultAnalyzer() (*Analyzer, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("meshsem: create logger: %w", err)
	}
	return NewAnalyzer(analyze.DefaultConfig(), log), nil
}

// LoadConfig reads a YAML tolerance file layered over the defaults.
func LoadConfig(path string) (analyze.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyze.Config{}, fmt.Errorf("meshsem: read config %s: %w", path, err)
	}
	return analyze.ParseConfig(data)
}

// Analyze runs the full pipeline. The report is always non-nil;
// degenerate meshes degrade their own contribution rather than failing
// the run. faces may be nil when the loader had no labelled-surface
// metadata.
func (a *Analyzer) Analyze(meshes []*mesh.Record, intent mesh.IntentData, faces []mesh.FaceMetadata) *analyze.Report {
	return a.pipeline.Run(meshes, intent, faces)
}

// AnalyzeJSON runs the pipeline and returns the report as indented
// JSON, the format the downstream generator consumes.
func (a *Analyzer) AnalyzeJSON(meshes []*mesh.Record, intent mesh.IntentData, faces []mesh.FaceMetadata) ([]byte, error) {
	report := a.Analyze(meshes, intent, faces)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("meshsem: encode report: %w", err)
	}
	return data, nil
}

// Config returns the analyzer's tolerance configuration.
func (a *Analyzer) Config() analyze.Config {
	return a.cfg
}
