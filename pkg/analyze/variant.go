package analyze

import (
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// VariantKind is the relationship between a base mesh and a variant
// export of the same part.
type VariantKind int

const (
	VariantSubtracted VariantKind = iota // geometry removed from the base
	VariantHolesRemoved
	VariantFeaturePresent  // base minus everything except one feature
	VariantFeatureIsolated // only one feature exported
)

func (k VariantKind) String() string {
	switch k {
	case VariantSubtracted:
		return "subtracted"
	case VariantHolesRemoved:
		return "holes_removed"
	case VariantFeaturePresent:
		return "feature_present"
	case VariantFeatureIsolated:
		return "feature_isolated"
	default:
		return "unknown"
	}
}

// variantKeywords is evaluated in order; the first matching keyword
// decides the relationship. Order is significant.
var variantKeywords = []struct {
	keywords []string
	kind     VariantKind
}{
	{[]string{"removed", "without"}, VariantSubtracted},
	{[]string{"no holes"}, VariantHolesRemoved},
	{[]string{"except"}, VariantFeaturePresent},
	{[]string{"only"}, VariantFeatureIsolated},
}

// VariantPair links a variant export to its best-matching base and the
// geometric deltas between them.
type VariantPair struct {
	Base          string      `json:"base" yaml:"base"`
	Variant       string      `json:"variant" yaml:"variant"`
	Relationship  VariantKind `json:"relationship" yaml:"relationship"`
	VolumeDiff    float64     `json:"volume_diff" yaml:"volume_diff"`         // base.volume - variant.volume
	VolumeDiffPct float64     `json:"volume_diff_pct" yaml:"volume_diff_pct"` // 100*|diff| relative to base volume
	BBoxDelta     [3]float64  `json:"bbox_delta" yaml:"bbox_delta"`           // per-axis extent difference
}

// VariantDiffResult is the set of detected variant pairs.
type VariantDiffResult struct {
	Pairs []VariantPair `json:"pairs" yaml:"pairs"`
}

// IsVariant reports whether name appears as the variant side of any
// detected pair.
func (r VariantDiffResult) IsVariant(name string) bool {
	for _, p := range r.Pairs {
		if p.Variant == name {
			return true
		}
	}
	return false
}

// VariantDiffer matches variant-indicating filenames to their bases
// and computes volume and bounding-box deltas.
type VariantDiffer struct {
	cfg Config
	log *zap.Logger
}

// NewVariantDiffer returns a differ. A nil logger disables logging.
func NewVariantDiffer(cfg Config, log *zap.Logger) *VariantDiffer {
	if log == nil {
		log = zap.NewNop()
	}
	return &VariantDiffer{cfg: cfg, log: log}
}

// Compute classifies each mesh name against the keyword table and pairs
// variants with their best base. Names without variant keywords never
// produce pairs.
func (d *VariantDiffer) Compute(meshes []*mesh.Record) VariantDiffResult {
	var result VariantDiffResult

	type classified struct {
		rec  *mesh.Record
		kind VariantKind
	}
	var variants []classified
	var bases []*mesh.Record

	for _, m := range meshes {
		if m.Kind == mesh.KindProfile2D {
			continue
		}
		if kind, ok := classifyVariantName(m.Name); ok {
			variants = append(variants, classified{rec: m, kind: kind})
		} else {
			bases = append(bases, m)
		}
	}

	for _, v := range variants {
		base := bestBase(v.rec.Name, bases)
		if base == nil {
			d.log.Debug("variant has no base candidate", zap.String("variant", v.rec.Name))
			continue
		}
		result.Pairs = append(result.Pairs, makePair(base, v.rec, v.kind))
	}

	d.log.Info("variant differencing complete",
		zap.Int("variants", len(variants)),
		zap.Int("pairs", len(result.Pairs)))
	return result
}

// classifyVariantName runs the ordered keyword table against a
// lowercased, separator-normalized name. First match wins.
func classifyVariantName(name string) (VariantKind, bool) {
	normalized := normalizeName(name)
	for _, row := range variantKeywords {
		for _, kw := range row.keywords {
			if strings.Contains(normalized, kw) {
				return row.kind, true
			}
		}
	}
	return 0, false
}

// normalizeName lowercases and collapses non-alphanumeric runs to
// single spaces, so "No_Holes" and "no-holes" both match "no holes".
func normalizeName(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// bestBase picks the non-variant mesh with the largest token-set
// overlap with the variant name. Ties keep the first candidate; zero
// overlap means no base, so an unrelated mesh never pairs.
func bestBase(variantName string, bases []*mesh.Record) *mesh.Record {
	vTokens := tokenSet(variantName)
	var best *mesh.Record
	bestOverlap := 0
	for _, b := range bases {
		overlap := 0
		for tok := range tokenSet(b.Name) {
			if vTokens[tok] {
				overlap++
			}
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = b
		}
	}
	return best
}

func tokenSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalizeName(name)) {
		set[tok] = true
	}
	return set
}

func makePair(base, variant *mesh.Record, kind VariantKind) VariantPair {
	pair := VariantPair{
		Base:         base.Name,
		Variant:      variant.Name,
		Relationship: kind,
		VolumeDiff:   round3(base.Volume - variant.Volume),
	}
	if base.Volume != 0 {
		pair.VolumeDiffPct = round3(100 * math.Abs(base.Volume-variant.Volume) / base.Volume)
	}
	be := base.Extents()
	ve := variant.Extents()
	pair.BBoxDelta = [3]float64{
		round3(be.X - ve.X),
		round3(be.Y - ve.Y),
		round3(be.Z - ve.Z),
	}
	return pair
}
