package analyze

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/forge3d/meshsem/pkg/mesh"
)

// Role is the proposed CSG role of a component. The pipeline only
// proposes roles; the downstream generator realizes the booleans.
type Role int

const (
	RoleBaseSolid Role = iota
	RolePocketFill
	RoleAdditive
	RoleSubtractive
	RoleVariant
	RoleUnknown
)

func (r Role) String() string {
	switch r {
	case RoleBaseSolid:
		return "base_solid"
	case RolePocketFill:
		return "pocket_fill"
	case RoleAdditive:
		return "additive"
	case RoleSubtractive:
		return "subtractive"
	case RoleVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// rolePriority orders components for CSG construction: the base solid
// is built first, recessed fills next, then additions and subtractions.
func rolePriority(r Role) int {
	switch r {
	case RoleBaseSolid:
		return 0
	case RolePocketFill:
		return 1
	case RoleAdditive:
		return 2
	case RoleSubtractive:
		return 3
	case RoleVariant:
		return 4
	default:
		return 5
	}
}

// ClassifiedComponent is a mesh with its CSG role and build order.
type ClassifiedComponent struct {
	Name     string   `json:"name" yaml:"name"`
	Role     Role     `json:"role" yaml:"role"`
	ZMin     float64  `json:"z_min" yaml:"z_min"`
	ZMax     float64  `json:"z_max" yaml:"z_max"`
	CSGOrder int      `json:"csg_order" yaml:"csg_order"`
	Notes    []string `json:"notes" yaml:"notes"` // why the role was chosen
}

// TopologyClassifier assigns a Role to every solid mesh using the
// Z-range-subset rule and filename hints.
type TopologyClassifier struct {
	cfg Config
	log *zap.Logger
}

// NewTopologyClassifier returns a classifier. A nil logger disables
// logging.
func NewTopologyClassifier(cfg Config, log *zap.Logger) *TopologyClassifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &TopologyClassifier{cfg: cfg, log: log}
}

// Classify returns one component per solid mesh, sorted by role
// priority then Z-max ascending, with sequential CSG order indices.
func (c *TopologyClassifier) Classify(meshes []*mesh.Record, zp ZProfileResult, vd VariantDiffResult) []ClassifiedComponent {
	var components []ClassifiedComponent

	for _, m := range meshes {
		if m.Kind == mesh.KindProfile2D {
			continue
		}
		zMin, zMax := m.ZMin, m.ZMax
		if p, ok := zp.Profiles[m.Name]; ok {
			zMin, zMax = p.ZMin, p.ZMax
		}
		role, notes := c.classifyRole(m, zMin, zMax, zp)
		components = append(components, ClassifiedComponent{
			Name:  m.Name,
			Role:  role,
			ZMin:  zMin,
			ZMax:  zMax,
			Notes: notes,
		})
	}

	sort.SliceStable(components, func(i, j int) bool {
		pi, pj := rolePriority(components[i].Role), rolePriority(components[j].Role)
		if pi != pj {
			return pi < pj
		}
		return components[i].ZMax < components[j].ZMax
	})
	for i := range components {
		components[i].CSGOrder = i
	}

	c.log.Info("topology classified", zap.Int("components", len(components)))
	return components
}

// classifyRole applies the ordered rule list. The Z-range-subset rule
// runs before the isolated-component hint specifically so a recessed
// component never gets misclassified as additive.
func (c *TopologyClassifier) classifyRole(m *mesh.Record, zMin, zMax float64, zp ZProfileResult) (Role, []string) {
	if m.Name == zp.BodyCandidate || m.RoleHint == mesh.HintFullAssembly {
		return RoleBaseSolid, []string{"tallest Z-range, used as base solid"}
	}

	if m.RoleHint == mesh.HintVariantRemoved {
		return RoleVariant, []string{"filename marks a variant export, excluded from the build"}
	}

	tol := c.cfg.ZSubsetTolerance
	bodyThickness := zp.BodyZMax - zp.BodyZMin
	thickness := zMax - zMin
	if bodyThickness > 0 &&
		zMin >= zp.BodyZMin-tol &&
		zMax <= zp.BodyZMax-tol &&
		thickness < bodyThickness-tol {
		note := fmt.Sprintf("Z-range [%.1f, %.1f] inside body [%.1f, %.1f], recessed pocket fill",
			zMin, zMax, zp.BodyZMin, zp.BodyZMax)
		return RolePocketFill, []string{note}
	}

	if m.RoleHint == mesh.HintIsolatedComponent {
		return RoleAdditive, []string{"isolated component spanning the body Z-range, additive"}
	}

	return RoleUnknown, []string{"could not auto-classify; needs manual review"}
}
