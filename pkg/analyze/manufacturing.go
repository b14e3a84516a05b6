package analyze

import "strings"

// ToleranceProfile carries manufacturing-method-aware defaults the
// downstream generator applies to clearances and parameter ranges.
// Zero LayerHeight means the method has no layer concept.
type ToleranceProfile struct {
	Method        string  `json:"method" yaml:"method"`
	HoleClearance float64 `json:"hole_clearance" yaml:"hole_clearance"` // extra diameter on nominal holes
	MinWall       float64 `json:"min_wall" yaml:"min_wall"`             // minimum producible wall, mm
	LayerHeight   float64 `json:"layer_height,omitempty" yaml:"layer_height,omitempty"`
	MinFeature    float64 `json:"min_feature" yaml:"min_feature"` // smallest producible feature, mm
	Eps           float64 `json:"eps" yaml:"eps"`                 // boolean subtraction clearance, mm
	ParamStep     float64 `json:"param_step" yaml:"param_step"`   // default parameter step size
	FilletMin     float64 `json:"fillet_min" yaml:"fillet_min"`   // minimum useful fillet radius
}

// toleranceProfiles is the closed per-method table.
var toleranceProfiles = map[string]ToleranceProfile{
	"fdm": {
		Method: "fdm", HoleClearance: 0.4, MinWall: 1.2, LayerHeight: 0.2,
		MinFeature: 0.8, Eps: 0.04, ParamStep: 0.5, FilletMin: 0.4,
	},
	"sla": {
		Method: "sla", HoleClearance: 0.15, MinWall: 0.8, LayerHeight: 0.05,
		MinFeature: 0.3, Eps: 0.02, ParamStep: 0.1, FilletMin: 0.2,
	},
	"cnc": {
		Method: "cnc", HoleClearance: 0.05, MinWall: 1.0,
		MinFeature: 0.5, Eps: 0.01, ParamStep: 0.1, FilletMin: 0.1,
	},
	"laser_cut": {
		Method: "laser_cut", HoleClearance: 0.1, MinWall: 1.0,
		MinFeature: 0.5, Eps: 0.05, ParamStep: 0.5, FilletMin: 0,
	},
	"unknown": {
		Method: "unknown", HoleClearance: 0.3, MinWall: 1.2, LayerHeight: 0.2,
		MinFeature: 0.8, Eps: 0.04, ParamStep: 0.5, FilletMin: 0.4,
	},
}

// methodAliases normalizes the common spellings of each method.
var methodAliases = map[string]string{
	"fdm":       "fdm",
	"fff":       "fdm",
	"sla":       "sla",
	"resin":     "sla",
	"msla":      "sla",
	"cnc":       "cnc",
	"milling":   "cnc",
	"laser_cut": "laser_cut",
	"laser":     "laser_cut",
}

// ProfileFor returns the tolerance profile for a manufacturing method
// string, falling back to the "unknown" profile.
func ProfileFor(method string) ToleranceProfile {
	canonical, ok := methodAliases[strings.ToLower(strings.TrimSpace(method))]
	if !ok {
		canonical = "unknown"
	}
	return toleranceProfiles[canonical]
}
