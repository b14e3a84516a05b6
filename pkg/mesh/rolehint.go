package mesh

import "regexp"

// RoleHint is the filename-derived guess at what a file represents.
// It is a hint only; the topology classifier makes the final call.
type RoleHint int

const (
	HintNone RoleHint = iota
	HintVariantRemoved
	HintVariantNoHoles
	HintIsolatedComponent
	HintFullAssembly
	HintVariantFeature
)

func (h RoleHint) String() string {
	switch h {
	case HintVariantRemoved:
		return "variant_removed"
	case HintVariantNoHoles:
		return "variant_no_holes"
	case HintIsolatedComponent:
		return "isolated_component"
	case HintFullAssembly:
		return "full_assembly"
	case HintVariantFeature:
		return "variant_feature"
	default:
		return "unknown"
	}
}

// rolePattern is one row of the ordered role-hint table.
type rolePattern struct {
	re   *regexp.Regexp
	hint RoleHint
}

// rolePatterns is evaluated in order; the first match wins. Order is
// significant: "removed" must be tested before the generic
// "except|only" variant catch-all.
var rolePatterns = []rolePattern{
	{regexp.MustCompile(`(?i)removed|without|base.plates.removed`), HintVariantRemoved},
	{regexp.MustCompile(`(?i)no.holes`), HintVariantNoHoles},
	{regexp.MustCompile(`(?i)layer\s*1|plate.*1|layer1`), HintIsolatedComponent},
	{regexp.MustCompile(`(?i)layer\s*2|plate.*2|layer2`), HintIsolatedComponent},
	{regexp.MustCompile(`(?i)clean.overview|full.general|full.assembly|complete`), HintFullAssembly},
	{regexp.MustCompile(`(?i)except|only`), HintVariantFeature},
}

// DetectRoleHint derives a role hint from a file or part name using the
// ordered pattern table.
func DetectRoleHint(name string) RoleHint {
	for _, p := range rolePatterns {
		if p.re.MatchString(name) {
			return p.hint
		}
	}
	return HintNone
}
