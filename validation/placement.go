package validation

import (
	"fmt"
	"strings"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// CheckPlacement reports blocks nested under a parent they do not belong
// to. The parent is the containing block, not the previous sibling.
// Top-level blocks are never reported.
func CheckPlacement(tree *design.Tree, reg *dhc.Registry) ([]Violation, error) {
	all, err := tree.All()
	if err != nil {
		return nil, err
	}
	parents, err := tree.Parents()
	if err != nil {
		return nil, err
	}

	var violations []Violation
	warn := func(n *design.Node, format string, args ...any) {
		violations = append(violations, Violation{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			NodeID:   n.ID,
			RuleID:   RulePlacement,
		})
	}

	for _, n := range all {
		parent := parents[n]
		if parent == nil {
			continue
		}

		switch {
		case reg.IsEquipment(n.Type):
			if parent.Type != dhc.TypeSpace && !reg.IsCircuit(parent.Type) {
				warn(n, "%s should be inside a Space or Circuit, not %s.", displayName(n), displayName(parent))
			}
		case n.Type == dhc.TypeProtectionDevice:
			if !reg.IsCircuit(parent.Type) {
				warn(n, "%s should be attached to a Circuit.", displayName(n))
			}
		case reg.IsElectricalTechnicalSpace(n.Type):
			if parent.Type != dhc.TypeFloor && parent.Type != dhc.TypeArea && parent.Type != dhc.TypeSpace {
				warn(n, "%s should be inside a Floor, Area, or Space.", displayName(n))
			}
		case reg.IsCircuit(n.Type):
			if parent.Type != dhc.TypeDistributionBoard {
				warn(n, "%s should be inside a Distribution Board.", displayName(n))
			}
		case n.Type == dhc.TypeSpace:
			if parent.Type != dhc.TypeFloor && parent.Type != dhc.TypeArea {
				warn(n, "%s should be inside a Floor or Area.", displayName(n))
			}
		}
	}
	return violations, nil
}

// displayName is the LABEL, or the block type spelled out in words.
func displayName(n *design.Node) string {
	if v, ok := n.Field(dhc.FieldLabel); ok && v != "" {
		return v
	}
	return strings.ReplaceAll(strings.TrimPrefix(n.Type, dhc.TypePrefix), "_", " ")
}
