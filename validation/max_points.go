package validation

import (
	"fmt"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// CheckMaxPoints reports circuits feeding more equipment than their
// MAX_POINTS allows.
func CheckMaxPoints(tree *design.Tree, reg *dhc.Registry) ([]Violation, error) {
	all, err := tree.All()
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, c := range design.Circuits(all, reg) {
		equipment, err := c.Equipment()
		if err != nil {
			return nil, err
		}
		maxPoints := c.MaxPoints()
		if float64(len(equipment)) <= maxPoints {
			continue
		}
		violations = append(violations, Violation{
			Severity: SeverityError,
			Message: fmt.Sprintf("Circuit %q has %d points but max is %s.",
				c.Label(), len(equipment), design.FormatNumber(maxPoints)),
			NodeID: c.ID(),
			RuleID: RuleMaxPoints,
		})
	}
	return violations, nil
}
