package validation

import (
	"fmt"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// LoadCategory is the kind of load a plain circuit serves, inferred from
// its equipment.
type LoadCategory string

const (
	LoadLighting  LoadCategory = "lighting"
	LoadSockets   LoadCategory = "sockets"
	LoadDedicated LoadCategory = "dedicated"
	LoadMixed     LoadCategory = "mixed"
)

// Breaker limits per load category, in amperes.
const (
	maxLightingRating  = 10
	maxSocketRating    = 16
	minDedicatedRating = 20
)

// InferLoadCategory derives a category from the distinct equipment types a
// circuit feeds. Only a single distinct type yields a category; anything
// else is mixed.
func InferLoadCategory(equipment []*design.Node) LoadCategory {
	types := make(map[string]struct{}, len(equipment))
	for _, n := range equipment {
		types[n.Type] = struct{}{}
	}
	if len(types) != 1 {
		return LoadMixed
	}
	switch equipment[0].Type {
	case dhc.TypeLight:
		return LoadLighting
	case dhc.TypeSocket:
		return LoadSockets
	default:
		return LoadDedicated
	}
}

// CheckProtectionSizing reports circuits without a protection device and
// devices whose rating does not suit the circuit. Plain circuits are
// checked against their inferred load category; module circuits against
// the RATED_CURRENT they carry.
func CheckProtectionSizing(tree *design.Tree, reg *dhc.Registry) ([]Violation, error) {
	all, err := tree.All()
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, c := range design.Circuits(all, reg) {
		device, ok := c.Protection()
		if !ok {
			violations = append(violations, Violation{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Circuit %q has no protection device.", c.Label()),
				NodeID:   c.ID(),
				RuleID:   RuleProtectionMissing,
			})
			continue
		}

		var v *Violation
		if c.IsModule() {
			v = checkMandatedRating(c, device)
		} else {
			equipment, err := c.Equipment()
			if err != nil {
				return nil, err
			}
			v = checkCategoryRating(c, InferLoadCategory(equipment), device)
		}
		if v != nil {
			violations = append(violations, *v)
		}
	}
	return violations, nil
}

func checkCategoryRating(c design.Circuit, category LoadCategory, device design.ProtectionDevice) *Violation {
	rating := device.RatedCurrent()
	amps := design.FormatNumber(rating)

	switch {
	case category == LoadLighting && rating > maxLightingRating:
		return &Violation{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Circuit %q (lighting) has %sA breaker, max 10A required.", c.Label(), amps),
			NodeID:   device.ID(),
			RuleID:   RuleProtectionSizing,
		}
	case category == LoadSockets && rating > maxSocketRating:
		return &Violation{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Circuit %q (sockets) has %sA breaker, max 16A required.", c.Label(), amps),
			NodeID:   device.ID(),
			RuleID:   RuleProtectionSizing,
		}
	case category == LoadDedicated && rating < minDedicatedRating:
		return &Violation{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Circuit %q (dedicated) has %sA breaker, typically needs 20A or 32A.", c.Label(), amps),
			NodeID:   device.ID(),
			RuleID:   RuleProtectionSizing,
		}
	}
	return nil
}

func checkMandatedRating(c design.Circuit, device design.ProtectionDevice) *Violation {
	mandated, ok := c.MandatedRating()
	if !ok {
		return nil
	}
	rating := device.RatedCurrent()
	if rating == mandated {
		return nil
	}
	return &Violation{
		Severity: SeverityError,
		Message: fmt.Sprintf("Circuit %q requires a %sA breaker but has %sA.",
			c.Label(), design.FormatNumber(mandated), design.FormatNumber(rating)),
		NodeID: device.ID(),
		RuleID: RuleProtectionSizing,
	}
}
