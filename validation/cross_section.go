package validation

import (
	"fmt"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// crossSectionStep maps a breaker rating ceiling to the smallest
// conductor allowed under it.
type crossSectionStep struct {
	maxCurrent      float64 // A
	minCrossSection float64 // mm²
}

// crossSectionTable is ordered by ceiling; the first matching step wins.
var crossSectionTable = []crossSectionStep{
	{10, 1.5},
	{16, 1.5},
	{20, 2.5},
	{25, 4},
	{32, 6},
	{40, 10},
	{50, 16},
}

// MinCrossSection returns the smallest conductor cross-section in mm² for a
// breaker rating. Ratings above the table have no requirement.
func MinCrossSection(rating float64) (float64, bool) {
	for _, step := range crossSectionTable {
		if rating <= step.maxCurrent {
			return step.minCrossSection, true
		}
	}
	return 0, false
}

// CheckWireCrossSection reports conductors too thin for the breaker
// protecting them. Module circuits compare their own CROSS_SECTION against
// their own RATED_CURRENT; plain circuits compare every wiring segment
// against the attached device.
func CheckWireCrossSection(tree *design.Tree, reg *dhc.Registry) ([]Violation, error) {
	all, err := tree.All()
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, c := range design.Circuits(all, reg) {
		if c.IsModule() {
			if v := checkMandatedCrossSection(c); v != nil {
				violations = append(violations, *v)
			}
			continue
		}

		device, ok := c.Protection()
		if !ok {
			continue
		}
		rating := device.RatedCurrent()
		segments, err := c.Wiring()
		if err != nil {
			return nil, err
		}
		for _, seg := range segments {
			section := seg.CrossSection()
			if section <= 0 || rating <= 0 {
				continue
			}
			if v := undersized(c, seg.ID(), section, rating); v != nil {
				violations = append(violations, *v)
			}
		}
	}
	return violations, nil
}

func checkMandatedCrossSection(c design.Circuit) *Violation {
	rating, ok := c.MandatedRating()
	if !ok {
		return nil
	}
	section, ok := c.MandatedCrossSection()
	if !ok {
		return nil
	}
	return undersized(c, c.ID(), section, rating)
}

// undersized flags a conductor thinner than the table minimum for its
// rating. Thicker conductors than the table asks for are accepted.
func undersized(c design.Circuit, nodeID string, section, rating float64) *Violation {
	required, ok := MinCrossSection(rating)
	if !ok || section >= required {
		return nil
	}
	return &Violation{
		Severity: SeverityError,
		Message: fmt.Sprintf("Circuit %q: %smm² wire too small for %sA, needs at least %smm².",
			c.Label(), design.FormatNumber(section), design.FormatNumber(rating), design.FormatNumber(required)),
		NodeID: nodeID,
		RuleID: RuleWireCrossSection,
	}
}
