// Package validation checks design trees against the NF C 15-100 and
// NF C 14-100 installation rules.
//
// Rules read block types, fields and slots directly from the tree; they do
// not use compiled records. The Engine runs an ordered rule list, isolating
// each rule so that one failing rule never hides another rule's findings.
package validation

import (
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Severity indicates the importance of a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers carried by violations.
const (
	RuleMaxPoints         = "nfc15100-max-points"
	RuleProtectionMissing = "nfc15100-protection-missing"
	RuleProtectionSizing  = "nfc15100-protection-sizing"
	RuleWireCrossSection  = "nfc15100-wire-cross-section"
	RuleDeliveryChain     = "nfc14100-delivery-chain"
	RulePlacement         = "dhc-placement"
)

// Violation is one rule finding.
type Violation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	NodeID   string   `json:"nodeId"`
	RuleID   string   `json:"ruleId"`
}

// CheckFunc scans a whole tree and reports what it finds.
type CheckFunc func(tree *design.Tree, reg *dhc.Registry) ([]Violation, error)

// Rule is one independent check. ID names the rule in logs and metrics;
// the violations it reports may carry more specific rule ids.
type Rule struct {
	ID    string
	Check CheckFunc
}

// DefaultRules returns the fixed rule list in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleMaxPoints, Check: CheckMaxPoints},
		{ID: RuleProtectionSizing, Check: CheckProtectionSizing},
		{ID: RuleWireCrossSection, Check: CheckWireCrossSection},
		{ID: RuleDeliveryChain, Check: CheckDeliveryChain},
	}
}

// PlacementRule returns the optional nesting check.
func PlacementRule() Rule {
	return Rule{ID: RulePlacement, Check: CheckPlacement}
}

// Count returns the number of errors and warnings in violations.
func Count(violations []Violation) (errors, warnings int) {
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// HasErrors reports whether any violation is an error.
func HasErrors(violations []Violation) bool {
	errs, _ := Count(violations)
	return errs > 0
}
