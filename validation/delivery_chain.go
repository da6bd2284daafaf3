package validation

import (
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// deliveryComponent is one block type the NF C 14-100 chain requires.
type deliveryComponent struct {
	blockType string
	message   string
}

var deliveryChain = []deliveryComponent{
	{dhc.TypeEnergyDelivery, "NFC 14-100 delivery chain incomplete: Energy Delivery block is required."},
	{dhc.TypeNF14EnergyMeter, "NFC 14-100 delivery chain incomplete: NF14 Energy Meter is required."},
	{dhc.TypeNF14EmergencyDisconnect, "NFC 14-100 delivery chain incomplete: NF14 Emergency Disconnect is required."},
	{dhc.TypeDistributionBoard, "NFC 14-100 delivery chain incomplete: Distribution Board is required."},
}

// CheckDeliveryChain applies only when an nfc14100 block is present. It
// then requires one block of each delivery chain type anywhere in the
// tree. Connectivity is not checked.
func CheckDeliveryChain(tree *design.Tree, reg *dhc.Registry) ([]Violation, error) {
	all, err := tree.All()
	if err != nil {
		return nil, err
	}

	var anchor *design.Node
	present := make(map[string]bool)
	for _, n := range all {
		present[n.Type] = true
		if anchor == nil && reg.InModule(n.Type, dhc.PrefixNFC14100) {
			anchor = n
		}
	}
	if anchor == nil {
		return nil, nil
	}

	var violations []Violation
	for _, c := range deliveryChain {
		if present[c.blockType] {
			continue
		}
		violations = append(violations, Violation{
			Severity: SeverityError,
			Message:  c.message,
			NodeID:   anchor.ID,
			RuleID:   RuleDeliveryChain,
		})
	}
	return violations, nil
}
