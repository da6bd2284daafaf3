package smarthome

import (
	"strconv"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

// Country codes with regional modules.
const CountryFrance = "FR"

// shellBuilder hands out deterministic block ids shell_1, shell_2, ...
type shellBuilder struct {
	next int
}

func (b *shellBuilder) block(blockType string, fields ...design.Field) *design.Node {
	b.next++
	return &design.Node{
		ID:     "shell_" + strconv.Itoa(b.next),
		Type:   blockType,
		Fields: fields,
	}
}

func label(v string) design.Field {
	return design.Field{Name: dhc.FieldLabel, Value: v}
}

// GenerateShell builds the starter design for a new smart home: the energy
// delivery, a main distribution board and a technical space. French homes
// also get the NF C 14-100 meter and emergency disconnect and an NF C
// 15-100 GTL. All blocks are top-level, in delivery chain order, so the
// user wires them in the editor. Ids are the same on every call.
func GenerateShell(country string) *design.Tree {
	var b shellBuilder

	technicalSpace := b.block(dhc.TypeElectricalTechnicalSpace, label("Technical Space"))
	energyDelivery := b.block(dhc.TypeEnergyDelivery,
		label("Energy Delivery"),
		design.Field{Name: dhc.FieldCurrentType, Value: "SinglePhase"},
		design.Field{Name: dhc.FieldContractedKVA, Value: "6"},
	)
	mainBoard := b.block(dhc.TypeDistributionBoard,
		label("Main Board"),
		design.Field{Name: dhc.FieldBoardType, Value: "ACBoard"},
	)

	if Normalize(country) != CountryFrance {
		return design.NewTree(energyDelivery, mainBoard, technicalSpace)
	}

	meter := b.block(dhc.TypeNF14EnergyMeter, label("Compteur Enedis"))
	disconnect := b.block(dhc.TypeNF14EmergencyDisconnect, label("Disjoncteur de branchement"))
	gtl := b.block(dhc.TypeGTL, label("GTL"))

	return design.NewTree(energyDelivery, meter, disconnect, mainBoard, technicalSpace, gtl)
}

// GenerateShellWorkspace returns the starter design as a workspace document.
func GenerateShellWorkspace(country string) ([]byte, error) {
	return design.EncodeWorkspace(GenerateShell(country))
}
