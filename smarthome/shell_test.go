package smarthome

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

func types(tree *design.Tree) []string {
	out := make([]string, len(tree.Roots))
	for i, n := range tree.Roots {
		out[i] = n.Type
	}
	return out
}

func TestGenerateShellNonFrench(t *testing.T) {
	tree := GenerateShell("DE")
	assert.Equal(t, []string{
		dhc.TypeEnergyDelivery,
		dhc.TypeDistributionBoard,
		dhc.TypeElectricalTechnicalSpace,
	}, types(tree))
	assert.Equal(t, "shell_2", tree.Roots[0].ID)
	assert.Equal(t, "shell_3", tree.Roots[1].ID)
	assert.Equal(t, "shell_1", tree.Roots[2].ID)
}

func TestGenerateShellFrench(t *testing.T) {
	tree := GenerateShell("fr")
	assert.Equal(t, []string{
		dhc.TypeEnergyDelivery,
		dhc.TypeNF14EnergyMeter,
		dhc.TypeNF14EmergencyDisconnect,
		dhc.TypeDistributionBoard,
		dhc.TypeElectricalTechnicalSpace,
		dhc.TypeGTL,
	}, types(tree))

	label, ok := tree.Roots[1].Field(dhc.FieldLabel)
	require.True(t, ok)
	assert.Equal(t, "Compteur Enedis", label)
	assert.Equal(t, "shell_6", tree.Roots[5].ID)
}

func TestGenerateShellIsDeterministic(t *testing.T) {
	first, err := GenerateShellWorkspace("FR")
	require.NoError(t, err)
	second, err := GenerateShellWorkspace("FR")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestFrenchShellSatisfiesDeliveryChain(t *testing.T) {
	data, err := GenerateShellWorkspace("FR")
	require.NoError(t, err)

	reg := dhc.NewRegistry()
	tree, err := design.DecodeWorkspace(data, reg)
	require.NoError(t, err)

	engine := validation.NewEngine(reg, validation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	violations := engine.Validate(context.Background(), tree)

	// The GTL counts as a circuit and has no protection device yet.
	require.Len(t, violations, 1)
	assert.Equal(t, validation.RuleProtectionMissing, violations[0].RuleID)
	assert.Equal(t, "shell_6", violations[0].NodeID)
}
